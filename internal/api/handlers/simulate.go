package handlers

import (
	"encoding/json"
	"net/http"

	"honeynet-lab/internal/domain/services/session"
	"honeynet-lab/internal/mock"
	"honeynet-lab/pkg/logger"
)

// SimulateHandler runs scripted mock engagements
type SimulateHandler struct {
	manager *session.Manager
	logger  *logger.Logger
}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler(m *session.Manager, log *logger.Logger) *SimulateHandler {
	return &SimulateHandler{
		manager: m,
		logger:  log.WithComponent("simulate-handler"),
	}
}

// SimulateRequest is the request body for a simulation. Both fields are
// optional; an unknown scam type gets a random script.
type SimulateRequest struct {
	ScamType    string `json:"scam_type"`
	PersonaType string `json:"persona_type"`
}

// Run handles POST /api/v1/simulate
func (h *SimulateHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if r.Body != nil {
		// An empty or malformed body just means defaults
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.manager.Simulate(r.Context(), req.ScamType, req.PersonaType)
	if err != nil {
		h.logger.Error().Err(err).Msg("simulation failed")
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}

	h.logger.Info().
		Str("scam_type", req.ScamType).
		Int("exchanges", result.TotalExchanges).
		Msg("simulation completed")

	writeJSON(w, http.StatusOK, result)
}

// ScamTypes handles GET /api/v1/simulate/types
func (h *SimulateHandler) ScamTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scam_types": mock.ScamTypes()})
}
