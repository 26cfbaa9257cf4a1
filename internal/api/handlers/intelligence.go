package handlers

import (
	"net/http"
	"time"

	"honeynet-lab/internal/domain/services/session"
	"honeynet-lab/pkg/logger"
)

// IntelligenceHandler exposes the cross-session intelligence aggregate
type IntelligenceHandler struct {
	manager *session.Manager
	logger  *logger.Logger
}

// NewIntelligenceHandler creates a new intelligence handler
func NewIntelligenceHandler(m *session.Manager, log *logger.Logger) *IntelligenceHandler {
	return &IntelligenceHandler{
		manager: m,
		logger:  log.WithComponent("intelligence-handler"),
	}
}

// Get handles GET /api/v1/intelligence
func (h *IntelligenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List()

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, summaryOf(s))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":               time.Now().UTC().Format(time.RFC3339),
		"total_conversations":     len(sessions),
		"aggregated_intelligence": h.manager.AllIntelligence(),
		"conversations_summary":   summaries,
	})
}
