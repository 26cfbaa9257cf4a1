package handlers

import (
	"encoding/json"
	"net/http"

	"honeynet-lab/internal/config"
	"honeynet-lab/internal/domain/services/detection"
	"honeynet-lab/internal/domain/services/extraction"
	"honeynet-lab/internal/domain/services/session"
	"honeynet-lab/internal/infrastructure/cache"
	"honeynet-lab/internal/infrastructure/database"
	"honeynet-lab/internal/infrastructure/database/repository"
	"honeynet-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health       *HealthHandler
	Honeypot     *HoneypotHandler
	Sessions     *SessionsHandler
	Analyze      *AnalyzeHandler
	Intelligence *IntelligenceHandler
	Simulate     *SimulateHandler
}

// Dependencies holds dependencies for handlers. Cache, DB, and Reports are
// optional; handlers degrade when they are nil.
type Dependencies struct {
	Manager    *session.Manager
	Classifier *detection.Classifier
	Extractor  *extraction.Extractor
	Cache      *cache.RedisCache
	DB         *database.PostgresDB
	Reports    *repository.ReportRepository
	Honeypot   config.HoneypotConfig
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(deps.Cache, deps.DB, deps.Logger),
		Honeypot:     NewHoneypotHandler(deps.Manager, deps.Cache, deps.Honeypot, deps.Logger),
		Sessions:     NewSessionsHandler(deps.Manager, deps.Reports, deps.Honeypot.ArchiveReports, deps.Logger),
		Analyze:      NewAnalyzeHandler(deps.Classifier, deps.Extractor, deps.Logger),
		Intelligence: NewIntelligenceHandler(deps.Manager, deps.Logger),
		Simulate:     NewSimulateHandler(deps.Manager, deps.Logger),
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
