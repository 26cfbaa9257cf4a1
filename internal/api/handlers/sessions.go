package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/internal/domain/services/session"
	"honeynet-lab/internal/infrastructure/database/repository"
	"honeynet-lab/pkg/logger"
)

// SessionsHandler handles session inspection endpoints
type SessionsHandler struct {
	manager *session.Manager
	reports *repository.ReportRepository
	archive bool
	logger  *logger.Logger
}

// NewSessionsHandler creates a new sessions handler. reports may be nil;
// archive additionally gates persistence when a repository is present.
func NewSessionsHandler(m *session.Manager, reports *repository.ReportRepository, archive bool, log *logger.Logger) *SessionsHandler {
	return &SessionsHandler{
		manager: m,
		reports: reports,
		archive: archive,
		logger:  log.WithComponent("sessions-handler"),
	}
}

// SessionSummary is one row of the session list
type SessionSummary struct {
	ID           string `json:"id"`
	ScamType     string `json:"scam_type"`
	PersonaType  string `json:"persona_type"`
	MessageCount int    `json:"message_count"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

// List handles GET /api/v1/sessions
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List()

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, summaryOf(s))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sessions":  summaries,
	})
}

// Get handles GET /api/v1/sessions/{token}
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	s, ok := h.manager.Get(token)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Report handles GET /api/v1/sessions/{token}/report. When a Postgres
// archive is configured the report is also persisted.
func (h *SessionsHandler) Report(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	report := h.manager.FinalReport(token, nil)
	if report == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if h.reports != nil && h.archive {
		if err := h.reports.Save(r.Context(), report); err != nil {
			h.logger.Warn().Err(err).Str("session", token).Msg("report archive failed")
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func summaryOf(s *models.Session) SessionSummary {
	return SessionSummary{
		ID:           s.Token,
		ScamType:     string(s.ScamType),
		PersonaType:  string(s.PersonaType),
		MessageCount: len(s.Messages),
		IsActive:     s.Active,
		CreatedAt:    s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
