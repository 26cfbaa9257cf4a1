package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"honeynet-lab/internal/domain/services/detection"
	"honeynet-lab/internal/domain/services/extraction"
	"honeynet-lab/pkg/logger"
)

// AnalyzeHandler handles stateless message analysis
type AnalyzeHandler struct {
	classifier *detection.Classifier
	extractor  *extraction.Extractor
	logger     *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(c *detection.Classifier, e *extraction.Extractor, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		classifier: c,
		extractor:  e,
		logger:     log.WithComponent("analyze-handler"),
	}
}

// AnalyzeRequest is the request body for message analysis
type AnalyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /api/v1/analyze - classifies and extracts without
// engaging.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	analysis := h.classifier.Classify(req.Message)
	intel := h.extractor.Extract(req.Message)

	preview := req.Message
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":              time.Now().UTC().Format(time.RFC3339),
		"message_analyzed":       preview,
		"scam_analysis":          analysis,
		"extracted_intelligence": intel,
	})
}
