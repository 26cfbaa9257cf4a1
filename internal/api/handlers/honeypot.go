package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"honeynet-lab/internal/config"
	"honeynet-lab/internal/domain/models"
	"honeynet-lab/internal/domain/services/session"
	"honeynet-lab/internal/infrastructure/cache"
	"honeynet-lab/pkg/logger"
)

// HoneypotHandler handles the main engagement endpoint
type HoneypotHandler struct {
	manager        *session.Manager
	cache          *cache.RedisCache
	defaultPersona string
	snapshotTTL    time.Duration
	logger         *logger.Logger
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(m *session.Manager, c *cache.RedisCache, cfg config.HoneypotConfig, log *logger.Logger) *HoneypotHandler {
	return &HoneypotHandler{
		manager:        m,
		cache:          c,
		defaultPersona: cfg.DefaultPersona,
		snapshotTTL:    cfg.SnapshotTTL,
		logger:         log.WithComponent("honeypot-handler"),
	}
}

// wireTurn is one turn of caller-supplied conversation history. Timestamp
// arrives as epoch milliseconds or an ISO string depending on the client.
type wireTurn struct {
	Sender    string          `json:"sender"`
	Text      string          `json:"text"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// honeypotRequest accepts both body formats:
//
//	structured: {sessionId, message: {sender, text, timestamp}, conversationHistory, metadata}
//	simple:     {message: "...", conversation_id, persona_type}
//
// Message is raw so it can hold either the object or the plain string.
type honeypotRequest struct {
	SessionID           string          `json:"sessionId"`
	Message             json.RawMessage `json:"message"`
	ConversationHistory []wireTurn      `json:"conversationHistory"`

	ConversationID string `json:"conversation_id"`
	PersonaType    string `json:"persona_type"`
}

// ScamAnalysis is the per-response classification block
type ScamAnalysis struct {
	IsScam     bool     `json:"is_scam"`
	ScamType   string   `json:"scam_type,omitempty"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators"`
}

// HoneypotResponse is the engagement endpoint payload. Reply duplicates
// HoneypotResponseText under the field names different clients read.
type HoneypotResponse struct {
	Status                string                   `json:"status"`
	ConversationID        string                   `json:"conversation_id"`
	Timestamp             string                   `json:"timestamp"`
	InputMessage          string                   `json:"input_message"`
	ScamDetected          bool                     `json:"scam_detected"`
	ScamAnalysis          ScamAnalysis             `json:"scam_analysis"`
	ExtractedIntelligence *models.ExtractionResult `json:"extracted_intelligence"`
	SuspiciousKeywords    []string                 `json:"suspicious_keywords"`
	HoneypotResponseText  string                   `json:"honeypot_response"`
	Reply                 string                   `json:"reply"`
	Message               string                   `json:"message"`
	AgentNotes            string                   `json:"agent_notes"`
	TotalMessages         int                      `json:"total_messages"`
	ConversationActive    bool                     `json:"conversation_active"`
	FinalOutput           *models.FinalReport      `json:"finalOutput"`
}

// Engage handles POST /api/v1/honeypot - begin-or-advance with recovery.
// Malformed bodies are normalized rather than rejected; the pipeline never
// fails outright on bad input shape.
func (h *HoneypotHandler) Engage(w http.ResponseWriter, r *http.Request) {
	req := h.parseBody(r)

	token := req.SessionID
	if token == "" {
		token = req.ConversationID
	}

	text, tsMS := h.messageOf(req)
	history := historyTurns(req.ConversationHistory)
	externalTS := historyTimestamps(req.ConversationHistory, tsMS)

	hint := req.PersonaType
	if hint == "" {
		hint = h.defaultPersona
	}

	ctx := r.Context()

	var (
		view *models.SessionView
		err  error
	)
	switch {
	case token == "":
		view, err = h.manager.Begin(ctx, session.BeginParams{
			Text:        text,
			PersonaHint: hint,
			TimestampMS: tsMS,
		})
	default:
		view, err = h.manager.Advance(ctx, token, session.TurnParams{Text: text, TimestampMS: tsMS})
		if errors.Is(err, session.ErrSessionNotFound) {
			// Session lost to a restart: the snapshot wins over
			// rebuilding from caller-replayed history.
			if snap := h.loadSnapshot(ctx, token); snap != nil {
				h.logger.Info().Str("session", token).Msg("restoring session from snapshot")
				view, err = h.manager.Resume(ctx, snap, session.TurnParams{Text: text, TimestampMS: tsMS})
			} else {
				h.logger.Info().Str("session", token).Msg("recovering session from history")
				view, err = h.manager.Begin(ctx, session.BeginParams{
					Token:       token,
					Text:        text,
					PersonaHint: hint,
					History:     history,
					TimestampMS: tsMS,
				})
			}
		}
	}
	if errors.Is(err, session.ErrSessionEnded) {
		h.respondEnded(w, token, text, externalTS)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("engagement failed")
		writeError(w, http.StatusInternalServerError, "engagement failed")
		return
	}

	s, _ := h.manager.Get(view.Token)
	if s != nil && !s.Active {
		h.dropSnapshot(ctx, view.Token)
	} else {
		h.snapshot(ctx, view.Token)
	}
	h.countEngagement(ctx)
	report := h.manager.FinalReport(view.Token, externalTS)

	analysis := ScamAnalysis{Indicators: []string{}}
	if s != nil {
		analysis.IsScam = s.ScamType != "" || s.Confidence >= 30
		analysis.ScamType = string(s.ScamType)
		analysis.Confidence = s.Confidence
	}
	if view.Analysis != nil {
		analysis.Indicators = view.Analysis.Indicators
	}

	writeJSON(w, http.StatusOK, HoneypotResponse{
		Status:                "success",
		ConversationID:        view.Token,
		Timestamp:             time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		InputMessage:          text,
		ScamDetected:          analysis.IsScam,
		ScamAnalysis:          analysis,
		ExtractedIntelligence: view.Aggregated,
		SuspiciousKeywords:    session.SuspiciousKeywordsIn(scammerTextOf(s, text)),
		HoneypotResponseText:  view.Reply,
		Reply:                 view.Reply,
		Message:               view.Reply,
		AgentNotes:            report.AgentNotes,
		TotalMessages:         view.MessageCount,
		ConversationActive:    view.ShouldContinue,
		FinalOutput:           report,
	})
}

// respondEnded answers a turn against a finished session: no new reply,
// just the final state.
func (h *HoneypotHandler) respondEnded(w http.ResponseWriter, token, text string, externalTS []int64) {
	report := h.manager.FinalReport(token, externalTS)
	s, _ := h.manager.Get(token)

	resp := HoneypotResponse{
		Status:                "success",
		ConversationID:        token,
		Timestamp:             time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		InputMessage:          text,
		ExtractedIntelligence: models.NewExtractionResult(),
		SuspiciousKeywords:    []string{},
		ScamAnalysis:          ScamAnalysis{Indicators: []string{}},
		ConversationActive:    false,
		FinalOutput:           report,
	}
	if s != nil {
		resp.ScamDetected = s.ScamType != "" || s.Confidence >= 30
		resp.ScamAnalysis.IsScam = resp.ScamDetected
		resp.ScamAnalysis.ScamType = string(s.ScamType)
		resp.ScamAnalysis.Confidence = s.Confidence
		resp.ExtractedIntelligence = s.Intel
		resp.TotalMessages = len(s.Messages)
	}
	if report != nil {
		resp.AgentNotes = report.AgentNotes
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseBody decodes the request body, falling back to treating the whole
// body as plain message text when it is not the expected JSON shape.
func (h *HoneypotHandler) parseBody(r *http.Request) honeypotRequest {
	var req honeypotRequest

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		return req
	}

	if err := json.Unmarshal(raw, &req); err == nil {
		return req
	}

	// A bare JSON string or plain text body is treated as the message
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		req.Message, _ = json.Marshal(s)
		return req
	}
	req.Message, _ = json.Marshal(string(raw))
	return req
}

// messageOf resolves the message text and timestamp from either format
func (h *HoneypotHandler) messageOf(req honeypotRequest) (string, int64) {
	if len(req.Message) == 0 {
		return "", 0
	}

	var obj wireTurn
	if err := json.Unmarshal(req.Message, &obj); err == nil && obj.Text != "" {
		return strings.TrimSpace(obj.Text), parseTimestampMS(obj.Timestamp)
	}

	var s string
	if err := json.Unmarshal(req.Message, &s); err == nil {
		return strings.TrimSpace(s), 0
	}
	return "", 0
}

// historyTurns maps wire history onto replay turns. The counterparty is
// "scammer"; every other sender is our side of the conversation.
func historyTurns(history []wireTurn) []session.HistoryTurn {
	turns := make([]session.HistoryTurn, 0, len(history))
	for _, t := range history {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		sender := models.SenderHoneypot
		if t.Sender == "scammer" {
			sender = models.SenderScammer
		}
		turns = append(turns, session.HistoryTurn{
			Sender:      sender,
			Text:        t.Text,
			TimestampMS: parseTimestampMS(t.Timestamp),
		})
	}
	return turns
}

// historyTimestamps collects every usable epoch-ms timestamp for the
// engagement-duration calculation.
func historyTimestamps(history []wireTurn, currentMS int64) []int64 {
	out := []int64{}
	for _, t := range history {
		if ts := parseTimestampMS(t.Timestamp); ts > 0 {
			out = append(out, ts)
		}
	}
	if currentMS > 0 {
		out = append(out, currentMS)
	}
	return out
}

// parseTimestampMS accepts epoch milliseconds or an RFC3339 string
func parseTimestampMS(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if ms > 0 {
			return ms
		}
		return 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// snapshot writes the session through to Redis, best effort
func (h *HoneypotHandler) snapshot(ctx context.Context, token string) {
	if h.cache == nil {
		return
	}
	s, ok := h.manager.Get(token)
	if !ok {
		return
	}
	if err := h.cache.SaveSession(ctx, s, h.snapshotTTL); err != nil {
		h.logger.Debug().Err(err).Str("session", token).Msg("session snapshot failed")
	}
}

// loadSnapshot fetches a snapshotted session, best effort
func (h *HoneypotHandler) loadSnapshot(ctx context.Context, token string) *models.Session {
	if h.cache == nil {
		return nil
	}
	s, err := h.cache.LoadSession(ctx, token)
	if err != nil {
		h.logger.Debug().Err(err).Str("session", token).Msg("snapshot lookup failed")
		return nil
	}
	return s
}

// dropSnapshot removes the snapshot of an ended session, best effort
func (h *HoneypotHandler) dropSnapshot(ctx context.Context, token string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DropSession(ctx, token); err != nil {
		h.logger.Debug().Err(err).Str("session", token).Msg("snapshot drop failed")
	}
}

func (h *HoneypotHandler) countEngagement(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.CountEngagement(ctx); err != nil {
		h.logger.Debug().Err(err).Msg("engagement counter failed")
	}
}

func scammerTextOf(s *models.Session, fallback string) string {
	if s != nil && s.ScammerText != "" {
		return s.ScammerText
	}
	return fallback
}
