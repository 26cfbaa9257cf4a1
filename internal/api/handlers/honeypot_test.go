package handlers

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"honeynet-lab/internal/config"
	"honeynet-lab/internal/domain/services/detection"
	"honeynet-lab/internal/domain/services/dialogue"
	"honeynet-lab/internal/domain/services/extraction"
	"honeynet-lab/internal/domain/services/session"
	"honeynet-lab/pkg/logger"
)

func newTestHoneypot(t *testing.T, cfg config.HoneypotConfig) (*HoneypotHandler, *session.Manager) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	engine := dialogue.NewEngine(nil, rand.New(rand.NewSource(3)), 10, log)
	m := session.NewManager(session.NewMemoryStore(), detection.NewClassifier(log),
		extraction.NewExtractor(log), engine, nil, log)
	return NewHoneypotHandler(m, nil, cfg, log), m
}

func postEngage(t *testing.T, h *HoneypotHandler, body any) HoneypotResponse {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/honeypot", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Engage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp HoneypotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestEngage_DefaultPersonaApplied(t *testing.T) {
	h, m := newTestHoneypot(t, config.HoneypotConfig{DefaultPersona: "curious_housewife", MaxExchanges: 10})

	resp := postEngage(t, h, map[string]any{
		"message": "You won Rs 25 lakh in the lottery, claim your prize now",
	})

	s, ok := m.Get(resp.ConversationID)
	if !ok {
		t.Fatalf("session %q not stored", resp.ConversationID)
	}
	if string(s.PersonaType) != "curious_housewife" {
		t.Fatalf("persona = %q, want curious_housewife", s.PersonaType)
	}
}

func TestEngage_ExplicitPersonaBeatsDefault(t *testing.T) {
	h, m := newTestHoneypot(t, config.HoneypotConfig{DefaultPersona: "curious_housewife"})

	resp := postEngage(t, h, map[string]any{
		"message":      "You won Rs 25 lakh in the lottery",
		"persona_type": "elderly_trusting",
	})

	s, _ := m.Get(resp.ConversationID)
	if string(s.PersonaType) != "elderly_trusting" {
		t.Fatalf("persona = %q, want elderly_trusting", s.PersonaType)
	}
}

func TestEngage_RecoversUnknownTokenFromHistory(t *testing.T) {
	h, _ := newTestHoneypot(t, config.HoneypotConfig{})

	resp := postEngage(t, h, map[string]any{
		"sessionId": "lost-1",
		"message": map[string]any{
			"sender":    "scammer",
			"text":      "Pay the processing fee to luckydraw@ybl",
			"timestamp": 1_700_000_300_000,
		},
		"conversationHistory": []map[string]any{
			{"sender": "scammer", "text": "You won Rs 25 lakh in the lottery", "timestamp": 1_700_000_000_000},
			{"sender": "user", "text": "Really? How do I claim it?", "timestamp": 1_700_000_100_000},
		},
	})

	if resp.ConversationID != "lost-1" {
		t.Fatalf("conversation id = %q, want lost-1", resp.ConversationID)
	}
	if resp.TotalMessages != 4 {
		t.Fatalf("total messages = %d, want 4", resp.TotalMessages)
	}
	if !resp.ScamDetected {
		t.Fatal("scam not detected across replayed history")
	}
	if resp.FinalOutput == nil {
		t.Fatal("missing finalOutput")
	}
	if resp.FinalOutput.EngagementDurationSeconds != 300 {
		t.Fatalf("duration = %d, want 300", resp.FinalOutput.EngagementDurationSeconds)
	}
	if len(resp.ExtractedIntelligence.PaymentHandles) != 1 {
		t.Fatalf("handles = %+v", resp.ExtractedIntelligence.PaymentHandles)
	}
}

func TestEngage_PlainTextBody(t *testing.T) {
	h, _ := newTestHoneypot(t, config.HoneypotConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/honeypot",
		bytes.NewReader([]byte("Your account will be blocked, update KYC immediately")))
	rec := httptest.NewRecorder()
	h.Engage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HoneypotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ConversationID == "" || resp.Reply == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}
	if resp.ScamAnalysis.ScamType != "kyc_fraud" {
		t.Fatalf("scam type = %q, want kyc_fraud", resp.ScamAnalysis.ScamType)
	}
}
