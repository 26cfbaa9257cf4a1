package models

import "time"

// Message senders.
const (
	SenderScammer  = "scammer"
	SenderHoneypot = "honeypot"
)

// Message is a single turn in a honeypot conversation. ExtractedIntel is
// nil for honeypot-authored turns.
type Message struct {
	Sender         string            `json:"sender"`
	Content        string            `json:"content"`
	Timestamp      time.Time         `json:"timestamp"`
	ExtractedIntel *ExtractionResult `json:"extracted_intel,omitempty"`
}

// Session is the full state of one honeypot conversation. The message log
// is append-only; ScamType is set once and never cleared; Active flips
// from true to false exactly once.
type Session struct {
	Token          string            `json:"token"`
	CreatedAt      time.Time         `json:"created_at"`
	PersonaType    PersonaType       `json:"persona_type"`
	ScamType       ScamType          `json:"scam_type,omitempty"`
	Confidence     float64           `json:"confidence"`
	Active         bool              `json:"active"`
	Messages       []Message         `json:"messages"`
	Intel          *ExtractionResult `json:"aggregated_intelligence"`
	Wire           *WireIntelligence `json:"-"`
	ScammerText    string            `json:"-"`
	QuestionsAsked int               `json:"questions_asked"`
	UsedLines      map[string]bool   `json:"-"`
	FirstMsgMS     int64             `json:"-"`
	LastMsgMS      int64             `json:"-"`
}

// ExchangeCount returns the number of counterparty turns recorded so far.
func (s *Session) ExchangeCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Sender == SenderScammer {
			n++
		}
	}
	return n
}

// SessionView is the per-turn result returned to callers.
type SessionView struct {
	Token          string                `json:"conversation_id"`
	Analysis       *ClassificationResult `json:"scam_analysis,omitempty"`
	Extracted      *ExtractionResult     `json:"extracted_intelligence"`
	Reply          string                `json:"honeypot_response"`
	Persona        PersonaInfo           `json:"persona"`
	ShouldContinue bool                  `json:"should_continue"`
	Aggregated     *ExtractionResult     `json:"aggregated_intelligence"`
	MessageCount   int                   `json:"message_count"`
}
