package session

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/internal/domain/services/ai"
	"honeynet-lab/internal/domain/services/detection"
	"honeynet-lab/internal/domain/services/dialogue"
	"honeynet-lab/internal/domain/services/extraction"
	"honeynet-lab/internal/mock"
	"honeynet-lab/pkg/logger"
)

// Manager orchestrates honeypot sessions: classification, extraction,
// aggregation, dialogue, and final reporting. All collaborators are
// injected; there is no ambient state.
type Manager struct {
	store      Store
	classifier *detection.Classifier
	extractor  *extraction.Extractor
	engine     *dialogue.Engine
	llm        *ai.LLMClient // optional, nil disables LLM-assisted extraction
	logger     *logger.Logger
	now        func() time.Time
}

// NewManager wires a Manager. llm may be nil.
func NewManager(store Store, classifier *detection.Classifier, extractor *extraction.Extractor,
	engine *dialogue.Engine, llm *ai.LLMClient, log *logger.Logger) *Manager {
	return &Manager{
		store:      store,
		classifier: classifier,
		extractor:  extractor,
		engine:     engine,
		llm:        llm,
		logger:     log.WithComponent("session-manager"),
		now:        time.Now,
	}
}

// HistoryTurn is a replayed prior turn supplied by the caller for crash
// recovery.
type HistoryTurn struct {
	Sender      string
	Text        string
	TimestampMS int64
}

// BeginParams starts a session. Token empty means generate one; a caller
// token plus History reconstitutes a session lost to a restart.
type BeginParams struct {
	Token       string
	Text        string
	PersonaHint string
	TimestampMS int64
	History     []HistoryTurn
}

// TurnParams advances a session by one counterparty message.
type TurnParams struct {
	Text        string
	TimestampMS int64
}

// Begin creates a session, folds in any replayed history, processes the
// opening message, and returns the first view. ErrSessionExists when the
// caller token already names a live session.
func (m *Manager) Begin(ctx context.Context, params BeginParams) (*models.SessionView, error) {
	if params.Token != "" {
		if existing, ok := m.store.Get(params.Token); ok && existing.Active {
			return nil, ErrSessionExists
		}
	}

	token := params.Token
	recovered := token != ""
	if token == "" {
		token = uuid.NewString()
	}

	s := &models.Session{
		Token:     token,
		CreatedAt: m.now(),
		Active:    true,
		Messages:  []models.Message{},
		Intel:     models.NewExtractionResult(),
		Wire:      models.NewWireIntelligence(),
		UsedLines: map[string]bool{},
	}

	persona := m.pickPersona(params.PersonaHint, token, recovered)
	s.PersonaType = persona.Type

	for _, turn := range params.History {
		m.replayTurn(s, turn)
	}

	analysis := m.processScammerTurn(ctx, s, params.Text, params.TimestampMS)
	reply := m.reply(ctx, s, persona, params.Text)
	m.appendHoneypotTurn(s, reply)

	// Replayed history counts against the ceiling: a recovered session
	// that already ran its course ends here rather than on the next turn.
	withinCeiling := m.engine.ShouldContinue(s.ExchangeCount())
	if !withinCeiling {
		s.Active = false
		m.logger.Info().Str("session", token).Int("messages", len(s.Messages)).
			Msg("engagement ceiling reached, session ended")
	}

	m.store.Put(s)

	m.logger.Info().Str("session", token).
		Str("scam_type", string(s.ScamType)).
		Float64("confidence", s.Confidence).
		Msg("session started")

	return &models.SessionView{
		Token:          token,
		Analysis:       analysis,
		Extracted:      lastExtraction(s),
		Reply:          reply,
		Persona:        persona.Info(),
		ShouldContinue: analysis.IsScam && withinCeiling,
		Aggregated:     s.Intel,
		MessageCount:   len(s.Messages),
	}, nil
}

// Advance processes one more counterparty message on a live session.
func (m *Manager) Advance(ctx context.Context, token string, params TurnParams) (*models.SessionView, error) {
	s, ok := m.store.Get(token)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.Active {
		return nil, ErrSessionEnded
	}

	persona := dialogue.PersonaFor(s.PersonaType)

	m.processScammerTurn(ctx, s, params.Text, params.TimestampMS)
	reply := m.reply(ctx, s, persona, params.Text)
	m.appendHoneypotTurn(s, reply)

	shouldContinue := m.engine.ShouldContinue(s.ExchangeCount())
	if !shouldContinue {
		s.Active = false
		m.logger.Info().Str("session", token).Int("messages", len(s.Messages)).
			Msg("engagement ceiling reached, session ended")
	}

	m.store.Put(s)

	return &models.SessionView{
		Token:          token,
		Extracted:      lastExtraction(s),
		Reply:          reply,
		Persona:        persona.Info(),
		ShouldContinue: shouldContinue,
		Aggregated:     s.Intel,
		MessageCount:   len(s.Messages),
	}, nil
}

// FinalReport builds the wire-shaped engagement report, or nil for an
// unknown token. External timestamps, when supplied, win the duration
// calculation; internally recorded message timestamps come next; wall
// clock age is the last resort.
func (m *Manager) FinalReport(token string, externalTimestampsMS []int64) *models.FinalReport {
	s, ok := m.store.Get(token)
	if !ok {
		return nil
	}

	var durationSeconds int64
	switch {
	case len(externalTimestampsMS) >= 2:
		lo, hi := externalTimestampsMS[0], externalTimestampsMS[0]
		for _, ts := range externalTimestampsMS[1:] {
			if ts < lo {
				lo = ts
			}
			if ts > hi {
				hi = ts
			}
		}
		durationSeconds = (hi - lo) / 1000
		if durationSeconds < 0 {
			durationSeconds = 0
		}
	case s.FirstMsgMS > 0 && s.LastMsgMS > 0:
		durationSeconds = (s.LastMsgMS - s.FirstMsgMS) / 1000
		if durationSeconds < 0 {
			durationSeconds = 0
		}
	default:
		durationSeconds = int64(m.now().Sub(s.CreatedAt).Seconds())
	}

	wire := s.Wire
	if wire == nil {
		wire = models.NewWireIntelligence()
	}

	scamType := "unknown"
	if s.ScamType != "" {
		scamType = string(s.ScamType)
	}

	return &models.FinalReport{
		SessionID:                 token,
		ScamDetected:              s.ScamType != "" || s.Confidence >= 30,
		TotalMessagesExchanged:    len(s.Messages),
		EngagementDurationSeconds: durationSeconds,
		ExtractedIntelligence: models.ReportIntelligence{
			PhoneNumbers:   wire.PhoneNumbers,
			BankAccounts:   wire.BankAccounts,
			UPIIDs:         wire.UPIIDs,
			PhishingLinks:  wire.PhishingLinks,
			EmailAddresses: wire.EmailAddresses,
		},
		AgentNotes:      agentNotes(s),
		ScamType:        scamType,
		ConfidenceLevel: math.Min(s.Confidence/100, 1.0),
	}
}

// Get returns a single session.
func (m *Manager) Get(token string) (*models.Session, bool) {
	return m.store.Get(token)
}

// List returns every session in insertion order.
func (m *Manager) List() []*models.Session {
	return m.store.List()
}

// Resume reinstates a snapshotted session and advances it with the new
// message. Snapshots carry only the serialized fields, so the derived
// state is rebuilt from the message log first. ErrSessionExists when the
// token already names a live session; an ended snapshot surfaces as
// ErrSessionEnded from the advance.
func (m *Manager) Resume(ctx context.Context, snap *models.Session, params TurnParams) (*models.SessionView, error) {
	if existing, ok := m.store.Get(snap.Token); ok && existing.Active {
		return nil, ErrSessionExists
	}

	m.rehydrate(snap)
	m.store.Put(snap)

	m.logger.Info().Str("session", snap.Token).Int("messages", len(snap.Messages)).
		Msg("session restored from snapshot")

	return m.Advance(ctx, snap.Token, params)
}

// rehydrate rebuilds the fields a snapshot does not serialize. Line-usage
// dedup starts over; the wire view is re-derived from the aggregate.
func (m *Manager) rehydrate(s *models.Session) {
	if s.Intel == nil {
		s.Intel = models.NewExtractionResult()
	}
	s.Wire = s.Intel.Wire()
	s.UsedLines = map[string]bool{}
	s.ScammerText = ""
	for _, msg := range s.Messages {
		if msg.Sender == models.SenderScammer {
			s.ScammerText += " " + msg.Content
		}
	}
}

// AllIntelligence merges the aggregates of every session.
func (m *Manager) AllIntelligence() *models.ExtractionResult {
	total := models.NewExtractionResult()
	for _, s := range m.store.List() {
		total.Merge(s.Intel)
	}
	return total
}

// SimulationResult is the outcome of a scripted mock engagement.
type SimulationResult struct {
	Session        *models.Session   `json:"conversation"`
	TotalExchanges int               `json:"total_exchanges"`
	ScammerProfile map[string]string `json:"scammer_profile"`
}

// Simulate runs a full conversation against a scripted mock scammer.
func (m *Manager) Simulate(ctx context.Context, scamType, personaHint string) (*SimulationResult, error) {
	scammer := mock.NewScammer(scamType, nil)

	view, err := m.Begin(ctx, BeginParams{Text: scammer.InitialMessage(), PersonaHint: personaHint})
	if err != nil {
		return nil, err
	}
	token := view.Token

	const maxSimExchanges = 6
	exchanges := 0
	for view.ShouldContinue && exchanges < maxSimExchanges {
		scammerReply := scammer.Respond(view.Reply)
		view, err = m.Advance(ctx, token, TurnParams{Text: scammerReply})
		if err != nil {
			return nil, err
		}
		exchanges++
	}

	s, _ := m.store.Get(token)
	profile := scammer.Profile()
	return &SimulationResult{
		Session:        s,
		TotalExchanges: exchanges,
		ScammerProfile: map[string]string{
			"bank_account":  profile.BankAccount,
			"upi_id":        profile.UPIID,
			"phone":         profile.Phone,
			"phishing_link": profile.PhishingLink,
		},
	}, nil
}

// Empty or non-text content is normalized to this rather than rejected, so
// the pipeline keeps the counterparty engaged on bad input shape.
const defaultMessage = "Hello, I am testing the honeypot API."

// processScammerTurn classifies and extracts from one counterparty message
// and folds the results into the session aggregates.
func (m *Manager) processScammerTurn(ctx context.Context, s *models.Session, text string, tsMS int64) *models.ClassificationResult {
	if strings.TrimSpace(text) == "" {
		text = defaultMessage
	}

	analysis := m.classifier.Classify(text)

	// A category, once set, is never cleared or replaced.
	if s.ScamType == "" && analysis.ScamType != "" {
		s.ScamType = analysis.ScamType
	}
	if analysis.Confidence > s.Confidence {
		s.Confidence = analysis.Confidence
	}

	intel := m.extractor.Extract(text)
	s.Intel.Merge(intel)
	s.Wire.Merge(intel.Wire())

	if m.llm != nil {
		m.mergeLLMIntel(ctx, s, text)
	}

	s.Messages = append(s.Messages, models.Message{
		Sender:         models.SenderScammer,
		Content:        text,
		Timestamp:      m.now(),
		ExtractedIntel: intel,
	})
	s.ScammerText += " " + text
	m.recordTimestamp(s, tsMS)

	return analysis
}

// replayTurn folds a replayed prior turn into a freshly recovered session.
// Scammer turns are re-classified and re-extracted; honeypot turns only
// restore the elicitation count.
func (m *Manager) replayTurn(s *models.Session, turn HistoryTurn) {
	if turn.Sender == models.SenderHoneypot {
		s.Messages = append(s.Messages, models.Message{
			Sender:    models.SenderHoneypot,
			Content:   turn.Text,
			Timestamp: m.now(),
		})
		s.QuestionsAsked += strings.Count(turn.Text, "?")
		return
	}

	analysis := m.classifier.Classify(turn.Text)
	if s.ScamType == "" && analysis.ScamType != "" {
		s.ScamType = analysis.ScamType
	}
	if analysis.Confidence > s.Confidence {
		s.Confidence = analysis.Confidence
	}

	intel := m.extractor.Extract(turn.Text)
	s.Intel.Merge(intel)
	s.Wire.Merge(intel.Wire())

	s.Messages = append(s.Messages, models.Message{
		Sender:         models.SenderScammer,
		Content:        turn.Text,
		Timestamp:      m.now(),
		ExtractedIntel: intel,
	})
	s.ScammerText += " " + turn.Text
	m.recordTimestamp(s, turn.TimestampMS)
}

// mergeLLMIntel folds in a best-effort LLM extraction pass. Failures are
// logged and ignored.
func (m *Manager) mergeLLMIntel(ctx context.Context, s *models.Session, text string) {
	msgs := make([]string, 0, 8)
	for _, msg := range s.Messages {
		if msg.Sender == models.SenderScammer {
			msgs = append(msgs, msg.Content)
		}
	}
	if len(msgs) > 7 {
		msgs = msgs[len(msgs)-7:]
	}
	msgs = append(msgs, text)

	wire, err := m.llm.ExtractIntelligence(ctx, msgs)
	if err != nil {
		m.logger.Debug().Str("session", s.Token).Err(err).Msg("llm extraction unavailable")
		return
	}
	s.Wire.Merge(wire)
}

// reply generates the honeypot's next line from the current phase and
// aggregate intelligence.
func (m *Manager) reply(ctx context.Context, s *models.Session, persona *models.Persona, scammerText string) string {
	phase := dialogue.PhaseFor(s.ExchangeCount(), s.Intel.HasPaymentIntel())

	history := s.Messages
	if n := len(history); n > 0 && history[n-1].Sender == models.SenderScammer {
		history = history[:n-1] // current message is passed separately
	}

	return m.engine.Reply(ctx, dialogue.ReplyInput{
		Persona:     persona,
		Phase:       phase,
		History:     history,
		Intel:       s.Intel,
		ScammerText: scammerText,
		Used:        s.UsedLines,
	})
}

func (m *Manager) appendHoneypotTurn(s *models.Session, reply string) {
	s.Messages = append(s.Messages, models.Message{
		Sender:    models.SenderHoneypot,
		Content:   reply,
		Timestamp: m.now(),
	})
	s.QuestionsAsked += strings.Count(reply, "?")
}

func (m *Manager) recordTimestamp(s *models.Session, tsMS int64) {
	if tsMS <= 0 {
		return
	}
	if s.FirstMsgMS == 0 {
		s.FirstMsgMS = tsMS
	}
	if tsMS > s.LastMsgMS {
		s.LastMsgMS = tsMS
	}
}

// pickPersona honors an explicit hint, derives deterministically from the
// token on recovery, and falls back to random choice.
func (m *Manager) pickPersona(hint, token string, recovered bool) *models.Persona {
	if p, ok := dialogue.LookupPersona(hint); ok {
		return p
	}
	if recovered {
		return dialogue.PersonaForToken(token)
	}
	return m.engine.PickPersona("")
}

// lastExtraction returns the per-turn intel of the latest scammer message.
func lastExtraction(s *models.Session) *models.ExtractionResult {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Sender == models.SenderScammer {
			if s.Messages[i].ExtractedIntel != nil {
				return s.Messages[i].ExtractedIntel
			}
			break
		}
	}
	return models.NewExtractionResult()
}
