package session

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/internal/domain/services/detection"
	"honeynet-lab/internal/domain/services/dialogue"
	"honeynet-lab/internal/domain/services/extraction"
	"honeynet-lab/pkg/logger"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	engine := dialogue.NewEngine(nil, rand.New(rand.NewSource(7)), 10, log)
	return NewManager(NewMemoryStore(), detection.NewClassifier(log), extraction.NewExtractor(log), engine, nil, log)
}

const lotteryOpener = "Congratulations! You have won Rs 25 lakh in the lucky draw lottery. Claim your prize immediately by sharing your bank account number and OTP."

func TestBegin_LotteryScamDetected(t *testing.T) {
	m := newTestManager(t)

	view, err := m.Begin(context.Background(), BeginParams{Text: lotteryOpener})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if view.Token == "" {
		t.Fatal("expected a generated token")
	}
	if view.Analysis == nil || !view.Analysis.IsScam {
		t.Fatalf("expected scam verdict, got %+v", view.Analysis)
	}
	if view.Analysis.ScamType != models.ScamTypeLottery {
		t.Fatalf("scam type = %q, want lottery", view.Analysis.ScamType)
	}
	if !view.ShouldContinue {
		t.Fatal("scam conversation should continue")
	}
	if view.Reply == "" {
		t.Fatal("expected a honeypot reply")
	}
	if view.MessageCount != 2 {
		t.Fatalf("message count = %d, want 2", view.MessageCount)
	}
}

func TestAdvance_AggregatesPaymentIntel(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	view, err := m.Begin(ctx, BeginParams{Text: lotteryOpener})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	view, err = m.Advance(ctx, view.Token, TurnParams{
		Text: "Transfer the processing fee to account 1234567890123456 IFSC SBIN0001234 or pay luckydraw@ybl",
	})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if len(view.Aggregated.BankAccounts) != 1 {
		t.Fatalf("bank accounts = %d, want 1", len(view.Aggregated.BankAccounts))
	}
	acc := view.Aggregated.BankAccounts[0]
	if acc.AccountNumber != "1234567890123456" || acc.IFSCCode != "SBIN0001234" {
		t.Fatalf("unexpected account %+v", acc)
	}
	if acc.BankName != "State Bank of India" {
		t.Fatalf("bank name = %q", acc.BankName)
	}
	if len(view.Aggregated.PaymentHandles) != 1 || view.Aggregated.PaymentHandles[0].Handle != "luckydraw@ybl" {
		t.Fatalf("unexpected handles %+v", view.Aggregated.PaymentHandles)
	}
	if !view.ShouldContinue {
		t.Fatal("conversation should continue below the ceiling")
	}
}

func TestAdvance_UnknownToken(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Advance(context.Background(), "no-such-token", TurnParams{Text: "hello"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestBegin_DuplicateLiveToken(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Begin(ctx, BeginParams{Token: "conv-1", Text: lotteryOpener}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err := m.Begin(ctx, BeginParams{Token: "conv-1", Text: lotteryOpener})
	if !errors.Is(err, ErrSessionExists) {
		t.Fatalf("err = %v, want ErrSessionExists", err)
	}
}

func TestBegin_RecoveryReplaysHistory(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	view, err := m.Begin(ctx, BeginParams{
		Token: "recovered-1",
		Text:  "Share the OTP now to claim the prize",
		History: []HistoryTurn{
			{Sender: models.SenderScammer, Text: lotteryOpener, TimestampMS: 1_000_000},
			{Sender: models.SenderHoneypot, Text: "Oh really? How do I claim it?", TimestampMS: 1_030_000},
			{Sender: models.SenderScammer, Text: "Pay via UPI to luckydraw@ybl", TimestampMS: 1_060_000},
		},
		TimestampMS: 1_090_000,
	})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if view.Token != "recovered-1" {
		t.Fatalf("token = %q", view.Token)
	}

	s, ok := m.Get("recovered-1")
	if !ok {
		t.Fatal("session not stored")
	}
	if s.ScamType != models.ScamTypeLottery {
		t.Fatalf("scam type = %q, want lottery from replayed history", s.ScamType)
	}
	if len(s.Intel.PaymentHandles) != 1 {
		t.Fatalf("handles = %+v, want the replayed UPI handle", s.Intel.PaymentHandles)
	}
	if s.QuestionsAsked < 1 {
		t.Fatal("replayed honeypot question not counted")
	}
	// 3 replayed + 1 new scammer + 1 new reply
	if len(s.Messages) != 5 {
		t.Fatalf("messages = %d, want 5", len(s.Messages))
	}

	// The recovered token always maps to the same persona.
	if s.PersonaType != dialogue.PersonaForToken("recovered-1").Type {
		t.Fatalf("persona = %q, not derived from token", s.PersonaType)
	}
}

func TestBegin_PersonaHintHonored(t *testing.T) {
	m := newTestManager(t)

	view, err := m.Begin(context.Background(), BeginParams{Text: lotteryOpener, PersonaHint: "curious_housewife"})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if view.Persona.Type != models.PersonaCuriousHousewife {
		t.Fatalf("persona = %q, want curious_housewife", view.Persona.Type)
	}
}

func TestAdvance_EngagementCeiling(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	view, err := m.Begin(ctx, BeginParams{Text: lotteryOpener})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	token := view.Token

	for i := 2; i <= 10; i++ {
		view, err = m.Advance(ctx, token, TurnParams{Text: "Send the OTP immediately or your prize expires"})
		if err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
		if i < 10 && !view.ShouldContinue {
			t.Fatalf("exchange %d ended early", i)
		}
	}
	if view.ShouldContinue {
		t.Fatal("exchange 10 should hit the ceiling")
	}

	s, _ := m.Get(token)
	if s.Active {
		t.Fatal("session still active after ceiling")
	}

	_, err = m.Advance(ctx, token, TurnParams{Text: "hello?"})
	if !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("err = %v, want ErrSessionEnded", err)
	}
}

func TestFinalReport_Fields(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	view, err := m.Begin(ctx, BeginParams{Text: lotteryOpener, TimestampMS: 10_000})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := m.Advance(ctx, view.Token, TurnParams{
		Text:        "Pay rs 500 to luckydraw@ybl or call +919876543210",
		TimestampMS: 95_000,
	}); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	report := m.FinalReport(view.Token, nil)
	if report == nil {
		t.Fatal("nil report for live session")
	}
	if report.SessionID != view.Token {
		t.Fatalf("session id = %q", report.SessionID)
	}
	if !report.ScamDetected {
		t.Fatal("scam not flagged in report")
	}
	if report.ScamType != "lottery" {
		t.Fatalf("scam type = %q", report.ScamType)
	}
	if report.ConfidenceLevel <= 0 || report.ConfidenceLevel > 1 {
		t.Fatalf("confidence level = %v, want (0,1]", report.ConfidenceLevel)
	}
	if report.TotalMessagesExchanged != 4 {
		t.Fatalf("messages = %d, want 4", report.TotalMessagesExchanged)
	}
	// internal timestamps: (95000-10000)/1000
	if report.EngagementDurationSeconds != 85 {
		t.Fatalf("duration = %d, want 85", report.EngagementDurationSeconds)
	}

	if len(report.ExtractedIntelligence.UPIIDs) != 1 || report.ExtractedIntelligence.UPIIDs[0] != "luckydraw@ybl" {
		t.Fatalf("upi ids = %v", report.ExtractedIntelligence.UPIIDs)
	}
	if len(report.ExtractedIntelligence.PhoneNumbers) != 1 || report.ExtractedIntelligence.PhoneNumbers[0] != "9876543210" {
		t.Fatalf("phones = %v", report.ExtractedIntelligence.PhoneNumbers)
	}

	if !strings.Contains(report.AgentNotes, "Detected lottery scam attempt") {
		t.Fatalf("notes missing detection line: %q", report.AgentNotes)
	}
	if !strings.Contains(report.AgentNotes, "Red flags identified:") {
		t.Fatalf("notes missing red flags: %q", report.AgentNotes)
	}
	if !strings.Contains(report.AgentNotes, "Engaged for 4 messages") {
		t.Fatalf("notes missing engagement line: %q", report.AgentNotes)
	}
	if !strings.HasSuffix(report.AgentNotes, ".") {
		t.Fatalf("notes not terminated: %q", report.AgentNotes)
	}
}

func TestFinalReport_ExternalTimestampsWin(t *testing.T) {
	m := newTestManager(t)

	view, err := m.Begin(context.Background(), BeginParams{Text: lotteryOpener, TimestampMS: 10_000})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	report := m.FinalReport(view.Token, []int64{500_000, 200_000, 320_000})
	if report.EngagementDurationSeconds != 300 {
		t.Fatalf("duration = %d, want 300 from external timestamps", report.EngagementDurationSeconds)
	}
}

func TestFinalReport_UnknownToken(t *testing.T) {
	m := newTestManager(t)
	if report := m.FinalReport("missing", nil); report != nil {
		t.Fatalf("report = %+v, want nil", report)
	}
}

func TestAllIntelligence_MergesAcrossSessions(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Begin(ctx, BeginParams{Text: "Pay to luckydraw@ybl now to claim your lottery prize"}); err != nil {
		t.Fatalf("Begin 1: %v", err)
	}
	if _, err := m.Begin(ctx, BeginParams{Text: "Your kyc expired, update at account 11112222333344 IFSC HDFC0009999"}); err != nil {
		t.Fatalf("Begin 2: %v", err)
	}

	total := m.AllIntelligence()
	if len(total.PaymentHandles) != 1 {
		t.Fatalf("handles = %+v", total.PaymentHandles)
	}
	if len(total.BankAccounts) != 1 {
		t.Fatalf("accounts = %+v", total.BankAccounts)
	}
	if len(m.List()) != 2 {
		t.Fatalf("sessions = %d, want 2", len(m.List()))
	}
}

func TestMergeIdempotence_RepeatedIntel(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	view, err := m.Begin(ctx, BeginParams{Text: "Send money to luckydraw@ybl for the lottery prize"})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	view, err = m.Advance(ctx, view.Token, TurnParams{Text: "Again: pay luckydraw@ybl right now"})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if len(view.Aggregated.PaymentHandles) != 1 {
		t.Fatalf("duplicate handle not collapsed: %+v", view.Aggregated.PaymentHandles)
	}
}

func TestSimulate_LotteryScript(t *testing.T) {
	m := newTestManager(t)

	result, err := m.Simulate(context.Background(), "lottery", "elderly_trusting")
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if result.Session == nil {
		t.Fatal("nil session in simulation result")
	}
	if result.TotalExchanges < 1 || result.TotalExchanges > 6 {
		t.Fatalf("exchanges = %d, want 1..6", result.TotalExchanges)
	}
	if result.Session.ScamType != models.ScamTypeLottery {
		t.Fatalf("scam type = %q", result.Session.ScamType)
	}
	if result.ScammerProfile["upi_id"] != "luckydraw@ybl" {
		t.Fatalf("profile = %v", result.ScammerProfile)
	}
	// The scripted scammer reveals its payment details after two exchanges.
	if !result.Session.Intel.HasPaymentIntel() {
		t.Fatal("simulation captured no payment intel")
	}
}

func TestBegin_RecoveryHitsCeiling(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	history := make([]HistoryTurn, 0, 18)
	for i := 0; i < 9; i++ {
		history = append(history,
			HistoryTurn{Sender: models.SenderScammer, Text: "Send the OTP immediately or your prize expires"},
			HistoryTurn{Sender: models.SenderHoneypot, Text: "Which OTP do you mean?"},
		)
	}

	view, err := m.Begin(ctx, BeginParams{
		Token:   "recovered-long",
		Text:    "Last chance, pay the processing fee now",
		History: history,
	})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if view.ShouldContinue {
		t.Fatal("recovered session past the ceiling should not continue")
	}

	s, _ := m.Get("recovered-long")
	if s.Active {
		t.Fatal("session still active after ceiling")
	}
	if _, err := m.Advance(ctx, "recovered-long", TurnParams{Text: "hello?"}); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("err = %v, want ErrSessionEnded", err)
	}
}

func TestResume_RestoresSnapshot(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	// Round-trip through JSON the way a cache snapshot does, dropping the
	// unserialized derived fields.
	orig, err := m.Begin(ctx, BeginParams{Token: "snap-1", Text: lotteryOpener})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	live, _ := m.Get(orig.Token)
	raw, err := json.Marshal(live)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	m2 := newTestManager(t)
	var snap models.Session
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	view, err := m2.Resume(ctx, &snap, TurnParams{Text: "Pay the transfer fee to luckydraw@ybl"})
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if view.MessageCount != 4 {
		t.Fatalf("message count = %d, want 4", view.MessageCount)
	}
	if len(view.Aggregated.PaymentHandles) != 1 {
		t.Fatalf("handles = %+v", view.Aggregated.PaymentHandles)
	}

	s, _ := m2.Get("snap-1")
	if s.ScamType != models.ScamTypeLottery {
		t.Fatalf("scam type lost in snapshot round trip: %q", s.ScamType)
	}
	if !strings.Contains(s.ScammerText, "lucky draw lottery") {
		t.Fatal("scammer text not rebuilt from message log")
	}
}

func TestResume_LiveTokenRejected(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Begin(ctx, BeginParams{Token: "snap-2", Text: lotteryOpener}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err := m.Resume(ctx, &models.Session{Token: "snap-2", Active: true}, TurnParams{Text: "hi"})
	if !errors.Is(err, ErrSessionExists) {
		t.Fatalf("err = %v, want ErrSessionExists", err)
	}
}

func TestResume_EndedSnapshot(t *testing.T) {
	m := newTestManager(t)

	snap := &models.Session{
		Token:    "snap-3",
		Active:   false,
		Messages: []models.Message{{Sender: models.SenderScammer, Content: lotteryOpener}},
		Intel:    models.NewExtractionResult(),
	}
	_, err := m.Resume(context.Background(), snap, TurnParams{Text: "hello again"})
	if !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("err = %v, want ErrSessionEnded", err)
	}
}
