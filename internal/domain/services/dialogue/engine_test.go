package dialogue

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/internal/domain/services/ai"
	"honeynet-lab/pkg/logger"
)

func newTestEngine(oracle ai.ReplyFunc) *Engine {
	return NewEngine(oracle, rand.New(rand.NewSource(1)), 10, logger.NewDefault())
}

func TestPhaseFor_PureProgression(t *testing.T) {
	cases := []struct {
		turn   int
		hasPay bool
		want   models.Phase
	}{
		{1, false, models.PhaseInitialInterest},
		{1, true, models.PhaseInitialInterest},
		{2, false, models.PhaseAskForDetails},
		{3, true, models.PhaseShowHesitation},
		{4, false, models.PhasePretendCompliance},
		{4, true, models.PhaseExtractInfo},
		{9, false, models.PhasePretendCompliance},
		{9, true, models.PhaseExtractInfo},
	}

	for _, tc := range cases {
		if got := PhaseFor(tc.turn, tc.hasPay); got != tc.want {
			t.Fatalf("PhaseFor(%d, %v) = %s, want %s", tc.turn, tc.hasPay, got, tc.want)
		}
	}
}

func TestReply_TemplateAvoidRepeats(t *testing.T) {
	e := newTestEngine(nil)
	persona := PersonaFor(models.PersonaElderlyTrusting)
	used := map[string]bool{}

	seen := map[string]bool{}
	pool := persona.Templates[models.PhaseInitialInterest]
	for i := 0; i < len(pool); i++ {
		reply := e.Reply(context.Background(), ReplyInput{
			Persona:     persona,
			Phase:       models.PhaseInitialInterest,
			Intel:       models.NewExtractionResult(),
			ScammerText: "you won a prize",
			Used:        used,
		})

		base := reply
		for _, line := range pool {
			if strings.HasPrefix(reply, line) {
				base = line
			}
		}
		if seen[base] {
			t.Fatalf("template %q repeated with unused alternatives left", base)
		}
		seen[base] = true
	}
}

func TestReply_AppendsProbingQuestion(t *testing.T) {
	e := newTestEngine(nil)
	persona := PersonaFor(models.PersonaNaiveStudent)

	reply := e.Reply(context.Background(), ReplyInput{
		Persona:     persona,
		Phase:       models.PhaseAskForDetails,
		Intel:       models.NewExtractionResult(),
		ScammerText: "pay the registration fee",
		Used:        map[string]bool{},
	})

	if !strings.Contains(reply, "?") {
		t.Fatalf("reply should probe with a question: %q", reply)
	}
}

func TestReply_BankProbePriority(t *testing.T) {
	// With nothing extracted yet the probe pool starts with bank probes.
	probes := probesFor(models.NewExtractionResult())
	if probes[0] != bankProbes[0] {
		t.Fatalf("bank probes should lead the pool, got %q", probes[0])
	}

	// With everything captured the pool cycles to generic probes.
	full := models.NewExtractionResult()
	full.BankAccounts = append(full.BankAccounts, models.BankAccount{AccountNumber: "12345678901"})
	full.PaymentHandles = append(full.PaymentHandles, models.PaymentHandle{Handle: "x@ybl"})
	full.SuspiciousLinks = append(full.SuspiciousLinks, models.SuspiciousLink{URL: "http://x.tk"})
	full.PhoneNumbers = append(full.PhoneNumbers, "9876543210")

	probes = probesFor(full)
	if len(probes) != len(genericProbes) || probes[0] != genericProbes[0] {
		t.Fatalf("expected generic probes, got %v", probes)
	}
}

func TestReply_OraclePreferred(t *testing.T) {
	oracleReply := "Oh wonderful ji, which bank are you calling from?"
	e := newTestEngine(func(ctx context.Context, req ai.ReplyRequest) (string, error) {
		return oracleReply, nil
	})

	reply := e.Reply(context.Background(), ReplyInput{
		Persona:     PersonaFor(models.PersonaElderlyTrusting),
		Phase:       models.PhaseInitialInterest,
		Intel:       models.NewExtractionResult(),
		ScammerText: "you won a lottery",
		Used:        map[string]bool{},
	})

	if reply != oracleReply {
		t.Fatalf("oracle reply ignored: %q", reply)
	}
}

func TestReply_OracleFailureFallsBackToTemplates(t *testing.T) {
	e := newTestEngine(func(ctx context.Context, req ai.ReplyRequest) (string, error) {
		return "", errors.New("backend down")
	})
	persona := PersonaFor(models.PersonaEagerJobseeker)

	reply := e.Reply(context.Background(), ReplyInput{
		Persona:     persona,
		Phase:       models.PhaseInitialInterest,
		Intel:       models.NewExtractionResult(),
		ScammerText: "work from home, earn daily",
		Used:        map[string]bool{},
	})

	if reply == "" {
		t.Fatal("fallback reply must not be empty")
	}
	matched := false
	for _, line := range persona.Templates[models.PhaseInitialInterest] {
		if strings.HasPrefix(reply, line) {
			matched = true
		}
	}
	if !matched {
		t.Fatalf("fallback reply not from template bank: %q", reply)
	}
}

func TestShouldContinue_Ceiling(t *testing.T) {
	e := newTestEngine(nil)

	for turn := 1; turn < 10; turn++ {
		if !e.ShouldContinue(turn) {
			t.Fatalf("turn %d should continue", turn)
		}
	}
	if e.ShouldContinue(10) {
		t.Fatal("turn 10 must hit the engagement ceiling")
	}
	if e.ShouldContinue(11) {
		t.Fatal("past the ceiling must never continue")
	}
}

func TestPickPersona_HintHonored(t *testing.T) {
	e := newTestEngine(nil)

	p := e.PickPersona("curious_housewife")
	if p.Type != models.PersonaCuriousHousewife {
		t.Fatalf("hint ignored, got %s", p.Type)
	}

	p = e.PickPersona("no_such_persona")
	if p == nil {
		t.Fatal("unknown hint must still yield a persona")
	}
}

func TestPersonaForToken_Deterministic(t *testing.T) {
	a := PersonaForToken("session-abc-123")
	for i := 0; i < 5; i++ {
		if b := PersonaForToken("session-abc-123"); b.Type != a.Type {
			t.Fatalf("token-derived persona changed: %s vs %s", a.Type, b.Type)
		}
	}
}

func TestPersonaCatalog_CompleteTemplateBanks(t *testing.T) {
	phases := []models.Phase{
		models.PhaseInitialInterest,
		models.PhaseAskForDetails,
		models.PhaseShowHesitation,
		models.PhasePretendCompliance,
		models.PhaseExtractInfo,
	}

	for _, name := range PersonaTypes() {
		p, ok := LookupPersona(name)
		if !ok {
			t.Fatalf("persona %s missing from catalog", name)
		}
		for _, phase := range phases {
			if len(p.Templates[phase]) == 0 {
				t.Fatalf("persona %s has no templates for phase %s", name, phase)
			}
		}
	}
}
