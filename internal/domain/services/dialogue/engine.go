package dialogue

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/internal/domain/services/ai"
	"honeynet-lab/pkg/logger"
)

const defaultOracleTimeout = 10 * time.Second

// Engine turns classified scammer messages into in-character replies. It
// holds no per-session state: phase is derived from the session, template
// usage lives on the session itself.
type Engine struct {
	oracle        ai.ReplyFunc
	oracleTimeout time.Duration
	maxExchanges  int
	logger        *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a dialogue engine. A nil oracle means template-only
// operation. maxExchanges is the hard engagement ceiling.
func NewEngine(oracle ai.ReplyFunc, rng *rand.Rand, maxExchanges int, log *logger.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if maxExchanges <= 0 {
		maxExchanges = 10
	}
	return &Engine{
		oracle:        oracle,
		oracleTimeout: defaultOracleTimeout,
		maxExchanges:  maxExchanges,
		logger:        log.WithComponent("dialogue"),
		rng:           rng,
	}
}

// PhaseFor derives the conversation phase from the counterparty turn count
// and whether payment intel has landed. Pure function.
func PhaseFor(exchangeCount int, hasPaymentIntel bool) models.Phase {
	switch {
	case exchangeCount <= 1:
		return models.PhaseInitialInterest
	case exchangeCount == 2:
		return models.PhaseAskForDetails
	case exchangeCount == 3:
		return models.PhaseShowHesitation
	case hasPaymentIntel:
		return models.PhaseExtractInfo
	default:
		return models.PhasePretendCompliance
	}
}

// ReplyInput carries per-turn context into Reply. Used is the session's
// line-usage set and is mutated as lines are consumed.
type ReplyInput struct {
	Persona     *models.Persona
	Phase       models.Phase
	History     []models.Message
	Intel       *models.ExtractionResult
	ScammerText string
	Used        map[string]bool
}

// Reply produces the next honeypot line. The oracle is tried first under a
// short timeout; any failure falls back to the persona's template bank plus
// a probing question for whatever intelligence is still missing.
func (e *Engine) Reply(ctx context.Context, in ReplyInput) string {
	if in.Intel == nil {
		in.Intel = models.NewExtractionResult()
	}

	if e.oracle != nil {
		octx, cancel := context.WithTimeout(ctx, e.oracleTimeout)
		reply, err := e.oracle(octx, ai.ReplyRequest{
			Persona:     in.Persona,
			Phase:       in.Phase,
			History:     in.History,
			Intel:       in.Intel,
			ScammerText: in.ScammerText,
		})
		cancel()
		if err == nil && reply != "" {
			return reply
		}
		if err != nil {
			e.logger.Debug().Err(err).Msg("oracle unavailable, using templates")
		}
	}

	return e.templateReply(in)
}

// templateReply picks an unused line for the phase and appends a probing
// question.
func (e *Engine) templateReply(in ReplyInput) string {
	templates := in.Persona.Templates[in.Phase]
	if len(templates) == 0 {
		templates = in.Persona.Templates[models.PhaseInitialInterest]
	}

	reply := e.pickUnused(templates, in.Used)

	if probe := e.pickUnused(probesFor(in.Intel), in.Used); probe != "" {
		reply += " " + probe
	}
	return reply
}

// probesFor builds the probing-question pool for whatever is still
// missing, in priority order: bank, handle, link, phone. Generic probes
// once everything is captured.
func probesFor(intel *models.ExtractionResult) []string {
	probes := []string{}
	if len(intel.BankAccounts) == 0 {
		probes = append(probes, bankProbes...)
	}
	if len(intel.PaymentHandles) == 0 {
		probes = append(probes, handleProbes...)
	}
	if len(intel.SuspiciousLinks) == 0 {
		probes = append(probes, linkProbes...)
	}
	if len(intel.PhoneNumbers) == 0 {
		probes = append(probes, phoneProbes...)
	}
	if len(probes) == 0 {
		probes = genericProbes
	}
	return probes
}

// pickUnused chooses a random line not yet used this session, marking it
// used. Once every line has been used the full pool becomes eligible again.
func (e *Engine) pickUnused(pool []string, used map[string]bool) string {
	if len(pool) == 0 {
		return ""
	}

	fresh := make([]string, 0, len(pool))
	for _, line := range pool {
		if used == nil || !used[line] {
			fresh = append(fresh, line)
		}
	}
	if len(fresh) == 0 {
		fresh = pool
	}

	e.mu.Lock()
	line := fresh[e.rng.Intn(len(fresh))]
	e.mu.Unlock()

	if used != nil {
		used[line] = true
	}
	return line
}

// ShouldContinue applies the engagement ceiling. Below the ceiling the
// engine never terminates a conversation on its own.
func (e *Engine) ShouldContinue(exchangeCount int) bool {
	return exchangeCount < e.maxExchanges
}

// PickPersona returns the persona for an explicit hint, or a random one
// for an empty or unknown hint.
func (e *Engine) PickPersona(hint string) *models.Persona {
	if p, ok := LookupPersona(hint); ok {
		return p
	}
	e.mu.Lock()
	t := personaOrder[e.rng.Intn(len(personaOrder))]
	e.mu.Unlock()
	return personaCatalog[t]
}

// PersonaForToken picks deterministically based on the token, so a session
// recovered after a restart lands on the same persona every time.
func PersonaForToken(token string) *models.Persona {
	h := fnv.New32a()
	h.Write([]byte(token))
	return personaCatalog[personaOrder[int(h.Sum32())%len(personaOrder)]]
}

// PersonaFor resolves a persona type already bound to a session.
func PersonaFor(t models.PersonaType) *models.Persona {
	if p, ok := personaCatalog[t]; ok {
		return p
	}
	return personaCatalog[models.PersonaElderlyTrusting]
}
