package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/pkg/logger"
)

// ReplyRequest carries everything a text-generation backend needs to
// produce an in-character honeypot reply.
type ReplyRequest struct {
	Persona     *models.Persona
	Phase       models.Phase
	History     []models.Message
	Intel       *models.ExtractionResult
	ScammerText string
}

// ReplyFunc is the text-generation capability injected into the dialogue
// engine. Implementations return the reply text, or an error when the
// backend cannot serve; callers fall back to templates on any error.
type ReplyFunc func(ctx context.Context, req ReplyRequest) (string, error)

// ErrBackendDead marks a backend whose quota circuit breaker has tripped.
var ErrBackendDead = errors.New("llm backend dead")

// Fallback composes backends in priority order. Each backend carries its
// own quota circuit breaker: once a call fails with a quota-shaped error
// the backend is skipped for the life of the process.
func Fallback(log *logger.Logger, backends ...ReplyFunc) ReplyFunc {
	l := log.WithComponent("llm-fallback")
	dead := make([]bool, len(backends))
	var mu sync.Mutex

	return func(ctx context.Context, req ReplyRequest) (string, error) {
		var lastErr error = ErrBackendDead
		for i, backend := range backends {
			mu.Lock()
			skip := dead[i]
			mu.Unlock()
			if skip {
				continue
			}

			reply, err := backend(ctx, req)
			if err == nil && strings.TrimSpace(reply) != "" {
				return reply, nil
			}
			if err != nil {
				if isQuotaError(err) {
					mu.Lock()
					dead[i] = true
					mu.Unlock()
					l.Warn().Int("backend", i).Err(err).Msg("backend quota exhausted, disabling")
				} else {
					l.Debug().Int("backend", i).Err(err).Msg("backend failed")
				}
				lastErr = err
			}
		}
		return "", lastErr
	}
}

// isQuotaError recognizes daily-quota exhaustion as opposed to transient
// failures.
func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "429") && !strings.Contains(msg, "quota") && !strings.Contains(msg, "rate") {
		return false
	}
	return strings.Contains(msg, "day") || strings.Contains(msg, "free_tier") ||
		strings.Contains(msg, "check your plan") || strings.Contains(msg, "quota")
}

// honeypotSystemPrompt frames the model as the decoy victim.
const honeypotSystemPrompt = `You are an AI playing the role of a naive, trusting Indian person who is being contacted by a scammer.
Your goal is to:
1. PRETEND to be fooled by the scam - act gullible and interested
2. Keep the conversation going as long as possible to waste the scammer's time
3. Ask probing questions to extract identifying information (phone numbers, bank accounts, UPI IDs, names, locations)
4. NEVER reveal that you know it's a scam
5. NEVER break character

PERSONA DETAILS:
- Name: %s
- Background: %d year old %s
- Trust Level: %.1f
- Vocabulary: %s

RULES:
- Keep responses SHORT (1-3 sentences max)
- Always end with a question to keep the scammer talking
- Gradually show trust - don't give in too fast
- Show confusion about technical terms to make scammer explain more
- Ask for their phone number, name, office address, or employee ID naturally
- If they ask for money/OTP/password, stall by asking clarifying questions
- Sound excited about prizes/offers to keep them engaged
- Use casual Indian English (e.g., "ji", "accha", "please tell na")

CONVERSATION PHASE: %s
- initial_interest: Show curiosity, ask basic questions
- ask_for_details: Request more information about the offer/threat
- show_hesitation: Express mild doubt but remain open
- pretend_compliance: Pretend to go along but ask for more details
- extract_info: Directly try to get their contact/payment info

IMPORTANT: Generate ONLY the response text. No labels, no quotes, nothing else.`

// ReplyOracle adapts an LLMClient into the ReplyFunc capability.
func ReplyOracle(client *LLMClient) ReplyFunc {
	return func(ctx context.Context, req ReplyRequest) (string, error) {
		system := fmt.Sprintf(honeypotSystemPrompt,
			req.Persona.Name, req.Persona.Age, req.Persona.Occupation,
			req.Persona.TrustLevel, req.Persona.VocabularyLevel, req.Phase)
		system += intelNote(req.Intel)

		return client.Chat(ctx, system, []Message{{Role: "user", Content: buildUserPrompt(req)}})
	}
}

// intelNote steers the model away from re-asking for artifacts already
// captured.
func intelNote(intel *models.ExtractionResult) string {
	if intel == nil {
		intel = models.NewExtractionResult()
	}

	have := []string{}
	if len(intel.PhoneNumbers) > 0 {
		have = append(have, "You already have their phone number(s)")
	}
	if len(intel.BankAccounts) > 0 {
		have = append(have, "You already have their bank account(s)")
	}
	if len(intel.PaymentHandles) > 0 {
		have = append(have, "You already have their UPI ID(s)")
	}

	if len(have) == 0 {
		return "\n\nYou haven't extracted any identifying info yet. " +
			"Try to naturally get their phone number, name, or payment details."
	}
	return fmt.Sprintf("\n\nINTEL ALREADY EXTRACTED: %s. Try to extract OTHER types of information you don't have yet.",
		strings.Join(have, ", "))
}

// buildUserPrompt renders the last few turns plus the incoming message.
func buildUserPrompt(req ReplyRequest) string {
	var sb strings.Builder

	history := req.History
	if len(history) > 6 {
		history = history[len(history)-6:]
	}

	sb.WriteString("CONVERSATION SO FAR:\n")
	for _, msg := range history {
		if msg.Sender == models.SenderScammer {
			sb.WriteString("SCAMMER: ")
		} else {
			sb.WriteString("YOU: ")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	sb.WriteString("\nSCAMMER: ")
	sb.WriteString(req.ScammerText)
	sb.WriteString("\n\nYOUR RESPONSE (stay in character, 1-3 sentences, end with a question):")

	return sb.String()
}
