package session

import (
	"fmt"
	"strings"

	"honeynet-lab/internal/domain/models"
)

// suspiciousKeywords flag manipulation vocabulary in scammer text.
var suspiciousKeywords = []string{
	"urgent", "verify", "immediately", "blocked", "suspended",
	"account", "bank", "upi", "otp", "password", "pin",
	"click", "link", "update", "confirm", "transfer",
	"prize", "lottery", "winner", "congratulations", "claim",
	"kyc", "aadhar", "pan", "expired", "renew",
	"refund", "cashback", "offer", "limited", "hurry",
}

// redFlagTable maps narrative red-flag names to trigger keywords. A flag
// fires when any keyword occurs anywhere in the accumulated scammer text.
var redFlagTable = []struct {
	Flag     string
	Keywords []string
}{
	{"urgency pressure", []string{"urgent", "immediately", "hurry", "expires", "last chance", "final warning", "act fast"}},
	{"fear-based threats", []string{"blocked", "suspended", "frozen", "cancelled", "closure", "legal action", "police"}},
	{"too-good-to-be-true offer", []string{"won", "prize", "lottery", "lucky draw", "cashback", "free", "lakh", "crore"}},
	{"advance fee demand", []string{"processing fee", "registration fee", "verification fee", "send rs", "pay rs"}},
	{"payment redirection", []string{"upi", "transfer", "send money", "account number", "ifsc"}},
	{"credential harvesting", []string{"otp", "password", "pin", "cvv"}},
	{"identity data request", []string{"kyc", "aadhaar", "aadhar", "pan card"}},
	{"suspicious link sharing", []string{"http://", "https://", "bit.ly", "tinyurl", "click here", "click this link"}},
	{"authority impersonation", []string{"bank officer", "security officer", "microsoft", "official", "rbi", "income tax"}},
}

// identifyRedFlags evaluates the red-flag table against accumulated
// counterparty text.
func identifyRedFlags(scammerText string) []string {
	lower := strings.ToLower(scammerText)
	flags := []string{}
	for _, entry := range redFlagTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				flags = append(flags, entry.Flag)
				break
			}
		}
	}
	return flags
}

// SuspiciousKeywordsIn returns which suspicious keywords appear in the text.
func SuspiciousKeywordsIn(scammerText string) []string {
	lower := strings.ToLower(scammerText)
	found := []string{}
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// tacticsFor labels manipulation tactics from the detected keywords.
func tacticsFor(keywords []string) []string {
	has := map[string]bool{}
	for _, kw := range keywords {
		has[kw] = true
	}

	tactics := []string{}
	if has["urgent"] || has["immediately"] {
		tactics = append(tactics, "urgency tactics")
	}
	if has["blocked"] || has["suspended"] {
		tactics = append(tactics, "fear-based manipulation")
	}
	if has["prize"] || has["lottery"] || has["winner"] {
		tactics = append(tactics, "lottery/prize scam")
	}
	if has["upi"] || has["bank"] {
		tactics = append(tactics, "payment redirection")
	}
	if has["kyc"] || has["aadhar"] {
		tactics = append(tactics, "identity theft attempt")
	}
	return tactics
}

// agentNotes builds the narrative summary carried in the final report. The
// phrasing is a compatibility surface for an external report consumer.
func agentNotes(s *models.Session) string {
	notes := []string{}

	if s.ScamType != "" {
		notes = append(notes, fmt.Sprintf("Detected %s scam attempt", s.ScamType))
	} else {
		notes = append(notes, "Potential scam activity detected")
	}

	if flags := identifyRedFlags(s.ScammerText); len(flags) > 0 {
		notes = append(notes, fmt.Sprintf("Red flags identified: %s (%d total)", strings.Join(flags, ", "), len(flags)))
	}

	if tactics := tacticsFor(SuspiciousKeywordsIn(s.ScammerText)); len(tactics) > 0 {
		notes = append(notes, "Used "+strings.Join(tactics, ", "))
	}

	wire := s.Wire
	if wire == nil {
		wire = models.NewWireIntelligence()
	}
	extracted := []string{}
	if n := len(wire.PhoneNumbers); n > 0 {
		extracted = append(extracted, fmt.Sprintf("%d phone number(s)", n))
	}
	if n := len(wire.BankAccounts); n > 0 {
		extracted = append(extracted, fmt.Sprintf("%d bank account(s)", n))
	}
	if n := len(wire.UPIIDs); n > 0 {
		extracted = append(extracted, fmt.Sprintf("%d UPI ID(s)", n))
	}
	if n := len(wire.PhishingLinks); n > 0 {
		extracted = append(extracted, fmt.Sprintf("%d phishing link(s)", n))
	}
	if n := len(wire.EmailAddresses); n > 0 {
		extracted = append(extracted, fmt.Sprintf("%d email(s)", n))
	}
	if len(extracted) > 0 {
		notes = append(notes, "Extracted: "+strings.Join(extracted, ", "))
	}

	if s.QuestionsAsked > 0 {
		notes = append(notes, fmt.Sprintf(
			"Elicitation attempts: %d investigative questions asked (identity, company, address, contact details, website)",
			s.QuestionsAsked))
	}

	notes = append(notes, fmt.Sprintf("Engaged for %d messages", len(s.Messages)))

	return strings.Join(notes, ". ") + "."
}
