package extraction

import (
	"regexp"
	"strings"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/pkg/logger"
)

// Extractor pulls structured intelligence out of free text. Extraction is
// pure and deterministic; output order follows appearance order in the text.
type Extractor struct {
	logger *logger.Logger
}

var (
	// Account candidates are digit runs of 11-18; 10-digit mobiles can
	// never reach this floor.
	accountRe = regexp.MustCompile(`\b\d{11,18}\b`)

	// IFSC: 4 letter bank prefix + 0 + 6 alphanumeric.
	ifscRe = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	// user@domain tokens, handle/email split decided afterwards.
	handleRe = regexp.MustCompile(`\b[a-z0-9._-]+@[a-z0-9.-]*[a-z0-9]`)

	upiLinkRe = regexp.MustCompile(`upi://pay\?[^\s]+`)

	urlRe = regexp.MustCompile(`https?://[^\s<>"']+|www\.[^\s<>"']+`)

	phoneRe = regexp.MustCompile(`(?:\+91[-\s]?)?[6-9]\d{9}\b`)

	emailRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

	ipRe = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

	caseIDRe   = regexp.MustCompile(`(?i)\b(?:case|reference|ref|ticket|complaint)\s*(?:id|no|number)?\s*[:#-]?\s*([A-Za-z0-9][A-Za-z0-9-]{3,19})\b`)
	policyIDRe = regexp.MustCompile(`(?i)\bpolicy\s*(?:no|number|id)?\s*[:#-]?\s*([A-Za-z0-9][A-Za-z0-9-]{3,19})\b`)
	orderIDRe  = regexp.MustCompile(`(?i)\b(?:order|tracking)\s*(?:no|number|id)?\s*[:#-]?\s*([A-Za-z0-9][A-Za-z0-9-]{3,19})\b`)

	hasDigitRe = regexp.MustCompile(`\d`)
)

// paymentProviders maps known handle domains to provider display names.
var paymentProviders = map[string]string{
	"ybl": "PhonePe", "ibl": "PhonePe", "axl": "PhonePe",
	"okhdfcbank": "Google Pay", "okicici": "Google Pay", "oksbi": "Google Pay",
	"paytm": "Paytm", "ptyes": "Paytm", "pthdfc": "Paytm",
	"upi": "BHIM", "sbi": "SBI", "icici": "ICICI",
	"hdfc": "HDFC", "axis": "Axis Bank", "kotak": "Kotak",
}

// bankPrefixes maps IFSC bank prefixes to display names.
var bankPrefixes = map[string]string{
	"SBIN": "State Bank of India",
	"HDFC": "HDFC Bank",
	"ICIC": "ICICI Bank",
	"AXIS": "Axis Bank",
	"PUNB": "Punjab National Bank",
	"BARB": "Bank of Baroda",
	"CNRB": "Canara Bank",
	"UBIN": "Union Bank of India",
	"KKBK": "Kotak Mahindra Bank",
	"IDFB": "IDFC First Bank",
	"YESB": "Yes Bank",
	"INDB": "IndusInd Bank",
}

// emailSuffixes are TLDs that mark a dotted domain as an ordinary mailbox.
var emailSuffixes = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"in": true, "io": true, "co": true, "info": true, "biz": true,
	"me": true, "us": true, "uk": true,
}

// legitimateDomains are excluded entirely from link analysis.
var legitimateDomains = []string{
	"google.com", "facebook.com", "twitter.com", "instagram.com",
	"linkedin.com", "youtube.com", "amazon.com", "flipkart.com",
	"paytm.com", "phonepe.com", "gpay.com", "sbi.co.in",
	"hdfcbank.com", "icicibank.com", "axisbank.com", "rbi.org.in",
}

var urlShorteners = []string{"bit.ly", "tinyurl", "goo.gl", "t.co", "short.link"}

// NewExtractor creates an Extractor.
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{logger: log.WithComponent("extractor")}
}

// Extract pulls every recognized artifact out of a single message.
func (e *Extractor) Extract(text string) *models.ExtractionResult {
	result := models.NewExtractionResult()

	result.BankAccounts = e.extractBankAccounts(text)
	result.PaymentHandles = e.extractPaymentHandles(text)
	result.SuspiciousLinks = e.extractSuspiciousLinks(text)
	result.PhoneNumbers = e.extractPhoneNumbers(text)
	result.Emails = e.extractEmails(text, result.PaymentHandles)
	result.CaseIDs = extractIdentifiers(caseIDRe, text)
	result.PolicyNumbers = extractIdentifiers(policyIDRe, text)
	result.OrderNumbers = extractIdentifiers(orderIDRe, text)

	return result
}

// extractBankAccounts finds 11-18 digit runs and pairs them positionally
// with IFSC codes. Runs shaped like a country-prefixed mobile number are
// excluded so phone numbers never masquerade as accounts.
func (e *Extractor) extractBankAccounts(text string) []models.BankAccount {
	accounts := []models.BankAccount{}

	seen := map[string]bool{}
	candidates := []string{}
	for _, run := range accountRe.FindAllString(text, -1) {
		if isMobileShaped(run) || seen[run] {
			continue
		}
		seen[run] = true
		candidates = append(candidates, run)
	}

	codes := ifscRe.FindAllString(strings.ToUpper(text), -1)

	for i, num := range candidates {
		acc := models.BankAccount{AccountNumber: num}
		if i < len(codes) {
			acc.IFSCCode = codes[i]
			acc.BankName = bankPrefixes[codes[i][:4]]
		}
		accounts = append(accounts, acc)
	}
	return accounts
}

// isMobileShaped reports whether a digit run is a national mobile number,
// bare or with the 91 country prefix.
func isMobileShaped(run string) bool {
	if len(run) == 10 && run[0] >= '6' && run[0] <= '9' {
		return true
	}
	if len(run) == 12 && strings.HasPrefix(run, "91") && run[2] >= '6' && run[2] <= '9' {
		return true
	}
	return false
}

// extractPaymentHandles finds user@domain tokens that look like payment
// handles rather than mailboxes, plus explicit payment links. The checks
// run in order: known provider, short domain, dotless domain, then the
// non-email-suffix heuristic. Everything else is left to the email pass.
func (e *Extractor) extractPaymentHandles(text string) []models.PaymentHandle {
	handles := []models.PaymentHandle{}
	seen := map[string]bool{}

	for _, token := range handleRe.FindAllString(strings.ToLower(text), -1) {
		at := strings.LastIndex(token, "@")
		domain := token[at+1:]
		provider, known := paymentProviders[domain]

		isHandle := false
		switch {
		case known:
			isHandle = true
		case len(domain) <= 5:
			isHandle = true
			provider = "Unknown"
		case !strings.Contains(domain, "."):
			isHandle = true
			provider = "Unknown"
		case !emailSuffixes[domain[strings.LastIndex(domain, ".")+1:]] && len(domain) <= 20:
			isHandle = true
			provider = "Unknown"
		}

		if isHandle && !seen[token] {
			seen[token] = true
			handles = append(handles, models.PaymentHandle{Handle: token, Provider: provider})
		}
	}

	for _, link := range upiLinkRe.FindAllString(text, -1) {
		if !seen[link] {
			seen[link] = true
			handles = append(handles, models.PaymentHandle{Link: link})
		}
	}

	return handles
}

// extractSuspiciousLinks filters URLs against the legitimate-domain
// allow-list and scores the remainder.
func (e *Extractor) extractSuspiciousLinks(text string) []models.SuspiciousLink {
	links := []models.SuspiciousLink{}
	seen := map[string]bool{}

	for _, url := range urlRe.FindAllString(text, -1) {
		lower := strings.ToLower(url)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		legit := false
		for _, domain := range legitimateDomains {
			if strings.Contains(lower, domain) {
				legit = true
				break
			}
		}
		if legit {
			continue
		}

		risk, reason := analyzeURL(lower)
		links = append(links, models.SuspiciousLink{URL: url, RiskLevel: risk, Reason: reason})
	}
	return links
}

// analyzeURL scores a non-allow-listed URL. High for shorteners, raw IPs
// and phishing-shaped hosts; medium for suspicious keywords; low otherwise.
func analyzeURL(lower string) (string, string) {
	for _, s := range urlShorteners {
		if strings.Contains(lower, s) {
			return "high", "URL shortener detected"
		}
	}
	if ipRe.MatchString(lower) {
		return "high", "IP address in URL"
	}

	host := hostOf(lower)
	if strings.Count(host, "-") >= 2 {
		return "high", "multiple hyphens in host"
	}
	if !strings.Contains(host, ".gov") && !strings.Contains(host, ".bank") {
		for _, w := range []string{"login", "secure", "update", "account"} {
			if strings.Contains(host, w) {
				return "high", "suspicious term in host: " + w
			}
		}
	}

	for _, w := range []string{"login", "verify", "secure", "update", "account", "bank"} {
		if strings.Contains(lower, w) {
			return "medium", "suspicious keyword: " + w
		}
	}

	return "low", "unknown domain"
}

// hostOf strips scheme and path from a lowercased URL.
func hostOf(lower string) string {
	host := lower
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return host
}

// extractPhoneNumbers finds national mobile numbers, normalized to their
// 10-digit form. A match inside a longer digit run is rejected.
func (e *Extractor) extractPhoneNumbers(text string) []string {
	phones := []string{}
	seen := map[string]bool{}

	for _, loc := range phoneRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			prev := text[loc[0]-1]
			if prev >= '0' && prev <= '9' || prev >= 'a' && prev <= 'z' || prev >= 'A' && prev <= 'Z' {
				continue
			}
		}
		match := text[loc[0]:loc[1]]
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, match)
		phone := digits[len(digits)-10:]
		if !seen[phone] {
			seen[phone] = true
			phones = append(phones, phone)
		}
	}
	return phones
}

// extractEmails finds mailbox addresses, excluding anything already
// classified as a payment handle or whose domain collides with a
// payment-provider keyword.
func (e *Extractor) extractEmails(text string, handles []models.PaymentHandle) []string {
	emails := []string{}
	seen := map[string]bool{}
	for _, h := range handles {
		if h.Handle != "" {
			seen[h.Handle] = true
		}
	}

	for _, email := range emailRe.FindAllString(text, -1) {
		lower := strings.ToLower(email)
		if seen[lower] {
			continue
		}
		domain := lower[strings.LastIndex(lower, "@")+1:]
		isProvider := false
		for prov := range paymentProviders {
			if strings.Contains(domain, prov) {
				isProvider = true
				break
			}
		}
		if isProvider {
			continue
		}
		seen[lower] = true
		emails = append(emails, lower)
	}
	return emails
}

// extractIdentifiers pulls label-prefixed reference codes. A code must
// carry at least one digit; plain words following a label are not codes.
func extractIdentifiers(re *regexp.Regexp, text string) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if !hasDigitRe.MatchString(m[1]) {
			continue
		}
		id := strings.ToUpper(m[1])
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
