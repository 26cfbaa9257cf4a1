package models

// BankAccount is an extracted bank account, optionally paired with an IFSC
// code and the bank name resolved from its prefix.
type BankAccount struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// PaymentHandle is an extracted UPI-style payment handle or payment link.
type PaymentHandle struct {
	Handle   string `json:"handle,omitempty"`
	Link     string `json:"link,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// SuspiciousLink is a URL that survived the legitimate-domain filter,
// annotated with a risk level and the reason it was flagged.
type SuspiciousLink struct {
	URL       string `json:"url"`
	RiskLevel string `json:"risk_level"`
	Reason    string `json:"reason"`
}

// ExtractionResult holds everything extracted from a single message.
// All slices are always non-nil so serialized output carries empty lists
// rather than missing fields.
type ExtractionResult struct {
	BankAccounts    []BankAccount    `json:"bank_accounts"`
	PaymentHandles  []PaymentHandle  `json:"upi_ids"`
	SuspiciousLinks []SuspiciousLink `json:"phishing_links"`
	PhoneNumbers    []string         `json:"phone_numbers"`
	Emails          []string         `json:"emails"`
	CaseIDs         []string         `json:"case_ids"`
	PolicyNumbers   []string         `json:"policy_numbers"`
	OrderNumbers    []string         `json:"order_numbers"`
}

// NewExtractionResult returns an ExtractionResult with all lists initialized.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		BankAccounts:    []BankAccount{},
		PaymentHandles:  []PaymentHandle{},
		SuspiciousLinks: []SuspiciousLink{},
		PhoneNumbers:    []string{},
		Emails:          []string{},
		CaseIDs:         []string{},
		PolicyNumbers:   []string{},
		OrderNumbers:    []string{},
	}
}

// HasIntelligence reports whether anything at all was extracted.
func (r *ExtractionResult) HasIntelligence() bool {
	return len(r.BankAccounts) > 0 ||
		len(r.PaymentHandles) > 0 ||
		len(r.SuspiciousLinks) > 0 ||
		len(r.PhoneNumbers) > 0 ||
		len(r.Emails) > 0 ||
		len(r.CaseIDs) > 0 ||
		len(r.PolicyNumbers) > 0 ||
		len(r.OrderNumbers) > 0
}

// HasPaymentIntel reports whether a bank account or payment handle has
// been captured. Drives the dialogue phase transition.
func (r *ExtractionResult) HasPaymentIntel() bool {
	return len(r.BankAccounts) > 0 || len(r.PaymentHandles) > 0
}

// Merge folds another result into this one. Duplicates are dropped, order
// of first appearance is preserved, so merging is idempotent and the same
// set of messages always yields the same aggregate regardless of replay.
func (r *ExtractionResult) Merge(other *ExtractionResult) {
	if other == nil {
		return
	}
	seenAcc := make(map[string]bool, len(r.BankAccounts))
	for _, a := range r.BankAccounts {
		seenAcc[a.AccountNumber+"|"+a.IFSCCode] = true
	}
	for _, a := range other.BankAccounts {
		k := a.AccountNumber + "|" + a.IFSCCode
		if !seenAcc[k] {
			seenAcc[k] = true
			r.BankAccounts = append(r.BankAccounts, a)
		}
	}

	seenHandle := make(map[string]bool, len(r.PaymentHandles))
	for _, h := range r.PaymentHandles {
		seenHandle[h.Handle+"|"+h.Link] = true
	}
	for _, h := range other.PaymentHandles {
		k := h.Handle + "|" + h.Link
		if !seenHandle[k] {
			seenHandle[k] = true
			r.PaymentHandles = append(r.PaymentHandles, h)
		}
	}

	seenLink := make(map[string]bool, len(r.SuspiciousLinks))
	for _, l := range r.SuspiciousLinks {
		seenLink[l.URL] = true
	}
	for _, l := range other.SuspiciousLinks {
		if !seenLink[l.URL] {
			seenLink[l.URL] = true
			r.SuspiciousLinks = append(r.SuspiciousLinks, l)
		}
	}

	r.PhoneNumbers = mergeStrings(r.PhoneNumbers, other.PhoneNumbers)
	r.Emails = mergeStrings(r.Emails, other.Emails)
	r.CaseIDs = mergeStrings(r.CaseIDs, other.CaseIDs)
	r.PolicyNumbers = mergeStrings(r.PolicyNumbers, other.PolicyNumbers)
	r.OrderNumbers = mergeStrings(r.OrderNumbers, other.OrderNumbers)
}

// WireIntelligence is the camelCase aggregate consumed by external
// reporting tools. List keys always serialize, even when empty.
type WireIntelligence struct {
	PhoneNumbers   []string `json:"phoneNumbers"`
	BankAccounts   []string `json:"bankAccounts"`
	UPIIDs         []string `json:"upiIds"`
	PhishingLinks  []string `json:"phishingLinks"`
	EmailAddresses []string `json:"emailAddresses"`
	CaseIDs        []string `json:"caseIds"`
	PolicyNumbers  []string `json:"policyNumbers"`
	OrderNumbers   []string `json:"orderNumbers"`
}

// NewWireIntelligence returns a WireIntelligence with all lists initialized.
func NewWireIntelligence() *WireIntelligence {
	return &WireIntelligence{
		PhoneNumbers:   []string{},
		BankAccounts:   []string{},
		UPIIDs:         []string{},
		PhishingLinks:  []string{},
		EmailAddresses: []string{},
		CaseIDs:        []string{},
		PolicyNumbers:  []string{},
		OrderNumbers:   []string{},
	}
}

// Merge folds another wire aggregate into this one, dropping duplicates and
// keeping first-appearance order.
func (w *WireIntelligence) Merge(other *WireIntelligence) {
	if other == nil {
		return
	}
	w.PhoneNumbers = mergeStrings(w.PhoneNumbers, other.PhoneNumbers)
	w.BankAccounts = mergeStrings(w.BankAccounts, other.BankAccounts)
	w.UPIIDs = mergeStrings(w.UPIIDs, other.UPIIDs)
	w.PhishingLinks = mergeStrings(w.PhishingLinks, other.PhishingLinks)
	w.EmailAddresses = mergeStrings(w.EmailAddresses, other.EmailAddresses)
	w.CaseIDs = mergeStrings(w.CaseIDs, other.CaseIDs)
	w.PolicyNumbers = mergeStrings(w.PolicyNumbers, other.PolicyNumbers)
	w.OrderNumbers = mergeStrings(w.OrderNumbers, other.OrderNumbers)
}

// Wire converts a per-message extraction into the camelCase aggregate shape.
func (r *ExtractionResult) Wire() *WireIntelligence {
	w := NewWireIntelligence()
	for _, a := range r.BankAccounts {
		w.BankAccounts = append(w.BankAccounts, a.AccountNumber)
	}
	for _, h := range r.PaymentHandles {
		if h.Handle != "" {
			w.UPIIDs = append(w.UPIIDs, h.Handle)
		} else if h.Link != "" {
			w.UPIIDs = append(w.UPIIDs, h.Link)
		}
	}
	for _, l := range r.SuspiciousLinks {
		w.PhishingLinks = append(w.PhishingLinks, l.URL)
	}
	w.PhoneNumbers = mergeStrings(w.PhoneNumbers, r.PhoneNumbers)
	w.EmailAddresses = mergeStrings(w.EmailAddresses, r.Emails)
	w.CaseIDs = mergeStrings(w.CaseIDs, r.CaseIDs)
	w.PolicyNumbers = mergeStrings(w.PolicyNumbers, r.PolicyNumbers)
	w.OrderNumbers = mergeStrings(w.OrderNumbers, r.OrderNumbers)
	return w
}

func mergeStrings(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}
