package extraction

import (
	"reflect"
	"testing"

	"honeynet-lab/pkg/logger"
)

func newTestExtractor() *Extractor {
	return NewExtractor(logger.NewDefault())
}

func TestExtract_BankAccountWithIFSC(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Transfer to account 1234567890123456, IFSC SBIN0001234.")

	if len(res.BankAccounts) != 1 {
		t.Fatalf("expected 1 bank account, got %d", len(res.BankAccounts))
	}
	acc := res.BankAccounts[0]
	if acc.AccountNumber != "1234567890123456" {
		t.Fatalf("unexpected account number: %s", acc.AccountNumber)
	}
	if acc.IFSCCode != "SBIN0001234" {
		t.Fatalf("unexpected IFSC code: %s", acc.IFSCCode)
	}
	if acc.BankName != "State Bank of India" {
		t.Fatalf("unexpected bank name: %s", acc.BankName)
	}
}

func TestExtract_UnpairedAccountHasNoCode(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("send money to 56789012345678901")

	if len(res.BankAccounts) != 1 {
		t.Fatalf("expected 1 bank account, got %d", len(res.BankAccounts))
	}
	if res.BankAccounts[0].IFSCCode != "" {
		t.Fatalf("expected empty IFSC code, got %s", res.BankAccounts[0].IFSCCode)
	}
	if res.BankAccounts[0].BankName != "" {
		t.Fatalf("expected empty bank name, got %s", res.BankAccounts[0].BankName)
	}
}

func TestExtract_IFSCPairedPositionally(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Use 11112222333344 with HDFC0001234 or 99998888777766 with ICIC0005678.")

	if len(res.BankAccounts) != 2 {
		t.Fatalf("expected 2 bank accounts, got %d", len(res.BankAccounts))
	}
	if res.BankAccounts[0].IFSCCode != "HDFC0001234" || res.BankAccounts[0].BankName != "HDFC Bank" {
		t.Fatalf("unexpected first pairing: %+v", res.BankAccounts[0])
	}
	if res.BankAccounts[1].IFSCCode != "ICIC0005678" || res.BankAccounts[1].BankName != "ICICI Bank" {
		t.Fatalf("unexpected second pairing: %+v", res.BankAccounts[1])
	}
}

func TestExtract_PhoneNeverReportedAsAccount(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Call me at +919876543210 right now")

	if len(res.BankAccounts) != 0 {
		t.Fatalf("expected no bank accounts, got %+v", res.BankAccounts)
	}
	if !reflect.DeepEqual(res.PhoneNumbers, []string{"9876543210"}) {
		t.Fatalf("unexpected phone numbers: %v", res.PhoneNumbers)
	}
}

func TestExtract_PhoneInsideLongerRunIgnored(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("account 59876543210987 only")

	if len(res.PhoneNumbers) != 0 {
		t.Fatalf("expected no phone numbers, got %v", res.PhoneNumbers)
	}
	if len(res.BankAccounts) != 1 {
		t.Fatalf("expected 1 bank account, got %d", len(res.BankAccounts))
	}
}

func TestExtract_PaymentHandleKnownProvider(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Send the fee to luckydraw@ybl today")

	if len(res.PaymentHandles) != 1 {
		t.Fatalf("expected 1 payment handle, got %d", len(res.PaymentHandles))
	}
	h := res.PaymentHandles[0]
	if h.Handle != "luckydraw@ybl" {
		t.Fatalf("unexpected handle: %s", h.Handle)
	}
	if h.Provider != "PhonePe" {
		t.Fatalf("unexpected provider: %s", h.Provider)
	}
}

func TestExtract_HandleVsEmailDisambiguation(t *testing.T) {
	e := newTestExtractor()

	cases := []struct {
		text       string
		wantHandle bool
		provider   string
	}{
		{"pay scammer@fakebank now", true, "Unknown"},         // no dot in domain
		{"pay user@abc.x now", true, "Unknown"},               // domain length <= 5
		{"pay victim@pay.fraud now", true, "Unknown"},         // non-mail suffix, short domain
		{"mail me at john.doe@gmail.com please", false, ""},   // standard suffix
		{"mail me at support@company.org please", false, ""},  // standard suffix
	}

	for _, tc := range cases {
		res := e.Extract(tc.text)
		if tc.wantHandle {
			if len(res.PaymentHandles) != 1 {
				t.Fatalf("%q: expected a payment handle, got %+v", tc.text, res.PaymentHandles)
			}
			if res.PaymentHandles[0].Provider != tc.provider {
				t.Fatalf("%q: unexpected provider %s", tc.text, res.PaymentHandles[0].Provider)
			}
			if len(res.Emails) != 0 {
				t.Fatalf("%q: handle leaked into emails: %v", tc.text, res.Emails)
			}
		} else {
			if len(res.PaymentHandles) != 0 {
				t.Fatalf("%q: email misread as handle: %+v", tc.text, res.PaymentHandles)
			}
			if len(res.Emails) != 1 {
				t.Fatalf("%q: expected 1 email, got %v", tc.text, res.Emails)
			}
		}
	}
}

func TestExtract_UPIPaymentLink(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Click upi://pay?pa=fraud@ybl&am=500 to collect")

	found := false
	for _, h := range res.PaymentHandles {
		if h.Link == "upi://pay?pa=fraud@ybl&am=500" {
			found = true
		}
	}
	if !found {
		t.Fatalf("payment link not extracted: %+v", res.PaymentHandles)
	}
}

func TestExtract_SuspiciousLinks(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Visit http://claim-prize-now.xyz/winner or http://bit.ly/x1 or https://www.google.com/search")

	if len(res.SuspiciousLinks) != 2 {
		t.Fatalf("expected 2 suspicious links, got %+v", res.SuspiciousLinks)
	}
	if res.SuspiciousLinks[0].URL != "http://claim-prize-now.xyz/winner" {
		t.Fatalf("unexpected first link: %s", res.SuspiciousLinks[0].URL)
	}
	if res.SuspiciousLinks[0].RiskLevel != "high" {
		t.Fatalf("hyphenated host should be high risk, got %s", res.SuspiciousLinks[0].RiskLevel)
	}
	if res.SuspiciousLinks[1].RiskLevel != "high" {
		t.Fatalf("shortener should be high risk, got %s", res.SuspiciousLinks[1].RiskLevel)
	}
	if res.SuspiciousLinks[0].Reason == "" || res.SuspiciousLinks[1].Reason == "" {
		t.Fatalf("every link needs a reason: %+v", res.SuspiciousLinks)
	}
}

func TestExtract_LinkRiskTiers(t *testing.T) {
	e := newTestExtractor()

	cases := []struct {
		url  string
		risk string
	}{
		{"http://192.168.1.5/pay", "high"},
		{"http://secure-login.example.net/x", "high"},
		{"http://example.xyz/verify", "medium"},
		{"http://random-site.xyz/page", "low"},
	}

	for _, tc := range cases {
		res := e.Extract("go to " + tc.url)
		if len(res.SuspiciousLinks) != 1 {
			t.Fatalf("%q: expected 1 link, got %+v", tc.url, res.SuspiciousLinks)
		}
		if res.SuspiciousLinks[0].RiskLevel != tc.risk {
			t.Fatalf("%q: expected risk %s, got %s", tc.url, tc.risk, res.SuspiciousLinks[0].RiskLevel)
		}
	}
}

func TestExtract_ProviderDomainsExcludedFromEmails(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("write to refunds@paytm.com or help@example.com")

	if !reflect.DeepEqual(res.Emails, []string{"help@example.com"}) {
		t.Fatalf("unexpected emails: %v", res.Emails)
	}
}

func TestExtract_Identifiers(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("Your case ID: CBI2024X99, policy number LIC-44556, order no ORD12345.")

	if !reflect.DeepEqual(res.CaseIDs, []string{"CBI2024X99"}) {
		t.Fatalf("unexpected case ids: %v", res.CaseIDs)
	}
	if !reflect.DeepEqual(res.PolicyNumbers, []string{"LIC-44556"}) {
		t.Fatalf("unexpected policy numbers: %v", res.PolicyNumbers)
	}
	if !reflect.DeepEqual(res.OrderNumbers, []string{"ORD12345"}) {
		t.Fatalf("unexpected order numbers: %v", res.OrderNumbers)
	}
}

func TestExtract_IdentifierRequiresDigits(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("in case anything goes wrong, order another pizza")

	if len(res.CaseIDs) != 0 || len(res.OrderNumbers) != 0 {
		t.Fatalf("plain words mistaken for identifiers: %v %v", res.CaseIDs, res.OrderNumbers)
	}
}

func TestExtract_EmptyTextYieldsEmptyLists(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("   ")

	if res.BankAccounts == nil || res.PaymentHandles == nil || res.SuspiciousLinks == nil ||
		res.PhoneNumbers == nil || res.Emails == nil || res.CaseIDs == nil ||
		res.PolicyNumbers == nil || res.OrderNumbers == nil {
		t.Fatalf("lists must be empty, never nil: %+v", res)
	}
	if res.HasIntelligence() {
		t.Fatalf("blank text should carry no intelligence")
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := newTestExtractor()
	text := "Pay 1234567890123456 IFSC SBIN0001234 via cashback@ybl, call +919123456789, see http://verify-cashback.tk/claim"

	first := e.Extract(text)
	for i := 0; i < 5; i++ {
		next := e.Extract(text)
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("extraction not deterministic on run %d", i)
		}
	}
}

func TestExtract_DuplicatesCollapsed(t *testing.T) {
	e := newTestExtractor()

	res := e.Extract("cashback@ybl again cashback@ybl and 9876543210 then 9876543210")

	if len(res.PaymentHandles) != 1 {
		t.Fatalf("duplicate handles not collapsed: %+v", res.PaymentHandles)
	}
	if len(res.PhoneNumbers) != 1 {
		t.Fatalf("duplicate phones not collapsed: %v", res.PhoneNumbers)
	}
}
