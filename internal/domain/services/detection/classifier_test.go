package detection

import (
	"reflect"
	"testing"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/pkg/logger"
)

func newTestClassifier() *Classifier {
	return NewClassifier(logger.NewDefault())
}

func TestClassify_LotteryScam(t *testing.T) {
	c := newTestClassifier()
	text := "Congratulations! You have won Rs 25 lakh in the lucky draw lottery. Claim your prize immediately by sharing your bank account number and OTP."

	res := c.Classify(text)

	if !res.IsScam {
		t.Fatalf("expected scam verdict, confidence %.2f", res.Confidence)
	}
	if res.ScamType != models.ScamTypeLottery {
		t.Fatalf("expected lottery, got %s", res.ScamType)
	}
	if res.Confidence != 90 {
		t.Fatalf("expected confidence 90, got %.2f", res.Confidence)
	}
	if !res.UrgencyDetected {
		t.Fatalf("urgency not detected")
	}
	if !res.SensitiveDataRequested {
		t.Fatalf("sensitive data request not detected")
	}
	if len(res.Indicators) == 0 || res.Indicators[0] != "lottery_patterns" {
		t.Fatalf("expected lottery_patterns first, got %v", res.Indicators)
	}
	if len(res.Indicators) > 5 {
		t.Fatalf("indicators exceed cap: %v", res.Indicators)
	}
}

func TestClassify_AdvanceFeeLottery(t *testing.T) {
	c := newTestClassifier()

	// Advance-fee demand with account details but no urgency phrasing.
	res := c.Classify("You won Rs. 25,00,000! Pay processing fee to account 1234567890123456, IFSC SBIN0001234")

	if !res.IsScam {
		t.Fatalf("expected scam verdict, confidence %.2f", res.Confidence)
	}
	if res.ScamType != models.ScamTypeLottery {
		t.Fatalf("expected lottery, got %s", res.ScamType)
	}
	if res.Confidence != 46 {
		t.Fatalf("expected confidence 46, got %.2f", res.Confidence)
	}
	if !res.SensitiveDataRequested {
		t.Fatalf("sensitive data request not detected")
	}
	if len(res.Indicators) == 0 || res.Indicators[0] != "lottery_patterns" {
		t.Fatalf("expected lottery_patterns first, got %v", res.Indicators)
	}
}

func TestClassify_UPIFraud(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify("Send Rs 500 to cashback@ybl via upi to get cashback")

	if !res.IsScam {
		t.Fatalf("expected scam verdict, confidence %.2f", res.Confidence)
	}
	if res.ScamType != models.ScamTypeUPIFraud {
		t.Fatalf("expected upi_fraud, got %s", res.ScamType)
	}
}

func TestClassify_VerdictWithoutCategory(t *testing.T) {
	c := newTestClassifier()

	// Heavy urgency and credential pressure but no category signal still
	// crosses the verdict threshold.
	res := c.Classify("send your otp and pin right now asap")

	if !res.IsScam {
		t.Fatalf("expected scam verdict, confidence %.2f", res.Confidence)
	}
	if res.ScamType != "" {
		t.Fatalf("expected no category, got %s", res.ScamType)
	}
	if res.Confidence != 40 {
		t.Fatalf("expected confidence 40, got %.2f", res.Confidence)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify("   ")

	if res.IsScam {
		t.Fatalf("blank text flagged as scam")
	}
	if res.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %.2f", res.Confidence)
	}
	if res.ScamType != "" {
		t.Fatalf("expected no category, got %s", res.ScamType)
	}
	if len(res.Indicators) != 0 {
		t.Fatalf("expected no indicators, got %v", res.Indicators)
	}
}

func TestClassify_BenignText(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify("Are we still meeting for lunch tomorrow?")

	if res.IsScam {
		t.Fatalf("benign text flagged as scam, confidence %.2f", res.Confidence)
	}
	if res.Confidence >= 40 {
		t.Fatalf("benign confidence too high: %.2f", res.Confidence)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()
	text := "Your account will be blocked. Update your KYC immediately using the link below."

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		if next := c.Classify(text); !reflect.DeepEqual(first, next) {
			t.Fatalf("classification not deterministic on run %d", i)
		}
	}
	if first.ScamType != models.ScamTypeKYCFraud {
		t.Fatalf("expected kyc_fraud, got %s", first.ScamType)
	}
}

func TestClassify_ScoresExposedForAllCategories(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify("hello")

	if len(res.Scores) != len(Categories()) {
		t.Fatalf("expected a score per category, got %d", len(res.Scores))
	}
}
