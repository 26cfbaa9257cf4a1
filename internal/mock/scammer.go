// Package mock simulates scammers for exercising the honeypot end to end.
package mock

import (
	"math/rand"
	"regexp"
	"strings"

	"honeynet-lab/internal/domain/models"
)

// Profile scripts one simulated scammer: an opening message, a fixed
// follow-up sequence, and the artifacts the script eventually reveals.
type Profile struct {
	ScamType         models.ScamType
	Name             string
	Persona          string
	InitialMessage   string
	FollowUps        []string
	RevealsInfoAfter int

	BankAccount  string
	UPIID        string
	Phone        string
	PhishingLink string
}

var profiles = map[models.ScamType]Profile{
	models.ScamTypeLottery: {
		ScamType:       models.ScamTypeLottery,
		Name:           "Lucky Draw Manager",
		Persona:        "Official lottery representative",
		InitialMessage: "CONGRATULATIONS! Your mobile number has been selected in our MEGA LUCKY DRAW! You have won Rs. 25,00,000 (TWENTY FIVE LAKHS)! To claim your prize, reply with your full name immediately. This offer expires in 24 hours!",
		FollowUps: []string{
			"Thank you {name}! Your prize is confirmed. To process your winnings, please pay a small processing fee of Rs. 4,999 only.",
			"You need to transfer the processing fee to our official account. Send Rs. 4,999 to UPI ID: luckydraw@ybl or Account: 1234567890123456, IFSC: SBIN0001234",
			"Once payment is received, your Rs. 25 Lakhs will be transferred within 2 hours. Hurry, offer expires soon!",
			"Sir/Madam, I see you haven't paid yet. This is URGENT! Your prize will be cancelled if not claimed. Pay now to: scammer123@paytm",
		},
		RevealsInfoAfter: 2,
		BankAccount:      "1234567890123456",
		UPIID:            "luckydraw@ybl",
		Phone:            "+919876543210",
		PhishingLink:     "http://claim-prize-now.xyz/winner",
	},
	models.ScamTypeUPIFraud: {
		ScamType:       models.ScamTypeUPIFraud,
		Name:           "Cashback Expert",
		Persona:        "Bank cashback officer",
		InitialMessage: "Dear Customer, You have a pending cashback of Rs. 5,000 from your recent transactions. Send Rs. 10 to verify your UPI and receive Rs. 5,000 instantly!",
		FollowUps: []string{
			"To receive your cashback, please send Rs. 10 to our verification UPI: cashback@ybl",
			"I am sending you a collect request. Please approve it to verify your account and get Rs. 5,000.",
			"Sir, the verification is pending. Please click this link to complete: http://verify-cashback.tk/claim",
			"This is your last chance! Send Rs. 10 to 9876543210@paytm or your cashback will be cancelled!",
		},
		RevealsInfoAfter: 1,
		BankAccount:      "9876543210987654",
		UPIID:            "cashback@ybl",
		Phone:            "+919123456789",
		PhishingLink:     "http://verify-cashback.tk/claim",
	},
	models.ScamTypeJobScam: {
		ScamType:       models.ScamTypeJobScam,
		Name:           "HR Manager - TechCorp",
		Persona:        "Corporate HR recruiter",
		InitialMessage: "Hiring Alert! Work from Home opportunity. Earn Rs. 15,000 - Rs. 50,000 per month. No experience needed. Part-time/Full-time available. Interested candidates reply with 'YES'",
		FollowUps: []string{
			"Great! We have an opening for Data Entry Operator. Salary: Rs. 35,000/month. To proceed, we need your registration fee of Rs. 500.",
			"Registration fee is mandatory for ID card and training materials. Pay Rs. 500 to: jobs@ybl",
			"Your job is confirmed! Pay registration fee to Account: 5678901234567890, IFSC: HDFC0001234. Start earning tomorrow!",
			"Last chance to join. Pay Rs. 500 now or lose this opportunity. Contact: +918765432109",
		},
		RevealsInfoAfter: 2,
		BankAccount:      "5678901234567890",
		UPIID:            "jobs@ybl",
		Phone:            "+918765432109",
		PhishingLink:     "http://techcorp-jobs.online/register",
	},
	models.ScamTypeKYCFraud: {
		ScamType:       models.ScamTypeKYCFraud,
		Name:           "Bank Security Officer",
		Persona:        "Official bank representative",
		InitialMessage: "URGENT: Your bank account will be BLOCKED within 24 hours due to incomplete KYC. Update your KYC immediately by clicking the link below to avoid account suspension.",
		FollowUps: []string{
			"Dear Customer, your account ending XXXX7890 requires immediate KYC update. Click here: http://bank-kyc-update.xyz",
			"If you don't update KYC, your account will be frozen. Share your Aadhaar number and PAN card for verification.",
			"To verify, send Rs. 1 to our official ID: kycverify@sbi and share the transaction screenshot.",
			"FINAL WARNING: Update KYC now at http://secure-bank-login.tk or face permanent account closure!",
		},
		RevealsInfoAfter: 1,
		BankAccount:      "1111222233334444",
		UPIID:            "kycverify@sbi",
		Phone:            "+917654321098",
		PhishingLink:     "http://bank-kyc-update.xyz",
	},
	models.ScamTypeRomance: {
		ScamType:       models.ScamTypeRomance,
		Name:           "Sophia Williams",
		Persona:        "Foreign woman seeking relationship",
		InitialMessage: "Hello dear! I found your profile and felt a connection. I'm Sophia from USA, currently working as a nurse. Would love to know you better.",
		FollowUps: []string{
			"You are such a wonderful person! I feel we have a special bond. I want to visit you in India soon.",
			"I have booked my tickets! But there's a problem - my luggage got stuck at customs. They are asking for Rs. 25,000 to release it.",
			"Please help me dear! Send money to this account: 9999888877776666, IFSC: AXIS0001234. I will repay when I arrive.",
			"I am stuck at the airport! Please send money urgently to my agent: romance@ybl. I love you so much!",
		},
		RevealsInfoAfter: 3,
		BankAccount:      "9999888877776666",
		UPIID:            "romance@ybl",
		Phone:            "+919988776655",
		PhishingLink:     "http://dating-profile.xyz/sophia",
	},
	models.ScamTypeTechSupport: {
		ScamType:       models.ScamTypeTechSupport,
		Name:           "Microsoft Support",
		Persona:        "Technical support representative",
		InitialMessage: "SECURITY ALERT: Your computer has been infected with a dangerous virus! Your data is at risk. Call our toll-free number IMMEDIATELY: 1800-XXX-XXXX or reply to get remote assistance.",
		FollowUps: []string{
			"Our technician will fix your computer remotely. Please download TeamViewer and share the access code with us.",
			"To remove the virus, we need to install security software. One-time cost: Rs. 3,999. Pay to our tech support ID: techsupport@ybl",
			"URGENT! Hackers are accessing your bank account right now. Transfer your money to this safe account: 7777666655554444, IFSC: ICIC0001234",
			"Your computer will crash in 10 minutes! Pay Rs. 3,999 NOW to fix: http://microsoft-support.tk/fix",
		},
		RevealsInfoAfter: 2,
		BankAccount:      "7777666655554444",
		UPIID:            "techsupport@ybl",
		Phone:            "+918899776655",
		PhishingLink:     "http://microsoft-support.tk/fix",
	},
}

var scamTypeOrder = []models.ScamType{
	models.ScamTypeLottery,
	models.ScamTypeUPIFraud,
	models.ScamTypeJobScam,
	models.ScamTypeKYCFraud,
	models.ScamTypeRomance,
	models.ScamTypeTechSupport,
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:I am|I'm|my name is|this is)\s+([A-Z][a-z]+)`),
	regexp.MustCompile(`^([A-Z][a-z]+)$`),
}

// Scammer plays one scripted scammer across a conversation.
type Scammer struct {
	profile       Profile
	exchangeCount int
	infoRevealed  bool
}

// NewScammer builds a scammer of the given type; an empty or unknown type
// picks one at random.
func NewScammer(scamType string, rng *rand.Rand) *Scammer {
	profile, ok := profiles[models.ScamType(scamType)]
	if !ok {
		if rng == nil {
			profile = profiles[models.ScamTypeLottery]
		} else {
			profile = profiles[scamTypeOrder[rng.Intn(len(scamTypeOrder))]]
		}
	}
	return &Scammer{profile: profile}
}

// InitialMessage returns the scripted opening.
func (s *Scammer) InitialMessage() string {
	return s.profile.InitialMessage
}

// Respond returns the next scripted follow-up, substituting the victim's
// name when one is detectable in their message. The script sticks to its
// final follow-up once exhausted.
func (s *Scammer) Respond(victimMessage string) string {
	s.exchangeCount++

	idx := s.exchangeCount - 1
	if idx >= len(s.profile.FollowUps) {
		idx = len(s.profile.FollowUps) - 1
	}
	response := s.profile.FollowUps[idx]

	name := extractName(victimMessage)
	if name == "" {
		name = "Customer"
	}
	response = strings.ReplaceAll(response, "{name}", name)

	if s.exchangeCount >= s.profile.RevealsInfoAfter {
		s.infoRevealed = true
	}
	return response
}

// Profile exposes the active script.
func (s *Scammer) Profile() Profile {
	return s.profile
}

// RevealedInfo reports whether the script has reached its reveal point.
func (s *Scammer) RevealedInfo() bool {
	return s.infoRevealed
}

// ExchangeCount reports how many victim messages have been answered.
func (s *Scammer) ExchangeCount() int {
	return s.exchangeCount
}

// ScamTypes lists the scriptable scam types.
func ScamTypes() []string {
	out := make([]string, 0, len(scamTypeOrder))
	for _, t := range scamTypeOrder {
		out = append(out, string(t))
	}
	return out
}

func extractName(message string) string {
	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			return m[1]
		}
	}
	return ""
}

