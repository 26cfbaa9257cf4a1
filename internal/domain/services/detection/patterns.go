package detection

import "honeynet-lab/internal/domain/models"

// CategoryPattern defines the keyword and regex signals for one scam
// category. Categories live in a slice, not a map: scoring iterates them
// in declaration order, which makes tie-breaking deterministic.
type CategoryPattern struct {
	Type     models.ScamType
	Keywords []string
	Patterns []string
	Weight   float64
}

// categoryPatterns is the built-in pattern library. Adding a category is a
// matter of appending an entry; the classifier treats all entries uniformly.
var categoryPatterns = []CategoryPattern{
	{
		Type: models.ScamTypeLottery,
		Keywords: []string{
			"congratulations", "winner", "won", "lottery", "prize", "lucky draw",
			"jackpot", "claim", "reward", "selected", "lakh", "crore", "million",
			"billion", "cash prize", "gift", "free money",
		},
		Patterns: []string{
			`won\s*(?:rs\.?|₹|inr)?\s*[\d,\.]+\s*(?:lakh|crore|lac)?`,
			`prize\s*(?:of|worth)?\s*(?:rs\.?|₹|inr)?\s*[\d,\.]+`,
			`claim\s*(?:your)?\s*(?:prize|reward|gift)`,
			`(?:processing|handling|transfer|release)\s*fee`,
		},
		Weight: 1.0,
	},
	{
		Type: models.ScamTypeUPIFraud,
		Keywords: []string{
			"upi", "paytm", "phonepe", "gpay", "google pay", "bhim", "send money",
			"transfer", "pay now", "payment link", "collect request", "upi id",
			"verify account", "receive money", "cashback",
		},
		Patterns: []string{
			`[a-zA-Z0-9._-]+@[a-zA-Z]+`,
			`upi://pay\?`,
			`send\s*(?:rs\.?|₹)?\s*\d+\s*(?:to)?\s*(?:receive|get)`,
		},
		Weight: 1.2,
	},
	{
		Type: models.ScamTypeJobScam,
		Keywords: []string{
			"work from home", "earn money", "part time", "full time", "hiring",
			"job offer", "salary", "income", "per day", "per month", "weekly",
			"no experience", "easy money", "guaranteed income", "registration fee",
		},
		Patterns: []string{
			`earn\s*(?:rs\.?|₹)?\s*[\d,]+\s*(?:per|/)\s*(?:day|week|month)`,
			`(?:salary|income)\s*(?:of|:)?\s*(?:rs\.?|₹)?\s*[\d,]+`,
			`registration\s*fee`,
		},
		Weight: 0.9,
	},
	{
		Type: models.ScamTypeKYCFraud,
		Keywords: []string{
			"kyc", "verification", "account blocked", "suspended", "update",
			"expire", "verify", "bank account", "pan card", "aadhaar", "aadhar",
			"document", "urgent", "immediately", "within 24 hours", "link below",
		},
		Patterns: []string{
			`(?:account|card)\s*(?:will be|is)\s*(?:blocked|suspended|closed)`,
			`(?:update|verify)\s*(?:your)?\s*kyc`,
			`(?:pan|aadhaar|aadhar)\s*(?:card|number|details)`,
		},
		Weight: 1.1,
	},
	{
		Type: models.ScamTypeRomance,
		Keywords: []string{
			"love", "dear", "darling", "sweetheart", "beautiful", "handsome",
			"lonely", "relationship", "marriage", "meet", "video call", "gift",
			"customs", "shipping", "stuck", "help me", "send money", "western union",
		},
		Patterns: []string{
			`(?:send|need)\s*(?:me)?\s*(?:money|funds|help)`,
			`(?:stuck|stranded)\s*(?:at|in)\s*(?:airport|customs)`,
			`(?:love|miss)\s*you\s*(?:so much)?`,
		},
		Weight: 0.8,
	},
	{
		Type: models.ScamTypeTechSupport,
		Keywords: []string{
			"virus", "malware", "hacked", "compromised", "security alert",
			"microsoft", "windows", "apple", "remote access", "teamviewer",
			"anydesk", "call now", "toll free", "tech support",
		},
		Patterns: []string{
			`(?:your)?\s*(?:computer|system|device)\s*(?:is|has been)\s*(?:infected|hacked|compromised)`,
			`call\s*(?:us|now|immediately)\s*(?:at|on)?\s*[\d-]+`,
		},
		Weight: 1.0,
	},
	{
		Type: models.ScamTypeSocialEngineering,
		Keywords: []string{
			"issue", "flagged", "restriction", "restricted", "verify", "verification",
			"confirm", "confirmation", "account", "suspicious", "unusual activity",
			"security", "access", "blocked", "suspended", "hold", "freeze",
			"action required", "attention", "important", "notification", "alert",
			"tried reaching", "couldn't reach", "didn't receive", "no response",
			"available", "earliest", "proceed", "process",
		},
		Patterns: []string{
			`issue\s*(?:flagged|detected|found|reported)`,
			`(?:restriction|block|suspend)\s*(?:will|doesn't|won't)\s*proceed`,
			`verify\s*(?:at\s*the\s*earliest|immediately|now|asap)`,
			`(?:tried|couldn't|didn't)\s*(?:reaching|reach|contact|receive)`,
			`(?:your)?\s*account\s*(?:has been|is|will be)`,
			`(?:let me know|confirm|reply)\s*(?:once|when|if)\s*(?:you're|you are)\s*available`,
		},
		Weight: 1.0,
	},
}

// urgencyIndicators raise confidence when the sender pushes for speed.
var urgencyIndicators = []string{
	"urgent", "immediately", "now", "today", "hurry", "limited time",
	"act fast", "don't delay", "expire", "last chance", "final notice",
	"within 24 hours", "within 48 hours", "asap", "right now",
	"at the earliest", "as soon as possible", "time sensitive", "action required",
	"respond immediately", "before it's too late", "don't ignore", "must verify",
	"without delay", "promptly", "restriction", "will be blocked", "will proceed",
}

// sensitiveDataRequests raise confidence when credentials or account
// details are being solicited.
var sensitiveDataRequests = []string{
	"bank account", "account number", "ifsc", "credit card", "debit card",
	"cvv", "otp", "password", "pin", "upi pin", "aadhaar", "aadhar",
	"pan card", "passport", "social security",
}

// Categories returns the pattern library in scoring order.
func Categories() []CategoryPattern {
	return categoryPatterns
}
