package models

// ScamType identifies a fraud category from the pattern library.
type ScamType string

const (
	ScamTypeLottery           ScamType = "lottery"
	ScamTypeUPIFraud          ScamType = "upi_fraud"
	ScamTypeJobScam           ScamType = "job_scam"
	ScamTypeKYCFraud          ScamType = "kyc_fraud"
	ScamTypeRomance           ScamType = "romance_scam"
	ScamTypeTechSupport       ScamType = "tech_support"
	ScamTypeSocialEngineering ScamType = "social_engineering"
)

// ClassificationResult is the outcome of rule-based scam analysis for a
// single message. Confidence is on a 0-100 scale; IsScam is true at 40+.
type ClassificationResult struct {
	IsScam                 bool                 `json:"is_scam"`
	Confidence             float64              `json:"confidence"`
	ScamType               ScamType             `json:"scam_type,omitempty"`
	Indicators             []string             `json:"indicators"`
	UrgencyDetected        bool                 `json:"urgency_detected"`
	SensitiveDataRequested bool                 `json:"sensitive_data_requested"`
	Scores                 map[ScamType]float64 `json:"all_scam_scores"`
}
