package models

// ReportIntelligence is the fixed-key intelligence block of a final report.
// All five lists are always present, empty when nothing was captured.
type ReportIntelligence struct {
	PhoneNumbers   []string `json:"phoneNumbers"`
	BankAccounts   []string `json:"bankAccounts"`
	UPIIDs         []string `json:"upiIds"`
	PhishingLinks  []string `json:"phishingLinks"`
	EmailAddresses []string `json:"emailAddresses"`
}

// FinalReport is the end-of-engagement summary handed to reporting tools.
type FinalReport struct {
	SessionID                 string             `json:"sessionId"`
	ScamDetected              bool               `json:"scamDetected"`
	TotalMessagesExchanged    int                `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int64              `json:"engagementDurationSeconds"`
	ExtractedIntelligence     ReportIntelligence `json:"extractedIntelligence"`
	AgentNotes                string             `json:"agentNotes"`
	ScamType                  string             `json:"scamType"`
	ConfidenceLevel           float64            `json:"confidenceLevel"`
}
