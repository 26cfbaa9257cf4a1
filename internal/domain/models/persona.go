package models

// PersonaType identifies one of the built-in decoy identities.
type PersonaType string

const (
	PersonaElderlyTrusting   PersonaType = "elderly_trusting"
	PersonaYoungProfessional PersonaType = "young_professional"
	PersonaNaiveStudent      PersonaType = "naive_student"
	PersonaCuriousHousewife  PersonaType = "curious_housewife"
	PersonaEagerJobseeker    PersonaType = "eager_jobseeker"
)

// Phase is the current stage of a honeypot conversation. It is a pure
// function of the exchange count and whether payment intel has landed.
type Phase string

const (
	PhaseInitialInterest   Phase = "initial_interest"
	PhaseAskForDetails     Phase = "ask_for_details"
	PhaseShowHesitation    Phase = "show_hesitation"
	PhasePretendCompliance Phase = "pretend_compliance"
	PhaseExtractInfo       Phase = "extract_info"
)

// Persona is an immutable decoy identity. Templates are keyed by phase;
// the dialogue engine tracks per-session usage separately so personas can
// be shared across sessions.
type Persona struct {
	Type            PersonaType          `json:"type"`
	Name            string               `json:"name"`
	Age             int                  `json:"age"`
	Occupation      string               `json:"occupation"`
	Traits          []string             `json:"traits"`
	VocabularyLevel string               `json:"vocabulary_level"` // simple, moderate, advanced
	TrustLevel      float64              `json:"trust_level"`      // 0.0 to 1.0
	TechSavviness   float64              `json:"tech_savviness"`   // 0.0 to 1.0
	Templates       map[Phase][]string   `json:"-"`
}

// Info is the persona summary surfaced in API responses.
type PersonaInfo struct {
	Type       PersonaType `json:"type"`
	Name       string      `json:"name"`
	Age        int         `json:"age"`
	Occupation string      `json:"occupation"`
	Traits     []string    `json:"traits"`
}

// Info returns the externally visible persona summary.
func (p *Persona) Info() PersonaInfo {
	return PersonaInfo{
		Type:       p.Type,
		Name:       p.Name,
		Age:        p.Age,
		Occupation: p.Occupation,
		Traits:     p.Traits,
	}
}
