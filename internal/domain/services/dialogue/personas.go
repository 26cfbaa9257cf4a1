package dialogue

import (
	"honeynet-lab/internal/domain/models"
)

// personaCatalog holds the built-in decoy identities. Each carries a full
// template bank per conversation phase; templates lean on casual Indian
// English to read as genuine victims.
var personaCatalog = map[models.PersonaType]*models.Persona{
	models.PersonaElderlyTrusting: {
		Type:            models.PersonaElderlyTrusting,
		Name:            "Sharmaji",
		Age:             68,
		Occupation:      "Retired Bank Manager",
		Traits:          []string{"trusting", "slow to respond", "asks for clarification", "polite"},
		VocabularyLevel: "simple",
		TrustLevel:      0.8,
		TechSavviness:   0.2,
		Templates: map[models.Phase][]string{
			models.PhaseInitialInterest: {
				"Oh my! I am a bit confused by your message. Is everything okay?",
				"Thank you beta, but how did you get my number?",
				"Really? This sounds important. Please tell me more.",
				"Oh dear! My pension is only 15,000. Please explain slowly what is happening.",
			},
			models.PhaseAskForDetails: {
				"Beta, I am not understanding this. Can you explain slowly?",
				"My son usually helps me with phone. What should I do?",
				"What is this for? I want to tell my son first.",
				"Sorry beta, my eyes are weak. Can you repeat the details?",
			},
			models.PhaseShowHesitation: {
				"But beta, why do I need to do this?",
				"My neighbor said there are many frauds nowadays. Is this real?",
				"Let me ask my son once. He works in IT company.",
				"I am a retired bank manager. This seems unusual...",
			},
			models.PhasePretendCompliance: {
				"Okay beta, I will try to follow. What is the next step?",
				"Give me details, I will go to bank tomorrow morning.",
				"My son is coming tonight. I will ask him to check from his phone.",
				"Write it properly so I can understand - what exactly is needed?",
			},
			models.PhaseExtractInfo: {
				"Beta, whose account or number is this? I need details.",
				"Are you from the main branch or office? What is the name?",
				"Give me your phone number also, in case I have a problem.",
				"What is the website where I can verify this?",
			},
		},
	},
	models.PersonaYoungProfessional: {
		Type:            models.PersonaYoungProfessional,
		Name:            "Priya Sharma",
		Age:             28,
		Occupation:      "Software Developer",
		Traits:          []string{"skeptical", "asks technical questions", "pretends to verify"},
		VocabularyLevel: "advanced",
		TrustLevel:      0.3,
		TechSavviness:   0.9,
		Templates: map[models.Phase][]string{
			models.PhaseInitialInterest: {
				"Interesting! How did you get my number? Is this from some registration I did?",
				"Hmm, which company or department are you from?",
				"Okay, I'm listening. What's the process?",
				"I've heard about these things. Is this legitimate?",
			},
			models.PhaseAskForDetails: {
				"Can you share the official website? I want to verify.",
				"What's the company or branch registration number? I'll check online.",
				"Send me an email from your official domain.",
				"What are the exact details for this transaction?",
			},
			models.PhaseShowHesitation: {
				"This sounds like a scam. Can you prove it's not?",
				"Why is the process like this? It doesn't make sense.",
				"I'll report this number if this is fraud.",
				"Let me google this first.",
			},
			models.PhasePretendCompliance: {
				"Fine, I need all details for my records first.",
				"Okay, but I'm recording this conversation. Share the details.",
				"I'll proceed only after verification. Send me the exact ID.",
				"My CA will check this. Give me all the necessary info.",
			},
			models.PhaseExtractInfo: {
				"What's the bank account number? I'll do NEFT for paper trail.",
				"Share your Aadhaar-linked phone number for verification.",
				"I need the beneficiary name exactly as per records.",
				"Give me the website URL. I'll check the SSL certificate.",
			},
		},
	},
	models.PersonaNaiveStudent: {
		Type:            models.PersonaNaiveStudent,
		Name:            "Rahul Kumar",
		Age:             20,
		Occupation:      "College Student",
		Traits:          []string{"excited", "gullible", "asks many questions", "eager"},
		VocabularyLevel: "simple",
		TrustLevel:      0.7,
		TechSavviness:   0.6,
		Templates: map[models.Phase][]string{
			models.PhaseInitialInterest: {
				"OMG! Are you serious?! What is going on?",
				"Wait, how did you get my number? I'm just a student!",
				"Wow, what should I do next? Please tell me!",
				"Is this real?! I'm a student, I'm really tensed now!",
			},
			models.PhaseAskForDetails: {
				"Bro tell me everything! What should I do?",
				"Do I need to come somewhere? Where is your office?",
				"How much will this cost? I only have little money in account.",
				"Can I do it later? I'm in class right now.",
			},
			models.PhaseShowHesitation: {
				"Wait, my friend said these are scams. Is this real?",
				"Why do I need to follow these steps? Seems weird na?",
				"Let me ask my father. He will know.",
				"Hmmm this sounds fishy...",
			},
			models.PhasePretendCompliance: {
				"Okay okay! Send me the details! I'll ask roommate to help!",
				"I can only do a little bit right now. Is that okay?",
				"Doing it now! Give me the info!",
				"Done! Wait let me copy the details. Say again?",
			},
			models.PhaseExtractInfo: {
				"Whose account or number is this? What if it fails?",
				"Give me your WhatsApp number bro, I'll send screenshot.",
				"What's your name sir? I want to tell my parents.",
				"Send me the link again, I closed the window.",
			},
		},
	},
	models.PersonaCuriousHousewife: {
		Type:            models.PersonaCuriousHousewife,
		Name:            "Sunita Devi",
		Age:             45,
		Occupation:      "Housewife",
		Traits:          []string{"curious", "talkative", "mentions family"},
		VocabularyLevel: "simple",
		TrustLevel:      0.6,
		TechSavviness:   0.3,
		Templates: map[models.Phase][]string{
			models.PhaseInitialInterest: {
				"Arey! Ye kya message hai? Mujhe theek se samajh nahi aa raha.",
				"Hamare number pe aaya? Husband ko bataungi, par hua kya hai?",
				"Arey baap re! Ye sab kya hai? Main kya karoon ab?",
				"Kaun bol raha hai? Kahan se mila mera number?",
			},
			models.PhaseAskForDetails: {
				"Ye sab kaise karte hain? Main toh bas message padh rahi hoon.",
				"Kitna time lagega? Husband se poochna padega.",
				"Kahan bhejun details? Sab theek se batao na.",
				"Likh leti hoon... ek minute, pen le kar aati hoon.",
			},
			models.PhaseShowHesitation: {
				"Padosi ne kaha tha ye sab fraud hai. Sach bol rahe ho na?",
				"Husband mana karenge... unko bataye bina nahi lag kar sakti.",
				"Aap kahan se bol rahe ho? Proof dikhao na.",
				"Agar fake nikla toh? Mere ghar mein tension ho jayega.",
			},
			models.PhasePretendCompliance: {
				"Theek hai, kal husband aayenge toh kar dungi.",
				"Abhi batao kya karna hai, likh leti hoon diary mein.",
				"Kaise karna hai? Mujhe steps batao.",
				"Subah 10 baje bank khulega, tab karungi. Yaad dilaana!",
			},
			models.PhaseExtractInfo: {
				"Account ya kiski naam pe hai? Main verify karungi.",
				"Aapka naam kya hai? Kahan ki company hai ye?",
				"Phone number dijiye, kal call karke confirm karungi.",
				"Website hai koi? Husband ko dikhaungi, wo computer chalate hain.",
			},
		},
	},
	models.PersonaEagerJobseeker: {
		Type:            models.PersonaEagerJobseeker,
		Name:            "Amit Verma",
		Age:             24,
		Occupation:      "Unemployed Graduate",
		Traits:          []string{"desperate", "eager", "hopeful", "asks about legitimacy"},
		VocabularyLevel: "moderate",
		TrustLevel:      0.6,
		TechSavviness:   0.5,
		Templates: map[models.Phase][]string{
			models.PhaseInitialInterest: {
				"Hello! I am Amit. I read your message. Can you explain what this is about?",
				"This is very sudden! Please give me more details.",
				"I can follow instructions. What's the process?",
				"Sir, I'm a B.Com graduate and looking for opportunities. Is this legitimate?",
			},
			models.PhaseAskForDetails: {
				"What exactly do I need to do? What software do I need?",
				"Can you guide me step by step? I'm a fast learner!",
				"When will this be completed? Is it urgent?",
				"Can you explain the exact process?",
			},
			models.PhaseShowHesitation: {
				"Sir, my friend said these messages are often fake...",
				"Can you share an official website? I want to check reviews.",
				"Is this linked anywhere officially? Can you share a link?",
				"This seems suspicious... is there any other way?",
			},
			models.PhasePretendCompliance: {
				"Okay sir, I will try to arrange what you need. Please share details.",
				"I'm ready. Should I do it through browser or app?",
				"My father is helping me. Share the exact details.",
				"I'll do it now itself. Give me the info sir.",
			},
			models.PhaseExtractInfo: {
				"What is the registered name of your organization? For my records.",
				"Give me a contact number. I want to call and confirm.",
				"Where is the office located? I want to verify.",
				"Sir please share an official ID or linked profile.",
			},
		},
	},
}

// personaOrder gives a stable enumeration for random selection.
var personaOrder = []models.PersonaType{
	models.PersonaElderlyTrusting,
	models.PersonaYoungProfessional,
	models.PersonaNaiveStudent,
	models.PersonaCuriousHousewife,
	models.PersonaEagerJobseeker,
}

// Probing question banks keyed by the intelligence still missing.
var (
	bankProbes = []string{
		"Can you share bank account and IFSC code?",
		"What is your bank account number?",
		"Give me account details for transfer.",
		"Which bank should I transfer to?",
	}
	handleProbes = []string{
		"What is your UPI ID?",
		"Share your GPay/PhonePe/Paytm number.",
		"Can I pay through UPI? Give me the ID.",
		"UPI payment is easier for me. What's your ID?",
	}
	linkProbes = []string{
		"Do you have a website I can verify?",
		"Send me the official link.",
		"Where can I check if this is real?",
		"Share your company website.",
	}
	phoneProbes = []string{
		"What is your phone number?",
		"Give me your contact number.",
		"Can I call you to confirm?",
		"Share your WhatsApp number.",
	}
	genericProbes = []string{
		"Tell me more about yourself.",
		"How does this work exactly?",
		"What happens after I pay?",
		"Who else is involved in this?",
	}
)

// LookupPersona resolves a persona by type name; ok is false for unknown
// names.
func LookupPersona(name string) (*models.Persona, bool) {
	p, ok := personaCatalog[models.PersonaType(name)]
	return p, ok
}

// PersonaTypes lists the available persona type names in catalog order.
func PersonaTypes() []string {
	names := make([]string, 0, len(personaOrder))
	for _, t := range personaOrder {
		names = append(names, string(t))
	}
	return names
}
