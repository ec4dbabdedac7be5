package scenario

// InterventionTemplate is a pre-defined scenario with an evidence-backed
// suggested reduction.
type InterventionTemplate struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Causes             []string `json:"causes"`
	SuggestedReduction float64  `json:"suggestedReduction"`
	EvidenceLevel      string   `json:"evidenceLevel"`
}

// Templates returns the built-in intervention catalog.
func Templates() []InterventionTemplate {
	return []InterventionTemplate{
		{
			ID:                 "malaria-control",
			Name:               "Malaria Control Program",
			Description:        "Bed nets, indoor spraying, and treatment access",
			Causes:             []string{"Malaria"},
			SuggestedReduction: 30,
			EvidenceLevel:      "high",
		},
		{
			ID:                 "road-safety",
			Name:               "Road Safety Initiative",
			Description:        "Speed limits, seat belt laws, drunk driving enforcement",
			Causes:             []string{"Road injuries"},
			SuggestedReduction: 25,
			EvidenceLevel:      "high",
		},
		{
			ID:                 "cvd-prevention",
			Name:               "Cardiovascular Prevention",
			Description:        "Tobacco control, salt reduction, hypertension treatment",
			Causes:             []string{"Cardiovascular diseases"},
			SuggestedReduction: 15,
			EvidenceLevel:      "high",
		},
		{
			ID:                 "hiv-treatment",
			Name:               "HIV/AIDS Treatment Scale-up",
			Description:        "Antiretroviral therapy access expansion",
			Causes:             []string{"HIV/AIDS"},
			SuggestedReduction: 40,
			EvidenceLevel:      "high",
		},
		{
			ID:                 "drowning-prevention",
			Name:               "Drowning Prevention",
			Description:        "Swimming lessons, barriers, supervision",
			Causes:             []string{"Drowning"},
			SuggestedReduction: 50,
			EvidenceLevel:      "medium",
		},
		{
			ID:                 "respiratory-care",
			Name:               "Respiratory Disease Management",
			Description:        "Pneumonia vaccines, air quality, treatment access",
			Causes:             []string{"Lower respiratory infections", "Chronic respiratory diseases"},
			SuggestedReduction: 20,
			EvidenceLevel:      "medium",
		},
		{
			ID:                 "mental-health",
			Name:               "Mental Health & Suicide Prevention",
			Description:        "Crisis services, treatment access, stigma reduction",
			Causes:             []string{"Self-harm"},
			SuggestedReduction: 20,
			EvidenceLevel:      "medium",
		},
		{
			ID:                 "ncd-comprehensive",
			Name:               "Comprehensive NCD Program",
			Description:        "Multi-cause non-communicable disease prevention",
			Causes:             []string{"Cardiovascular diseases", "Neoplasms", "Diabetes mellitus", "Chronic respiratory diseases"},
			SuggestedReduction: 10,
			EvidenceLevel:      "medium",
		},
	}
}

// FindTemplate looks up a template by its ID.
func FindTemplate(id string) (InterventionTemplate, bool) {
	for _, tpl := range Templates() {
		if tpl.ID == id {
			return tpl, true
		}
	}

	return InterventionTemplate{}, false
}
