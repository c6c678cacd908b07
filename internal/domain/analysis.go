package domain

// Payloads produced by the generative model (or by the static fallbacks).
// JSON names follow what the web client renders.

type Medication struct {
	Name         string   `json:"name"`
	Purpose      string   `json:"purpose"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Instructions string   `json:"instructions"`
	SideEffects  []string `json:"sideEffects"`
	Warnings     []string `json:"warnings"`
}

type PrescriptionAnalysis struct {
	Summary        string       `json:"summary"`
	Medications    []Medication `json:"medications"`
	ImportantNotes []string     `json:"importantNotes"`
	Disclaimer     string       `json:"disclaimer"`
}

type StripScan struct {
	Name           string `json:"name"`
	Manufacturer   string `json:"manufacturer"`
	ExpiryDate     string `json:"expiryDate"`
	BatchNumber    string `json:"batchNumber"`
	Strength       string `json:"strength"`
	IsExpired      bool   `json:"isExpired"`
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`
}

type OTCRecommendation struct {
	Medicine    string   `json:"medicine"`
	Type        string   `json:"type"`
	Dosage      string   `json:"dosage"`
	Duration    string   `json:"duration"`
	SideEffects []string `json:"sideEffects"`
	Warnings    []string `json:"warnings"`
}

type OTCAdvice struct {
	Recommendations []OTCRecommendation `json:"recommendations"`
	GeneralAdvice   string              `json:"generalAdvice"`
	WhenToSeeDoctor string              `json:"whenToSeeDoctor"`
	Disclaimer      string              `json:"disclaimer"`
}

type DisposalAdvice struct {
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
	Instructions   []string `json:"instructions"`
	Resources      []string `json:"resources"`
	Warnings       []string `json:"warnings"`
}

type SpecificDisposal struct {
	Controlled []string `json:"controlled"`
	Liquid     []string `json:"liquid"`
	Inhalers   []string `json:"inhalers"`
}

type Guidelines struct {
	General       []string         `json:"general"`
	SafeDisposal  []string         `json:"safeDisposal"`
	SpecificTypes SpecificDisposal `json:"specificTypes"`
	Emergency     []string         `json:"emergency"`
}

type LocalResource struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

type DisposalGuidelines struct {
	Guidelines     Guidelines      `json:"guidelines"`
	LocalResources []LocalResource `json:"localResources"`
}

// OTCProduct and OTCCategory back the static OTC catalog.
type OTCProduct struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Dosage      string   `json:"dosage"`
	Warnings    []string `json:"warnings"`
}

type OTCCategory struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Medicines   []string `json:"medicines"`
}
