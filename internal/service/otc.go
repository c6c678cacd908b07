package service

import (
	"context"
	"strings"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
)

type OTC struct {
	AI  ai.Gateway
	Now func() time.Time
}

type UserInfo struct {
	Age                *float64 `json:"age"`
	Weight             *float64 `json:"weight"`
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"currentMedications"`
}

type OTCQuery struct {
	Symptoms string   `json:"symptoms"`
	UserInfo UserInfo `json:"userInfo"`
}

type OTCResult struct {
	domain.OTCAdvice
	Query     OTCQuery  `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

type OTCSearch struct {
	Results []domain.OTCProduct `json:"results"`
	Query   string              `json:"query"`
	Total   int                 `json:"total"`
}

type OTCCategories struct {
	Categories []domain.OTCCategory `json:"categories"`
	Total      int                  `json:"total"`
}

func (o *OTC) Recommend(ctx context.Context, q OTCQuery) (*OTCResult, error) {
	if len([]rune(strings.TrimSpace(q.Symptoms))) < 2 {
		return nil, invalid("Invalid symptoms", "Please provide symptoms description (minimum 2 characters)")
	}
	if q.UserInfo.Allergies == nil {
		q.UserInfo.Allergies = []string{}
	}
	if q.UserInfo.CurrentMedications == nil {
		q.UserInfo.CurrentMedications = []string{}
	}

	res := o.AI.Generate(ctx, FeatureOTC, buildOTCPrompt(q.Symptoms, q.UserInfo))
	var advice domain.OTCAdvice
	if reason := ai.DecodeJSON(res, &advice); reason != ai.FailureNone {
		countFallback(FeatureOTC, reason)
		advice = otcFallback()
	}

	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return &OTCResult{OTCAdvice: advice, Query: q, Timestamp: now().UTC()}, nil
}

var otcCatalog = []domain.OTCProduct{
	{
		Name:        "Paracetamol",
		Category:    "Pain reliever",
		Description: "Common pain and fever reducer",
		Dosage:      "500mg every 4-6 hours",
		Warnings:    []string{"Do not exceed 4g per day", "Avoid alcohol"},
	},
	{
		Name:        "Ibuprofen",
		Category:    "Anti-inflammatory",
		Description: "Pain, inflammation, and fever reducer",
		Dosage:      "200-400mg every 4-6 hours",
		Warnings:    []string{"Take with food", "Avoid if stomach ulcers"},
	},
	{
		Name:        "Antacid",
		Category:    "Digestive",
		Description: "Neutralizes stomach acid",
		Dosage:      "As needed for heartburn",
		Warnings:    []string{"Do not use for more than 2 weeks"},
	},
}

// Search matches the query against product name or category, case-insensitive.
func (o *OTC) Search(query string) (*OTCSearch, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, invalid("Invalid search query", "Please provide a search term")
	}
	out := []domain.OTCProduct{}
	for _, p := range otcCatalog {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return &OTCSearch{Results: out, Query: query, Total: len(out)}, nil
}

var otcCategories = []domain.OTCCategory{
	{Name: "Pain Relief", Description: "Headaches, body aches, fever", Icon: "pill",
		Medicines: []string{"Paracetamol", "Ibuprofen", "Aspirin"}},
	{Name: "Digestive Health", Description: "Stomach issues, heartburn, nausea", Icon: "stomach",
		Medicines: []string{"Antacids", "Anti-diarrheal", "Probiotics"}},
	{Name: "Cold & Flu", Description: "Cough, congestion, runny nose", Icon: "thermometer",
		Medicines: []string{"Cough syrup", "Decongestants", "Throat lozenges"}},
	{Name: "Allergy Relief", Description: "Sneezing, itching, hives", Icon: "allergen",
		Medicines: []string{"Antihistamines", "Eye drops", "Nasal sprays"}},
	{Name: "Skin Care", Description: "Cuts, rashes, burns", Icon: "bandage",
		Medicines: []string{"Antiseptic", "Hydrocortisone", "Bandages"}},
	{Name: "Sleep & Wellness", Description: "Sleep aids, vitamins, supplements", Icon: "moon",
		Medicines: []string{"Melatonin", "Vitamins", "Minerals"}},
}

func (o *OTC) Categories() OTCCategories {
	return OTCCategories{Categories: otcCategories, Total: len(otcCategories)}
}
