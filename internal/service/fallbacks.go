package service

import (
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/metrics"
)

// Canned payloads served when the model gives nothing usable. Every feature
// keeps its own response schema so the client always renders something.

func countFallback(feature string, reason ai.Failure) {
	metrics.AIFallbacks.WithLabelValues(feature, string(reason)).Inc()
}

var prescriptionReasons = map[ai.Failure]string{
	ai.FailureQuota:       "AI Quota exceeded. Please check your Gemini billing details.",
	ai.FailureCredential:  "Invalid Gemini API key. Please check the server configuration.",
	ai.FailureUnavailable: "AI analysis service is temporarily unavailable",
	ai.FailureMalformed:   "Analysis failed to format correctly",
	ai.FailureEmpty:       "No response from AI service",
}

func prescriptionFallback(reason ai.Failure) domain.PrescriptionAnalysis {
	summary, ok := prescriptionReasons[reason]
	if !ok {
		summary = "AI analysis is currently unavailable. Please consult your healthcare provider for medication information."
	}
	return domain.PrescriptionAnalysis{
		Summary: summary,
		Medications: []domain.Medication{{
			Name:         "Analysis unavailable",
			Purpose:      "Please try again or consult your pharmacist",
			Dosage:       "As prescribed",
			Frequency:    "As directed",
			Instructions: "Follow professional guidance",
			SideEffects:  []string{"Consult healthcare provider"},
			Warnings:     []string{"Please verify with your doctor"},
		}},
		ImportantNotes: []string{
			"Take medications as prescribed",
			"Consult your pharmacist for questions",
			"Keep regular medical appointments",
		},
		Disclaimer: "This AI service is temporarily limited. Always consult healthcare professionals for medical advice.",
	}
}

var stripReasons = map[ai.Failure]string{
	ai.FailureQuota:       "AI Quota exceeded. Please check your billing.",
	ai.FailureCredential:  "Invalid API key.",
	ai.FailureUnavailable: "OCR analysis service is temporarily unavailable",
	ai.FailureEmpty:       "No response from AI service",
}

// malformed output has no dedicated message and uses the generic texts
func stripFallback(reason ai.Failure, now time.Time) domain.StripScan {
	name := "Unable to read text clearly"
	reasoning := "OCR analysis failed. Please check expiry date manually and dispose if expired."
	if msg, ok := stripReasons[reason]; ok {
		name, reasoning = msg, msg
	}
	return domain.StripScan{
		Name:           name,
		Manufacturer:   "Please check manually",
		ExpiryDate:     now.AddDate(1, 0, 0).Format("2006-01-02"),
		BatchNumber:    "Unknown",
		Strength:       "Please check packaging",
		IsExpired:      false,
		Recommendation: domain.RecommendDispose,
		Reasoning:      reasoning,
	}
}

func otcFallback() domain.OTCAdvice {
	return domain.OTCAdvice{
		Recommendations: []domain.OTCRecommendation{{
			Medicine:    "Consult pharmacist for recommendations",
			Type:        "Professional guidance",
			Dosage:      "As recommended by pharmacist",
			Duration:    "As advised",
			SideEffects: []string{"Varies by medication"},
			Warnings:    []string{"Consult healthcare provider"},
		}},
		GeneralAdvice:   "Please consult a pharmacist or healthcare provider for appropriate recommendations.",
		WhenToSeeDoctor: "If symptoms persist or worsen, seek medical attention immediately.",
		Disclaimer:      "AI recommendations are unavailable. Please consult healthcare professionals.",
	}
}

func disposalFallback() domain.DisposalAdvice {
	return domain.DisposalAdvice{
		Recommendation: domain.RecommendDispose,
		Reasoning:      "Unable to analyze medicine information. For safety, we recommend proper disposal.",
		Instructions: []string{
			"Check expiry date manually",
			"Contact local pharmacy for disposal programs",
			"Do not throw in regular trash",
		},
		Resources: []string{"Local pharmacy", "Healthcare provider", "Municipal waste programs"},
		Warnings:  []string{"Never share prescription medications", "Always dispose of expired medicines safely"},
	}
}

func guidelinesFallback() domain.DisposalGuidelines {
	return domain.DisposalGuidelines{
		Guidelines: domain.Guidelines{
			General: []string{
				"Remove or black out personal information on prescription labels",
				"Keep medicines in original containers when possible",
				"Do not crush or dissolve medicines unless specifically instructed",
				"Never flush medicines down the toilet unless specifically directed",
			},
			SafeDisposal: []string{
				"Use FDA-approved disposal programs",
				"Take to pharmacy take-back programs",
				"Use municipal hazardous waste programs",
				"Follow DEA National Prescription Drug Take Back events",
			},
			SpecificTypes: domain.SpecificDisposal{
				Controlled: []string{
					"Contact DEA-authorized collection sites",
					"Use mail-back programs for controlled substances",
					"Never give to unauthorized persons",
				},
				Liquid: []string{
					"Do not pour down drains",
					"Absorb with kitty litter or coffee grounds",
					"Seal in plastic bag before disposal",
				},
				Inhalers: []string{
					"Check if inhaler is empty",
					"Follow manufacturer instructions",
					"Some inhalers are recyclable",
				},
			},
			Emergency: []string{
				"If no take-back program available, mix with unpalatable substance",
				"Place in sealed container",
				"Throw in household trash",
				"Remove personal information from labels",
			},
		},
		LocalResources: []domain.LocalResource{{
			Name:        "Local Pharmacy Chain",
			Type:        "Pharmacy take-back",
			Description: "Most major pharmacy chains accept expired medicines",
			Contact:     "Visit pharmacy customer service",
		}},
	}
}

const (
	chatEmptyReply = "I'm here to help with health-related questions. Please note that I'm an AI assistant and cannot replace professional medical advice. How can I assist you today?"
	chatErrorReply = "I'm experiencing some technical difficulties. Please try again later. For urgent medical concerns, please contact your healthcare provider."
)

func chatFallback(reason ai.Failure) string {
	if reason == ai.FailureEmpty {
		return chatEmptyReply
	}
	return chatErrorReply
}
