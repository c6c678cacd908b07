package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
)

// Feature names label AI metrics, spans and fallbacks.
const (
	FeaturePrescription = "prescription"
	FeatureStrip        = "strip_ocr"
	FeatureOTC          = "otc"
	FeatureDisposal     = "donate_dispose"
	FeatureGuidelines   = "disposal_guidelines"
	FeatureChat         = "chatbot"
)

const prescriptionPrompt = `
You are a medical AI assistant. Analyze the following prescription/medical report text and provide a structured response:

Text: "%s"

Please provide:
1. A plain language summary of the medical document
2. A list of medications with their purposes, dosages, and frequencies
3. Specific instructions for each medication (how to take, when to stop, etc.)
4. Important health notes or warnings specifically mentioned in the report

Format your response as JSON with this structure:
{
  "summary": "Brief explanation in simple terms",
  "medications": [
    {
      "name": "Medicine name and strength",
      "purpose": "What this medicine treats",
      "dosage": "Amount per dose",
      "frequency": "How often to take",
      "instructions": "Specific way to take this medicine",
      "sideEffects": ["list", "of", "common", "side", "effects"],
      "warnings": ["specific", "warnings"]
    }
  ],
  "importantNotes": ["list", "of", "general", "important", "health", "notes"],
  "disclaimer": "Medical disclaimer text"
}
`

const stripPrompt = `
Analyze this OCR text from a medicine strip/package and extract structured information:

OCR Text: "%s"

Extract and provide this information in JSON format:
{
  "name": "Medicine name",
  "manufacturer": "Company name",
  "expiryDate": "YYYY-MM-DD format",
  "batchNumber": "Batch/Lot number",
  "strength": "Dosage strength",
  "isExpired": false,
  "recommendation": "keep|donate|dispose",
  "reasoning": "Explanation for recommendation"
}

If expiry date suggests medicine is expired, set isExpired to true and recommendation to "dispose".
If medicine is not expired, recommend "donate" for unused medicines or "keep" for current use.
`

const otcPrompt = `
As a medical AI assistant, provide over-the-counter medicine recommendations for these symptoms: "%s"
%s
Please provide a structured response in JSON format:
{
  "recommendations": [
    {
      "medicine": "OTC medicine name",
      "type": "Medicine category (pain reliever, antacid, etc.)",
      "dosage": "Typical adult dosage",
      "duration": "How long to use",
      "sideEffects": ["common", "side", "effects"],
      "warnings": ["important", "warnings"]
    }
  ],
  "generalAdvice": "General health advice for these symptoms",
  "whenToSeeDoctor": "Warning signs that require medical attention",
  "disclaimer": "Important medical disclaimer"
}

Important: Only recommend common, safe OTC medicines. Include strong medical disclaimers.
`

const disposalPrompt = `
Based on this medicine information, provide a recommendation on whether to keep, donate, or dispose:

Medicine: %s

Consider:
- Expiry date
- Condition of medicine
- Type of medication
- Safety considerations

Respond in JSON format:
{
  "recommendation": "keep|donate|dispose",
  "reasoning": "Detailed explanation",
  "instructions": ["step", "by", "step", "instructions"],
  "resources": ["helpful", "resources", "or", "contacts"],
  "warnings": ["important", "safety", "warnings"]
}
`

const guidelinesPrompt = `
Provide detailed, safe disposal guidelines for %s medicines.
Location: %s

Respond in JSON format:
{
  "guidelines": {
    "general": ["important", "general", "rules"],
    "safeDisposal": ["official", "disposal", "methods"],
    "specificTypes": {
      "controlled": ["instructions", "for", "controlled", "substances"],
      "liquid": ["how", "to", "handle", "liquids"],
      "inhalers": ["inhaler", "disposal"]
    },
    "emergency": ["trash", "disposal", "steps"]
  },
  "localResources": [
    {
      "name": "Resource Name",
      "type": "Type of facility",
      "description": "How they help",
      "contact": "How to reach"
    }
  ]
}
`

const chatSystemPrompt = `You are MedWise AI, a helpful healthcare assistant. You help users understand prescriptions, manage medicines responsibly, and provide basic health information.
Guidelines:
- Always include medical disclaimers
- Don't provide specific medical diagnoses
- Encourage consulting healthcare providers for serious concerns
- Be helpful but emphasize the importance of professional medical advice
- Focus on education and general wellness information
`

func buildPrescriptionPrompt(text string) string {
	return fmt.Sprintf(prescriptionPrompt, text)
}

func buildStripPrompt(ocrText string) string {
	return fmt.Sprintf(stripPrompt, ocrText)
}

func buildOTCPrompt(symptoms string, info UserInfo) string {
	var b strings.Builder
	if info.Age != nil {
		fmt.Fprintf(&b, "Patient age: %g\n", *info.Age)
	}
	if info.Weight != nil {
		fmt.Fprintf(&b, "Patient weight (kg): %g\n", *info.Weight)
	}
	if len(info.Allergies) > 0 {
		fmt.Fprintf(&b, "Known allergies: %s\n", strings.Join(info.Allergies, ", "))
	}
	if len(info.CurrentMedications) > 0 {
		fmt.Fprintf(&b, "Current medications: %s\n", strings.Join(info.CurrentMedications, ", "))
	}
	return fmt.Sprintf(otcPrompt, symptoms, b.String())
}

func buildDisposalPrompt(m domain.Medicine) string {
	raw, _ := json.Marshal(m)
	return fmt.Sprintf(disposalPrompt, raw)
}

func buildGuidelinesPrompt(medicineType, location string) string {
	if medicineType == "" {
		medicineType = "general"
	}
	if location == "" {
		location = "General"
	}
	return fmt.Sprintf(guidelinesPrompt, medicineType, location)
}

func buildChatPrompt(history, message string) string {
	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	if history = strings.TrimSpace(history); history != "" {
		b.WriteString("\n\nConversation so far:\n")
		b.WriteString(history)
	}
	b.WriteString("\n\nUser Message: ")
	b.WriteString(message)
	return b.String()
}
