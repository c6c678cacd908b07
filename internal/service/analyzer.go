package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/helper"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"go.uber.org/zap"
)

const (
	minPrescriptionText = 10
	minStripText        = 3
	historyLimit        = 20
)

// Analyzer covers the upload-driven features: prescription analysis and strip scanning.
type Analyzer struct {
	AI    ai.Gateway
	Text  TextExtractor
	Scans HistoryStore
	Now   func() time.Time
}

type PrescriptionResult struct {
	domain.PrescriptionAnalysis
	FileInfo      ingest.FileInfo `json:"fileInfo"`
	ExtractedText string          `json:"extractedText"`
}

type StripResult struct {
	domain.StripScan
	FileInfo   ingest.FileInfo `json:"fileInfo"`
	OCRText    string          `json:"ocrText"`
	Confidence string          `json:"confidence"`
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Prescription extracts text from a PDF or image and asks the model to explain it.
// uid is empty for anonymous callers; signed-in callers get the result saved.
func (a *Analyzer) Prescription(ctx context.Context, f *ingest.File, uid string) (*PrescriptionResult, error) {
	if f == nil {
		return nil, invalid("No file uploaded", "Please upload a prescription file (PDF or image)")
	}
	if !ingest.Validate(f, ingest.PrescriptionTypes) {
		return nil, invalid("Invalid file type", "Only PDF and image files are supported")
	}

	text, err := a.extract(ctx, f)
	if err != nil {
		return nil, err
	}
	if len([]rune(text)) < minPrescriptionText {
		return nil, invalid("No readable text found",
			"Could not extract readable text from the file. Please ensure the image is clear and contains text.")
	}

	res := a.AI.Generate(ctx, FeaturePrescription, buildPrescriptionPrompt(text))
	var analysis domain.PrescriptionAnalysis
	if reason := ai.DecodeJSON(res, &analysis); reason != ai.FailureNone {
		countFallback(FeaturePrescription, reason)
		analysis = prescriptionFallback(reason)
	}

	out := &PrescriptionResult{
		PrescriptionAnalysis: analysis,
		FileInfo:             f.Info(),
		ExtractedText:        helper.Truncate(text, 500),
	}
	a.remember(ctx, &domain.ScanRecord{
		UserID: uid, Kind: domain.ScanKindPrescription, FileName: f.Name, Prescription: &analysis,
	})
	return out, nil
}

// Strip reads a photographed medicine strip and settles its keep/donate/dispose outcome.
func (a *Analyzer) Strip(ctx context.Context, f *ingest.File, uid string) (*StripResult, error) {
	if f == nil {
		return nil, invalid("No image uploaded", "Please upload an image of the medicine strip")
	}
	if !ingest.Validate(f, ingest.ImageTypes) {
		return nil, invalid("Invalid file type",
			"Only image files (JPEG, PNG, GIF, WEBP) are supported for strip scanning")
	}

	text, err := a.extract(ctx, f)
	if err != nil {
		return nil, err
	}
	if len([]rune(text)) < minStripText {
		return nil, invalid("No readable text found",
			"Could not extract readable text from the image. Please ensure the image is clear and well-lit.")
	}

	res := a.AI.Generate(ctx, FeatureStrip, buildStripPrompt(text))
	var scan domain.StripScan
	if reason := ai.DecodeJSON(res, &scan); reason != ai.FailureNone {
		countFallback(FeatureStrip, reason)
		scan = stripFallback(reason, a.now())
	} else {
		settleStrip(&scan, a.now())
	}

	out := &StripResult{
		StripScan:  scan,
		FileInfo:   f.Info(),
		OCRText:    helper.Truncate(text, 300),
		Confidence: "high",
	}
	a.remember(ctx, &domain.ScanRecord{
		UserID: uid, Kind: domain.ScanKindStrip, FileName: f.Name, Strip: &scan,
	})
	return out, nil
}

const (
	expiredReasoning = "Medicine has expired. Please dispose of it safely according to local guidelines."
	donateReasoning  = "Medicine is within expiry date and in good condition. Consider donating to local pharmacy or healthcare center."
)

// settleStrip applies the expiry date on top of what the model said. An expired
// pack is always disposed; an explicit "keep" from the model is left alone.
func settleStrip(s *domain.StripScan, now time.Time) {
	s.Recommendation = strings.ToLower(strings.TrimSpace(s.Recommendation))
	expired, ok := domain.Expired(s.ExpiryDate, now)
	if !ok {
		return
	}
	s.IsExpired = expired
	switch {
	case expired:
		s.Recommendation = domain.RecommendDispose
		s.Reasoning = expiredReasoning
	case s.Recommendation == "":
		s.Recommendation = domain.RecommendDonate
		s.Reasoning = donateReasoning
	}
}

// History lists the caller's stored analyses of one kind, newest first.
func (a *Analyzer) History(ctx context.Context, uid, kind string) ([]domain.ScanRecord, error) {
	if uid == "" || a.Scans == nil {
		return []domain.ScanRecord{}, nil
	}
	recs, err := a.Scans.ListScans(ctx, uid, kind, historyLimit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []domain.ScanRecord{}
	}
	return recs, nil
}

func (a *Analyzer) extract(ctx context.Context, f *ingest.File) (string, error) {
	text, err := a.Text.ExtractText(ctx, f)
	switch {
	case errors.Is(err, ingest.ErrOCRUnavailable):
		return "", err
	case err != nil:
		// битый файл: для клиента это просто "нет текста"
		log.Ctx(ctx).Info("text extraction failed",
			zap.String("mime", f.MIME), zap.Int64("size", f.Size), zap.Error(err))
		return "", nil
	}
	return text, nil
}

// remember never fails the request: history is best effort.
func (a *Analyzer) remember(ctx context.Context, rec *domain.ScanRecord) {
	if rec.UserID == "" || a.Scans == nil {
		return
	}
	rec.CreatedAt = a.now().UTC()
	if err := a.Scans.AddScan(ctx, rec); err != nil {
		log.Ctx(ctx).Warn("save scan history failed", zap.String("kind", rec.Kind), zap.Error(err))
	}
}
