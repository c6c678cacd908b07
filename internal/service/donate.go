package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/queue"
	"go.uber.org/zap"
)

const (
	centersDisclaimer    = "Please contact centers directly to confirm current donation policies"
	guidelinesDisclaimer = "Guidelines may vary by location. Check with local authorities for specific requirements."
	donationThanks       = "Thank you for your donation! Your contribution helps others in need."
)

type Donations struct {
	AI       ai.Gateway
	Centers  CenterStore
	Reports  ReportStore
	Pub      queue.Publisher
	Exchange string
	Now      func() time.Time
}

type Recommendation struct {
	domain.DisposalAdvice
	IsExpired    bool            `json:"isExpired"`
	MedicineInfo domain.Medicine `json:"medicineInfo"`
	Timestamp    time.Time       `json:"timestamp"`
}

// MedicineUpdate is a corrected strip reading merged with a fresh recommendation.
type MedicineUpdate struct {
	domain.Medicine
	domain.DisposalAdvice
	IsExpired bool      `json:"isExpired"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CenterCriteria struct {
	Location     string `json:"location"`
	MedicineType string `json:"medicineType"`
}

type CenterSearch struct {
	Centers        []domain.DonationCenter `json:"centers"`
	SearchCriteria CenterCriteria          `json:"searchCriteria"`
	Total          int                     `json:"total"`
	Disclaimer     string                  `json:"disclaimer"`
}

type GuidelinesResult struct {
	domain.DisposalGuidelines
	SearchCriteria CenterCriteria `json:"searchCriteria"`
	LastUpdated    time.Time      `json:"lastUpdated"`
	Disclaimer     string         `json:"disclaimer"`
}

// DonationInfo is what the client reports after handing medicine to a center.
type DonationInfo struct {
	Medicine     domain.Medicine        `json:"medicine"`
	Center       *domain.DonationCenter `json:"center,omitempty"`
	DonatedAt    string                 `json:"donatedAt,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	ContactEmail string                 `json:"contactEmail,omitempty"`
}

type DonationReceipt struct {
	ReportID     string       `json:"reportId"`
	Status       string       `json:"status"`
	Message      string       `json:"message"`
	DonationInfo DonationInfo `json:"donationInfo"`
	SubmittedAt  time.Time    `json:"submittedAt"`
}

func (d *Donations) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Recommend asks the model what to do with a medicine. A past expiry date
// always wins over the model and yields "dispose".
func (d *Donations) Recommend(ctx context.Context, m domain.Medicine) (*Recommendation, error) {
	if m.Empty() {
		return nil, invalid("Missing medicine information", "Please provide medicine information for recommendation")
	}
	advice, expired := d.advise(ctx, m)
	return &Recommendation{
		DisposalAdvice: advice,
		IsExpired:      expired,
		MedicineInfo:   m,
		Timestamp:      d.now().UTC(),
	}, nil
}

// Update re-evaluates a medicine after the user corrected the scanned fields.
func (d *Donations) Update(ctx context.Context, m domain.Medicine) (*MedicineUpdate, error) {
	if m.Empty() {
		return nil, invalid("Missing medicine information", "Please provide medicine information to update")
	}
	advice, expired := d.advise(ctx, m)
	return &MedicineUpdate{Medicine: m, DisposalAdvice: advice, IsExpired: expired, UpdatedAt: d.now().UTC()}, nil
}

func (d *Donations) advise(ctx context.Context, m domain.Medicine) (domain.DisposalAdvice, bool) {
	res := d.AI.Generate(ctx, FeatureDisposal, buildDisposalPrompt(m))
	var advice domain.DisposalAdvice
	if reason := ai.DecodeJSON(res, &advice); reason != ai.FailureNone {
		countFallback(FeatureDisposal, reason)
		advice = disposalFallback()
	}
	expired := settleAdvice(&advice, m, d.now())
	return advice, expired
}

// settleAdvice normalizes the model's outcome against the expiry date.
func settleAdvice(a *domain.DisposalAdvice, m domain.Medicine, now time.Time) bool {
	a.Recommendation = strings.ToLower(strings.TrimSpace(a.Recommendation))
	expired, ok := domain.Expired(m.ExpiryDate, now)
	switch {
	case ok && expired:
		if a.Recommendation != domain.RecommendDispose {
			a.Recommendation = domain.RecommendDispose
			a.Reasoning = expiredReasoning
		}
	case ok && a.Recommendation == "":
		a.Recommendation = domain.RecommendDonate
		a.Reasoning = donateReasoning
	}
	for _, list := range []*[]string{&a.Instructions, &a.Resources, &a.Warnings} {
		if *list == nil {
			*list = []string{}
		}
	}
	return ok && expired
}

// FindCenters is a read-only catalog lookup by location substring.
func (d *Donations) FindCenters(ctx context.Context, location, medicineType string) (*CenterSearch, error) {
	centers, err := d.Centers.ListCenters(ctx, strings.TrimSpace(location))
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	if centers == nil {
		centers = []domain.DonationCenter{}
	}
	crit := CenterCriteria{Location: location, MedicineType: medicineType}
	if crit.Location == "" {
		crit.Location = "All locations"
	}
	if crit.MedicineType == "" {
		crit.MedicineType = "Any"
	}
	return &CenterSearch{Centers: centers, SearchCriteria: crit, Total: len(centers), Disclaimer: centersDisclaimer}, nil
}

func (d *Donations) Guidelines(ctx context.Context, medicineType, location string) *GuidelinesResult {
	res := d.AI.Generate(ctx, FeatureGuidelines, buildGuidelinesPrompt(medicineType, location))
	var g domain.DisposalGuidelines
	if reason := ai.DecodeJSON(res, &g); reason != ai.FailureNone {
		countFallback(FeatureGuidelines, reason)
		g = guidelinesFallback()
	}
	if g.LocalResources == nil {
		g.LocalResources = []domain.LocalResource{}
	}

	crit := CenterCriteria{Location: location, MedicineType: medicineType}
	if crit.Location == "" {
		crit.Location = "general"
	}
	if crit.MedicineType == "" {
		crit.MedicineType = "general"
	}
	return &GuidelinesResult{
		DisposalGuidelines: g,
		SearchCriteria:     crit,
		LastUpdated:        d.now().UTC(),
		Disclaimer:         guidelinesDisclaimer,
	}
}

// Report appends a donation to the log and announces it on the bus.
func (d *Donations) Report(ctx context.Context, info *DonationInfo, uid, reqID string) (*DonationReceipt, error) {
	if info == nil || info.Medicine.Empty() {
		return nil, invalid("Missing donation information", "Please provide donation details")
	}

	r := &domain.DonationReport{
		Medicine:    info.Medicine,
		Center:      info.Center,
		UserID:      uid,
		Notes:       info.Notes,
		Status:      domain.ReportStatusRecorded,
		SubmittedAt: d.now().UTC(),
	}
	if err := d.Reports.AppendReport(ctx, r); err != nil {
		return nil, fmt.Errorf("append donation report: %w", err)
	}

	log.Ctx(ctx).Info("donation recorded", zap.String("report_id", r.ReportID), zap.Int64("seq", r.Seq))

	ev := queue.DonationReported{
		ReportID:    r.ReportID,
		Seq:         r.Seq,
		UserID:      uid,
		Medicine:    r.Medicine.Name,
		ContactMail: info.ContactEmail,
		SubmittedAt: r.SubmittedAt,
	}
	if r.Center != nil {
		ev.Center = r.Center.Name
	}
	queue.PublishAsync(ctx, d.Pub, d.Exchange, queue.KeyDonationReported, ev, reqID)

	return &DonationReceipt{
		ReportID:     r.ReportID,
		Status:       r.Status,
		Message:      donationThanks,
		DonationInfo: *info,
		SubmittedAt:  r.SubmittedAt,
	}, nil
}

// MyReports lists donations reported by a signed-in user, newest first.
func (d *Donations) MyReports(ctx context.Context, uid string) ([]domain.DonationReport, error) {
	if uid == "" {
		return nil, ErrUnauthorized
	}
	rs, err := d.Reports.ListReportsByUser(ctx, uid, historyLimit)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []domain.DonationReport{}
	}
	return rs, nil
}
