package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
	"github.com/vishalbagda/MidWiseAi/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAI answers every prompt with the same result and remembers prompts.
type fakeAI struct {
	mu      sync.Mutex
	res     ai.Result
	prompts []string
}

func aiText(s string) *fakeAI { return &fakeAI{res: ai.Result{Text: s, Attempts: 1}} }

func aiFail(f ai.Failure) *fakeAI {
	return &fakeAI{res: ai.Result{Failure: f, Err: errors.New(string(f))}}
}

func (f *fakeAI) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts[len(f.prompts)-1]
}

func (f *fakeAI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeAI) Generate(_ context.Context, _ string, prompt string) ai.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.res
}

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[primitive.ObjectID]*domain.User{}} }

func (m *memUsers) find(pred func(*domain.User) bool) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if pred(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email }), nil
}

func (m *memUsers) FindUserByGoogleID(_ context.Context, sub string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.GoogleID != "" && u.GoogleID == sub }), nil
}

func (m *memUsers) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return m.find(func(u *domain.User) bool { return u.ID == oid }), nil
}

func (m *memUsers) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email {
			return repo.ErrEmailExists
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateGoogleProfile(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	x, ok := m.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	x.GoogleID, x.Name, x.Picture = u.GoogleID, u.Name, u.Picture
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type fakeGoogle struct {
	user *oauth.GoogleUser
	err  error
	kind string
}

func (g *fakeGoogle) VerifyIDToken(context.Context, string) (*oauth.GoogleUser, error) {
	g.kind = "id_token"
	return g.user, g.err
}

func (g *fakeGoogle) UserInfo(context.Context, string) (*oauth.GoogleUser, error) {
	g.kind = "access_token"
	return g.user, g.err
}

func (g *fakeGoogle) Exchange(context.Context, string) (*oauth.GoogleUser, error) {
	g.kind = "code"
	return g.user, g.err
}

type fakePub struct {
	mu   sync.Mutex
	keys []string
	done chan struct{}
}

func newFakePub() *fakePub { return &fakePub{done: make(chan struct{}, 16)} }

func (p *fakePub) Publish(_ context.Context, _, key string, _ any, _ string) error {
	p.mu.Lock()
	p.keys = append(p.keys, key)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *fakePub) Close() error { return nil }

// wait blocks until n events were published or the deadline passes.
func (p *fakePub) wait(n int) []string {
	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-p.done:
		case <-deadline:
			i = n
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type fakeText struct {
	text string
	err  error
}

func (f fakeText) ExtractText(context.Context, *ingest.File) (string, error) { return f.text, f.err }

type memHistory struct {
	mu   sync.Mutex
	recs []domain.ScanRecord
}

func (h *memHistory) AddScan(_ context.Context, rec *domain.ScanRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec.ID = primitive.NewObjectID()
	h.recs = append(h.recs, *rec)
	return nil
}

func (h *memHistory) ListScans(_ context.Context, userID, kind string, limit int) ([]domain.ScanRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []domain.ScanRecord
	for i := len(h.recs) - 1; i >= 0 && len(out) < limit; i-- {
		if r := h.recs[i]; r.UserID == userID && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

type memCenters struct {
	all   []domain.DonationCenter
	calls int
}

func (m *memCenters) ListCenters(_ context.Context, location string) ([]domain.DonationCenter, error) {
	m.calls++
	var out []domain.DonationCenter
	for _, c := range m.all {
		if c.MatchesLocation(location) {
			out = append(out, c)
		}
	}
	return out, nil
}

type memReports struct {
	mu   sync.Mutex
	seq  int64
	rows []domain.DonationReport
	err  error
}

func (m *memReports) AppendReport(_ context.Context, r *domain.DonationReport) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.Seq = m.seq
	r.ReportID = fmt.Sprintf("DON%06d", m.seq)
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memReports) ListReportsByUser(_ context.Context, userID string, limit int) ([]domain.DonationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DonationReport
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

var testCenters = []domain.DonationCenter{
	{Name: "City Care Pharmacy", Address: "12 Marine Drive", City: "Mumbai", ZipCode: "400020", Accepts: []string{"otc"}},
	{Name: "Hope Clinic", Address: "4 Park Street", City: "Kolkata", ZipCode: "700016", Accepts: []string{"prescription"}},
	{Name: "Green Cross", Address: "88 MG Road", City: "Bengaluru", ZipCode: "560001", Accepts: []string{"otc", "prescription"}},
}

func fixedNow() time.Time { return time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC) }

func contains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
