package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	http "github.com/vishalbagda/MidWiseAi/internal/http"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
	"github.com/vishalbagda/MidWiseAi/internal/queue"
	"github.com/vishalbagda/MidWiseAi/internal/repo"
	"github.com/vishalbagda/MidWiseAi/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubAI answers with whatever res currently holds.
type stubAI struct {
	mu  sync.Mutex
	res ai.Result
}

func (s *stubAI) Generate(context.Context, string, string) ai.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res
}

func (s *stubAI) answer(text string) {
	s.mu.Lock()
	s.res = ai.Result{Text: text, Attempts: 1}
	s.mu.Unlock()
}

func (s *stubAI) failWith(f ai.Failure) {
	s.mu.Lock()
	s.res = ai.Result{Failure: f, Err: errors.New("simulated " + string(f))}
	s.mu.Unlock()
}

type stubText struct{ text string }

func (s *stubText) ExtractText(context.Context, *ingest.File) (string, error) { return s.text, nil }

type stubGoogle struct{ err error }

func (g stubGoogle) VerifyIDToken(context.Context, string) (*oauth.GoogleUser, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &oauth.GoogleUser{Sub: "g-sub", Email: "g@example.com", Name: "Gina"}, nil
}

func (g stubGoogle) UserInfo(ctx context.Context, tok string) (*oauth.GoogleUser, error) {
	return g.VerifyIDToken(ctx, tok)
}

func (g stubGoogle) Exchange(ctx context.Context, code string) (*oauth.GoogleUser, error) {
	return g.VerifyIDToken(ctx, code)
}

// memStore is an in-memory stand-in for the Mongo collections.
type memStore struct {
	mu      sync.Mutex
	users   []domain.User
	centers []domain.DonationCenter
	reports []domain.DonationReport
	scans   []domain.ScanRecord
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindUserByGoogleID(_ context.Context, sub string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.GoogleID == sub {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID.Hex() == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email {
			return repo.ErrEmailExists
		}
	}
	u.ID = primitive.NewObjectID()
	m.users = append(m.users, *u)
	return nil
}

func (m *memStore) UpdateGoogleProfile(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memStore) ListCenters(_ context.Context, location string) ([]domain.DonationCenter, error) {
	var out []domain.DonationCenter
	for _, c := range m.centers {
		if c.MatchesLocation(location) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) AppendReport(_ context.Context, r *domain.DonationReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Seq = int64(len(m.reports) + 1)
	r.ReportID = fmt.Sprintf("DON%06d", r.Seq)
	m.reports = append(m.reports, *r)
	return nil
}

func (m *memStore) ListReportsByUser(_ context.Context, userID string, _ int) ([]domain.DonationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DonationReport
	for i := len(m.reports) - 1; i >= 0; i-- {
		if m.reports[i].UserID == userID {
			out = append(out, m.reports[i])
		}
	}
	return out, nil
}

func (m *memStore) AddScan(_ context.Context, rec *domain.ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans = append(m.scans, *rec)
	return nil
}

func (m *memStore) ListScans(_ context.Context, userID, kind string, _ int) ([]domain.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScanRecord
	for _, s := range m.scans {
		if s.UserID == userID && s.Kind == kind {
			out = append(out, s)
		}
	}
	return out, nil
}

type userStore interface {
	service.UserStore
	service.CenterStore
	service.ReportStore
	service.HistoryStore
}

type testEnv struct {
	T      *testing.T
	AI     *stubAI
	Text   *stubText
	Store  userStore
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return buildEnv(t, &memStore{centers: sampleCenters}, stubGoogle{}, nil)
}

func buildEnv(t *testing.T, store userStore, g service.GoogleVerifier, limiter http.Limiter) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model := &stubAI{}
	model.failWith(ai.FailureUnavailable)
	text := &stubText{text: "Rx: Amoxicillin 500mg three times daily"}
	pub := queue.NewNoop()
	now := func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }

	auth := &service.Auth{Users: store, OAuth: g, Pub: pub, Exchange: "medwise.events", Secret: "test-secret", TokenTTL: time.Hour}
	h := &http.Handler{
		Auth:           auth,
		Analyzer:       &service.Analyzer{AI: model, Text: text, Scans: store, Now: now},
		OTC:            &service.OTC{AI: model, Now: now},
		Donations:      &service.Donations{AI: model, Centers: store, Reports: store, Pub: pub, Exchange: "medwise.events", Now: now},
		Chat:           &service.Chat{AI: model, Sessions: repo.NewMemorySessions()},
		PingReply:      "pong",
		UploadMaxBytes: 1 << 20,
	}
	r := http.NewRouter(h, http.RouterOptions{CORSOrigins: []string{"*"}, Limiter: limiter})
	return &testEnv{T: t, AI: model, Text: text, Store: store, Router: r}
}

// newMongoEnv wires the router to a real Mongo in a container; skips without Docker.
func newMongoEnv(t *testing.T) *testEnv {
	t.Helper()
	requireDocker(t)
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Skipf("mongo container: %v", err)
	}
	t.Cleanup(func() { _ = mc.Terminate(context.Background()) })

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}
	store, err := repo.NewStore(ctx, uri, "medwise_http_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	if _, err := store.SeedCenters(ctx, sampleCenters); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return buildEnv(t, store, stubGoogle{}, nil)
}

// requireDocker skips when no Docker host is reachable. testcontainers panics
// in that case instead of skipping.
func requireDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("DOCKER_HOST") == "" {
		socks := []string{"/var/run/docker.sock", filepath.Join(os.Getenv("XDG_RUNTIME_DIR"), "docker.sock")}
		if home, err := os.UserHomeDir(); err == nil {
			socks = append(socks, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		found := false
		for _, s := range socks {
			if _, err := os.Stat(s); err == nil {
				found = true
				break
			}
		}
		if !found {
			t.Skip("docker socket not found")
		}
	}
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("docker provider unavailable: %v", r)
		}
	}()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

var sampleCenters = []domain.DonationCenter{
	{Name: "City Care Pharmacy", Address: "12 Marine Drive", City: "Mumbai", ZipCode: "400020", Verified: true},
	{Name: "Hope Clinic", Address: "4 Park Street", City: "Kolkata", ZipCode: "700016"},
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(path, field, filename string, data []byte, hdr map[string]string) *httptest.ResponseRecorder {
	e.T.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		e.T.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// decode unwraps {success, data} into out and fails on an error envelope.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v; body=%s", err, w.Body.String())
	}
	if !env.Success {
		t.Fatalf("success=false; body=%s", w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v; body=%s", err, w.Body.String())
		}
	}
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) (title, msg string) {
	t.Helper()
	var b struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode error: %v; body=%s", err, w.Body.String())
	}
	if b.Success {
		t.Fatalf("expected failure envelope; body=%s", w.Body.String())
	}
	return b.Error, b.Message
}

func bearer(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
