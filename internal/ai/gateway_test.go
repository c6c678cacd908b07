package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeModel struct {
	errs  []error
	text  string
	calls int
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text(f.text)}}}},
	}, nil
}

type sleepRecorder struct{ delays []time.Duration }

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newTestGemini(m generator, sr *sleepRecorder) *Gemini {
	return &Gemini{model: m, retries: 3, delay: 2 * time.Second, sleep: sr.sleep}
}

func TestGenerate_RetriesQuotaWithDoublingBackoff(t *testing.T) {
	quota := errors.New("googleapi: Error 429: Resource has been exhausted (e.g. check quota)")
	m := &fakeModel{errs: []error{quota, quota}, text: "ok"}
	sr := &sleepRecorder{}

	res := newTestGemini(m, sr).Generate(context.Background(), "test", "hi")

	require.True(t, res.OK())
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sr.delays)
}

func TestGenerate_GivesUpAfterRetries(t *testing.T) {
	quota := &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"}
	m := &fakeModel{errs: []error{quota, quota, quota, quota, quota}}
	sr := &sleepRecorder{}

	res := newTestGemini(m, sr).Generate(context.Background(), "test", "hi")

	assert.Equal(t, FailureQuota, res.Failure)
	assert.Equal(t, 4, m.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, sr.delays)
}

func TestGenerate_NoRetryOnOtherErrors(t *testing.T) {
	m := &fakeModel{errs: []error{errors.New("connection reset by peer")}}
	sr := &sleepRecorder{}

	res := newTestGemini(m, sr).Generate(context.Background(), "test", "hi")

	assert.Equal(t, FailureUnavailable, res.Failure)
	assert.Equal(t, 1, m.calls)
	assert.Empty(t, sr.delays)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	m := &fakeModel{text: "  "}
	res := newTestGemini(m, &sleepRecorder{}).Generate(context.Background(), "test", "hi")
	assert.Equal(t, FailureEmpty, res.Failure)
}

func TestGenerate_NoKey(t *testing.T) {
	g, err := NewGemini(context.Background(), "", "gemini-2.0-flash", 3, time.Millisecond)
	require.NoError(t, err)
	defer g.Close()

	res := g.Generate(context.Background(), "test", "hi")
	assert.Equal(t, FailureCredential, res.Failure)
	assert.ErrorIs(t, res.Err, ErrNoAPIKey)
}

func TestGenerate_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &fakeModel{errs: []error{errors.New("quota exceeded")}}
	g := &Gemini{model: m, retries: 3, delay: time.Hour, sleep: sleepCtx}

	res := g.Generate(ctx, "test", "hi")
	assert.Equal(t, FailureUnavailable, res.Failure)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, FailureNone, Classify(nil))
	assert.Equal(t, FailureQuota, Classify(errors.New("429 Too Many Requests")))
	assert.Equal(t, FailureCredential, Classify(errors.New("API key not valid. Please pass a valid API key.")))
	assert.Equal(t, FailureCredential, Classify(&googleapi.Error{Code: http.StatusUnauthorized}))
	assert.Equal(t, FailureUnavailable, Classify(errors.New("dial tcp: timeout")))
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("```{\"a\":1}```"))
	assert.Equal(t, `[1]`, CleanJSON("  [1] "))
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Name string }

	assert.Equal(t, FailureNone, DecodeJSON(Result{Text: "```json\n{\"Name\":\"x\"}\n```"}, &v))
	assert.Equal(t, "x", v.Name)

	assert.Equal(t, FailureMalformed, DecodeJSON(Result{Text: "Sure! Here you go"}, &v))
	assert.Equal(t, FailureQuota, DecodeJSON(Result{Failure: FailureQuota}, &v))
}
