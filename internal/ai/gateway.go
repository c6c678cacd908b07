package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/metrics"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Failure says why a generation produced nothing usable.
type Failure string

const (
	FailureNone        Failure = ""
	FailureQuota       Failure = "quota"
	FailureCredential  Failure = "invalid_credential"
	FailureUnavailable Failure = "unavailable"
	FailureEmpty       Failure = "empty"
	FailureMalformed   Failure = "malformed"
)

var ErrNoAPIKey = errors.New("gemini api key is not configured")

// Result is either Text (Failure == FailureNone) or a typed failure.
type Result struct {
	Text     string
	Failure  Failure
	Err      error
	Attempts int
}

func (r Result) OK() bool { return r.Failure == FailureNone }

// Gateway is the single entry point to the generative model.
type Gateway interface {
	Generate(ctx context.Context, feature, prompt string) Result
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	client  *genai.Client
	model   generator
	retries int
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewGemini builds the client. An empty key is not an error: every call then
// fails with FailureCredential and callers serve fallbacks.
func NewGemini(ctx context.Context, apiKey, model string, retries int, delay time.Duration) (*Gemini, error) {
	g := &Gemini{retries: retries, delay: delay, sleep: sleepCtx}
	if apiKey == "" {
		return g, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	g.client = client
	g.model = client.GenerativeModel(model)
	return g, nil
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, feature, prompt string) Result {
	sp, ctx := tracer.StartSpanFromContext(ctx, "ai.generate", tracer.Tag("feature", feature))
	defer sp.Finish()

	res := g.generate(ctx, prompt)
	sp.SetTag("attempts", res.Attempts)

	outcome := "ok"
	if !res.OK() {
		outcome = string(res.Failure)
		sp.SetTag("error", res.Err)
		log.Ctx(ctx).Warn("ai generate failed",
			zap.String("feature", feature),
			zap.String("reason", outcome),
			zap.Int("attempts", res.Attempts),
			zap.Error(res.Err),
		)
	}
	metrics.AIRequests.WithLabelValues(feature, outcome).Inc()
	return res
}

func (g *Gemini) generate(ctx context.Context, prompt string) Result {
	if g.model == nil {
		return Result{Failure: FailureCredential, Err: ErrNoAPIKey}
	}

	delay := g.delay
	for attempt := 1; ; attempt++ {
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			text := responseText(resp)
			if strings.TrimSpace(text) == "" {
				return Result{Failure: FailureEmpty, Err: errors.New("empty model response"), Attempts: attempt}
			}
			return Result{Text: text, Attempts: attempt}
		}

		reason := Classify(err)
		// ретраим только квоту / rate limit
		if reason != FailureQuota || attempt > g.retries {
			return Result{Failure: reason, Err: err, Attempts: attempt}
		}
		log.Ctx(ctx).Info("ai rate limited, backing off",
			zap.Duration("delay", delay), zap.Int("retries_left", g.retries-attempt+1))
		if err := g.sleep(ctx, delay); err != nil {
			return Result{Failure: FailureUnavailable, Err: err, Attempts: attempt}
		}
		delay *= 2
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
