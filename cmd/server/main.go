package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/config"
	api "github.com/vishalbagda/MidWiseAi/internal/http"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/metrics"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
	"github.com/vishalbagda/MidWiseAi/internal/queue"
	"github.com/vishalbagda/MidWiseAi/internal/repo"
	"github.com/vishalbagda/MidWiseAi/internal/service"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// @title MedWise API
// @version 1.0
// @description Prescription analysis, medicine strip scanning, OTC advice, donation and disposal guidance, health chat.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	if _, err := log.Init(cfg.LogProd); err != nil {
		panic(err)
	}
	defer log.Sync()
	metrics.MustRegister()

	if cfg.DDEnabled {
		tracer.Start(tracer.WithService(cfg.DDService))
		defer tracer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(bootCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.L().Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(bootCtx); err != nil {
		log.L().Fatal("mongo indexes", zap.Error(err))
	}
	seedCenters(bootCtx, store, cfg.CentersSeedFile)

	var (
		sessions service.SessionStore = repo.NewMemorySessions()
		limiter  api.Limiter
	)
	window := time.Minute
	if cfg.RedisAddr != "" {
		rds := repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
		if err := rds.Ping(bootCtx); err != nil {
			log.L().Warn("redis unavailable, using in-process sessions", zap.Error(err))
			if cfg.RateLimitPerMin > 0 {
				limiter = api.NewRateLimiter(cfg.RateLimitPerMin, window)
			}
		} else {
			sessions = repo.NewRedisSessions(rds, cfg.SessionTTL)
			if cfg.RateLimitPerMin > 0 {
				limiter = api.NewRedisLimiter(rds, cfg.RateLimitPerMin, window)
			}
		}
	} else if cfg.RateLimitPerMin > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitPerMin, window)
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			// события не критичны для API
			log.L().Warn("rabbit publisher disabled", zap.Error(err))
		} else {
			pub = p
		}
	}
	defer pub.Close()

	model, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AIModel, cfg.AIRetries, cfg.AIRetryDelay)
	if err != nil {
		log.L().Fatal("gemini client", zap.Error(err))
	}
	defer model.Close()
	if cfg.GeminiAPIKey == "" {
		log.L().Warn("GEMINI_API_KEY is empty, all AI features will serve fallbacks")
	}

	google := oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL,
		cfg.GoogleJWKSURL, cfg.GoogleUserInfoURL)
	extractor := ingest.NewExtractor(ingest.NewTesseract("eng"))
	if !ingest.OCREnabled {
		log.L().Warn("built without -tags tesseract, image uploads will return 503; see Makefile build-ocr")
	}

	chat := &service.Chat{AI: model, Sessions: sessions}
	h := &api.Handler{
		Auth: &service.Auth{
			Users: store, OAuth: google, Pub: pub, Exchange: cfg.RabbitExchange,
			Secret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL,
		},
		Analyzer: &service.Analyzer{AI: model, Text: extractor, Scans: store},
		OTC:      &service.OTC{AI: model},
		Donations: &service.Donations{
			AI: model, Centers: store, Reports: store, Pub: pub, Exchange: cfg.RabbitExchange,
		},
		Chat:           chat,
		Health:         store.Ping,
		PingReply:      cfg.PingReply,
		UploadMaxBytes: cfg.UploadMaxBytes,
	}
	go chat.RunSweeper(ctx, cfg.SessionSweep, cfg.SessionTTL)

	r := api.NewRouter(h, api.RouterOptions{
		CORSOrigins:    cfg.CORSOrigin,
		DDEnabled:      cfg.DDEnabled,
		DDService:      cfg.DDService,
		TrustedProxies: cfg.TrustedProxies,
		Limiter:        limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	log.L().Info("medwise api listening", zap.String("port", cfg.Port), zap.String("model", cfg.AIModel))

	// graceful shutdown
	select {
	case <-ctx.Done():
		log.L().Info("signal received, shutting down")
	case err := <-srvErr:
		log.L().Error("server error", zap.Error(err))
	}

	shutCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.L().Error("shutdown", zap.Error(err))
	}
}

// seedCenters fills an empty centers collection from the bundled catalog.
func seedCenters(ctx context.Context, store *repo.Store, path string) {
	if path == "" {
		return
	}
	centers, err := repo.LoadCentersFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.L().Warn("centers seed file", zap.String("path", path), zap.Error(err))
		}
		return
	}
	n, err := store.SeedCenters(ctx, centers)
	if err != nil {
		log.L().Warn("seed centers", zap.Error(err))
		return
	}
	if n > 0 {
		log.L().Info("seeded donation centers", zap.Int("count", n))
	}
}
