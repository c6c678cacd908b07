package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/vishalbagda/MidWiseAi/docs"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/metrics"
	"go.uber.org/zap"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

type RouterOptions struct {
	CORSOrigins    []string
	DDEnabled      bool
	DDService      string
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client.
	TrustedProxies []string
	// Limiter guards model-backed routes; nil disables rate limiting.
	Limiter        Limiter
}

func NewRouter(h *Handler, opt RouterOptions) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opt.TrustedProxies); err != nil {
		log.L().Warn("bad trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	if opt.DDEnabled {
		r.Use(gintrace.Middleware(opt.DDService))
	}
	r.Use(RequestID(), Logger(), metrics.Middleware(), corsMiddleware(opt.CORSOrigins))
	r.Use(MaxBody(h.UploadMaxBytes + 1<<20))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rl := RateLimit(opt.Limiter)
	who := OptionalAuth(h.Auth)

	api := r.Group("/api")
	api.GET("/ping", h.Ping)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
		auth.GET("/me", AuthJWT(h.Auth), h.Me)
	}

	rx := api.Group("/prescription", who)
	{
		rx.POST("/upload", rl, h.UploadPrescription)
		rx.GET("/history", h.PrescriptionHistory)
	}

	ocr := api.Group("/ocr", who)
	{
		ocr.POST("/scan", rl, h.ScanStrip)
		ocr.POST("/update", rl, h.UpdateMedicine)
		ocr.GET("/history", h.ScanHistory)
	}

	otc := api.Group("/otc")
	{
		otc.POST("/recommendations", rl, h.OTCRecommendations)
		otc.GET("/search", h.OTCSearch)
		otc.GET("/categories", h.OTCCategories)
	}

	dd := api.Group("/donate-dispose", who)
	{
		dd.POST("/recommendation", rl, h.DonateDisposeRecommendation)
		dd.GET("/donation-centers", h.DonationCenters)
		dd.GET("/disposal-guidelines", rl, h.DisposalGuidelines)
		dd.POST("/report-donation", h.ReportDonation)
		dd.GET("/my-donations", AuthJWT(h.Auth), h.MyDonations)
	}

	chat := api.Group("/chatbot")
	{
		chat.POST("/start", h.StartChat)
		chat.POST("/message", rl, h.SendChatMessage)
		chat.GET("/history/:sessionId", h.ChatHistory)
		chat.DELETE("/session/:sessionId", h.EndChat)
		chat.GET("/quick-replies", h.QuickReplies)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}
