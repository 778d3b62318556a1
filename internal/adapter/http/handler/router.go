package handler

import (
	"net/http"
	"time"

	"donor-reconciler/internal/adapter/http/middleware"
	"donor-reconciler/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Reconciler     ports.ReconciliationService
	Events         ports.EventQueryService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker

	// Metrics
	RequestObserver middleware.RequestObserver // nil = no request metrics
	MetricsHandler  http.Handler               // nil = no /metrics

	StripeWebhookSecret string
	StripeMaxSkew       time.Duration
	GoCardlessSecret    string
	GoCardlessSandbox   bool
	PayPalRelaySecret   string

	MaxBodyBytes int64
	Logger       zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.RequestObserver != nil {
		r.Use(middleware.Metrics(deps.RequestObserver))
	}
	r.Use(middleware.MaxBodySize(maxBody))

	// Deep health check: PostgreSQL and Redis
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Gateway webhooks (signature verified) ---
	webhookHandler := NewWebhookHandler(deps.Reconciler, deps.GoCardlessSandbox, deps.Logger)
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/stripe",
			middleware.StripeSignature(deps.SigSvc, deps.StripeWebhookSecret, deps.StripeMaxSkew, deps.Logger),
			webhookHandler.Stripe)
		webhooks.POST("/gocardless",
			middleware.GoCardlessSignature(deps.SigSvc, deps.GoCardlessSecret, deps.Logger),
			webhookHandler.GoCardless)
		webhooks.POST("/paypal",
			rl("relay"),
			middleware.RelayHMACAuth("paypal", deps.PayPalRelaySecret, deps.SigSvc, deps.NonceStore, deps.Logger),
			webhookHandler.PayPal)
	}

	// --- Operator API (JWT) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	eventHandler := NewEventHandler(deps.Events)
	v1 := r.Group("/api/v1", jwtAuth)
	{
		v1.GET("/events/:event_id", rl("operator"), eventHandler.Get)
	}

	return r
}
