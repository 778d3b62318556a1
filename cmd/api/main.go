package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donor-reconciler/config"
	"donor-reconciler/internal/adapter/crm"
	"donor-reconciler/internal/adapter/gocardless"
	httpHandler "donor-reconciler/internal/adapter/http/handler"
	"donor-reconciler/internal/adapter/mailchimp"
	"donor-reconciler/internal/adapter/mandrill"
	"donor-reconciler/internal/adapter/metrics"
	"donor-reconciler/internal/adapter/restclient"
	pgStorage "donor-reconciler/internal/adapter/storage/postgres"
	redisStorage "donor-reconciler/internal/adapter/storage/redis"
	"donor-reconciler/internal/adapter/stripe"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/internal/service"
	"donor-reconciler/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("DRC_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("environment", cfg.App.Environment).
		Int("port", cfg.Server.Port).
		Msg("starting donor reconciler")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()

	// Core services
	var encSvc ports.EncryptionService
	if cfg.AES.Key != "" {
		aes, err := service.NewAESEncryptionService(cfg.AES.Key)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize encryption service")
		}
		encSvc = aes
	} else {
		log.Warn().Msg("aes.key not set, ledger snapshots are stored unencrypted")
	}
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Ledger
	ledger := service.NewLedgerService(
		pgStorage.NewEventRepo(pool),
		redisStorage.NewEventStatusCache(rdb),
		redisStorage.NewClaimStore(rdb),
		encSvc,
		cfg.Ledger.ClaimTTL,
		cfg.Ledger.StatusCacheTTL,
		log,
	)

	// Gateway clients
	stripeClient := stripe.NewClient(cfg.Stripe.BaseURL,
		restclient.NewBearerClient(ctx, cfg.Stripe.APIKey, cfg.Stripe.Timeout))
	gcBaseURL := cfg.GoCardless.BaseURL
	if cfg.GoCardless.Sandbox && gcBaseURL == gocardless.LiveBaseURL {
		gcBaseURL = gocardless.SandboxBaseURL
	}
	gcClient := gocardless.NewClient(gcBaseURL,
		restclient.NewBearerClient(ctx, cfg.GoCardless.AccessToken, cfg.GoCardless.Timeout))

	normalizers := map[domain.Gateway]ports.Normalizer{
		domain.GatewayStripe:     service.NewStripeNormalizer(stripeClient, cfg.App.OriginTag),
		domain.GatewayPayPal:     service.NewPayPalNormalizer(cfg.App.OriginTag),
		domain.GatewayGoCardless: service.NewGoCardlessNormalizer(gcClient, cfg.App.OriginTag),
	}

	// CRM, marketing and email providers
	providerHTTP := &http.Client{Timeout: cfg.CRM.Timeout}
	registry := crm.NewRegistry(cfg.CRM, providerHTTP, log)
	if len(registry.Instances()) == 0 {
		log.Warn().Msg("no CRM instance configured, every event will fail at instance selection")
	}
	chimp := mailchimp.NewClient(cfg.Mailchimp.BaseURL, cfg.Mailchimp.APIKey, providerHTTP)
	mailer := mandrill.NewClient(cfg.Mandrill.BaseURL, cfg.Mandrill.APIKey,
		cfg.Mandrill.FromEmail, cfg.Mandrill.FromName, providerHTTP)

	prefs := service.NewPreferenceService()
	hooks := make([]service.CampaignHook, 0, len(cfg.CampaignHooks))
	for _, h := range cfg.CampaignHooks {
		hooks = append(hooks, service.CampaignHook{
			Campaign:      h.Campaign,
			Tags:          h.Tags,
			DonorTemplate: h.DonorTemplate,
			AdminTemplate: h.AdminTemplate,
		})
	}
	campaignHooks := service.NewCampaignHooks(hooks, mailer, cfg.Mandrill.AdminAddress, log)

	// Campaigns with their own donor email get no generic thank-you.
	excluded := append([]string{}, cfg.ThankYou.ExcludedCampaigns...)
	excluded = append(excluded, campaignHooks.DonorEmailCampaigns()...)
	thankYou := service.NewThankYouService(mailer, service.ThankYouTemplates{
		GBP:     cfg.ThankYou.TemplateGBP,
		USD:     cfg.ThankYou.TemplateUSD,
		Default: cfg.ThankYou.TemplateDefault,
	}, excluded, log)

	marketing := service.NewMarketingService(chimp, map[domain.Instance]string{
		domain.InstanceUK:      cfg.Mailchimp.ListUK,
		domain.InstanceUS:      cfg.Mailchimp.ListUS,
		domain.InstanceROW:     cfg.Mailchimp.ListROW,
		domain.InstanceSandbox: cfg.Mailchimp.ListSandbox,
	}, prefs, log)

	orchestrator := service.NewOrchestratorService(
		registry,
		service.NewResolverService(log),
		prefs,
		service.NewTransactionService(redisStorage.NewGiftAidGuard(rdb), cfg.Ledger.GiftAidGuardTTL),
		marketing,
		campaignHooks,
		thankYou,
		cfg.App.IsProduction(),
		log,
	)

	pipelineMetrics := metrics.New()
	reconciler := service.NewReconciliationService(ledger, normalizers, orchestrator, pipelineMetrics, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Reconciler:          reconciler,
		Events:              ledger,
		SigSvc:              sigSvc,
		NonceStore:          redisStorage.NewNonceStore(rdb),
		TokenSvc:            tokenSvc,
		RateLimitStore:      redisStorage.NewRateLimitStore(rdb),
		HealthCheckers:      []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		RequestObserver:     pipelineMetrics,
		MetricsHandler:      pipelineMetrics.Handler(),
		StripeWebhookSecret: cfg.Stripe.WebhookSecret,
		StripeMaxSkew:       cfg.Stripe.SignatureMaxSkew,
		GoCardlessSecret:    cfg.GoCardless.WebhookSecret,
		GoCardlessSandbox:   cfg.GoCardless.Sandbox,
		PayPalRelaySecret:   cfg.PayPal.RelaySecret,
		Logger:              log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// In-flight events hold claims; give them time to finish and release.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
