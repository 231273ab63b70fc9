// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/condo-portal/ledger/config"
	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/application/usecase/charge"
	"github.com/condo-portal/ledger/internal/application/usecase/communityconfig"
	"github.com/condo-portal/ledger/internal/application/usecase/delinquency"
	"github.com/condo-portal/ledger/internal/application/usecase/ledger"
	"github.com/condo-portal/ledger/internal/application/usecase/payment"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
	infradb "github.com/condo-portal/ledger/internal/infra/db"
	"github.com/condo-portal/ledger/internal/infra/server/router"
	"github.com/condo-portal/ledger/internal/integration/adapters"
	"github.com/condo-portal/ledger/internal/integration/cache"
	"github.com/condo-portal/ledger/internal/integration/email"
	"github.com/condo-portal/ledger/internal/integration/email/templates"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/controller"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/middleware"
	"github.com/condo-portal/ledger/internal/integration/export"
	"github.com/condo-portal/ledger/internal/integration/metrics"
	"github.com/condo-portal/ledger/internal/integration/persistence"
)

// UseCases groups the application use cases shared by the HTTP server and the CLI.
type UseCases struct {
	GetLedger           *ledger.GetResidentLedgerUseCase
	ExportLedger        *ledger.ExportResidentLedgerUseCase
	ListDelinquents     *delinquency.ListDelinquentsUseCase
	ExportDelinquents   *delinquency.ExportDelinquentsUseCase
	NotifyDelinquents   *delinquency.NotifyDelinquentsUseCase
	RecordCharge        *charge.RecordChargeUseCase
	GenerateMaintenance *charge.GenerateMaintenanceChargesUseCase
	RecordPayment       *payment.RecordPaymentUseCase
	ChangePaymentStatus *payment.ChangePaymentStatusUseCase
	ListConfig          *communityconfig.ListConfigUseCase
	SetConfig           *communityconfig.SetConfigUseCase
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Registry    *prometheus.Registry
	UseCases    UseCases
	EmailWorker *email.Worker
	Router      *router.Router
}

// Option customizes the wiring of an Injector.
type Option func(*options)

type options struct {
	clock adapter.Clock
}

// WithClock replaces the system clock used to resolve "today".
func WithClock(clock adapter.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil redisClient disables report caching.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, dbHealthChecker func() bool, opts ...Option) (*Injector, error) {
	o := options{clock: adapters.NewSystemClock()}
	for _, opt := range opts {
		opt(&o)
	}

	// Create repositories
	communityRepo := persistence.NewCommunityRepository(db)
	residentRepo := persistence.NewResidentRepository(db)
	configRepo := persistence.NewCommunityConfigRepository(db)
	chargeRepo := persistence.NewChargeRepository(db)
	paymentRepo := persistence.NewPaymentRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	var reportCache adapter.DelinquencyCache
	var cacheHealthChecker controller.HealthChecker
	if redisClient != nil {
		reportCache = cache.NewDelinquencyCache(redisClient, cfg.Ledger.CacheTTL)
		cacheHealthChecker = infradb.RedisHealthCheck(redisClient)
	} else {
		slog.Warn("Redis not configured, delinquency reports will not be cached")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	clock := o.clock
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	exporters := []adapter.ReportExporter{export.NewXLSXExporter(), export.NewPDFExporter()}
	noticeService := email.NewService(emailQueueRepo, cfg.Email.PortalBaseURL)

	defaultLocation := valueobject.LocationOrDefault(cfg.Ledger.DefaultTimezone, time.UTC)

	// Create use cases
	getLedger := ledger.NewGetResidentLedgerUseCase(residentRepo, communityRepo, chargeRepo, paymentRepo, clock, recorder, defaultLocation)
	listDelinquents := delinquency.NewListDelinquentsUseCase(communityRepo, residentRepo, chargeRepo, paymentRepo, configRepo, reportCache, clock, recorder, defaultLocation)

	useCases := UseCases{
		GetLedger:           getLedger,
		ExportLedger:        ledger.NewExportResidentLedgerUseCase(getLedger, exporters...),
		ListDelinquents:     listDelinquents,
		ExportDelinquents:   delinquency.NewExportDelinquentsUseCase(listDelinquents, exporters...),
		NotifyDelinquents:   delinquency.NewNotifyDelinquentsUseCase(listDelinquents, noticeService),
		RecordCharge:        charge.NewRecordChargeUseCase(residentRepo, chargeRepo, reportCache),
		GenerateMaintenance: charge.NewGenerateMaintenanceChargesUseCase(communityRepo, residentRepo, configRepo, chargeRepo, reportCache),
		RecordPayment:       payment.NewRecordPaymentUseCase(residentRepo, paymentRepo, reportCache),
		ChangePaymentStatus: payment.NewChangePaymentStatusUseCase(paymentRepo, reportCache),
		ListConfig:          communityconfig.NewListConfigUseCase(communityRepo, configRepo),
		SetConfig:           communityconfig.NewSetConfigUseCase(communityRepo, configRepo, reportCache),
	}

	// Create email worker
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		var resendOpts []email.ResendOption
		if cfg.Email.ResendBaseURL != "" {
			resendOpts = append(resendOpts, email.WithBaseURL(cfg.Email.ResendBaseURL))
		}
		if cfg.Email.ReplyTo != "" {
			resendOpts = append(resendOpts, email.WithReplyTo(cfg.Email.ReplyTo))
		}
		resendClient, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, resendOpts...)
		if err != nil {
			return nil, err
		}
		sender = resendClient
	} else {
		slog.Warn("RESEND_API_KEY not set, delinquency notices will be logged instead of sent")
		sender = email.NewLogSender()
	}
	worker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Metrics:      recorder,
	})

	// Create controllers
	healthController := controller.NewHealthController(dbHealthChecker, cacheHealthChecker)
	ledgerController := controller.NewLedgerController(useCases.GetLedger, useCases.ExportLedger)
	delinquencyController := controller.NewDelinquencyController(useCases.ListDelinquents, useCases.ExportDelinquents, useCases.NotifyDelinquents)
	chargeController := controller.NewChargeController(useCases.RecordCharge, useCases.GenerateMaintenance)
	paymentController := controller.NewPaymentController(useCases.RecordPayment, useCases.ChangePaymentStatus)
	configController := controller.NewConfigController(useCases.ListConfig, useCases.SetConfig)

	// Create middleware
	// Notification runs are unlimited in E2E/test environments to prevent flaky tests
	notifyRequests := cfg.Server.NotifyRequests
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		notifyRequests = 0
	}
	notifyRateLimiter := middleware.NewRateLimiter(notifyRequests, cfg.Server.NotifyWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		ledgerController,
		delinquencyController,
		chargeController,
		paymentController,
		configController,
		notifyRateLimiter,
		authMiddleware,
		recorder,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Registry:    registry,
		UseCases:    useCases,
		EmailWorker: worker,
		Router:      r,
	}, nil
}
