package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hosteldesk/hosteldesk/config"
	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/postgres"
	"github.com/hosteldesk/hosteldesk/internal/adapters/memsession"
	"github.com/hosteldesk/hosteldesk/internal/adapters/reaper"
	redisadapter "github.com/hosteldesk/hosteldesk/internal/adapters/redis"
	"github.com/hosteldesk/hosteldesk/internal/adapters/sweeper"
	"github.com/hosteldesk/hosteldesk/internal/observability/notify"
	"github.com/hosteldesk/hosteldesk/internal/observability/notify/slack"
	"github.com/hosteldesk/hosteldesk/internal/observability/statsd"
	"github.com/hosteldesk/hosteldesk/internal/ports"
	"github.com/hosteldesk/hosteldesk/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Accounts      *service.AccountService
	Rooms         *service.RoomService
	Announcements *service.AnnouncementService
	Complaints    *service.ComplaintService
	Payments      *service.PaymentService
	Dashboard     *service.DashboardService
	Docs          ports.DocumentStore
	Sessions      ports.SessionStore
	Observability ObservabilityContainer

	// Adapters the background workers draw on.
	SessionSweeper reaper.SessionSweeper
	TokenPurger    reaper.TokenPurger
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	OpsNotifier    notify.Sink
	NotifierConfig config.ObservabilityNotificationsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "hosteldesk",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:    metricsSink,
		MetricsConfig:  cfg.Metrics,
		OpsNotifier:    buildOpsNotifier(obsLogger, cfg.Notifications),
		NotifierConfig: cfg.Notifications,
	}
}

// buildOpsNotifier wires the Slack webhook sink for worker notifications.
// Returns nil when notifications are disabled; the workers treat a nil sink
// as log-only.
//
//nolint:ireturn // returning notify.Sink keeps the sink choice internal.
func buildOpsNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) notify.Sink {
	if !cfg.Enabled || !cfg.Slack.Enabled {
		return nil
	}

	client, err := slack.NewClient(slack.Config{
		WebhookURL: cfg.Slack.WebhookURL,
		Channel:    cfg.Slack.Channel,
		Username:   cfg.Slack.Username,
		Timeout:    cfg.Timeout,
		RetryLimit: cfg.RetryLimit,
	})
	if err != nil {
		logger.Error("failed to initialise slack notifier", "error", err)
		return nil
	}
	return client
}

// ttlSweeper satisfies the session reaper when Redis owns expiry via key TTLs.
type ttlSweeper struct{}

func (ttlSweeper) DeleteExpired(context.Context, time.Time, int) (int, error) { return 0, nil }

// storageAdapters groups the persistence adapters behind the service ports.
type storageAdapters struct {
	Docs           ports.DocumentStore
	Sessions       ports.SessionStore
	SessionSweeper reaper.SessionSweeper
}

// buildStorageAdapters selects the document and session stores. Postgres backs
// documents whenever a database connection is available; otherwise everything
// lives in process memory, which is what development and tests run on.
func buildStorageAdapters(deps *ServiceDeps, logger *slog.Logger) storageAdapters {
	var docs ports.DocumentStore
	if deps.DB != nil {
		docs = postgres.NewStore(deps.DB)
	} else {
		logger.Warn("no database connection; using in-memory document store")
		docs = memory.NewStore()
	}

	backend := config.SessionBackendMemory
	if deps.Config != nil {
		backend = deps.Config.Sessions.Backend
	}

	if backend == config.SessionBackendRedis {
		if deps.RedisClient != nil {
			return storageAdapters{
				Docs:           docs,
				Sessions:       redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:"),
				SessionSweeper: ttlSweeper{},
			}
		}
		logger.Warn("redis session backend configured but redis client missing; using in-memory sessions")
	}

	store := memsession.NewStore()
	return storageAdapters{
		Docs:           docs,
		Sessions:       store,
		SessionSweeper: store,
	}
}

// NewServices wires adapters and domain services from loaded configuration.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := buildObservability(logger, appCfg.Observability)
	storage := buildStorageAdapters(deps, logger)

	auth := buildAuthService(AuthBuildConfig{
		Auth:        appCfg.Auth,
		Docs:        storage.Docs,
		Sessions:    storage.Sessions,
		CallbackURL: appCfg.HTTP.CallbackURL(),
		Logger:      logger,
	})

	accounts := service.NewAccountService(storage.Docs, logger)
	rooms := service.NewRoomService(storage.Docs, logger)
	announcements := service.NewAnnouncementService(storage.Docs, logger)
	complaints := service.NewComplaintService(storage.Docs, logger)
	payments := service.NewPaymentService(storage.Docs, logger)
	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Docs:          storage.Docs,
		Accounts:      accounts,
		Rooms:         rooms,
		Announcements: announcements,
		Complaints:    complaints,
		Payments:      payments,
		Logger:        logger,
	})

	return ServiceContainer{
		Auth:           auth.service,
		Accounts:       accounts,
		Rooms:          rooms,
		Announcements:  announcements,
		Complaints:     complaints,
		Payments:       payments,
		Dashboard:      dashboard,
		Docs:           storage.Docs,
		Sessions:       storage.Sessions,
		Observability:  observability,
		SessionSweeper: storage.SessionSweeper,
		TokenPurger:    auth.provider,
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newSessionReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSessionReaper,
		name: "session reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reaperCfg config.SessionReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.SessionReaper
			}
			runner, err := reaper.NewRunner(reaper.RunnerOptions{
				Sessions: deps.cfg.Services.SessionSweeper,
				Tokens:   deps.cfg.Services.TokenPurger,
				Config:   reaperCfg,
				Logger:   deps.logger,
				Metrics:  deps.cfg.Services.Observability.MetricsSink,
				Notifier: deps.cfg.Services.Observability.OpsNotifier,
			})
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func newOverdueSweeperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeOverdueSweeper,
		name: "overdue sweeper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var sweepCfg config.OverdueSweepConfig
			if deps.cfg.Config != nil {
				sweepCfg = deps.cfg.Config.OverdueSweep
			}
			runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
				Payments: deps.cfg.Services.Payments,
				Config:   sweepCfg,
				Logger:   deps.logger,
				Metrics:  deps.cfg.Services.Observability.MetricsSink,
				Notifier: deps.cfg.Services.Observability.OpsNotifier,
			})
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSessionReaperBackgroundService(deps),
		newOverdueSweeperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	modes := []config.ServiceMode{
		config.ServiceModeHTTP,
		config.ServiceModeSessionReaper,
		config.ServiceModeOverdueSweeper,
	}

	count := 0
	for _, mode := range modes {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running. The service context is already
	// cancelled at this point, so the drain deadline hangs off a fresh context.
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
