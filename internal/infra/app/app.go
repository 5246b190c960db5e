package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/artifact"
	"github.com/leadshield/scanner-platform/internal/assessment"
	"github.com/leadshield/scanner-platform/internal/infra/config"
	"github.com/leadshield/scanner-platform/internal/infra/logger"
	"github.com/leadshield/scanner-platform/internal/infra/security"
	"github.com/leadshield/scanner-platform/internal/infra/telemetry"
	"github.com/leadshield/scanner-platform/internal/notify"
	"github.com/leadshield/scanner-platform/internal/repository/sqlite"
	"github.com/leadshield/scanner-platform/internal/transport/http/middleware"
	"github.com/leadshield/scanner-platform/internal/transport/http/routes"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

// centralDBFile is the central store filename under the storage root.
const centralDBFile = "leadshield.db"

// sessionSweepInterval controls how often expired sessions are purged.
const sessionSweepInterval = time.Hour

// Application wires configuration, storage, services and transport into a
// runnable process.
type Application struct {
	cfg         *config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	central     *sqlite.CentralStore
	tenants     *sqlite.TenantStore
	sessions    *usecase.SessionAuthority
	rateLimiter *middleware.RateLimiter
}

// New builds the application. All initialization is explicit: nothing opens
// a database or spawns a goroutine before New is called.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	central, err := sqlite.OpenCentral(ctx, filepath.Join(cfg.Storage.Root, centralDBFile))
	if err != nil {
		return nil, fmt.Errorf("open central store: %w", err)
	}

	users := sqlite.NewUserRepository(central)
	clients := sqlite.NewClientRepository(central)
	scanners := sqlite.NewScannerRepository(central)
	sessionRepo := sqlite.NewSessionRepository(central)
	scanHistory := sqlite.NewScanHistoryRepository(central)

	tenants := sqlite.NewTenantStore(filepath.Join(cfg.Storage.Root, "tenants"))

	generator, err := artifact.NewGenerator(cfg.Storage.Root, cfg.App.BaseURL+routes.APIPrefix)
	if err != nil {
		_ = central.Close()
		return nil, fmt.Errorf("init artifact generator: %w", err)
	}

	metrics, err := telemetry.New(cfg.Telemetry.Namespace, prometheus.DefaultRegisterer)
	if err != nil {
		_ = central.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	var mailer notify.Mailer = notify.NoopMailer{}
	if cfg.Email.Enabled && cfg.Email.SendGridKey != "" {
		mailer = notify.NewSendGridMailer(cfg.Email.SendGridKey, cfg.Email.FromName, cfg.Email.FromAddress)
	}
	notifier := notify.NewScanNotifier(mailer, log)

	engine := assessment.NewSimulatedEngine()

	sessions := usecase.NewSessionAuthority(users, sessionRepo, cfg.Session.TTL)
	registration := usecase.NewRegistrationService(users, security.DefaultPasswordValidator())
	pipeline := usecase.NewScanIngestionPipeline(scanners, clients, tenants, scanHistory, engine, notifier, metrics, log)
	provisioning := usecase.NewProvisioningService(clients, scanners, tenants, generator, metrics, log)
	dashboard := usecase.NewDashboardAggregator(tenants, scanHistory, log)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)

	router := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Clients:     clients,
		Generator:   generator,
		Registry:    prometheus.DefaultRegisterer,
		Database:    central,
		Services: routes.ServiceSet{
			Sessions:     sessions,
			Registration: registration,
			Pipeline:     pipeline,
			Provisioning: provisioning,
			Dashboard:    dashboard,
		},
	})

	return &Application{
		cfg:         cfg,
		engine:      router,
		logger:      log,
		central:     central,
		tenants:     tenants,
		sessions:    sessions,
		rateLimiter: rateLimiter,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		_ = a.tenants.Close()
	}()
	defer func() {
		_ = a.central.Close()
	}()
	defer a.rateLimiter.Stop()

	go a.sweepSessions(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting scanner platform API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// sweepSessions periodically purges expired sessions so the central store
// does not accumulate dead rows.
func (a *Application) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.sessions.SweepExpired(ctx)
			if err != nil {
				a.logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				a.logger.Info("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}
