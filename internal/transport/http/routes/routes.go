package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/artifact"
	"github.com/leadshield/scanner-platform/internal/core/port"
	"github.com/leadshield/scanner-platform/internal/infra/config"
	"github.com/leadshield/scanner-platform/internal/transport/http/handlers"
	"github.com/leadshield/scanner-platform/internal/transport/http/middleware"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

// APIPrefix is the mount point of the versioned API. The artifact generator
// must build its public URLs under the same prefix, so callers wiring both
// sides share this constant.
const APIPrefix = "/api/v1"

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Sessions     *usecase.SessionAuthority
	Registration *usecase.RegistrationService
	Pipeline     *usecase.ScanIngestionPipeline
	Provisioning *usecase.ProvisioningService
	Dashboard    *usecase.DashboardAggregator
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Clients     port.ClientRepository
	Generator   *artifact.Generator
	Registry    prometheus.Registerer
	Database    DatabaseChecker
}

// DatabaseChecker exposes readiness behaviour for the central store.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if deps.Registry != nil {
		httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
			Namespace:  deps.Config.Telemetry.Namespace,
			Registerer: deps.Registry,
		})
		if err != nil {
			deps.Logger.Warn("http metrics disabled", zap.Error(err))
		} else {
			r.Use(httpMetrics.Middleware())
		}
	}

	sessionMiddleware := middleware.RequireSession(deps.Services.Sessions)

	healthChecks := make([]handlers.ReadinessCheck, 0, 1)
	if deps.Database != nil {
		healthChecks = append(healthChecks, handlers.ReadinessCheck{Name: "central_store", Probe: deps.Database.Ping})
	}
	healthHandler := handlers.NewHealthHandler(healthChecks...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(APIPrefix)
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Sessions, deps.Services.Registration, deps.Config.Session.TTL)
		authHandler.RegisterRoutes(authGroup, buildLoginMiddlewares(deps)...)

		scannerGroup := api.Group("/scanner")
		scanHandler := handlers.NewScanHandler(deps.Services.Pipeline, deps.Clients)
		scanHandler.RegisterRoutes(scannerGroup)
		scanHandler.RegisterOwnerRoutes(api, sessionMiddleware)

		embedHandler := handlers.NewEmbedHandler(deps.Services.Provisioning, deps.Generator)
		embedHandler.RegisterRoutes(scannerGroup)

		customizeHandler := handlers.NewCustomizeHandler(deps.Services.Provisioning)
		customizeHandler.RegisterRoutes(api, sessionMiddleware)

		dashboardHandler := handlers.NewDashboardHandler(deps.Services.Dashboard, deps.Clients)
		dashboardHandler.RegisterRoutes(api, sessionMiddleware)
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return nil
	}
	return []gin.HandlerFunc{deps.RateLimiter.Middleware()}
}
