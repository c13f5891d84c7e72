package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/infra/config"
	"github.com/Kaua3045/ecommerce-users/internal/transport/http/handlers"
	"github.com/Kaua3045/ecommerce-users/internal/transport/http/middleware"
)

// ServiceSet groups the use cases exposed over HTTP. Nil members leave their routes unregistered.
type ServiceSet struct {
	Accounts     handlers.AccountUseCases
	AccountMails handlers.AccountMailUseCases
	AccountCodes handlers.AccountCodeUseCases
	Roles        handlers.RoleUseCases
	Permissions  handlers.PermissionUseCases
}

// Pinger is a dependency probed by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    Pinger
	Cache       Pinger
}

// Register builds the gin engine.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(deps.Metrics.Handler())
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.Ping))
	}
	health := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", health.Status)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	services := deps.Services

	if services.Accounts != nil {
		handlers.NewAccountHandler(services.Accounts).RegisterRoutes(api.Group("/accounts"))
	}
	if services.AccountMails != nil {
		handlers.NewAccountMailHandler(services.AccountMails).RegisterRoutes(api.Group("/mails"), mailRequestLimits(deps)...)
	}
	if services.AccountCodes != nil {
		handlers.NewAccountCodeHandler(services.AccountCodes).RegisterRoutes(api.Group("/codes"))
	}
	if services.Roles != nil {
		handlers.NewRoleHandler(services.Roles).RegisterRoutes(api.Group("/roles"))
	}
	if services.Permissions != nil {
		handlers.NewPermissionHandler(services.Permissions).RegisterRoutes(api.Group("/permissions"))
	}

	return r
}

func mailRequestLimits(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	return []gin.HandlerFunc{deps.RateLimiter.Limit(middleware.RateLimitRule{
		Name:   "mail_request_ip",
		Limit:  deps.Config.RateLimit.MailRequestMaxAttempts,
		Window: window,
		Key:    middleware.ClientIPKey(),
	})}
}
