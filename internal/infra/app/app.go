package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/infra/config"
	"github.com/Kaua3045/ecommerce-users/internal/infra/database"
	kafkainfra "github.com/Kaua3045/ecommerce-users/internal/infra/kafka"
	"github.com/Kaua3045/ecommerce-users/internal/infra/logger"
	redisinfra "github.com/Kaua3045/ecommerce-users/internal/infra/redis"
	"github.com/Kaua3045/ecommerce-users/internal/infra/security"
	"github.com/Kaua3045/ecommerce-users/internal/infra/storage"
	"github.com/Kaua3045/ecommerce-users/internal/infra/telemetry"
	postgresrepo "github.com/Kaua3045/ecommerce-users/internal/repository/postgres"
	redisrepo "github.com/Kaua3045/ecommerce-users/internal/repository/redis"
	"github.com/Kaua3045/ecommerce-users/internal/transport/http/middleware"
	"github.com/Kaua3045/ecommerce-users/internal/transport/http/routes"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (_ *Application, err error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &Application{cfg: cfg, logger: log}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	a.tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(cfg.Postgres.DSN(), cfg.Postgres.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}

	a.pool, err = database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	a.redis, err = redisinfra.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(a.pool)
	accountCache := redisrepo.NewAccountCache(a.redis.Redis(), cfg.Redis.AccountCacheTTL)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(a.redis.Redis(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})

	encrypter, err := security.NewArgon2Encrypter(security.ParamsFromConfig(cfg.Argon2))
	if err != nil {
		return nil, fmt.Errorf("init encrypter: %w", err)
	}

	signer, err := security.NewHMACSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token signer: %w", err)
	}

	avatars, err := newAvatarGateway(ctx, cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("init avatar storage: %w", err)
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			a.producer = producer
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	accountService := usecase.NewAccountService(repos.Accounts, repos.Roles, accountCache, encrypter, avatars, eventPublisher, log)
	mailService := usecase.NewAccountMailService(repos.Accounts, repos.AccountMails, accountCache, encrypter, eventPublisher, log)
	mailService.WithTTLs(cfg.Mail.ConfirmationTTL, cfg.Mail.PasswordResetTTL)
	codeService := usecase.NewAccountCodeService(repos.Accounts, repos.AccountCodes, signer, log)
	roleService := usecase.NewRoleService(repos.Roles, repos.Permissions, log)
	permissionService := usecase.NewPermissionService(repos.Permissions, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	a.engine = routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: middleware.NewRateLimiter(rateLimitStore, log),
		Metrics:     metrics,
		Database:    a.pool,
		Cache:       a.redis,
		Services: routes.ServiceSet{
			Accounts:     accountService,
			AccountMails: mailService,
			AccountCodes: codeService,
			Roles:        roleService,
			Permissions:  permissionService,
		},
	})

	return a, nil
}

func newAvatarGateway(ctx context.Context, cfg config.S3Settings, log *zap.Logger) (port.AvatarGateway, error) {
	if cfg.Bucket == "" {
		log.Info("avatar bucket not configured, uploads disabled")
		return storage.DisabledAvatarGateway{}, nil
	}
	return storage.NewS3AvatarGateway(ctx, cfg, log)
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting users API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	timeout := a.cfg.App.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		a.close(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		a.close(context.Background())
		return err
	}
}

// close releases dependencies in reverse order of construction.
func (a *Application) close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("close kafka producer", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("shutdown tracer", zap.Error(err))
		}
	}
}
