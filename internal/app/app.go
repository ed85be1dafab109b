package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/avjabalpur/cian-erp-sub002/internal/controller"
	circuitbreaker "github.com/avjabalpur/cian-erp-sub002/internal/infrastructure/circuit-breaker"
	"github.com/avjabalpur/cian-erp-sub002/internal/infrastructure/tracing"
	localmiddleware "github.com/avjabalpur/cian-erp-sub002/internal/middleware"
	"github.com/avjabalpur/cian-erp-sub002/internal/repository"
	"github.com/avjabalpur/cian-erp-sub002/internal/service"
	"github.com/avjabalpur/cian-erp-sub002/pkg/response"
	"github.com/avjabalpur/cian-erp-sub002/pkg/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type App struct {
	DB          *sqlx.DB
	Config      *config.Config
	KafkaWriter *kafka.Writer
	Server      *echo.Echo

	metrics       *echo.Echo
	scheduler     gocron.Scheduler
	traceProvider *sdktrace.TracerProvider
	authSvc       service.AuthService
}

// BuildServer wires repositories, services and controllers into an echo
// instance without starting any listener or background job.
func (app *App) BuildServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(localmiddleware.Tracing(app.tracer()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)

	g := e.Group("/api/v1")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	var publisher service.EventPublisher = service.NoopEventPublisher{}
	if app.KafkaWriter != nil {
		publisher = service.CreateKafkaEventPublisher(app.KafkaWriter, circuitbreaker.CreateCircuitBreaker("erp-events"))
	}

	tokens := service.CreateTokenIssuer(app.Config.JWTConfig)
	hasher := utils.CreateBcryptHasher(app.Config.AuthConfig.BcryptCost)

	userRepo := repository.CreateUserRepository(app.DB)
	roleRepo := repository.CreateRoleRepository(app.DB)
	salesOrderRepo := repository.CreateSalesOrderRepository(app.DB)

	app.authSvc = service.CreateAuthService(userRepo, roleRepo, tokens, hasher, publisher, app.Config.AuthConfig)
	salesOrderSvc := service.CreateSalesOrderService(salesOrderRepo, publisher, app.Config.SalesOrderConfig)
	stageSvc := service.CreateSalesOrderStageService(salesOrderRepo, publisher)

	isLoggedIn := localmiddleware.RequireAuth(tokens)
	isApprover := localmiddleware.RequireRole(app.Config.SalesOrderConfig.ApproverRoles...)
	rateLimit := localmiddleware.RateLimiter(app.Config.RateLimitConfig)

	controller.CreateAuthController(g, app.authSvc, isLoggedIn, rateLimit)
	controller.CreateSalesOrderController(g, salesOrderSvc, stageSvc, isLoggedIn, isApprover)

	app.Server = e
	return e
}

// tracer falls back to the global no-op provider when no collector is set.
func (app *App) tracer() trace.Tracer {
	serviceName := app.Config.TracingConfig.ServiceName
	if app.Config.TracingConfig.CollectorHost == "" {
		return otel.Tracer(serviceName)
	}

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost, serviceName)
	if err != nil {
		log.Error().Err(err).Str("component", "tracer").Msg("Failed to initialize tracing")
		return otel.Tracer(serviceName)
	}

	app.traceProvider = traceProvider
	return traceProvider.Tracer(serviceName)
}

func (app *App) startScheduler() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			app.Config.AuthConfig.SessionSweepInterval,
		),
		gocron.NewTask(func() {
			_, err := app.authSvc.SweepExpiredSessions(context.Background())
			if err != nil {
				log.Error().Err(err).Str("component", "SweepExpiredSessions").Msg("")
			}
		}),
	)
	if err != nil {
		return err
	}

	s.Start()
	app.scheduler = s

	return nil
}

func (app *App) startMetricsServer() {
	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())

	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()
}

// Start blocks until the HTTP server stops.
func (app *App) Start() error {
	e := app.BuildServer()

	app.startMetricsServer()

	if err := app.startScheduler(); err != nil {
		return err
	}

	err := e.Start(fmt.Sprintf(":%s", app.Config.ServicePort))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errList []error

	if app.scheduler != nil {
		errList = append(errList, app.scheduler.Shutdown())
	}
	if app.Server != nil {
		errList = append(errList, app.Server.Shutdown(ctx))
	}
	if app.metrics != nil {
		errList = append(errList, app.metrics.Shutdown(ctx))
	}
	if app.KafkaWriter != nil {
		errList = append(errList, app.KafkaWriter.Close())
	}
	if app.traceProvider != nil {
		errList = append(errList, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errList...)
}
