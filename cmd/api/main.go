package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/suministros-api/internal/application/analytics"
	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/auth"
	"github.com/jhoicas/suministros-api/internal/application/inventory"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/application/requests"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/application/usecase"
	"github.com/jhoicas/suministros-api/internal/domain/authz"
	"github.com/jhoicas/suministros-api/internal/infrastructure/metrics"
	"github.com/jhoicas/suministros-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suministros-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/suministros-api/internal/interfaces/http"
	"github.com/jhoicas/suministros-api/pkg/config"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	m := metrics.New()

	// Hub local; con Redis las notificaciones pasan por el canal compartido y el relay
	// las entrega a este hub (y al de cada instancia).
	hub := notify.NewHub(log, notify.WithMetrics(m.NotificationsDropped, m.WebsocketConnections))
	var publisher ports.NotificationPublisher = hub
	if cfg.Redis.Enabled() {
		rdb, err := notify.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		publisher = notify.NewRedisPublisher(rdb, cfg.Redis.Channel)
		relay := notify.NewRedisRelay(rdb, cfg.Redis.Channel, hub, log)
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Error().Err(err).Msg("relay de notificaciones")
			}
		}()
	}
	publisher = metrics.InstrumentPublisher(publisher, m)

	userRepo := postgres.NewUserRepository(pool)
	supplyRepo := postgres.NewSupplyRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := settings.NewResolver(settingRepo, log)
	auditLog := audit.NewLogger(auditRepo, log)

	authUC := auth.NewAuthUseCase(userRepo, txRunner, auditLog, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	supplyUC := inventory.NewSupplyUseCase(supplyRepo, requestRepo, txRunner, publisher,
		infrapdf.NewMarotoReportGenerator("Reporte de inventario"), log)
	requestUC := requests.NewUseCase(requestRepo, resolver, txRunner, publisher, log)
	userUC := usecase.NewUserUseCase(userRepo, txRunner)
	settingsSvc := settings.NewService(settingRepo, txRunner)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo, resolver)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Suministros API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		SupplyUC:    supplyUC,
		RequestUC:   requestUC,
		UserUC:      userUC,
		Settings:    settingsSvc,
		Audit:       auditLog,
		DashboardUC: dashboardUC,
		Hub:         hub,
		Publisher:   publisher,
		Policy:      authz.Default(),
		Metrics:     m,
		Log:         log,
		JWTSecret:   cfg.JWT.Secret,
		Cookie: httpRouter.CookieSettings{
			Name:   cfg.Cookie.Name,
			Secure: cfg.Cookie.Secure,
			MaxAge: time.Duration(cfg.JWT.Expiration) * time.Minute,
		},
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
		HealthCheck:    pool.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
