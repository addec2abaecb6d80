package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/suministros-api/internal/application/analytics"
	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/auth"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/inventory"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/application/requests"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/application/usecase"
	"github.com/jhoicas/suministros-api/internal/domain/authz"
	"github.com/jhoicas/suministros-api/internal/infrastructure/metrics"
	"github.com/jhoicas/suministros-api/internal/infrastructure/notify"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	SupplyUC    *inventory.SupplyUseCase
	RequestUC   *requests.UseCase
	UserUC      *usecase.UserUseCase
	Settings    *settings.Service
	Audit       *audit.Logger
	DashboardUC *analytics.DashboardUseCase
	Hub         *notify.Hub
	Publisher   ports.NotificationPublisher
	Policy      authz.Policy
	Metrics     *metrics.Metrics // nil: sin /metrics
	Log         *logger.Logger

	JWTSecret      string
	Cookie         CookieSettings
	CORSOrigins    string
	LoginRateLimit int // intentos por minuto por IP; 0 desactiva

	// HealthCheck verifica dependencias externas (ping a la base de datos).
	HealthCheck func(ctx context.Context) error
}

// Router registra middlewares globales y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	policy := deps.Policy
	if policy == nil {
		policy = authz.Default()
	}
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Use(RequestLogger(log))
	if deps.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := deps.HealthCheck(ctx); err != nil {
				log.Warn().Err(err).Msg("health check")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authRequired := AuthMiddleware(deps.JWTSecret, deps.Cookie.Name, WithSessionSource(deps.AuthUC))
	can := func(c authz.Capability) fiber.Handler { return Authorize(policy, c) }

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authLimiter(deps.LoginRateLimit), authHandler.Register)
	authGroup.Post("/login", authLimiter(deps.LoginRateLimit), authHandler.Login)
	authGroup.Post("/logout", OptionalAuth(deps.JWTSecret, deps.Cookie.Name), authHandler.Logout)
	authGroup.Get("/me", authRequired, authHandler.Me)

	// Suministros
	supplyHandler := NewSupplyHandler(deps.SupplyUC, log)
	supplies := api.Group("/supplies", authRequired)
	supplies.Get("/", can(authz.SuppliesRead), supplyHandler.List)
	supplies.Get("/:id", can(authz.SuppliesRead), supplyHandler.Get)
	supplies.Post("/", can(authz.SuppliesWrite), supplyHandler.Create)
	supplies.Put("/", can(authz.SuppliesWrite), supplyHandler.Update)
	supplies.Put("/:id", can(authz.SuppliesWrite), supplyHandler.Update)
	supplies.Patch("/:id", can(authz.SuppliesWrite), supplyHandler.SetQuantity)
	supplies.Delete("/", can(authz.SuppliesWrite), supplyHandler.Delete)
	supplies.Delete("/:id", can(authz.SuppliesWrite), supplyHandler.Delete)

	// Solicitudes
	requestHandler := NewRequestHandler(deps.RequestUC, policy, deps.Metrics, log)
	reqs := api.Group("/requests", authRequired)
	reqs.Get("/", can(authz.RequestsRead), requestHandler.List)
	reqs.Get("/:id", can(authz.RequestsRead), requestHandler.Get)
	reqs.Post("/", can(authz.RequestsCreate), requestHandler.Create)
	reqs.Put("/", can(authz.RequestsDecide), requestHandler.Transition)
	reqs.Put("/:id", can(authz.RequestsDecide), requestHandler.Transition)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC, log)
	users := api.Group("/users", authRequired, can(authz.UsersManage))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Post("/", userHandler.Create)
	users.Put("/", userHandler.Update)
	users.Put("/:id", userHandler.Update)
	users.Delete("/", userHandler.Delete)
	users.Delete("/:id", userHandler.Delete)

	// Administración
	settingsHandler := NewSettingsHandler(deps.Settings, log)
	adminHandler := NewAdminHandler(deps.DashboardUC, deps.Audit, log)
	admin := api.Group("/admin", authRequired)
	admin.Get("/settings", can(authz.SettingsManage), settingsHandler.List)
	admin.Put("/settings", can(authz.SettingsManage), settingsHandler.Update)
	admin.Get("/audit-logs", can(authz.AuditRead), adminHandler.AuditLogs)
	admin.Get("/dashboard", can(authz.DashboardRead), adminHandler.Dashboard)
	admin.Get("/reports/inventory.pdf", can(authz.ReportsRead), supplyHandler.Report)

	// Notificaciones
	publisher := deps.Publisher
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if deps.Hub != nil {
		notificationHandler := NewNotificationHandler(deps.Hub, publisher, log)
		notifications := api.Group("/notifications", authRequired, can(authz.NotificationsSubscribe))
		notifications.Post("/test", notificationHandler.SendTest)
		notifications.Delete("/", notificationHandler.Clear)

		app.Get("/ws", RequireUpgrade, authRequired, can(authz.NotificationsSubscribe), notificationHandler.Socket())
	}
}

// authLimiter limita por IP. Cada llamada crea su propio contador: una instancia por ruta.
func authLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "RATE_LIMITED", Message: "demasiados intentos, espere un minuto",
			})
		},
	})
}
