package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-assistant/internal/common/api"
	"go-assistant/internal/config"
	"go-assistant/internal/database"
	"go-assistant/internal/executor"
	"go-assistant/internal/executor/openai"
	"go-assistant/internal/features/aiconfig"
	"go-assistant/internal/features/execution"
	"go-assistant/internal/features/notification"
	"go-assistant/internal/features/prompt"
	"go-assistant/internal/features/thread"
	"go-assistant/internal/features/tokenusage"
	"go-assistant/internal/features/user"
	"go-assistant/internal/logger"
	"go-assistant/internal/middleware"
	"go-assistant/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx collects it into the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			user.NewRepository,
			prompt.NewRepository,
			thread.NewRepository,
			aiconfig.NewRepository,
			notification.NewRepository,
			tokenusage.NewRepository,
			execution.NewRepository,

			// Services
			tokenusage.NewService,
			notification.NewService,
			prompt.NewService,
			execution.NewOrchestrator,
			execution.NewBatchProcessor,

			// Agent executor
			func(usage tokenusage.Service, l *zap.Logger) executor.Executor {
				return openai.New(usage, 2, l)
			},

			// Interface adapters to satisfy Fx
			func(r user.Repository) execution.UserDirectory { return r },

			// Controllers
			prompt.NewController,
			thread.NewController,
			aiconfig.NewController,
			notification.NewController,
			tokenusage.NewController,
			execution.NewController,

			// API routes
			AsRoute(prompt.NewApi),
			AsRoute(thread.NewApi),
			AsRoute(aiconfig.NewApi),
			AsRoute(notification.NewApi),
			AsRoute(tokenusage.NewApi),
			AsRoute(execution.NewApi),
			AsRoute(user.NewApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			execution.NewTrigger,
		),
	)

	app.Run()
}
