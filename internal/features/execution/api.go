package execution

import (
	"go-assistant/internal/config"
	"go-assistant/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Api struct {
	controller *Controller
	config     *config.Config
}

func NewApi(controller *Controller, config *config.Config) *Api {
	return &Api{
		controller: controller,
		config:     config,
	}
}

func (h *Api) Setup(app *fiber.App) {
	scheduler := app.Group("/api/scheduler", middleware.AuthMiddleware(h.config.SkipAuth))
	scheduler.Post("/run", h.controller.RunPass)
	scheduler.Post("/run/:id", h.controller.RunPrompt)

	executions := app.Group("/api/executions", middleware.AuthMiddleware(h.config.SkipAuth))
	executions.Get("/export", h.controller.Export)
	executions.Get("/prompt/:id", h.controller.ListByPrompt)
}
