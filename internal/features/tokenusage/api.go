package tokenusage

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
	usage := app.Group("/api/threads/:id/usage", middleware.AuthMiddleware(h.config.SkipAuth))

	usage.Get("/", h.controller.GetThreadUsage)
	usage.Put("/", h.controller.SubmitDelta)
}
