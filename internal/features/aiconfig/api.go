package aiconfig

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
	configs := app.Group("/api/configs", middleware.AuthMiddleware(h.config.SkipAuth))

	configs.Get("/ai", h.controller.ListAIConfigs)
	configs.Post("/ai", h.controller.SaveAIConfig)
	configs.Post("/commerce", h.controller.SaveCommerceConfig)
}
