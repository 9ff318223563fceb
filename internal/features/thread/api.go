package thread

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
	threads := app.Group("/api/threads", middleware.AuthMiddleware(h.config.SkipAuth))

	threads.Get("/", h.controller.ListMyThreads)
	threads.Get("/:id", h.controller.GetThread)
	threads.Get("/:id/suggestions", h.controller.GetSuggestions)
}
