package prompt

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
	prompts := app.Group("/api/prompts", middleware.AuthMiddleware(h.config.SkipAuth))

	prompts.Get("/", h.controller.ListPrompts)
	prompts.Post("/", h.controller.CreatePrompt)
	prompts.Post("/preview-schedule", h.controller.PreviewSchedule)
	prompts.Get("/:id", h.controller.GetPrompt)
	prompts.Put("/:id", h.controller.UpdatePrompt)
	prompts.Delete("/:id", h.controller.DeletePrompt)
}
