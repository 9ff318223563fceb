package notification

import (
	"go-assistant/internal/config"
	"go-assistant/internal/middleware"

	"github.com/gofiber/contrib/websocket"
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
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	notifications.Get("/", h.controller.List)
	notifications.Get("/unread-count", h.controller.UnreadCount)
	notifications.Put("/:id/read", h.controller.MarkAsRead)
	notifications.Put("/read-all", h.controller.MarkAllAsRead)

	// Live stream. The auth middleware runs before the websocket upgrade so
	// the handler can trust the user id it stashes in Locals.
	app.Use("/ws/notifications", middleware.AuthMiddleware(h.config.SkipAuth), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			if claims := middleware.Claims(c); claims != nil {
				c.Locals("user_id", claims.UserID)
			}
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/notifications", websocket.New(h.controller.HandleStream))
}
