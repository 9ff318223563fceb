package user

import (
	"context"
	"time"

	"go-assistant/internal/config"
	"go-assistant/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Api struct {
	repo   Repository
	config *config.Config
}

func NewApi(repo Repository, config *config.Config) *Api {
	return &Api{
		repo:   repo,
		config: config,
	}
}

func (h *Api) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/", h.listBusinessUsers)
	users.Get("/:id", h.getUser)
}

func (h *Api) listBusinessUsers(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := h.repo.ListByBusiness(ctxt, claims.Business)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(users)
}

func (h *Api) getUser(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u, err := h.repo.FindByID(ctxt, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if u == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return ctx.JSON(u)
}
