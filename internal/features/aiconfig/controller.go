package aiconfig

import (
	"context"
	"time"

	"go-assistant/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Controller struct {
	Repo Repository
}

func NewController(repo Repository) *Controller {
	return &Controller{
		Repo: repo,
	}
}

func (c *Controller) callerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Missing identity")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

func (c *Controller) ListAIConfigs(ctx *fiber.Ctx) error {
	userID, err := c.callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	configs, err := c.Repo.ListAIConfigs(ctxt, userID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(configs)
}

func (c *Controller) SaveAIConfig(ctx *fiber.Ctx) error {
	userID, err := c.callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var cfg AIConfig
	if err := ctx.BodyParser(&cfg); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	cfg.UserID = userID
	if cfg.Status == "" {
		cfg.Status = StatusActive
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Repo.UpsertAIConfig(ctxt, &cfg); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(cfg)
}

func (c *Controller) SaveCommerceConfig(ctx *fiber.Ctx) error {
	userID, err := c.callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var cfg CommerceConfig
	if err := ctx.BodyParser(&cfg); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	cfg.UserID = userID
	if cfg.Status == "" {
		cfg.Status = StatusActive
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Repo.UpsertCommerceConfig(ctxt, &cfg); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(cfg)
}
