package prompt

import (
	"context"
	"time"

	"go-assistant/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{
		Service: service,
	}
}

func (c *Controller) CreatePrompt(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	var p Prompt
	if err := ctx.BodyParser(&p); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p.Business = claims.Business
	if creator, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		p.CreatedBy = creator
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Service.CreatePrompt(ctxt, &p); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(p)
}

func (c *Controller) ListPrompts(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	filter := make(map[string]interface{})
	if group := ctx.Query("group"); group != "" {
		filter["prompt_group"] = group
	}
	if scheduled := ctx.Query("scheduled"); scheduled != "" {
		filter["is_scheduled"] = scheduled == "true"
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prompts, err := c.Service.ListPrompts(ctxt, claims.Business, filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(prompts)
}

func (c *Controller) GetPrompt(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := c.Service.GetPrompt(ctxt, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if p == nil || p.Status == StatusDeleted {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Prompt not found"})
	}

	return ctx.JSON(p)
}

func (c *Controller) UpdatePrompt(ctx *fiber.Ctx) error {
	var p Prompt
	if err := ctx.BodyParser(&p); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid prompt id"})
	}
	p.ID = id

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Service.UpdatePrompt(ctxt, &p); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(p)
}

func (c *Controller) DeletePrompt(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Service.DeletePrompt(ctxt, ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// PreviewSchedule returns the next run instant for a definition without
// persisting it.
func (c *Controller) PreviewSchedule(ctx *fiber.Ctx) error {
	var p Prompt
	if err := ctx.BodyParser(&p); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	next := c.Service.PreviewSchedule(&p)
	return ctx.JSON(fiber.Map{"next_execution": next})
}
