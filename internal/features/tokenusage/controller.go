package tokenusage

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{
		Service: service,
	}
}

// GetThreadUsage returns the running usage aggregate for a thread.
func (c *Controller) GetThreadUsage(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	usage, err := c.Service.GetThreadUsage(ctxt, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if usage == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Thread not found"})
	}

	return ctx.JSON(usage)
}

// SubmitDelta merges an externally-reported usage increment into a thread's
// totals. Used by conversation executors running out of process.
func (c *Controller) SubmitDelta(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var delta UsageDelta
	if err := ctx.BodyParser(&delta); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	usage, err := c.Service.UpdateTokenUsage(ctxt, id, delta, "")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if usage == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Thread not found"})
	}

	return ctx.JSON(usage)
}
