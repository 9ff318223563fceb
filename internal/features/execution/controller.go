package execution

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-assistant/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Controller struct {
	Processor    BatchProcessor
	Orchestrator Orchestrator
	Logs         Repository
}

func NewController(processor BatchProcessor, orchestrator Orchestrator, logs Repository) *Controller {
	return &Controller{
		Processor:    processor,
		Orchestrator: orchestrator,
		Logs:         logs,
	}
}

// RunPass triggers one batch pass over all due prompts. External schedulers
// (cron, Cloud Scheduler) hit this endpoint once a minute.
func (c *Controller) RunPass(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var results []PromptExecutionResult
	if ctx.Query("parallel") == "true" {
		results = c.Processor.ProcessDuePromptsParallel(ctxt)
	} else {
		results = c.Processor.ProcessDuePrompts(ctxt)
	}

	return ctx.JSON(fiber.Map{
		"processed": len(results),
		"results":   results,
	})
}

// RunPrompt executes a single prompt immediately, outside its schedule.
func (c *Controller) RunPrompt(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := c.Orchestrator.ExecuteScheduledPrompt(ctxt, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(result)
}

func (c *Controller) ListByPrompt(ctx *fiber.Ctx) error {
	promptID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid prompt id"})
	}

	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, err := c.Logs.ListByPrompt(ctxt, promptID, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(logs)
}

// Export streams the business's execution history as an XLSX download.
func (c *Controller) Export(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	limit, _ := strconv.ParseInt(ctx.Query("limit", "1000"), 10, 64)

	ctxt, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, filename, err := ExportLogsToExcel(ctxt, c.Logs, claims.Business, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(data)
}
