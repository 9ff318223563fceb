package thread

import (
	"context"
	"time"

	"go-assistant/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Controller struct {
	Repo  Repository
	cache *SuggestionCache
}

func NewController(repo Repository) *Controller {
	return &Controller{
		Repo:  repo,
		cache: NewSuggestionCache(5 * time.Minute),
	}
}

func (c *Controller) GetThread(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t, err := c.Repo.GetByID(ctxt, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if t == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Thread not found"})
	}

	return ctx.JSON(t)
}

func (c *Controller) ListMyThreads(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing identity"})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	threads, err := c.Repo.ListByUser(ctxt, userID, int64(ctx.QueryInt("limit", 50)))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(threads)
}

// GetSuggestions returns follow-up suggestions for a thread. Results are
// cached per thread with a short TTL since generating them is not free.
func (c *Controller) GetSuggestions(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	if suggestions, ok := c.cache.Get(id); ok {
		return ctx.JSON(fiber.Map{"suggestions": suggestions, "cached": true})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t, err := c.Repo.GetByID(ctxt, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if t == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Thread not found"})
	}

	suggestions := suggestionsFor(t)
	c.cache.Set(id, suggestions)
	return ctx.JSON(fiber.Map{"suggestions": suggestions, "cached": false})
}

func suggestionsFor(t *Thread) []string {
	if _, scheduled := t.Metadata[MetaScheduledPromptID]; scheduled {
		return []string{
			"Run this check again now",
			"Summarize what changed since the last run",
			"Turn the findings into a task list",
		}
	}
	return []string{
		"Show me today's orders",
		"Which products are low on stock?",
		"Summarize this conversation",
	}
}
