package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/pkg/logger"
)

type TimelineHandler struct {
	db *sqlite.Client
}

func NewTimelineHandler(db *sqlite.Client) *TimelineHandler {
	return &TimelineHandler{db: db}
}

// Get returns the user's persisted timeline in chronological order.
func (h *TimelineHandler) Get(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	entries, err := loadTimelineEntries(h.db, userID)
	if err != nil {
		logger.Error("Failed to load timeline", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load timeline",
		})
	}

	return c.JSON(fiber.Map{
		"timeline": entries,
		"count":    len(entries),
	})
}
