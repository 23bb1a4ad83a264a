package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/pipeline"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/pkg/logger"
)

type PipelineHandler struct {
	processor *pipeline.Processor
	db        *sqlite.Client
}

func NewPipelineHandler(processor *pipeline.Processor, db *sqlite.Client) *PipelineHandler {
	return &PipelineHandler{
		processor: processor,
		db:        db,
	}
}

// Process runs the extraction pipeline over the user's stored
// transcripts synchronously and returns a summary of what was found.
func (h *PipelineHandler) Process(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
		Force  bool   `json:"force"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	result, err := h.processor.Process(c.Context(), req.UserID, req.Force)
	if err != nil {
		logger.Error("Pipeline failed", zap.String("user_id", req.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Processing failed",
		})
	}

	return c.JSON(result)
}

func (h *PipelineHandler) Status(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	status, err := h.db.GetProcessingStatus(userID)
	if err != nil {
		logger.Error("Failed to load processing status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load processing status",
		})
	}

	return c.JSON(fiber.Map{
		"user_id": userID,
		"status":  status.Status,
		"detail":  status.Detail,
	})
}
