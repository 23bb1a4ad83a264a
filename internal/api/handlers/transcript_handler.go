package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/pipeline"
	"github.com/instabio/backend/internal/storage/models"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/pkg/logger"
)

type TranscriptHandler struct {
	db *sqlite.Client
}

func NewTranscriptHandler(db *sqlite.Client) *TranscriptHandler {
	return &TranscriptHandler{db: db}
}

// Upload stores one recorded session's transcript. Text is normalized
// before storage so downstream consumers never see raw markup.
func (h *TranscriptHandler) Upload(c *fiber.Ctx) error {
	var req struct {
		UserID      string  `json:"user_id"`
		SessionID   string  `json:"session_id"`
		Text        string  `json:"text"`
		DurationSec float64 `json:"duration_sec"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == "" || req.SessionID == "" || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id, session_id and text are required",
		})
	}

	transcript := &models.Transcript{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		Text:        pipeline.CleanTranscript(req.Text),
		DurationSec: req.DurationSec,
		CreatedAt:   time.Now(),
	}

	if err := h.db.InsertTranscript(transcript); err != nil {
		logger.Error("Failed to store transcript", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store transcript",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Transcript stored",
		"id":         transcript.ID,
		"session_id": transcript.SessionID,
	})
}

func (h *TranscriptHandler) List(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	transcripts, err := h.db.GetTranscriptsByUser(userID)
	if err != nil {
		logger.Error("Failed to load transcripts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load transcripts",
		})
	}

	items := make([]fiber.Map, 0, len(transcripts))
	for _, t := range transcripts {
		items = append(items, fiber.Map{
			"id":           t.ID,
			"session_id":   t.SessionID,
			"duration_sec": t.DurationSec,
			"created_at":   t.CreatedAt.Unix(),
			"chars":        len(t.Text),
		})
	}

	return c.JSON(fiber.Map{
		"transcripts": items,
		"count":       len(items),
	})
}
