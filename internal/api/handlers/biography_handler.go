package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/biography"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/storage/models"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/pkg/logger"
)

type BiographyHandler struct {
	generator *biography.Generator
	db        *sqlite.Client
}

func NewBiographyHandler(generator *biography.Generator, db *sqlite.Client) *BiographyHandler {
	return &BiographyHandler{
		generator: generator,
		db:        db,
	}
}

// Generate writes a full biography from the processed corpus and
// stores it as the user's latest.
func (h *BiographyHandler) Generate(c *fiber.Ctx) error {
	var req struct {
		UserID   string `json:"user_id"`
		UserName string `json:"user_name"`
		Style    string `json:"style"`
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

	style := biography.Style(req.Style)
	switch style {
	case biography.StyleVerbatim, biography.StylePolished, biography.StyleStorybook:
	case "":
		style = biography.StylePolished
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "style must be verbatim, polished or storybook",
		})
	}

	merged, err := loadMerged(h.db, req.UserID)
	if err != nil {
		logger.Error("Failed to load merged extraction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load extraction",
		})
	}
	if merged == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No processed extraction found; run processing first",
		})
	}

	entries, err := loadTimelineEntries(h.db, req.UserID)
	if err != nil {
		logger.Error("Failed to load timeline", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load timeline",
		})
	}

	stored, err := h.db.GetTranscriptsByUser(req.UserID)
	if err != nil {
		logger.Error("Failed to load transcripts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load transcripts",
		})
	}

	transcripts := make([]biography.Transcript, 0, len(stored))
	for _, t := range stored {
		transcripts = append(transcripts, biography.Transcript{
			SessionID: t.SessionID,
			Text:      t.Text,
		})
	}

	userName := req.UserName
	if userName == "" {
		userName = "the author"
	}

	bio := h.generator.GenerateBiography(c.Context(), userName, transcripts, *merged, entries, style)

	contentJSON, err := json.Marshal(bio)
	if err != nil {
		logger.Error("Failed to serialize biography", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to serialize biography",
		})
	}

	rec := &models.BiographyRecord{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       bio.Title,
		ContentJSON: string(contentJSON),
		Style:       string(style),
		Status:      bio.Status,
		CreatedAt:   time.Now(),
	}
	if err := h.db.SaveBiography(rec); err != nil {
		logger.Error("Failed to store biography", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store biography",
		})
	}

	metrics.BiographiesGenerated.WithLabelValues(bio.Status).Inc()

	return c.JSON(bio)
}

// GetLatest returns the user's most recent biography.
func (h *BiographyHandler) GetLatest(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	rec, err := h.db.GetLatestBiography(userID)
	if err != nil {
		logger.Error("Failed to load biography", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load biography",
		})
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No biography generated yet",
		})
	}

	var bio biography.Biography
	if err := json.Unmarshal([]byte(rec.ContentJSON), &bio); err != nil {
		logger.Error("Failed to decode biography", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to decode biography",
		})
	}

	return c.JSON(bio)
}
