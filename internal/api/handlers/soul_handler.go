package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/biography"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/soul"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/pkg/logger"
)

type SoulHandler struct {
	service *soul.Service
	db      *sqlite.Client
}

func NewSoulHandler(service *soul.Service, db *sqlite.Client) *SoulHandler {
	return &SoulHandler{
		service: service,
		db:      db,
	}
}

// Status reports how close the user's Soul is to being ready, scored
// from recording volume, biography progress, voice clone and avatar.
func (h *SoulHandler) Status(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	hours, err := h.db.RecordingHours(userID)
	if err != nil {
		logger.Error("Failed to load recording hours", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recording progress",
		})
	}

	input := soul.StatusInput{
		RecordingHours:  hours,
		BiographyStatus: "none",
		VoiceCloneReady: c.QueryBool("voice_ready"),
		AvatarReady:     c.QueryBool("avatar_ready"),
	}

	rec, err := h.db.GetLatestBiography(userID)
	if err != nil {
		logger.Error("Failed to load biography", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load biography progress",
		})
	}
	if rec != nil {
		var bio biography.Biography
		if err := json.Unmarshal([]byte(rec.ContentJSON), &bio); err == nil {
			input.BiographyChaptersTotal = len(bio.Chapters)
			input.BiographyChaptersReady = countReadyChapters(bio)
		}
		if rec.Status == "complete" {
			input.BiographyStatus = "ready"
		} else {
			input.BiographyStatus = "processing"
		}
	}

	return c.JSON(soul.CalculateStatus(input))
}

// countReadyChapters counts chapters whose narrative was actually
// written, skipping placeholder chapters awaiting more material.
func countReadyChapters(bio biography.Biography) int {
	ready := 0
	for _, chapter := range bio.Chapters {
		if len(chapter.Paragraphs) == 0 {
			continue
		}
		if strings.HasPrefix(chapter.Paragraphs[0].Text, "This chapter is being processed") {
			continue
		}
		ready++
	}
	return ready
}

// Activate builds the Soul's memory index from the user's stored
// transcripts.
func (h *SoulHandler) Activate(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
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

	stored, err := h.db.GetTranscriptsByUser(req.UserID)
	if err != nil {
		logger.Error("Failed to load transcripts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load transcripts",
		})
	}

	texts := make([]string, 0, len(stored))
	for _, t := range stored {
		texts = append(texts, t.Text)
	}

	result := h.service.Activate(c.Context(), req.UserID, texts)
	if result.Status == "error" {
		return c.Status(fiber.StatusConflict).JSON(result)
	}

	return c.JSON(result)
}

// Chat answers one family question in the storyteller's voice.
func (h *SoulHandler) Chat(c *fiber.Ctx) error {
	var req struct {
		UserID  string `json:"user_id"`
		Message string `json:"message"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and message are required",
		})
	}

	start := time.Now()
	result := h.service.Chat(c.Context(), req.UserID, req.Message)
	metrics.SoulChatDuration.Observe(time.Since(start).Seconds())
	metrics.SoulChatTotal.WithLabelValues(result.Status).Inc()

	return c.JSON(result)
}
