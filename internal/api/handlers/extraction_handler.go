package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/pkg/logger"
)

type ExtractionHandler struct {
	extractor *extraction.Extractor
}

func NewExtractionHandler() *ExtractionHandler {
	return &ExtractionHandler{
		extractor: extraction.NewExtractor(),
	}
}

// Extract runs entity extraction over a single transcript and returns
// the result without persisting anything.
func (h *ExtractionHandler) Extract(c *fiber.Ctx) error {
	var req struct {
		Text      string `json:"text"`
		SessionID string `json:"session_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Text is required",
		})
	}

	result := h.extractor.Extract(req.Text, req.SessionID)

	return c.JSON(result)
}

// ExtractBatch extracts every transcript in the request independently
// and also returns the merged view across them.
func (h *ExtractionHandler) ExtractBatch(c *fiber.Ctx) error {
	var req struct {
		Transcripts []struct {
			Text      string `json:"text"`
			SessionID string `json:"session_id"`
		} `json:"transcripts"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Transcripts) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one transcript is required",
		})
	}

	inputs := make([]extraction.TranscriptInput, 0, len(req.Transcripts))
	for _, t := range req.Transcripts {
		inputs = append(inputs, extraction.TranscriptInput{
			Text:      t.Text,
			SessionID: t.SessionID,
		})
	}

	results := h.extractor.ExtractBatch(inputs)
	merged := extraction.Merge(results)

	return c.JSON(fiber.Map{
		"results": results,
		"merged":  merged,
	})
}
