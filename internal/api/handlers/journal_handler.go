package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/journal"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/storage/models"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/pkg/logger"
)

type JournalHandler struct {
	generator *journal.Generator
	db        *sqlite.Client
}

func NewJournalHandler(generator *journal.Generator, db *sqlite.Client) *JournalHandler {
	return &JournalHandler{
		generator: generator,
		db:        db,
	}
}

// Generate reconstructs the user's journal from the merged extraction
// and replaces any previously stored entries.
func (h *JournalHandler) Generate(c *fiber.Ctx) error {
	var req struct {
		UserID   string `json:"user_id"`
		UserName string `json:"user_name"`
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

	stored, err := h.db.GetTranscriptsByUser(req.UserID)
	if err != nil {
		logger.Error("Failed to load transcripts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load transcripts",
		})
	}

	transcripts := make([]journal.Transcript, 0, len(stored))
	for _, t := range stored {
		transcripts = append(transcripts, journal.Transcript{
			SessionID: t.SessionID,
			Text:      t.Text,
		})
	}

	userName := req.UserName
	if userName == "" {
		userName = "the author"
	}

	collection := h.generator.GenerateJournal(c.Context(), userName, *merged, transcripts)

	records := make([]models.JournalEntryRecord, 0, len(collection.Entries))
	for _, entry := range collection.Entries {
		records = append(records, models.JournalEntryRecord{
			ID:          uuid.New().String(),
			UserID:      req.UserID,
			Date:        entry.Date,
			DateDisplay: entry.DateDisplay,
			Granularity: string(entry.Granularity),
			Text:        entry.Text,
			Confidence:  string(entry.Confidence),
			CreatedAt:   time.Now(),
		})
	}

	if err := h.db.ReplaceJournalEntries(req.UserID, records); err != nil {
		logger.Error("Failed to store journal entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store journal",
		})
	}

	metrics.JournalEntriesGenerated.Add(float64(len(collection.Entries)))

	return c.JSON(collection)
}

// Get returns stored journal entries, optionally narrowed to a date
// range with from/to query parameters.
func (h *JournalHandler) Get(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	records, err := h.db.GetJournalEntries(userID)
	if err != nil {
		logger.Error("Failed to load journal entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load journal",
		})
	}

	collection := journal.Collection{Entries: make([]journal.Entry, 0, len(records))}
	for _, rec := range records {
		collection.Entries = append(collection.Entries, journal.Entry{
			Date:        rec.Date,
			DateDisplay: rec.DateDisplay,
			Granularity: journal.Granularity(rec.Granularity),
			Text:        rec.Text,
			Confidence:  extraction.Confidence(rec.Confidence),
		})
	}
	collection.TotalEntries = len(collection.Entries)

	from := c.Query("from")
	to := c.Query("to")
	entries := collection.Entries
	if from != "" && to != "" {
		entries = journal.EntriesByDateRange(collection, from, to)
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetByDate returns the single entry whose raw date matches.
func (h *JournalHandler) GetByDate(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	date := c.Query("date")
	if userID == "" || date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and date are required",
		})
	}

	records, err := h.db.GetJournalEntries(userID)
	if err != nil {
		logger.Error("Failed to load journal entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load journal",
		})
	}

	collection := journal.Collection{}
	for _, rec := range records {
		collection.Entries = append(collection.Entries, journal.Entry{
			Date:        rec.Date,
			DateDisplay: rec.DateDisplay,
			Granularity: journal.Granularity(rec.Granularity),
			Text:        rec.Text,
			Confidence:  extraction.Confidence(rec.Confidence),
		})
	}

	entry, found := journal.EntryByDate(collection, date)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No entry for that date",
		})
	}

	return c.JSON(entry)
}
