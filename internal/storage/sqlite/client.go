package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/storage/models"
	"github.com/instabio/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		text TEXT NOT NULL,
		duration_sec REAL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_user ON transcripts(user_id);
	CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id);

	CREATE TABLE IF NOT EXISTS extractions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT,
		result_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_extractions_user ON extractions(user_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_extractions_user_session ON extractions(user_id, session_id);

	CREATE TABLE IF NOT EXISTS timeline_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		description TEXT,
		confidence TEXT,
		people_json TEXT,
		places_json TEXT,
		source TEXT,
		sort_key INTEGER NOT NULL,
		position INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_timeline_user ON timeline_entries(user_id);
	CREATE INDEX IF NOT EXISTS idx_timeline_position ON timeline_entries(user_id, position);

	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		date_display TEXT,
		granularity TEXT,
		text TEXT,
		confidence TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_journal_user ON journal_entries(user_id);

	CREATE TABLE IF NOT EXISTS biographies (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT,
		content_json TEXT NOT NULL,
		style TEXT,
		status TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_biographies_user ON biographies(user_id);

	CREATE TABLE IF NOT EXISTS processing_status (
		user_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		detail TEXT,
		updated_at INTEGER NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertTranscript(t *models.Transcript) error {
	query := `
		INSERT INTO transcripts (id, user_id, session_id, text, duration_sec, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			duration_sec = excluded.duration_sec
	`

	_, err := c.db.Exec(
		query,
		t.ID,
		t.UserID,
		t.SessionID,
		t.Text,
		t.DurationSec,
		t.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}

	logger.Debug("Transcript inserted",
		zap.String("transcript_id", t.ID),
		zap.String("session_id", t.SessionID),
	)
	return nil
}

func (c *Client) GetTranscriptsByUser(userID string) ([]models.Transcript, error) {
	query := `
		SELECT id, user_id, session_id, text, duration_sec, created_at
		FROM transcripts
		WHERE user_id = ?
		ORDER BY created_at
	`

	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []models.Transcript
	for rows.Next() {
		var t models.Transcript
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionID, &t.Text, &t.DurationSec, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		transcripts = append(transcripts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transcripts: %w", err)
	}

	return transcripts, nil
}

// RecordingHours sums transcript durations for a user, in hours.
func (c *Client) RecordingHours(userID string) (float64, error) {
	query := `SELECT COALESCE(SUM(duration_sec), 0) FROM transcripts WHERE user_id = ?`

	var totalSec float64
	if err := c.db.QueryRow(query, userID).Scan(&totalSec); err != nil {
		return 0, fmt.Errorf("failed to sum recording hours: %w", err)
	}

	return totalSec / 3600, nil
}

// SaveExtraction upserts a serialized extraction result. SessionID is
// empty for the merged corpus-level result.
func (c *Client) SaveExtraction(rec *models.ExtractionRecord) error {
	query := `
		INSERT INTO extractions (id, user_id, session_id, result_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, session_id) DO UPDATE SET
			result_json = excluded.result_json,
			created_at = excluded.created_at
	`

	_, err := c.db.Exec(
		query,
		rec.ID,
		rec.UserID,
		rec.SessionID,
		rec.ResultJSON,
		rec.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}

	logger.Debug("Extraction saved",
		zap.String("user_id", rec.UserID),
		zap.String("session_id", rec.SessionID),
	)
	return nil
}

// GetMergedExtraction loads the corpus-level extraction for a user.
func (c *Client) GetMergedExtraction(userID string) (*models.ExtractionRecord, error) {
	query := `
		SELECT id, user_id, session_id, result_json, created_at
		FROM extractions
		WHERE user_id = ? AND session_id = ''
	`

	var rec models.ExtractionRecord
	var createdAt int64

	err := c.db.QueryRow(query, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.SessionID,
		&rec.ResultJSON,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merged extraction: %w", err)
	}

	rec.CreatedAt = time.Unix(createdAt, 0)
	return &rec, nil
}

// ReplaceTimeline swaps a user's timeline entries atomically.
func (c *Client) ReplaceTimeline(userID string, entries []models.TimelineEntryRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM timeline_entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear timeline: %w", err)
	}

	insert := `
		INSERT INTO timeline_entries
			(user_id, date, entry_type, description, confidence, people_json, places_json, source, sort_key, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range entries {
		_, err := tx.Exec(
			insert,
			userID,
			e.Date,
			e.EntryType,
			e.Description,
			e.Confidence,
			e.PeopleJSON,
			e.PlacesJSON,
			e.Source,
			e.SortKey,
			e.Position,
			e.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert timeline entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit timeline: %w", err)
	}

	logger.Info("Timeline replaced",
		zap.String("user_id", userID),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (c *Client) GetTimeline(userID string) ([]models.TimelineEntryRecord, error) {
	query := `
		SELECT id, user_id, date, entry_type, description, confidence, people_json, places_json, source, sort_key, position, created_at
		FROM timeline_entries
		WHERE user_id = ?
		ORDER BY position
	`

	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer rows.Close()

	var entries []models.TimelineEntryRecord
	for rows.Next() {
		var e models.TimelineEntryRecord
		var createdAt int64
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Date, &e.EntryType, &e.Description,
			&e.Confidence, &e.PeopleJSON, &e.PlacesJSON, &e.Source,
			&e.SortKey, &e.Position, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline: %w", err)
	}

	return entries, nil
}

// ReplaceJournalEntries swaps a user's journal atomically.
func (c *Client) ReplaceJournalEntries(userID string, entries []models.JournalEntryRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM journal_entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}

	insert := `
		INSERT INTO journal_entries (id, user_id, date, date_display, granularity, text, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range entries {
		_, err := tx.Exec(
			insert,
			e.ID,
			userID,
			e.Date,
			e.DateDisplay,
			e.Granularity,
			e.Text,
			e.Confidence,
			e.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert journal entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal: %w", err)
	}

	logger.Info("Journal replaced",
		zap.String("user_id", userID),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (c *Client) GetJournalEntries(userID string) ([]models.JournalEntryRecord, error) {
	query := `
		SELECT id, user_id, date, date_display, granularity, text, confidence, created_at
		FROM journal_entries
		WHERE user_id = ?
		ORDER BY created_at, id
	`

	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntryRecord
	for rows.Next() {
		var e models.JournalEntryRecord
		var createdAt int64
		err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.DateDisplay, &e.Granularity, &e.Text, &e.Confidence, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal: %w", err)
	}

	return entries, nil
}

func (c *Client) SaveBiography(rec *models.BiographyRecord) error {
	query := `
		INSERT INTO biographies (id, user_id, title, content_json, style, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content_json = excluded.content_json,
			style = excluded.style,
			status = excluded.status
	`

	_, err := c.db.Exec(
		query,
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.ContentJSON,
		rec.Style,
		rec.Status,
		rec.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to save biography: %w", err)
	}

	logger.Info("Biography saved",
		zap.String("user_id", rec.UserID),
		zap.String("status", rec.Status),
	)
	return nil
}

// GetLatestBiography returns the newest biography for a user, or nil.
func (c *Client) GetLatestBiography(userID string) (*models.BiographyRecord, error) {
	query := `
		SELECT id, user_id, title, content_json, style, status, created_at
		FROM biographies
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec models.BiographyRecord
	var createdAt int64

	err := c.db.QueryRow(query, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.ContentJSON,
		&rec.Style,
		&rec.Status,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get biography: %w", err)
	}

	rec.CreatedAt = time.Unix(createdAt, 0)
	return &rec, nil
}

func (c *Client) SetProcessingStatus(userID, status, detail string) error {
	query := `
		INSERT INTO processing_status (user_id, status, detail, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			status = excluded.status,
			detail = excluded.detail,
			updated_at = excluded.updated_at
	`

	_, err := c.db.Exec(query, userID, status, detail, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set processing status: %w", err)
	}

	return nil
}

func (c *Client) GetProcessingStatus(userID string) (*models.ProcessingStatus, error) {
	query := `SELECT user_id, status, detail, updated_at FROM processing_status WHERE user_id = ?`

	var status models.ProcessingStatus
	var updatedAt int64

	err := c.db.QueryRow(query, userID).Scan(&status.UserID, &status.Status, &status.Detail, &updatedAt)
	if err == sql.ErrNoRows {
		return &models.ProcessingStatus{UserID: userID, Status: "idle"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get processing status: %w", err)
	}

	status.UpdatedAt = time.Unix(updatedAt, 0)
	return &status, nil
}
