package models

import "time"

// Transcript is one recorded session's transcribed text.
type Transcript struct {
	ID          string
	UserID      string
	SessionID   string
	Text        string
	DurationSec float64
	CreatedAt   time.Time
}

// ExtractionRecord stores a serialized ExtractionResult, either for a
// single session or the merged corpus (SessionID empty).
type ExtractionRecord struct {
	ID         string
	UserID     string
	SessionID  string
	ResultJSON string
	CreatedAt  time.Time
}

// TimelineEntryRecord is one persisted timeline entry, ordered by
// Position within a user's timeline.
type TimelineEntryRecord struct {
	ID          int
	UserID      string
	Date        string
	EntryType   string
	Description string
	Confidence  string
	PeopleJSON  string
	PlacesJSON  string
	Source      string
	SortKey     int
	Position    int
	CreatedAt   time.Time
}

type JournalEntryRecord struct {
	ID          string
	UserID      string
	Date        string
	DateDisplay string
	Granularity string
	Text        string
	Confidence  string
	CreatedAt   time.Time
}

type BiographyRecord struct {
	ID          string
	UserID      string
	Title       string
	ContentJSON string
	Style       string
	Status      string
	CreatedAt   time.Time
}

// ProcessingStatus tracks the pipeline state for a user's corpus.
type ProcessingStatus struct {
	UserID    string
	Status    string // "idle", "processing", "complete", "failed"
	Detail    string
	UpdatedAt time.Time
}
