package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/internal/timeline"
)

// loadMerged fetches and deserializes the user's merged extraction, or
// reports that the pipeline has not run yet.
func loadMerged(db *sqlite.Client, userID string) (*extraction.ExtractionResult, error) {
	rec, err := db.GetMergedExtraction(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load extraction: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	var merged extraction.ExtractionResult
	if err := json.Unmarshal([]byte(rec.ResultJSON), &merged); err != nil {
		return nil, fmt.Errorf("failed to decode extraction: %w", err)
	}
	return &merged, nil
}

// loadTimelineEntries rebuilds timeline entries from their persisted
// records, in stored position order.
func loadTimelineEntries(db *sqlite.Client, userID string) ([]timeline.Entry, error) {
	records, err := db.GetTimeline(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}

	entries := make([]timeline.Entry, 0, len(records))
	for _, rec := range records {
		var people, places []string
		json.Unmarshal([]byte(rec.PeopleJSON), &people)
		json.Unmarshal([]byte(rec.PlacesJSON), &places)

		entries = append(entries, timeline.Entry{
			Date:        rec.Date,
			Type:        rec.EntryType,
			Description: rec.Description,
			Confidence:  extraction.Confidence(rec.Confidence),
			People:      people,
			Places:      places,
			Source:      rec.Source,
		})
	}
	return entries, nil
}
