package extraction

import (
	"strings"

	"go.uber.org/zap"

	"github.com/instabio/backend/pkg/logger"
)

// Transcripts shorter than this (after trimming) are not worth scanning;
// they short-circuit to an empty, successful result.
const minTranscriptLen = 10

// TranscriptInput pairs transcript text with the recording session it
// came from. The session identifier is carried through for citation and
// never interpreted here.
type TranscriptInput struct {
	Text      string
	SessionID string
}

// Extractor recognizes people, places, dates and life events in oral
// history transcripts using layered regular-expression heuristics. It is
// stateless: every call takes its full input and returns a fresh result,
// so per-transcript extraction is safe to run concurrently.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes a single transcript. It never fails: noisy or
// unmatched input simply contributes nothing.
func (x *Extractor) Extract(text, sessionID string) ExtractionResult {
	if len(strings.TrimSpace(text)) < minTranscriptLen {
		return emptyResult(sessionID)
	}

	people := x.extractPeople(text)
	places := x.extractPlaces(text)

	// City and state names picked up by the generic capitalized-name
	// pattern belong to the places list, not the people list.
	finalPeople := []Person{}
	for _, p := range people.order {
		if places.claimed[strings.ToLower(p.Name)] {
			continue
		}
		finalPeople = append(finalPeople, *p)
	}

	finalPlaces := []Place{}
	for _, p := range places.order {
		finalPlaces = append(finalPlaces, *p)
	}

	dates := x.extractDates(text)
	events := x.extractEvents(text, finalPeople, finalPlaces)

	logger.Debug("Transcript extracted",
		zap.String("session_id", sessionID),
		zap.Int("people", len(finalPeople)),
		zap.Int("places", len(finalPlaces)),
		zap.Int("dates", len(dates)),
		zap.Int("events", len(events)),
	)

	return ExtractionResult{
		People:        finalPeople,
		Places:        finalPlaces,
		Dates:         dates,
		Events:        events,
		Success:       true,
		SourceSession: sessionID,
	}
}

// ExtractBatch extracts each transcript independently, returning results
// in input order. Cross-transcript combination is Merge's job.
func (x *Extractor) ExtractBatch(inputs []TranscriptInput) []ExtractionResult {
	results := make([]ExtractionResult, len(inputs))
	for i, input := range inputs {
		results[i] = x.Extract(input.Text, input.SessionID)
	}
	return results
}
