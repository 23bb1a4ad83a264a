// Package journal reconstructs retroactive diary entries from timeline
// and entity data, one entry per distinct date or period.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/llm"
	"github.com/instabio/backend/internal/timeline"
	"github.com/instabio/backend/pkg/logger"
)

type Granularity string

const (
	GranularityDaily    Granularity = "daily"
	GranularityWeekly   Granularity = "weekly"
	GranularityMonthly  Granularity = "monthly"
	GranularitySeasonal Granularity = "seasonal"
	GranularityYearly   Granularity = "yearly"
)

type Entry struct {
	Date             string                `json:"date"`
	DateDisplay      string                `json:"date_display"`
	Granularity      Granularity           `json:"granularity"`
	Text             string                `json:"text"`
	SourceSessions   []string              `json:"source_sessions"`
	EventsReferenced []string              `json:"events_referenced"`
	IsReconstructed  bool                  `json:"is_reconstructed"`
	Confidence       extraction.Confidence `json:"confidence"`
}

type Collection struct {
	Entries        []Entry `json:"entries"`
	AuthorName     string  `json:"author_name"`
	GeneratedAt    string  `json:"generated_at"`
	TotalEntries   int     `json:"total_entries"`
	DateRangeStart string  `json:"date_range_start,omitempty"`
	DateRangeEnd   string  `json:"date_range_end,omitempty"`
}

var (
	ordinalDayRe = regexp.MustCompile(`\b\d{1,2}(st|nd|rd|th)\b`)
	bareYearRe   = regexp.MustCompile(`^(19|20)\d{2}$`)
	yearRe       = regexp.MustCompile(`(19|20)\d{2}`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var seasonNames = []string{"spring", "summer", "fall", "autumn", "winter"}

// DetermineGranularity picks the journal cadence a date mention
// supports: a specific day gets a daily entry, a bare year a yearly
// one, everything fuzzy lands on seasonal.
func DetermineGranularity(mention extraction.DateMention) Granularity {
	dateStr := strings.ToLower(mention.Date)
	dateType := strings.ToLower(mention.DateType)

	if dateType == "day" || ordinalDayRe.MatchString(dateStr) {
		return GranularityDaily
	}

	for _, m := range monthNames {
		if strings.Contains(dateStr, m) {
			return GranularityMonthly
		}
	}
	if dateType == "month" {
		return GranularityMonthly
	}

	for _, s := range seasonNames {
		if strings.Contains(dateStr, s) {
			return GranularitySeasonal
		}
	}
	if dateType == "season" {
		return GranularitySeasonal
	}

	for _, phrase := range []string{"early", "late", "mid", "around"} {
		if strings.Contains(dateStr, phrase) {
			return GranularitySeasonal
		}
	}

	if bareYearRe.MatchString(strings.TrimSpace(dateStr)) {
		return GranularityYearly
	}

	return GranularitySeasonal
}

// FormatDateDisplay renders a raw date string as a journal heading.
func FormatDateDisplay(date string, granularity Granularity) string {
	dateStr := strings.TrimSpace(date)

	switch granularity {
	case GranularityYearly:
		return fmt.Sprintf("A Year in %s", dateStr)
	case GranularitySeasonal:
		lower := strings.ToLower(dateStr)
		for _, season := range seasonNames {
			if strings.Contains(lower, season) {
				year := yearRe.FindString(dateStr)
				return strings.TrimSpace(titleWord(season) + " " + year)
			}
		}
		return titleCase(dateStr)
	case GranularityMonthly:
		return titleCase(dateStr)
	default:
		return dateStr
	}
}

const (
	maxEntryEvents      = 5
	maxEntryTranscripts = 3
	maxTranscriptChars  = 500
	maxContextNames     = 5
)

type Generator struct {
	llm llm.Generator
}

func NewGenerator(llmClient llm.Generator) *Generator {
	return &Generator{llm: llmClient}
}

// Transcript is a source recording an entry may draw from.
type Transcript struct {
	SessionID string
	Text      string
}

// GenerateEntry writes one reconstructed entry for a date or period.
// Failure to generate or parse yields a placeholder entry; an entry is
// always returned.
func (g *Generator) GenerateEntry(ctx context.Context, date string, events []extraction.Event, transcripts []Transcript, people, places []string, granularity Granularity) Entry {
	var eventLines []string
	for i, e := range events {
		if i >= maxEntryEvents {
			break
		}
		eventLines = append(eventLines, fmt.Sprintf("- %s (type: %s)", e.Description, e.EventType))
	}

	var texts []string
	for i, t := range transcripts {
		if i >= maxEntryTranscripts {
			break
		}
		text := t.Text
		if len(text) > maxTranscriptChars {
			text = text[:maxTranscriptChars]
		}
		texts = append(texts, text)
	}

	prompt := fmt.Sprintf(entryPrompt,
		date,
		granularity,
		orDefault(strings.Join(eventLines, "\n"), "No specific events recorded"),
		orDefault(strings.Join(texts, "\n"), "No transcript text available"),
		orDefault(strings.Join(truncateNames(places), ", "), "Not specified"),
		orDefault(strings.Join(truncateNames(people), ", "), "Not specified"),
	)

	resp, err := g.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: "You are writing a journal entry as if you were the person speaking, reconstructed from their oral history recordings.",
		UserPrompt:   prompt,
		Temperature:  0.8,
		MaxTokens:    2048,
	})
	if err != nil {
		logger.Warn("Journal entry generation failed, using placeholder",
			zap.String("date", date),
			zap.Error(err),
		)
		return g.placeholderEntry(date, events, granularity)
	}

	var parsed struct {
		EntryText     string   `json:"entry_text"`
		KeyMoments    []string `json:"key_moments"`
		EmotionalTone string   `json:"emotional_tone"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Content)), &parsed); err != nil || parsed.EntryText == "" {
		return g.placeholderEntry(date, events, granularity)
	}

	sessions := []string{}
	for _, t := range transcripts {
		if t.SessionID != "" {
			sessions = append(sessions, t.SessionID)
		}
	}

	return Entry{
		Date:             date,
		DateDisplay:      FormatDateDisplay(date, granularity),
		Granularity:      granularity,
		Text:             parsed.EntryText,
		SourceSessions:   sessions,
		EventsReferenced: eventDescriptions(events),
		IsReconstructed:  true,
		Confidence:       extraction.ConfidenceInferred,
	}
}

func (g *Generator) placeholderEntry(date string, events []extraction.Event, granularity Granularity) Entry {
	eventText := "No events recorded"
	if len(events) > 0 {
		eventText = events[0].Description
	}

	return Entry{
		Date:             date,
		DateDisplay:      FormatDateDisplay(date, granularity),
		Granularity:      granularity,
		Text:             fmt.Sprintf("*Reconstructed from memory*\n\nAround this time: %s. More recordings will help fill in the details.", eventText),
		SourceSessions:   []string{},
		EventsReferenced: eventDescriptions(events),
		IsReconstructed:  true,
		Confidence:       extraction.ConfidenceInferred,
	}
}

// GenerateJournal groups merged events by date, adds pseudo-events for
// standalone date mentions, and writes one entry per date in
// chronological order.
func (g *Generator) GenerateJournal(ctx context.Context, userName string, merged extraction.ExtractionResult, transcripts []Transcript) Collection {
	dateEvents := make(map[string][]extraction.Event)
	dateOrder := []string{}
	granularities := make(map[string]Granularity)

	for _, event := range merged.Events {
		if event.Date == "" {
			continue
		}
		if _, ok := dateEvents[event.Date]; !ok {
			dateOrder = append(dateOrder, event.Date)
		}
		dateEvents[event.Date] = append(dateEvents[event.Date], event)
	}

	for _, mention := range merged.Dates {
		granularities[mention.Date] = DetermineGranularity(mention)

		if _, ok := dateEvents[mention.Date]; ok {
			continue
		}
		if mention.Event == "" {
			continue
		}
		dateOrder = append(dateOrder, mention.Date)
		dateEvents[mention.Date] = []extraction.Event{{
			EventType:      "mention",
			Description:    mention.Event,
			Date:           mention.Date,
			DateConfidence: mention.Confidence,
		}}
	}

	sort.SliceStable(dateOrder, func(i, j int) bool {
		return timeline.FineSortKey(dateOrder[i]) < timeline.FineSortKey(dateOrder[j])
	})

	people := make([]string, 0, len(merged.People))
	for _, p := range merged.People {
		people = append(people, p.Name)
	}
	places := make([]string, 0, len(merged.Places))
	for _, p := range merged.Places {
		places = append(places, p.Name)
	}

	if len(transcripts) > maxEntryTranscripts {
		transcripts = transcripts[:maxEntryTranscripts]
	}

	entries := make([]Entry, 0, len(dateOrder))
	for _, date := range dateOrder {
		granularity, ok := granularities[date]
		if !ok {
			granularity = GranularitySeasonal
		}
		entries = append(entries, g.GenerateEntry(ctx, date, dateEvents[date], transcripts, people, places, granularity))
	}

	collection := Collection{
		Entries:      entries,
		AuthorName:   userName,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		TotalEntries: len(entries),
	}
	if len(entries) > 0 {
		collection.DateRangeStart = entries[0].Date
		collection.DateRangeEnd = entries[len(entries)-1].Date
	}

	logger.Info("Journal generated",
		zap.String("author", userName),
		zap.Int("entries", len(entries)),
	)

	return collection
}

// EntriesByDateRange filters entries to those whose sort key falls
// within [start, end]; empty bounds are open.
func EntriesByDateRange(collection Collection, start, end string) []Entry {
	entries := collection.Entries

	if start != "" {
		startKey := timeline.FineSortKey(start)
		filtered := []Entry{}
		for _, e := range entries {
			if timeline.FineSortKey(e.Date) >= startKey {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if end != "" {
		endKey := timeline.FineSortKey(end)
		filtered := []Entry{}
		for _, e := range entries {
			if timeline.FineSortKey(e.Date) <= endKey {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	return entries
}

// EntryByDate returns the entry whose raw date matches, ignoring case.
func EntryByDate(collection Collection, date string) (Entry, bool) {
	for _, entry := range collection.Entries {
		if strings.EqualFold(entry.Date, date) {
			return entry, true
		}
	}
	return Entry{}, false
}

func eventDescriptions(events []extraction.Event) []string {
	descriptions := make([]string, 0, len(events))
	for _, e := range events {
		descriptions = append(descriptions, e.Description)
	}
	return descriptions
}

func truncateNames(names []string) []string {
	if len(names) > maxContextNames {
		return names[:maxContextNames]
	}
	return names
}

func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleWord(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}
