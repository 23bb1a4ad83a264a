// Package timeline orders extracted events and date mentions into a
// single chronological sequence using sort keys synthesized from fuzzy
// date text.
package timeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/instabio/backend/internal/extraction"
)

// Entry is one chronologically-sortable record. Source tells consumers
// whether it came from a life event or a standalone date mention.
type Entry struct {
	Date        string                `json:"date"`
	Type        string                `json:"type"`
	Description string                `json:"description"`
	Confidence  extraction.Confidence `json:"confidence"`
	People      []string              `json:"people"`
	Places      []string              `json:"places"`
	Source      string                `json:"source"`
}

const (
	// Entries with no recognizable year sort after everything else.
	unknownSortKey     = 9999
	unknownFineSortKey = 999999
)

var (
	anyYearRe = regexp.MustCompile(`\d{4}`)
	eraYearRe = regexp.MustCompile(`(19|20)\d{2}`)
)

// Build produces an ordered timeline from merged events and date
// mentions. Every event becomes an entry; a date mention that carries
// event text becomes one too, unless an entry with the same raw date
// already describes it. The sort is stable, so undated entries keep
// their insertion order at the end.
func Build(events []extraction.Event, dates []extraction.DateMention) []Entry {
	entries := []Entry{}

	for _, event := range events {
		date := event.Date
		if date == "" {
			date = "Unknown"
		}
		entries = append(entries, Entry{
			Date:        date,
			Type:        event.EventType,
			Description: event.Description,
			Confidence:  event.DateConfidence,
			People:      event.PeopleInvolved,
			Places:      event.PlacesInvolved,
			Source:      "event",
		})
	}

	for _, mention := range dates {
		if mention.Event == "" {
			continue
		}
		if hasMatchingEntry(entries, mention) {
			continue
		}
		entries = append(entries, Entry{
			Date:        mention.Date,
			Type:        "mention",
			Description: mention.Event,
			Confidence:  mention.Confidence,
			People:      []string{},
			Places:      []string{},
			Source:      "date_mention",
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return SortKey(entries[i].Date) < SortKey(entries[j].Date)
	})

	return entries
}

func hasMatchingEntry(entries []Entry, mention extraction.DateMention) bool {
	eventLower := strings.ToLower(mention.Event)
	for _, e := range entries {
		if e.Date == mention.Date && strings.Contains(strings.ToLower(e.Description), eventLower) {
			return true
		}
	}
	return false
}

// SortKey synthesizes a year-resolution ordering key from a raw date
// string: the first 4-digit year found anywhere, shifted by 5 for a
// "late"/"early" qualifier. The qualifier check is a plain substring
// test on the lowercased string; it can trip on unrelated words, which
// downstream ordering depends on, so leave it be.
func SortKey(date string) int {
	match := anyYearRe.FindString(date)
	if match == "" {
		return unknownSortKey
	}
	year, _ := strconv.Atoi(match)
	lower := strings.ToLower(date)
	if strings.Contains(lower, "late") {
		return year + 5
	}
	if strings.Contains(lower, "early") {
		return year - 5
	}
	return year
}

// FineSortKey is the month-resolution companion to SortKey used by the
// journal and biography generators: year*100 plus a sub-year offset from
// seasonal keywords. Both keys must order equal raw date strings the
// same way within their own consumer.
func FineSortKey(date string) int {
	match := eraYearRe.FindString(date)
	if match == "" {
		return unknownFineSortKey
	}
	year, _ := strconv.Atoi(match)
	lower := strings.ToLower(date)
	switch {
	case strings.Contains(lower, "early"):
		return year*100 + 1
	case strings.Contains(lower, "late"):
		return year*100 + 12
	case strings.Contains(lower, "spring"):
		return year*100 + 3
	case strings.Contains(lower, "summer"):
		return year*100 + 6
	case strings.Contains(lower, "fall"), strings.Contains(lower, "autumn"):
		return year*100 + 9
	case strings.Contains(lower, "winter"):
		return year*100 + 12
	}
	return year*100 + 6
}
