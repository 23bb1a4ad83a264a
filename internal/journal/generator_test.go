package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/llm"
)

func TestDetermineGranularity(t *testing.T) {
	cases := []struct {
		date     string
		dateType string
		want     Granularity
	}{
		{"March 15, 1968", "day", GranularityDaily},
		{"the 3rd of June", "", GranularityDaily},
		{"June 1968", "month", GranularityMonthly},
		{"march 1950", "", GranularityMonthly},
		{"summer of 1972", "season", GranularitySeasonal},
		{"late 1960s", "approximate", GranularitySeasonal},
		{"around 1955", "", GranularitySeasonal},
		{"1968", "year", GranularityYearly},
		{"sometime back", "", GranularitySeasonal},
	}

	for _, tc := range cases {
		got := DetermineGranularity(extraction.DateMention{Date: tc.date, DateType: tc.dateType})
		assert.Equal(t, tc.want, got, "date %q type %q", tc.date, tc.dateType)
	}
}

func TestFormatDateDisplay(t *testing.T) {
	assert.Equal(t, "A Year in 1968", FormatDateDisplay("1968", GranularityYearly))
	assert.Equal(t, "Summer 1972", FormatDateDisplay("summer of 1972", GranularitySeasonal))
	assert.Equal(t, "Late 1960s", FormatDateDisplay("late 1960s", GranularitySeasonal))
	assert.Equal(t, "June 1968", FormatDateDisplay("june 1968", GranularityMonthly))
	assert.Equal(t, "March 15, 1968", FormatDateDisplay("March 15, 1968", GranularityDaily))
}

func TestGenerateJournal_GroupsAndOrders(t *testing.T) {
	g := NewGenerator(llm.NewMock(8))
	merged := extraction.ExtractionResult{
		Events: []extraction.Event{
			{EventType: "move", Description: "moved to the city", Date: "1968", DateConfidence: extraction.ConfidenceExact},
			{EventType: "job", Description: "started at the factory", Date: "1968", DateConfidence: extraction.ConfidenceExact},
		},
		Dates: []extraction.DateMention{
			{Date: "late 1960s", DateType: "approximate", Event: "left the farm", Confidence: extraction.ConfidenceApproximate},
		},
	}

	collection := g.GenerateJournal(context.Background(), "Dorothy", merged, nil)

	assert.Equal(t, "Dorothy", collection.AuthorName)
	require.Len(t, collection.Entries, 2)
	assert.Equal(t, 2, collection.TotalEntries)

	// "late 1960s" keys to December 1960, before mid-1968.
	assert.Equal(t, "late 1960s", collection.Entries[0].Date)
	assert.Equal(t, "1968", collection.Entries[1].Date)
	assert.Equal(t, "late 1960s", collection.DateRangeStart)
	assert.Equal(t, "1968", collection.DateRangeEnd)

	// Both dated events land in one entry.
	assert.Len(t, collection.Entries[1].EventsReferenced, 2)
	assert.True(t, collection.Entries[0].IsReconstructed)
	assert.Equal(t, extraction.ConfidenceInferred, collection.Entries[0].Confidence)
}

func TestGenerateEntry_PlaceholderKeepsEventReference(t *testing.T) {
	// The mock returns diary prose, not JSON, so generation falls back to
	// the placeholder text.
	g := NewGenerator(llm.NewMock(8))

	entry := g.GenerateEntry(context.Background(), "1968", []extraction.Event{
		{EventType: "move", Description: "moved to Salt Lake City"},
	}, nil, nil, nil, GranularityYearly)

	assert.Equal(t, "A Year in 1968", entry.DateDisplay)
	assert.Contains(t, entry.Text, "moved to Salt Lake City")
	assert.Equal(t, []string{"moved to Salt Lake City"}, entry.EventsReferenced)
}

func TestEntriesByDateRange(t *testing.T) {
	collection := Collection{Entries: []Entry{
		{Date: "1950"},
		{Date: "summer of 1960"},
		{Date: "1975"},
	}}

	got := EntriesByDateRange(collection, "1955", "1970")
	require.Len(t, got, 1)
	assert.Equal(t, "summer of 1960", got[0].Date)

	assert.Len(t, EntriesByDateRange(collection, "", ""), 3)
	assert.Len(t, EntriesByDateRange(collection, "1960", ""), 2)
}

func TestEntryByDate(t *testing.T) {
	collection := Collection{Entries: []Entry{{Date: "Summer of 1972", Text: "hot"}}}

	entry, ok := EntryByDate(collection, "summer of 1972")
	require.True(t, ok)
	assert.Equal(t, "hot", entry.Text)

	_, ok = EntryByDate(collection, "1999")
	assert.False(t, ok)
}
