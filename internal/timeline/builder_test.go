package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instabio/backend/internal/extraction"
)

func TestBuild_OrdersByYear(t *testing.T) {
	events := []extraction.Event{
		{EventType: "move", Description: "moved to the city", Date: "1970", DateConfidence: extraction.ConfidenceExact},
	}
	dates := []extraction.DateMention{
		{Date: "1965", DateType: "year", Event: "started school", Confidence: extraction.ConfidenceExact},
	}

	entries := Build(events, dates)

	require.Len(t, entries, 2)
	assert.Equal(t, "1965", entries[0].Date)
	assert.Equal(t, "date_mention", entries[0].Source)
	assert.Equal(t, "mention", entries[0].Type)
	assert.Equal(t, "1970", entries[1].Date)
	assert.Equal(t, "event", entries[1].Source)
}

func TestBuild_MentionWithoutEventTextSkipped(t *testing.T) {
	dates := []extraction.DateMention{
		{Date: "1965", DateType: "year", Confidence: extraction.ConfidenceExact},
	}

	entries := Build(nil, dates)

	assert.Empty(t, entries)
}

func TestBuild_SuppressesDuplicateMention(t *testing.T) {
	events := []extraction.Event{
		{EventType: "marriage", Description: "that June we got married at the old church", Date: "1968", DateConfidence: extraction.ConfidenceExact},
	}
	dates := []extraction.DateMention{
		{Date: "1968", DateType: "year", Event: "got married", Confidence: extraction.ConfidenceExact},
	}

	entries := Build(events, dates)

	require.Len(t, entries, 1)
	assert.Equal(t, "event", entries[0].Source)
}

func TestBuild_MentionWithDifferentDateNotSuppressed(t *testing.T) {
	events := []extraction.Event{
		{EventType: "marriage", Description: "we got married", Date: "1968", DateConfidence: extraction.ConfidenceExact},
	}
	dates := []extraction.DateMention{
		{Date: "June 1968", DateType: "month", Event: "got married", Confidence: extraction.ConfidenceExact},
	}

	entries := Build(events, dates)

	assert.Len(t, entries, 2)
}

func TestBuild_UndatedEventsSortLastInInsertionOrder(t *testing.T) {
	events := []extraction.Event{
		{EventType: "job", Description: "first factory job", DateConfidence: extraction.ConfidenceInferred},
		{EventType: "birth", Description: "born in 1945", Date: "1945", DateConfidence: extraction.ConfidenceExact},
		{EventType: "move", Description: "moved somewhere new", DateConfidence: extraction.ConfidenceInferred},
	}

	entries := Build(events, nil)

	require.Len(t, entries, 3)
	assert.Equal(t, "1945", entries[0].Date)
	assert.Equal(t, "Unknown", entries[1].Date)
	assert.Equal(t, "first factory job", entries[1].Description)
	assert.Equal(t, "Unknown", entries[2].Date)
	assert.Equal(t, "moved somewhere new", entries[2].Description)
}

func TestBuild_QualifiedDecadesInterleave(t *testing.T) {
	events := []extraction.Event{
		{EventType: "move", Description: "a", Date: "late 1960s", DateConfidence: extraction.ConfidenceApproximate},
		{EventType: "birth", Description: "b", Date: "1962", DateConfidence: extraction.ConfidenceExact},
		{EventType: "job", Description: "c", Date: "early 1960s", DateConfidence: extraction.ConfidenceApproximate},
	}

	entries := Build(events, nil)

	require.Len(t, entries, 3)
	assert.Equal(t, "early 1960s", entries[0].Date)
	assert.Equal(t, "1962", entries[1].Date)
	assert.Equal(t, "late 1960s", entries[2].Date)
}

func TestSortKey(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"1970", 1970},
		{"March 15, 1968", 1968},
		{"late 1960s", 1965},
		{"early 1950s", 1945},
		{"summer of 1972", 1972},
		{"Unknown", 9999},
		{"", 9999},
		// "late" is checked before "early" when both appear.
		{"early to late 1960s", 1965},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SortKey(tc.date), "SortKey(%q)", tc.date)
	}
}

func TestFineSortKey(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"early 1950s", 195001},
		{"late 1950s", 195012},
		{"spring 1960", 196003},
		{"summer of 1972", 197206},
		{"fall 1980", 198009},
		{"autumn 1980", 198009},
		{"winter 1990", 199012},
		{"June 1968", 196806},
		{"1970", 197006},
		{"sometime back", 999999},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FineSortKey(tc.date), "FineSortKey(%q)", tc.date)
	}
}
