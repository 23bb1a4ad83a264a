package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_RelationshipBeforeName(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("My mother Mary always said I was born in 1945 in Kansas.", "s1")

	require.True(t, result.Success)
	require.Len(t, result.People, 1)
	assert.Equal(t, "Mary", result.People[0].Name)
	assert.Equal(t, "mother", result.People[0].Relationship)
	assert.Equal(t, ConfidenceExact, result.People[0].Confidence)

	require.Len(t, result.Places, 1)
	assert.Equal(t, "Kansas", result.Places[0].Name)
	assert.Equal(t, "state", result.Places[0].PlaceType)
	assert.Equal(t, ConfidenceExact, result.Places[0].Confidence)

	require.Len(t, result.Dates, 1)
	assert.Equal(t, "1945", result.Dates[0].Date)
	assert.Equal(t, "year", result.Dates[0].DateType)
	assert.Equal(t, ConfidenceExact, result.Dates[0].Confidence)

	require.Len(t, result.Events, 1)
	assert.Equal(t, "birth", result.Events[0].EventType)
	assert.Equal(t, "1945", result.Events[0].Date)
	assert.Equal(t, ConfidenceExact, result.Events[0].DateConfidence)
	assert.Contains(t, result.Events[0].PeopleInvolved, "Mary")
	assert.Contains(t, result.Events[0].PlacesInvolved, "Kansas")

	assert.Equal(t, "s1", result.SourceSession)
}

func TestExtract_CityStateAndDecade(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("We moved to Springfield, IL in the late 1960s.", "s2")

	require.Len(t, result.Places, 1)
	assert.Equal(t, "Springfield, IL", result.Places[0].Name)
	assert.Equal(t, "city", result.Places[0].PlaceType)

	require.Len(t, result.Dates, 1)
	assert.Equal(t, "late 1960s", result.Dates[0].Date)
	assert.Equal(t, "approximate", result.Dates[0].DateType)
	assert.Equal(t, ConfidenceApproximate, result.Dates[0].Confidence)

	require.Len(t, result.Events, 1)
	assert.Equal(t, "move", result.Events[0].EventType)
	// "1960s" has no word boundary after the digits, so the event window
	// yields no exact year.
	assert.Empty(t, result.Events[0].Date)
	assert.Equal(t, ConfidenceInferred, result.Events[0].DateConfidence)

	assert.Empty(t, result.People)
}

func TestExtract_ShortInput(t *testing.T) {
	x := NewExtractor()

	for _, text := range []string{"", "   ", "hi there"} {
		result := x.Extract(text, "s3")
		assert.True(t, result.Success)
		assert.Empty(t, result.People)
		assert.Empty(t, result.Places)
		assert.Empty(t, result.Dates)
		assert.Empty(t, result.Events)
		assert.NotNil(t, result.People)
		assert.NotNil(t, result.Events)
	}
}

func TestExtract_PatternLayering(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("My mother Mary Smith helped everyone. Mary Smith visited often. Mary Smith never complained.", "s4")

	require.Len(t, result.People, 1)
	p := result.People[0]
	assert.Equal(t, "Mary Smith", p.Name)
	assert.Equal(t, "mother", p.Relationship)
	// Later approximate matches bump mentions but never downgrade the
	// confidence set by the first pattern. The capitalized-sequence pass
	// re-counts the occurrence pattern 1 already saw, so three textual
	// occurrences land on four mentions.
	assert.Equal(t, ConfidenceExact, p.Confidence)
	assert.Equal(t, 4, p.Mentions)
}

func TestExtract_NameBeforeRelationship(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("Everything changed when Helen, my wife of forty years, got sick.", "s5")

	require.Len(t, result.People, 1)
	assert.Equal(t, "Helen", result.People[0].Name)
	assert.Equal(t, "wife", result.People[0].Relationship)
	assert.Equal(t, ConfidenceExact, result.People[0].Confidence)
}

func TestExtract_StopWordsFilterNames(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("Then Michael arrived and everything felt lighter that evening for all of us.", "s6")

	assert.Empty(t, result.People)
}

func TestExtract_StateNameNotAPerson(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("They lived in New York for years before coming back home to the farm.", "s7")

	require.Len(t, result.Places, 1)
	assert.Equal(t, "New York", result.Places[0].Name)
	assert.Equal(t, "state", result.Places[0].PlaceType)
	assert.Empty(t, result.People)
}

func TestExtract_StreetAddress(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("We rented the house at 1206 South Crystal Street until the winter of 1954.", "s8")

	var address *Place
	for i := range result.Places {
		if result.Places[i].PlaceType == "address" {
			address = &result.Places[i]
		}
	}
	require.NotNil(t, address)
	assert.Equal(t, "1206 South Crystal Street", address.Name)
}

func TestExtract_DateDedupByRawString(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("In 1968 everything changed for us, and by 1968 we knew it would stay changed.", "s9")

	require.Len(t, result.Dates, 1)
	assert.Equal(t, "1968", result.Dates[0].Date)
}

func TestExtract_CompositeAndBareYearCoexist(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("She was born on March 15, 1968, at the county hospital down the road.", "s10")

	raws := make([]string, 0, len(result.Dates))
	for _, d := range result.Dates {
		raws = append(raws, d.Date)
	}
	// The composite match and the bare year have different raw strings,
	// so both survive the dedup set.
	assert.Contains(t, raws, "March 15, 1968")
	assert.Contains(t, raws, "1968")
}

func TestExtract_SeasonDate(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("I still remember the summer of 1972 and the heat that never seemed to break.", "s11")

	var season *DateMention
	for i := range result.Dates {
		if result.Dates[i].DateType == "season" {
			season = &result.Dates[i]
		}
	}
	require.NotNil(t, season)
	assert.Equal(t, "summer of 1972", season.Date)
	assert.Equal(t, ConfidenceApproximate, season.Confidence)
}

func TestExtract_EventDedup(t *testing.T) {
	x := NewExtractor()
	result := x.Extract("We married in the spring and my cousin married that same year too.", "s12")

	// Both keyword hits sit inside the same 200-char snippet, so the
	// type+prefix dedup key collapses them to one event.
	count := 0
	for _, e := range result.Events {
		if e.EventType == "marriage" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractBatch_PreservesOrder(t *testing.T) {
	x := NewExtractor()
	results := x.ExtractBatch([]TranscriptInput{
		{Text: "My father Robert worked at the mill his whole life.", SessionID: "a"},
		{Text: "", SessionID: "b"},
		{Text: "We settled in Topeka, KS around 1950 after the war ended.", SessionID: "c"},
	})

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].SourceSession)
	assert.Equal(t, "b", results[1].SourceSession)
	assert.Equal(t, "c", results[2].SourceSession)
	assert.NotEmpty(t, results[0].People)
	assert.Empty(t, results[1].People)
	assert.NotEmpty(t, results[2].Places)
}
