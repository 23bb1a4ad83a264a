package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_PersonConfidenceAndBackfill(t *testing.T) {
	r1 := ExtractionResult{
		People: []Person{{Name: "John", Relationship: "husband", Confidence: ConfidenceExact, Mentions: 1}},
	}
	r2 := ExtractionResult{
		People: []Person{{Name: "John", Confidence: ConfidenceApproximate, Mentions: 1, Context: "John came by"}},
	}

	merged := Merge([]ExtractionResult{r1, r2})

	require.True(t, merged.Success)
	require.Len(t, merged.People, 1)
	p := merged.People[0]
	assert.Equal(t, "John", p.Name)
	assert.Equal(t, 2, p.Mentions)
	assert.Equal(t, "husband", p.Relationship)
	// First-seen confidence wins; the approximate sighting never
	// downgrades it.
	assert.Equal(t, ConfidenceExact, p.Confidence)
	// Context was missing on the stored record, so it backfills.
	assert.Equal(t, "John came by", p.Context)
}

func TestMerge_PersonBackfillNeverOverwrites(t *testing.T) {
	r1 := ExtractionResult{
		People: []Person{{Name: "Ruth", Relationship: "sister", Context: "first", Confidence: ConfidenceExact, Mentions: 1}},
	}
	r2 := ExtractionResult{
		People: []Person{{Name: "ruth", Relationship: "aunt", Context: "second", Confidence: ConfidenceExact, Mentions: 1}},
	}

	merged := Merge([]ExtractionResult{r1, r2})

	require.Len(t, merged.People, 1)
	assert.Equal(t, "Ruth", merged.People[0].Name)
	assert.Equal(t, "sister", merged.People[0].Relationship)
	assert.Equal(t, "first", merged.People[0].Context)
	assert.Equal(t, 2, merged.People[0].Mentions)
}

func TestMerge_MentionTotals(t *testing.T) {
	results := []ExtractionResult{
		{People: []Person{{Name: "Mary", Confidence: ConfidenceExact, Mentions: 3}}},
		{People: []Person{{Name: "mary", Confidence: ConfidenceApproximate, Mentions: 2}}},
		{People: []Person{{Name: "MARY", Confidence: ConfidenceApproximate}}},
	}

	merged := Merge(results)

	require.Len(t, merged.People, 1)
	// 3 + 2 + 1: a record with no mention count still counts as one sighting.
	assert.Equal(t, 6, merged.People[0].Mentions)
}

func TestMerge_Associativity(t *testing.T) {
	a := ExtractionResult{People: []Person{{Name: "Sam", Confidence: ConfidenceExact, Mentions: 2}}}
	b := ExtractionResult{People: []Person{{Name: "Sam", Relationship: "uncle", Confidence: ConfidenceExact, Mentions: 1}}}
	c := ExtractionResult{People: []Person{{Name: "sam", Confidence: ConfidenceApproximate, Mentions: 4}}}

	direct := Merge([]ExtractionResult{a, b, c})
	staged := Merge([]ExtractionResult{Merge([]ExtractionResult{a, b}), c})

	require.Len(t, direct.People, 1)
	require.Len(t, staged.People, 1)
	assert.Equal(t, direct.People[0].Mentions, staged.People[0].Mentions)
	assert.Equal(t, direct.People[0].Relationship, staged.People[0].Relationship)
	assert.Equal(t, direct.People[0].Confidence, staged.People[0].Confidence)
}

func TestMerge_SingleResultRoundTrip(t *testing.T) {
	x := NewExtractor()
	original := x.Extract("My mother Mary always said I was born in 1945 in Kansas.", "s1")

	merged := Merge([]ExtractionResult{original})

	assert.Equal(t, original.People, merged.People)
	assert.Equal(t, original.Places, merged.Places)
	assert.Equal(t, original.Dates, merged.Dates)
	assert.Equal(t, original.Events, merged.Events)
}

func TestMerge_PlaceFirstWins(t *testing.T) {
	r1 := ExtractionResult{
		Places: []Place{{Name: "Springfield, IL", PlaceType: "city", Confidence: ConfidenceExact}},
	}
	r2 := ExtractionResult{
		Places: []Place{{Name: "springfield, il", PlaceType: "city", Context: "later sighting", Confidence: ConfidenceExact}},
	}

	merged := Merge([]ExtractionResult{r1, r2})

	require.Len(t, merged.Places, 1)
	// No backfill for places: the second sighting is discarded entirely.
	assert.Equal(t, "Springfield, IL", merged.Places[0].Name)
	assert.Empty(t, merged.Places[0].Context)
}

func TestMerge_DatesAndEventsConcatenated(t *testing.T) {
	r1 := ExtractionResult{
		Dates:  []DateMention{{Date: "1950", DateType: "year", Confidence: ConfidenceExact}},
		Events: []Event{{EventType: "birth", Description: "born in 1950"}},
	}
	r2 := ExtractionResult{
		Dates:  []DateMention{{Date: "1950", DateType: "year", Confidence: ConfidenceExact}},
		Events: []Event{{EventType: "birth", Description: "born in 1950"}},
	}

	merged := Merge([]ExtractionResult{r1, r2})

	// Duplicates are kept; each mention is an independent signal.
	assert.Len(t, merged.Dates, 2)
	assert.Len(t, merged.Events, 2)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge(nil)

	assert.True(t, merged.Success)
	assert.NotNil(t, merged.People)
	assert.Empty(t, merged.People)
	assert.Empty(t, merged.Places)
	assert.Empty(t, merged.Dates)
	assert.Empty(t, merged.Events)
}
