package biography

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/llm"
)

func TestPlanChapters_FallsBackToDefaults(t *testing.T) {
	// The mock returns prose, not JSON, so planning falls through to the
	// default structure.
	g := NewGenerator(llm.NewMock(8))

	plans := g.PlanChapters(context.Background(), extraction.ExtractionResult{}, nil)

	require.Len(t, plans, 4)
	assert.Equal(t, "Early Years", plans[0].Title)
	assert.Equal(t, "Reflections", plans[3].Title)
	assert.Equal(t, 1, plans[0].Number)
}

func TestGenerateChapter_PlaceholderOnUnparseableResponse(t *testing.T) {
	g := NewGenerator(llm.NewMock(8))
	plan := ChapterPlan{Number: 2, Title: "Growing Up", TimePeriod: "Youth"}

	chapter := g.GenerateChapter(context.Background(), plan, nil, nil, StylePolished)

	assert.Equal(t, 2, chapter.Number)
	assert.Equal(t, "Growing Up", chapter.Title)
	require.Len(t, chapter.Paragraphs, 1)
	assert.Contains(t, chapter.Paragraphs[0].ConfidenceNotes[0], "Placeholder")
}

func TestGenerateBiography_DefaultPlanStructure(t *testing.T) {
	g := NewGenerator(llm.NewMock(8))

	bio := g.GenerateBiography(context.Background(), "Dorothy", nil, extraction.ExtractionResult{}, nil, StyleVerbatim)

	assert.Equal(t, "The Story of Dorothy", bio.Title)
	assert.Equal(t, "Dorothy", bio.AuthorName)
	assert.Equal(t, StyleVerbatim, bio.Style)
	// Default planning yields four chapters, so the biography is complete.
	assert.Equal(t, "complete", bio.Status)
	assert.Len(t, bio.Chapters, 4)
}

func TestEventMatchesChapter(t *testing.T) {
	birth := extraction.Event{EventType: "birth", Description: "born in 1945"}
	job := extraction.Event{EventType: "job", Description: "started at the factory"}
	school := extraction.Event{EventType: "education", Description: "graduated high school"}
	marriage := extraction.Event{EventType: "marriage", Description: "we got married"}

	cases := []struct {
		period string
		event  extraction.Event
		want   bool
	}{
		{"Childhood", birth, true},
		{"Childhood", job, false},
		{"Early Years", birth, true},
		{"Education", school, true},
		{"Education", birth, false},
		{"Career", job, true},
		{"Work Life", birth, false},
		{"Family", marriage, true},
		{"Marriage and Family", birth, false},
		// Unrecognized periods include everything.
		{"The War Years", job, true},
		{"", birth, true},
	}

	for _, tc := range cases {
		got := eventMatchesChapter(tc.event, ChapterPlan{TimePeriod: tc.period})
		assert.Equal(t, tc.want, got, "period %q, event %s", tc.period, tc.event.EventType)
	}
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON(`{"a":1}`))
}
