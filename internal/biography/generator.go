// Package biography turns transcripts and extracted entities into a
// chaptered first-person life narrative. Generation degrades to
// placeholder content rather than failing: a memoir with thin source
// material is partial, not broken.
package biography

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/llm"
	"github.com/instabio/backend/internal/timeline"
	"github.com/instabio/backend/pkg/logger"
)

type Style string

const (
	StyleVerbatim  Style = "verbatim"
	StylePolished  Style = "polished"
	StyleStorybook Style = "storybook"
)

// Citation links a paragraph back to source audio.
type Citation struct {
	SessionUUID    string  `json:"session_uuid"`
	ChunkIndex     int     `json:"chunk_index,omitempty"`
	TimestampStart float64 `json:"timestamp_start,omitempty"`
	TimestampEnd   float64 `json:"timestamp_end,omitempty"`
	OriginalText   string  `json:"original_text,omitempty"`
}

type Paragraph struct {
	Text            string     `json:"text"`
	Citations       []Citation `json:"citations"`
	ConfidenceNotes []string   `json:"confidence_notes"`
}

type Chapter struct {
	Number     int         `json:"number"`
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
	TimePeriod string      `json:"time_period,omitempty"`
	Summary    string      `json:"summary,omitempty"`
}

type Biography struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	AuthorName  string    `json:"author_name"`
	Chapters    []Chapter `json:"chapters"`
	Style       Style     `json:"style"`
	GeneratedAt string    `json:"generated_at"`
	Status      string    `json:"status"`
}

// ChapterPlan is the planning-stage sketch of one chapter, before any
// narrative is written for it.
type ChapterPlan struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	TimePeriod string `json:"time_period"`
	Summary    string `json:"summary"`
}

// Transcript is the slice of source material a chapter draws from.
type Transcript struct {
	SessionID string
	Text      string
}

const (
	maxTimelinePromptEntries = 20
	maxEventPromptEntries    = 15
	maxPeoplePromptEntries   = 10
	maxPlacesPromptEntries   = 10
	maxTranscriptPromptChars = 8000
	citationTextLimit        = 200
)

type Generator struct {
	llm llm.Generator
}

func NewGenerator(llmClient llm.Generator) *Generator {
	return &Generator{llm: llmClient}
}

// PlanChapters asks the model for 3-8 chapter divisions grounded in the
// timeline and merged entities. Any planning failure falls back to the
// default four-chapter structure.
func (g *Generator) PlanChapters(ctx context.Context, merged extraction.ExtractionResult, entries []timeline.Entry) []ChapterPlan {
	var timelineLines []string
	for i, e := range entries {
		if i >= maxTimelinePromptEntries {
			break
		}
		timelineLines = append(timelineLines, fmt.Sprintf("- %s: %s (confidence: %s)", e.Date, e.Description, e.Confidence))
	}

	var eventLines []string
	for i, e := range merged.Events {
		if i >= maxEventPromptEntries {
			break
		}
		eventLines = append(eventLines, fmt.Sprintf("- %s: %s (%s)", e.EventType, e.Description, orUnknown(e.Date)))
	}

	var peopleParts []string
	for i, p := range merged.People {
		if i >= maxPeoplePromptEntries {
			break
		}
		rel := p.Relationship
		if rel == "" {
			rel = "relationship unknown"
		}
		peopleParts = append(peopleParts, fmt.Sprintf("%s (%s)", p.Name, rel))
	}

	var placeParts []string
	for i, p := range merged.Places {
		if i >= maxPlacesPromptEntries {
			break
		}
		placeParts = append(placeParts, p.Name)
	}

	prompt := fmt.Sprintf(chapterPlanningPrompt,
		orDefault(strings.Join(timelineLines, "\n"), "No timeline data available"),
		orDefault(strings.Join(eventLines, "\n"), "No events extracted"),
		orDefault(strings.Join(peopleParts, ", "), "No people mentioned"),
		orDefault(strings.Join(placeParts, ", "), "No places mentioned"),
	)

	resp, err := g.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: "You are planning the chapters for a life memoir.",
		UserPrompt:   prompt,
		Temperature:  0.5,
		MaxTokens:    2048,
	})
	if err != nil {
		logger.Warn("Chapter planning failed, using default chapters", zap.Error(err))
		return defaultChapters()
	}

	var parsed struct {
		Chapters []ChapterPlan `json:"chapters"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Content)), &parsed); err != nil || len(parsed.Chapters) == 0 {
		return defaultChapters()
	}

	return parsed.Chapters
}

func defaultChapters() []ChapterPlan {
	return []ChapterPlan{
		{Number: 1, Title: "Early Years", TimePeriod: "Childhood", Summary: "The beginning of the story"},
		{Number: 2, Title: "Growing Up", TimePeriod: "Youth", Summary: "Formative experiences"},
		{Number: 3, Title: "Making My Way", TimePeriod: "Adulthood", Summary: "Building a life"},
		{Number: 4, Title: "Reflections", TimePeriod: "Present", Summary: "Looking back with wisdom"},
	}
}

// GenerateChapter writes one chapter's narrative from the transcripts
// and the events filtered for it. Model or parse failure yields a
// placeholder chapter.
func (g *Generator) GenerateChapter(ctx context.Context, plan ChapterPlan, transcripts []Transcript, events []extraction.Event, style Style) Chapter {
	var texts []string
	for _, t := range transcripts {
		texts = append(texts, t.Text)
	}
	transcriptText := strings.Join(texts, "\n\n---\n\n")
	if len(transcriptText) > maxTranscriptPromptChars {
		transcriptText = transcriptText[:maxTranscriptPromptChars]
	}

	var eventLines []string
	for i, e := range events {
		if i >= 10 {
			break
		}
		eventLines = append(eventLines, fmt.Sprintf("- %s: %s (%s)", e.EventType, e.Description, orUnknown(e.Date)))
	}

	prompt := fmt.Sprintf(narrativePrompt,
		plan.Title,
		plan.TimePeriod,
		orDefault(transcriptText, "No transcript text available"),
		orDefault(strings.Join(eventLines, "\n"), "No specific events"),
		style,
	)

	resp, err := g.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: "You are writing a chapter for someone's life memoir, in their own first-person voice.",
		UserPrompt:   prompt,
		Temperature:  0.7,
		MaxTokens:    4096,
	})
	if err != nil {
		logger.Warn("Chapter generation failed, using placeholder",
			zap.String("chapter", plan.Title),
			zap.Error(err),
		)
		return placeholderChapter(plan)
	}

	var parsed struct {
		Paragraphs []struct {
			Text            string   `json:"text"`
			SourceSegments  []string `json:"source_segments"`
			ConfidenceNotes []string `json:"confidence_notes"`
		} `json:"paragraphs"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Content)), &parsed); err != nil || len(parsed.Paragraphs) == 0 {
		return placeholderChapter(plan)
	}

	paragraphs := make([]Paragraph, 0, len(parsed.Paragraphs))
	for _, p := range parsed.Paragraphs {
		citations := make([]Citation, 0, len(p.SourceSegments))
		for _, seg := range p.SourceSegments {
			if len(seg) > citationTextLimit {
				seg = seg[:citationTextLimit]
			}
			citations = append(citations, Citation{OriginalText: seg})
		}
		notes := p.ConfidenceNotes
		if notes == nil {
			notes = []string{}
		}
		paragraphs = append(paragraphs, Paragraph{
			Text:            p.Text,
			Citations:       citations,
			ConfidenceNotes: notes,
		})
	}

	return Chapter{
		Number:     plan.Number,
		Title:      plan.Title,
		Paragraphs: paragraphs,
		TimePeriod: plan.TimePeriod,
		Summary:    plan.Summary,
	}
}

func placeholderChapter(plan ChapterPlan) Chapter {
	return Chapter{
		Number: plan.Number,
		Title:  plan.Title,
		Paragraphs: []Paragraph{
			{
				Text:            "This chapter is being processed. More recordings will help create a richer narrative.",
				Citations:       []Citation{},
				ConfidenceNotes: []string{"Placeholder content - more recordings needed"},
			},
		},
		TimePeriod: plan.TimePeriod,
		Summary:    plan.Summary,
	}
}

// GenerateBiography plans chapters and writes each one, filtering the
// merged events per chapter by its time-period keywords.
func (g *Generator) GenerateBiography(ctx context.Context, userName string, transcripts []Transcript, merged extraction.ExtractionResult, entries []timeline.Entry, style Style) Biography {
	plans := g.PlanChapters(ctx, merged, entries)

	chapters := make([]Chapter, 0, len(plans))
	for _, plan := range plans {
		var chapterEvents []extraction.Event
		for _, e := range merged.Events {
			if eventMatchesChapter(e, plan) {
				chapterEvents = append(chapterEvents, e)
			}
		}
		chapters = append(chapters, g.GenerateChapter(ctx, plan, transcripts, chapterEvents, style))
	}

	status := "complete"
	if len(chapters) <= 1 {
		status = "partial"
	}

	logger.Info("Biography generated",
		zap.String("author", userName),
		zap.Int("chapters", len(chapters)),
		zap.String("status", status),
	)

	return Biography{
		Title:       fmt.Sprintf("The Story of %s", userName),
		Subtitle:    "A Life in Their Own Words",
		AuthorName:  userName,
		Chapters:    chapters,
		Style:       style,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Status:      status,
	}
}

// eventMatchesChapter decides whether an event belongs in a chapter by
// keyword-matching the chapter's time period against the event's type
// and description. Periods with no recognized keyword include everything.
func eventMatchesChapter(event extraction.Event, plan ChapterPlan) bool {
	period := strings.ToLower(plan.TimePeriod)
	desc := strings.ToLower(event.Description)
	eventType := strings.ToLower(event.EventType)

	switch {
	case strings.Contains(period, "childhood"), strings.Contains(period, "early"):
		return strings.Contains(eventType, "birth") || strings.Contains(desc, "born")
	case strings.Contains(period, "education"), strings.Contains(period, "school"):
		return strings.Contains(eventType, "education") || strings.Contains(desc, "school")
	case strings.Contains(period, "career"), strings.Contains(period, "work"):
		return strings.Contains(eventType, "job") || strings.Contains(desc, "work")
	case strings.Contains(period, "family"), strings.Contains(period, "marriage"):
		return strings.Contains(eventType, "marriage") || strings.Contains(desc, "family")
	}

	return true
}

// cleanJSON strips markdown code fences that models wrap around JSON.
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

func orUnknown(s string) string {
	if s == "" {
		return "date unknown"
	}
	return s
}
