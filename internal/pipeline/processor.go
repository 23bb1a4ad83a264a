// Package pipeline runs the full processing pass over a user's recorded
// sessions: clean each transcript, extract entities, merge across the
// corpus, build the timeline, and persist the results.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/cache/redis"
	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/kg/builder"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/storage/models"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/internal/timeline"
	"github.com/instabio/backend/pkg/logger"
	"github.com/instabio/backend/pkg/utils"
)

const extractionCacheTTL = 24 * time.Hour

var whitespaceRe = regexp.MustCompile(`\s+`)

// Processor orchestrates the extraction pipeline. The cache and KG
// builder are optional; a nil client simply skips that stage.
type Processor struct {
	db        *sqlite.Client
	cache     *redis.Client
	extractor *extraction.Extractor
	kgBuilder *builder.Builder
	workers   int
}

func NewProcessor(db *sqlite.Client, cache *redis.Client, kgBuilder *builder.Builder, workers int) *Processor {
	if workers < 1 {
		workers = 4
	}
	return &Processor{
		db:        db,
		cache:     cache,
		extractor: extraction.NewExtractor(),
		kgBuilder: kgBuilder,
		workers:   workers,
	}
}

// Result summarizes one pipeline run.
type Result struct {
	TranscriptsProcessed int `json:"transcripts_processed"`
	PeopleFound          int `json:"people_found"`
	PlacesFound          int `json:"places_found"`
	DatesFound           int `json:"dates_found"`
	EventsFound          int `json:"events_found"`
	TimelineEntries      int `json:"timeline_entries"`
}

// Process runs the pipeline over every stored transcript for the user.
// Per-transcript extraction runs on a bounded worker pool; merge and
// persistence are single-threaded on the ordered results. force drops
// cached per-transcript extractions first, so edited patterns or
// corrected transcripts take effect.
func (p *Processor) Process(ctx context.Context, userID string, force bool) (*Result, error) {
	start := time.Now()

	if force && p.cache != nil {
		if err := p.cache.InvalidateExtractions(ctx); err != nil {
			logger.Warn("Failed to invalidate extraction cache", zap.Error(err))
		}
	}

	if err := p.db.SetProcessingStatus(userID, "processing", "extracting entities"); err != nil {
		logger.Warn("Failed to set processing status", zap.Error(err))
	}

	transcripts, err := p.db.GetTranscriptsByUser(userID)
	if err != nil {
		p.fail(userID, "loading transcripts failed")
		return nil, fmt.Errorf("failed to load transcripts: %w", err)
	}
	if len(transcripts) == 0 {
		p.fail(userID, "no transcripts recorded")
		return nil, fmt.Errorf("no transcripts for user %s", userID)
	}

	results := p.extractAll(ctx, transcripts)

	merged := extraction.Merge(results)

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		p.fail(userID, "serializing extraction failed")
		return nil, fmt.Errorf("failed to marshal merged extraction: %w", err)
	}
	err = p.db.SaveExtraction(&models.ExtractionRecord{
		ID:         uuid.New().String(),
		UserID:     userID,
		SessionID:  "",
		ResultJSON: string(mergedJSON),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		p.fail(userID, "saving extraction failed")
		return nil, fmt.Errorf("failed to save merged extraction: %w", err)
	}

	entries := timeline.Build(merged.Events, merged.Dates)
	if err := p.persistTimeline(userID, entries); err != nil {
		p.fail(userID, "saving timeline failed")
		return nil, err
	}

	if p.kgBuilder != nil {
		if err := p.kgBuilder.BuildFromExtraction(ctx, userID, merged); err != nil {
			logger.Warn("KG build failed, continuing", zap.Error(err))
		}
	}

	if err := p.db.SetProcessingStatus(userID, "complete", ""); err != nil {
		logger.Warn("Failed to set processing status", zap.Error(err))
	}

	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.PipelineRuns.WithLabelValues("success").Inc()
	metrics.TimelineEntries.Observe(float64(len(entries)))
	metrics.EntitiesExtracted.WithLabelValues("person").Add(float64(len(merged.People)))
	metrics.EntitiesExtracted.WithLabelValues("place").Add(float64(len(merged.Places)))
	metrics.EntitiesExtracted.WithLabelValues("date").Add(float64(len(merged.Dates)))
	metrics.EntitiesExtracted.WithLabelValues("event").Add(float64(len(merged.Events)))

	logger.Info("Pipeline complete",
		zap.String("user_id", userID),
		zap.Int("transcripts", len(transcripts)),
		zap.Int("people", len(merged.People)),
		zap.Int("places", len(merged.Places)),
		zap.Int("events", len(merged.Events)),
		zap.Int("timeline_entries", len(entries)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		TranscriptsProcessed: len(transcripts),
		PeopleFound:          len(merged.People),
		PlacesFound:          len(merged.Places),
		DatesFound:           len(merged.Dates),
		EventsFound:          len(merged.Events),
		TimelineEntries:      len(entries),
	}, nil
}

// extractAll runs per-transcript extraction on a worker pool. Results
// come back in transcript order regardless of completion order, so the
// merge stays deterministic.
func (p *Processor) extractAll(ctx context.Context, transcripts []models.Transcript) []extraction.ExtractionResult {
	results := make([]extraction.ExtractionResult, len(transcripts))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, t := range transcripts {
		wg.Add(1)
		go func(i int, t models.Transcript) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = p.extractOne(ctx, t)
		}(i, t)
	}
	wg.Wait()

	return results
}

func (p *Processor) extractOne(ctx context.Context, t models.Transcript) extraction.ExtractionResult {
	text := CleanTranscript(t.Text)
	textHash := utils.HashString(text)

	if p.cache != nil {
		var cached extraction.ExtractionResult
		hit, err := p.cache.GetExtraction(ctx, textHash, &cached)
		if err != nil {
			logger.Warn("Extraction cache read failed", zap.Error(err))
		} else if hit {
			metrics.CacheHits.WithLabelValues("extraction").Inc()
			cached.SourceSession = t.SessionID
			return cached
		}
		metrics.CacheMisses.WithLabelValues("extraction").Inc()
	}

	start := time.Now()
	result := p.extractor.Extract(text, t.SessionID)
	metrics.ExtractionDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())
	metrics.ExtractionTotal.WithLabelValues("success").Inc()

	if p.cache != nil {
		if err := p.cache.SetExtraction(ctx, textHash, result, extractionCacheTTL); err != nil {
			logger.Warn("Extraction cache write failed", zap.Error(err))
		}
	}

	return result
}

func (p *Processor) persistTimeline(userID string, entries []timeline.Entry) error {
	records := make([]models.TimelineEntryRecord, 0, len(entries))
	for i, entry := range entries {
		peopleJSON, _ := json.Marshal(entry.People)
		placesJSON, _ := json.Marshal(entry.Places)
		records = append(records, models.TimelineEntryRecord{
			UserID:      userID,
			Date:        entry.Date,
			EntryType:   entry.Type,
			Description: entry.Description,
			Confidence:  string(entry.Confidence),
			PeopleJSON:  string(peopleJSON),
			PlacesJSON:  string(placesJSON),
			Source:      entry.Source,
			SortKey:     timeline.SortKey(entry.Date),
			Position:    i,
			CreatedAt:   time.Now(),
		})
	}

	if err := p.db.ReplaceTimeline(userID, records); err != nil {
		return fmt.Errorf("failed to replace timeline: %w", err)
	}
	return nil
}

func (p *Processor) fail(userID, detail string) {
	metrics.PipelineRuns.WithLabelValues("failed").Inc()
	if err := p.db.SetProcessingStatus(userID, "failed", detail); err != nil {
		logger.Warn("Failed to set processing status", zap.Error(err))
	}
}

// CleanTranscript normalizes uploaded transcript text. Some capture
// tools export transcripts as HTML fragments; markup is stripped before
// the extractor sees the text.
func CleanTranscript(text string) string {
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err == nil {
			doc.Find("script, style").Each(func(i int, s *goquery.Selection) {
				s.Remove()
			})
			extracted := doc.Text()
			if strings.TrimSpace(extracted) != "" {
				text = extracted
			}
		}
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
