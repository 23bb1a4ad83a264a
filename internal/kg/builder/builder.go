// Package builder projects a merged extraction result into the Neo4j
// memoir graph.
package builder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/extraction"
	"github.com/instabio/backend/internal/kg/neo4j"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/pkg/logger"
)

type Builder struct {
	kgClient *neo4j.Client
}

func NewBuilder(kgClient *neo4j.Client) *Builder {
	return &Builder{kgClient: kgClient}
}

// BuildFromExtraction upserts every person and place, then writes one
// event node per extracted event with edges to its participants. Node
// writes that fail are logged and skipped; event writes only reference
// nodes that made it in.
func (b *Builder) BuildFromExtraction(ctx context.Context, userID string, merged extraction.ExtractionResult) error {
	if b.kgClient == nil {
		return fmt.Errorf("kg client not configured")
	}

	logger.Info("Building KG from extraction",
		zap.String("user_id", userID),
		zap.Int("people", len(merged.People)),
		zap.Int("places", len(merged.Places)),
		zap.Int("events", len(merged.Events)),
	)

	knownPeople := make(map[string]bool)
	for _, person := range merged.People {
		node := &neo4j.PersonNode{
			UserID:       userID,
			Name:         person.Name,
			Relationship: person.Relationship,
			Confidence:   string(person.Confidence),
			Mentions:     person.Mentions,
		}
		if err := b.kgClient.UpsertPerson(ctx, node); err != nil {
			logger.Error("Failed to upsert person", zap.String("name", person.Name), zap.Error(err))
			continue
		}
		knownPeople[person.Name] = true
		metrics.KGNodesWritten.WithLabelValues("person").Inc()
	}

	knownPlaces := make(map[string]bool)
	for _, place := range merged.Places {
		node := &neo4j.PlaceNode{
			UserID:     userID,
			Name:       place.Name,
			PlaceType:  place.PlaceType,
			Confidence: string(place.Confidence),
		}
		if err := b.kgClient.UpsertPlace(ctx, node); err != nil {
			logger.Error("Failed to upsert place", zap.String("name", place.Name), zap.Error(err))
			continue
		}
		knownPlaces[place.Name] = true
		metrics.KGNodesWritten.WithLabelValues("place").Inc()
	}

	eventsWritten := 0
	for _, event := range merged.Events {
		node := &neo4j.EventNode{
			ID:             uuid.New().String(),
			UserID:         userID,
			EventType:      event.EventType,
			Description:    event.Description,
			Date:           event.Date,
			DateConfidence: string(event.DateConfidence),
		}

		people := filterKnown(event.PeopleInvolved, knownPeople)
		places := filterKnown(event.PlacesInvolved, knownPlaces)

		if err := b.kgClient.CreateEvent(ctx, node, people, places); err != nil {
			logger.Error("Failed to create event", zap.String("type", event.EventType), zap.Error(err))
			continue
		}
		eventsWritten++
		metrics.KGNodesWritten.WithLabelValues("event").Inc()
	}

	logger.Info("KG built from extraction",
		zap.String("user_id", userID),
		zap.Int("people_written", len(knownPeople)),
		zap.Int("places_written", len(knownPlaces)),
		zap.Int("events_written", eventsWritten),
	)

	return nil
}

func filterKnown(names []string, known map[string]bool) []string {
	filtered := []string{}
	for _, name := range names {
		if known[name] {
			filtered = append(filtered, name)
		}
	}
	return filtered
}
