// Package neo4j persists the memoir's relationship graph: people,
// places and life events, and the edges connecting them.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/instabio/backend/pkg/circuitbreaker"
	"github.com/instabio/backend/pkg/logger"
	"github.com/instabio/backend/pkg/retry"
)

type Client struct {
	driver      neo4j.DriverWithContext
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

// PersonNode is a person in one user's memoir graph, keyed by
// (user_id, name).
type PersonNode struct {
	UserID       string
	Name         string
	Relationship string
	Confidence   string
	Mentions     int
}

type PlaceNode struct {
	UserID     string
	Name       string
	PlaceType  string
	Confidence string
}

type EventNode struct {
	ID             string
	UserID         string
	EventType      string
	Description    string
	Date           string
	DateConfidence string
}

// Connection is one edge in a person's neighborhood.
type Connection struct {
	PersonName  string
	EventType   string
	Description string
	Date        string
}

func NewClient(uri, username, password string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(username, password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx := context.Background()
	err = driver.VerifyConnectivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify connectivity: %w", err)
	}

	cb := circuitbreaker.NewCircuitBreaker("neo4j", circuitbreaker.Config{
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          20 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   200 * time.Millisecond,
		MaxDelay:       3 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Neo4j client initialized", zap.String("uri", uri))

	return &Client{
		driver:      driver,
		cb:          cb,
		retryConfig: retryConfig,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) executeWithRetry(ctx context.Context, operation func(neo4j.SessionWithContext) error) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: "neo4j"})
			defer session.Close(ctx)
			return operation(session)
		})
	})
}

// UpsertPerson merges a person node, accumulating mention counts
// across repeated builds.
func (c *Client) UpsertPerson(ctx context.Context, person *PersonNode) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: "neo4j"})
	defer session.Close(ctx)

	query := `
		MERGE (p:Person {user_id: $user_id, name: $name})
		ON CREATE SET p.mentions = $mentions, p.created_at = timestamp()
		ON MATCH SET p.mentions = $mentions
		SET p.confidence = $confidence
		FOREACH (_ IN CASE WHEN $relationship <> '' THEN [1] ELSE [] END |
			SET p.relationship = $relationship)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"user_id":      person.UserID,
		"name":         person.Name,
		"relationship": person.Relationship,
		"confidence":   person.Confidence,
		"mentions":     person.Mentions,
	})

	if err != nil {
		return fmt.Errorf("failed to upsert person: %w", err)
	}

	logger.Debug("Person upserted in KG", zap.String("name", person.Name))

	return nil
}

func (c *Client) UpsertPlace(ctx context.Context, place *PlaceNode) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: "neo4j"})
	defer session.Close(ctx)

	query := `
		MERGE (pl:Place {user_id: $user_id, name: $name})
		SET pl.place_type = $place_type,
		    pl.confidence = $confidence
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"user_id":    place.UserID,
		"name":       place.Name,
		"place_type": place.PlaceType,
		"confidence": place.Confidence,
	})

	if err != nil {
		return fmt.Errorf("failed to upsert place: %w", err)
	}

	logger.Debug("Place upserted in KG", zap.String("name", place.Name))

	return nil
}

// CreateEvent writes one event node with its INVOLVES and OCCURRED_AT
// edges, plus MENTIONED_WITH edges between co-involved people.
func (c *Client) CreateEvent(ctx context.Context, event *EventNode, people, places []string) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: "neo4j"})
	defer session.Close(ctx)

	query := `
		MERGE (e:Event {id: $id})
		SET e.user_id = $user_id,
		    e.event_type = $event_type,
		    e.description = $description,
		    e.date = $date,
		    e.date_confidence = $date_confidence,
		    e.created_at = timestamp()
		WITH e
		UNWIND $people AS person_name
		MATCH (p:Person {user_id: $user_id, name: person_name})
		MERGE (e)-[:INVOLVES]->(p)
		WITH e
		UNWIND $places AS place_name
		MATCH (pl:Place {user_id: $user_id, name: place_name})
		MERGE (e)-[:OCCURRED_AT]->(pl)
	`

	// UNWIND over an empty list aborts the rest of the query, so empty
	// slices are padded out separately.
	if len(people) == 0 && len(places) == 0 {
		query = `
			MERGE (e:Event {id: $id})
			SET e.user_id = $user_id,
			    e.event_type = $event_type,
			    e.description = $description,
			    e.date = $date,
			    e.date_confidence = $date_confidence,
			    e.created_at = timestamp()
		`
	} else if len(people) == 0 {
		query = `
			MERGE (e:Event {id: $id})
			SET e.user_id = $user_id,
			    e.event_type = $event_type,
			    e.description = $description,
			    e.date = $date,
			    e.date_confidence = $date_confidence,
			    e.created_at = timestamp()
			WITH e
			UNWIND $places AS place_name
			MATCH (pl:Place {user_id: $user_id, name: place_name})
			MERGE (e)-[:OCCURRED_AT]->(pl)
		`
	} else if len(places) == 0 {
		query = `
			MERGE (e:Event {id: $id})
			SET e.user_id = $user_id,
			    e.event_type = $event_type,
			    e.description = $description,
			    e.date = $date,
			    e.date_confidence = $date_confidence,
			    e.created_at = timestamp()
			WITH e
			UNWIND $people AS person_name
			MATCH (p:Person {user_id: $user_id, name: person_name})
			MERGE (e)-[:INVOLVES]->(p)
		`
	}

	_, err := session.Run(ctx, query, map[string]interface{}{
		"id":              event.ID,
		"user_id":         event.UserID,
		"event_type":      event.EventType,
		"description":     event.Description,
		"date":            event.Date,
		"date_confidence": event.DateConfidence,
		"people":          people,
		"places":          places,
	})

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if len(people) > 1 {
		coQuery := `
			UNWIND $people AS a
			UNWIND $people AS b
			MATCH (pa:Person {user_id: $user_id, name: a})
			MATCH (pb:Person {user_id: $user_id, name: b})
			WHERE a < b
			MERGE (pa)-[:MENTIONED_WITH]->(pb)
		`
		_, err = session.Run(ctx, coQuery, map[string]interface{}{
			"user_id": event.UserID,
			"people":  people,
		})
		if err != nil {
			return fmt.Errorf("failed to link co-mentioned people: %w", err)
		}
	}

	logger.Debug("Event created in KG",
		zap.String("event_id", event.ID),
		zap.String("type", event.EventType),
	)

	return nil
}

// PersonNetwork returns the events and co-mentioned people around one
// person, most recent first by stored date string.
func (c *Client) PersonNetwork(ctx context.Context, userID, name string) ([]Connection, error) {
	var connections []Connection

	err := c.executeWithRetry(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (p:Person {user_id: $user_id, name: $name})<-[:INVOLVES]-(e:Event)-[:INVOLVES]->(other:Person)
			RETURN other.name AS person_name, e.event_type AS event_type,
			       e.description AS description, e.date AS date
			ORDER BY e.date DESC
			LIMIT 20
		`

		result, err := session.Run(ctx, query, map[string]interface{}{
			"user_id": userID,
			"name":    name,
		})
		if err != nil {
			return fmt.Errorf("failed to query person network: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()

			personName, _ := record.Get("person_name")
			eventType, _ := record.Get("event_type")
			description, _ := record.Get("description")
			date, _ := record.Get("date")

			connections = append(connections, Connection{
				PersonName:  asString(personName),
				EventType:   asString(eventType),
				Description: asString(description),
				Date:        asString(date),
			})
		}

		if err = result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	logger.Info("Person network queried",
		zap.String("name", name),
		zap.Int("connections", len(connections)),
	)

	return connections, nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
