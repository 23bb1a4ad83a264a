package extraction

// Confidence describes how directly an entity was stated in the transcript.
type Confidence string

const (
	ConfidenceExact       Confidence = "exact"
	ConfidenceApproximate Confidence = "approximate"
	ConfidenceInferred    Confidence = "inferred"
)

// Person is a person mentioned in a transcript. Identity is the
// lowercased name; Mentions counts how many times that identity was
// seen across extraction and merging.
type Person struct {
	Name         string     `json:"name"`
	Relationship string     `json:"relationship,omitempty"`
	Context      string     `json:"context,omitempty"`
	Confidence   Confidence `json:"confidence"`
	Mentions     int        `json:"mentions"`
}

// Place is a location mentioned in a transcript.
type Place struct {
	Name       string     `json:"name"`
	PlaceType  string     `json:"place_type,omitempty"`
	Context    string     `json:"context,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// DateMention is a raw date or time period as spoken. Duplicates are
// permitted; each mention is an independent signal for the timeline.
type DateMention struct {
	Date       string     `json:"date"`
	DateType   string     `json:"date_type"`
	Event      string     `json:"event,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// Event is a life event found near an event keyword.
type Event struct {
	EventType      string     `json:"event_type"`
	Description    string     `json:"description"`
	Date           string     `json:"date,omitempty"`
	DateConfidence Confidence `json:"date_confidence"`
	PeopleInvolved []string   `json:"people_involved"`
	PlacesInvolved []string   `json:"places_involved"`
	SourceText     string     `json:"source_text,omitempty"`
}

// ExtractionResult aggregates everything extracted from one transcript,
// or from many after merging. It is fully constructed by its producer
// and read-only afterwards.
type ExtractionResult struct {
	People        []Person      `json:"people"`
	Places        []Place       `json:"places"`
	Dates         []DateMention `json:"dates"`
	Events        []Event       `json:"events"`
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	SourceSession string        `json:"source_session,omitempty"`
}

func emptyResult(sessionID string) ExtractionResult {
	return ExtractionResult{
		People:        []Person{},
		Places:        []Place{},
		Dates:         []DateMention{},
		Events:        []Event{},
		Success:       true,
		SourceSession: sessionID,
	}
}
