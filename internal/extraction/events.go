package extraction

import "strings"

const (
	eventSnippetRadius = 200
	eventWindowRadius  = 100
	eventDedupPrefix   = 80
)

func (x *Extractor) extractEvents(text string, people []Person, places []Place) []Event {
	events := []Event{}
	seen := make(map[string]bool)

	for _, pattern := range eventPatterns {
		for _, m := range pattern.re.FindAllStringIndex(text, -1) {
			description := snippet(text, m[0], m[1], eventSnippetRadius)

			dedupKey := pattern.eventType + "|" + prefix(description, eventDedupPrefix)
			if seen[dedupKey] {
				continue
			}
			seen[dedupKey] = true

			window := snippet(text, m[0], m[1], eventWindowRadius)
			windowLower := strings.ToLower(window)

			event := Event{
				EventType:      pattern.eventType,
				Description:    description,
				DateConfidence: ConfidenceInferred,
				PeopleInvolved: []string{},
				PlacesInvolved: []string{},
				SourceText:     text[m[0]:m[1]],
			}

			if year := bareYearRe.FindString(window); year != "" {
				event.Date = year
				event.DateConfidence = ConfidenceExact
			}

			for _, p := range people {
				if strings.Contains(windowLower, strings.ToLower(p.Name)) {
					event.PeopleInvolved = append(event.PeopleInvolved, p.Name)
				}
			}
			for _, p := range places {
				if strings.Contains(windowLower, strings.ToLower(p.Name)) {
					event.PlacesInvolved = append(event.PlacesInvolved, p.Name)
				}
			}

			events = append(events, event)
		}
	}

	return events
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
