package extraction

import "strings"

// Merge combines per-transcript extraction results into one corpus-level
// result. People and places are deduplicated by lowercased name; dates
// and events are concatenated as-is, duplicates included, since the
// timeline treats each as an independent signal.
//
// The two dedup policies are deliberately different and must stay that
// way: a Person keeps its first-seen confidence but accumulates mentions
// and backfills missing relationship/context from later sightings, while
// a Place is frozen entirely at first sighting.
func Merge(results []ExtractionResult) ExtractionResult {
	peopleIndex := make(map[string]int)
	people := []Person{}
	placeIndex := make(map[string]bool)
	places := []Place{}
	dates := []DateMention{}
	events := []Event{}

	for _, result := range results {
		for _, person := range result.People {
			key := strings.ToLower(person.Name)
			mentions := person.Mentions
			if mentions < 1 {
				mentions = 1
			}
			if i, ok := peopleIndex[key]; ok {
				existing := &people[i]
				existing.Mentions += mentions
				if existing.Relationship == "" && person.Relationship != "" {
					existing.Relationship = person.Relationship
				}
				if existing.Context == "" && person.Context != "" {
					existing.Context = person.Context
				}
				continue
			}
			peopleIndex[key] = len(people)
			people = append(people, Person{
				Name:         person.Name,
				Relationship: person.Relationship,
				Context:      person.Context,
				Confidence:   person.Confidence,
				Mentions:     mentions,
			})
		}

		for _, place := range result.Places {
			key := strings.ToLower(place.Name)
			if placeIndex[key] {
				continue
			}
			placeIndex[key] = true
			places = append(places, place)
		}

		dates = append(dates, result.Dates...)
		events = append(events, result.Events...)
	}

	return ExtractionResult{
		People:  people,
		Places:  places,
		Dates:   dates,
		Events:  events,
		Success: true,
	}
}
