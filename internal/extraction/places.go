package extraction

import "strings"

// placeSet is an insertion-ordered set of places keyed by lowercased
// full name. First occurrence wins outright; later sightings of the same
// key are discarded.
type placeSet struct {
	order []*Place
	index map[string]bool
	// claimed holds every lowercased name a place has claimed, including
	// the bare city part of a "City, ST" match, so the people list can
	// drop city names mistaken for person names.
	claimed map[string]bool
}

func newPlaceSet() *placeSet {
	return &placeSet{index: make(map[string]bool), claimed: make(map[string]bool)}
}

func (s *placeSet) add(name, placeType, context string) {
	key := strings.ToLower(name)
	s.claimed[key] = true
	if s.index[key] {
		return
	}
	s.index[key] = true
	s.order = append(s.order, &Place{
		Name:       name,
		PlaceType:  placeType,
		Context:    context,
		Confidence: ConfidenceExact,
	})
}

func (x *Extractor) extractPlaces(text string) *placeSet {
	places := newPlaceSet()

	// "City, ST" / "City, StateName"
	for _, m := range cityStateRe.FindAllStringSubmatchIndex(text, -1) {
		city := text[m[2]:m[3]]
		state := text[m[4]:m[5]]
		if !stateAbbrevs[state] && !stateNameSet[state] {
			continue
		}
		full := city + ", " + state
		places.add(full, "city", snippet(text, m[0], m[1], placeContextRadius))
		places.claimed[strings.ToLower(city)] = true
	}

	// Street addresses.
	for _, m := range streetAddressRe.FindAllStringIndex(text, -1) {
		places.add(text[m[0]:m[1]], "address", snippet(text, m[0], m[1], placeContextRadius))
	}

	// Verbatim US state names, checked once per state.
	for _, state := range stateNames {
		idx := strings.Index(text, state)
		if idx < 0 {
			continue
		}
		places.add(state, "state", snippet(text, idx, idx+len(state), placeContextRadius))
	}

	return places
}

const placeContextRadius = 60
