package extraction

import "strings"

// personSet is an insertion-ordered set of people keyed by lowercased
// name. An identity recorded by an earlier, higher-confidence pattern is
// never downgraded by a later match; later matches only bump mentions
// and backfill missing fields.
type personSet struct {
	order []*Person
	index map[string]int
}

func newPersonSet() *personSet {
	return &personSet{index: make(map[string]int)}
}

func (s *personSet) add(name, relationship, context string, confidence Confidence) {
	key := strings.ToLower(name)
	if i, ok := s.index[key]; ok {
		p := s.order[i]
		p.Mentions++
		if p.Relationship == "" && relationship != "" {
			p.Relationship = relationship
		}
		if p.Context == "" && context != "" {
			p.Context = context
		}
		return
	}
	s.index[key] = len(s.order)
	s.order = append(s.order, &Person{
		Name:         name,
		Relationship: relationship,
		Context:      context,
		Confidence:   confidence,
		Mentions:     1,
	})
}

func (x *Extractor) extractPeople(text string) *personSet {
	people := newPersonSet()

	// "my <relationship> <Name>"
	for _, m := range relBeforeNameRe.FindAllStringSubmatchIndex(text, -1) {
		relationship := strings.ToLower(text[m[2]:m[3]])
		name := text[m[4]:m[5]]
		if personStopWords[firstToken(name)] {
			continue
		}
		people.add(name, relationship, snippet(text, m[0], m[1], personContextRadius), ConfidenceExact)
	}

	// "<Name>, my <relationship>"
	for _, m := range nameBeforeRelRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		relationship := strings.ToLower(text[m[4]:m[5]])
		if personStopWords[firstToken(name)] {
			continue
		}
		people.add(name, relationship, snippet(text, m[0], m[1], personContextRadius), ConfidenceExact)
	}

	// Generic capitalized multi-word sequences.
	for _, m := range capitalizedSeqRe.FindAllStringIndex(text, -1) {
		name := text[m[0]:m[1]]
		if personStopWords[firstToken(name)] {
			continue
		}
		people.add(name, "", snippet(text, m[0], m[1], personContextRadius), ConfidenceApproximate)
	}

	return people
}

const personContextRadius = 60
