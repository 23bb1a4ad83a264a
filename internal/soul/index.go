package soul

import (
	"regexp"
	"sort"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Stop words dropped during indexing and query tokenization, including
// the filler words oral transcripts are full of.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "was": true, "are": true,
	"were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "shall": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "could": true,
	"and": true, "but": true, "or": true, "nor": true, "not": true, "so": true,
	"yet": true, "for": true, "at": true, "by": true, "from": true, "in": true,
	"into": true, "of": true, "on": true, "to": true, "with": true, "about": true,
	"it": true, "its": true, "i": true, "me": true, "my": true, "we": true,
	"our": true, "you": true, "your": true, "he": true, "she": true, "his": true,
	"her": true, "they": true, "them": true, "their": true, "this": true,
	"that": true, "these": true, "those": true, "what": true, "which": true,
	"who": true, "whom": true, "how": true, "when": true, "where": true,
	"why": true, "if": true, "then": true, "than": true,
	"just": true, "very": true, "really": true, "like": true, "also": true,
	"well": true, "oh": true, "yeah": true, "um": true, "uh": true,
	"okay": true, "ok": true,
}

var wordRe = regexp.MustCompile(`^[a-z']+$`)

// tokenize lowercases, drops stop words and anything shorter than
// three characters, keeping only alphabetic tokens.
func tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil
	}

	tokens := []string{}
	for _, tok := range doc.Tokens() {
		w := strings.ToLower(tok.Text)
		if len(w) <= 2 || stopWords[w] || !wordRe.MatchString(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

const minChunkStep = 50

// chunkText splits text into overlapping chunks of roughly chunkSize
// words, stepping by half a chunk so context spans chunk borders.
func chunkText(text string, chunkSize int) []string {
	words := strings.Fields(text)
	step := chunkSize / 2
	if step < minChunkStep {
		step = minChunkStep
	}

	chunks := []string{}
	for i := 0; i < len(words); i += step {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.TrimSpace(strings.Join(words[i:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Index is an inverted keyword index over transcript chunks. It is
// built once per activation and read-only afterwards.
type Index struct {
	chunks  []string
	byToken map[string][]int
}

// BuildIndex chunks every transcript and indexes each chunk under its
// distinct tokens.
func BuildIndex(transcripts []string, chunkSize int) *Index {
	idx := &Index{byToken: make(map[string][]int)}

	for _, text := range transcripts {
		for _, chunk := range chunkText(text, chunkSize) {
			id := len(idx.chunks)
			idx.chunks = append(idx.chunks, chunk)

			seen := make(map[string]bool)
			for _, token := range tokenize(chunk) {
				if seen[token] {
					continue
				}
				seen[token] = true
				idx.byToken[token] = append(idx.byToken[token], id)
			}
		}
	}

	return idx
}

func (idx *Index) Keywords() int { return len(idx.byToken) }
func (idx *Index) Chunks() int   { return len(idx.chunks) }

// Search scores chunks by how many query tokens they contain and
// returns the topK best, first-seen order breaking ties.
func (idx *Index) Search(query string, topK int) []string {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	scores := make(map[int]int)
	order := []int{}
	for _, token := range tokens {
		for _, id := range idx.byToken[token] {
			if _, ok := scores[id]; !ok {
				order = append(order, id)
			}
			scores[id]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if len(order) > topK {
		order = order[:topK]
	}

	results := make([]string, len(order))
	for i, id := range order {
		results[i] = idx.chunks[id]
	}
	return results
}
