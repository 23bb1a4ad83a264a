package llm

import (
	"context"
	"strings"
)

// Mock is an offline Generator used when no API key is configured and
// in tests. Responses are canned and keyed on prompt hints, so callers
// exercise their full parse-and-fallback paths without a network.
type Mock struct {
	embeddingDim int
}

func NewMock(embeddingDim int) *Mock {
	if embeddingDim <= 0 {
		embeddingDim = 1536
	}
	return &Mock{embeddingDim: embeddingDim}
}

const mockNarrative = `I was born in Kansas, in a small town where everyone knew everyone. My father, Robert, worked the land like his father before him. My mother, Mary, was the heart of our home.

In 1968, everything changed. John and I decided to move west, to Salt Lake City. The mountains there were unlike anything I'd ever seen, coming from the flatlands of Kansas. John found work at the factory that fall, and I started to build our new life, one day at a time.

Those early years were hard but good. We didn't have much, but we had each other.`

const mockJournalEntry = `*Reconstructed from memory*

Today marks a new chapter. We've finally arrived in Salt Lake City after the long drive from Kansas. The mountains! I've never seen anything so grand. John says we'll be happy here, and I believe him.

The apartment is small but clean. Tomorrow he starts at the factory. I'm nervous but hopeful. This is our fresh start.`

const mockQuestion = "That's a wonderful memory. Can you tell me more about what daily life was like during that time? What did a typical day look like for you?"

const mockDefault = "This is a mock response. The actual content would be generated by the language model from the user's recordings and transcripts."

func (m *Mock) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	promptLower := strings.ToLower(req.UserPrompt)

	var content string
	switch {
	case strings.Contains(promptLower, "chapter"),
		strings.Contains(promptLower, "biography"),
		strings.Contains(promptLower, "narrative"):
		content = mockNarrative
	case strings.Contains(promptLower, "journal"),
		strings.Contains(promptLower, "diary"):
		content = mockJournalEntry
	case strings.Contains(promptLower, "question"),
		strings.Contains(promptLower, "interview"):
		content = mockQuestion
	default:
		content = mockDefault
	}

	return &CompletionResponse{
		Content: content,
		Usage: Usage{
			PromptTokens:     len(req.UserPrompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(req.UserPrompt) + len(content)) / 4,
		},
	}, nil
}

// GenerateEmbedding returns a deterministic vector derived from the
// text, so equal inputs embed identically across a test run.
func (m *Mock) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	embedding := make([]float32, m.embeddingDim)
	for i := range embedding {
		embedding[i] = float32((len(text)+i*7)%100) / 100.0
	}
	return embedding, nil
}

func (m *Mock) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		e, err := m.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = e
	}
	return embeddings, nil
}
