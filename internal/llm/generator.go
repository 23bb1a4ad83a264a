package llm

import "context"

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

type CompletionResponse struct {
	Content string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generator is the text-generation surface the biography, journal and
// soul services build on. Two implementations exist: the OpenAI-backed
// Client and the offline Mock used in development and tests.
type Generator interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}
