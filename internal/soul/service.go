package soul

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/llm"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/vector/milvus"
	"github.com/instabio/backend/pkg/logger"
)

const citationSnippetLen = 100

type ActivationResult struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	IsActive           bool   `json:"is_active"`
	TranscriptsIndexed int    `json:"transcripts_indexed,omitempty"`
	KeywordsIndexed    int    `json:"keywords_indexed,omitempty"`
}

type Citation struct {
	Snippet string `json:"snippet"`
}

type ChatResult struct {
	Status    string     `json:"status"`
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
}

// Service holds one keyword index per activated user. The vector store
// is optional; when present, activation also embeds chunks into it and
// chat prefers semantic recall over keyword overlap.
type Service struct {
	mu      sync.RWMutex
	indexes map[string]*Index
	active  map[string]bool

	llm       llm.Generator
	vectors   *milvus.Client
	chunkSize int
	topK      int
}

func NewService(llmClient llm.Generator, vectors *milvus.Client, chunkSize, topK int) *Service {
	if chunkSize <= 0 {
		chunkSize = 300
	}
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		indexes:   make(map[string]*Index),
		active:    make(map[string]bool),
		llm:       llmClient,
		vectors:   vectors,
		chunkSize: chunkSize,
		topK:      topK,
	}
}

// Activate builds the user's keyword index over all transcript texts
// and, when a vector store is configured, embeds the chunks into it.
func (s *Service) Activate(ctx context.Context, userID string, transcripts []string) ActivationResult {
	texts := make([]string, 0, len(transcripts))
	for _, t := range transcripts {
		if strings.TrimSpace(t) != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return ActivationResult{
			Status:   "error",
			Message:  "No transcript text found. Record some stories first!",
			IsActive: false,
		}
	}

	index := BuildIndex(texts, s.chunkSize)

	s.mu.Lock()
	s.indexes[userID] = index
	s.active[userID] = true
	s.mu.Unlock()

	if s.vectors != nil {
		if err := s.embedChunks(ctx, userID, index); err != nil {
			logger.Warn("Vector indexing failed, keyword index remains available",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	logger.Info("Soul activated",
		zap.String("user_id", userID),
		zap.Int("transcripts", len(texts)),
		zap.Int("keywords", index.Keywords()),
		zap.Int("chunks", index.Chunks()),
	)

	return ActivationResult{
		Status:             "active",
		Message:            "Your Soul is ready! Family can start asking questions.",
		IsActive:           true,
		TranscriptsIndexed: len(texts),
		KeywordsIndexed:    index.Keywords(),
	}
}

func (s *Service) embedChunks(ctx context.Context, userID string, index *Index) error {
	embeddings, err := s.llm.GenerateBatchEmbeddings(ctx, index.chunks)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	chunks := make([]milvus.MemoryChunk, len(index.chunks))
	now := time.Now()
	for i, text := range index.chunks {
		chunks[i] = milvus.MemoryChunk{
			ID:        uuid.New().String(),
			Embedding: embeddings[i],
			Text:      text,
			UserID:    userID,
			Timestamp: now,
		}
	}

	return s.vectors.Insert(ctx, chunks)
}

// IsActive reports whether a user's soul has been activated.
func (s *Service) IsActive(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[userID]
}

// Chat answers a family member's question grounded in retrieved
// transcript chunks. The model is never allowed to invent memories;
// retrieval misses produce a warm deflection instead.
func (s *Service) Chat(ctx context.Context, userID, message string) ChatResult {
	s.mu.RLock()
	active := s.active[userID]
	index := s.indexes[userID]
	s.mu.RUnlock()

	if !active {
		return ChatResult{
			Status:    "inactive",
			Response:  "My Soul hasn't been activated yet. Go to the Progress page and activate it first!",
			Citations: []Citation{},
		}
	}
	if index == nil || index.Chunks() == 0 {
		return ChatResult{
			Status:    "error",
			Response:  "Something went wrong — my memory index is empty.",
			Citations: []Citation{},
		}
	}

	chunks := s.retrieve(ctx, userID, index, message)

	var systemPrompt string
	if len(chunks) > 0 {
		systemPrompt = fmt.Sprintf(groundedSystemPrompt, strings.Join(chunks, "\n\n---\n\n"))
	} else {
		systemPrompt = ungroundedSystemPrompt
	}

	resp, err := s.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   message,
		Temperature:  0.7,
		MaxTokens:    512,
	})
	if err != nil {
		logger.Error("Soul chat generation failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return ChatResult{
			Status:    "error",
			Response:  "Oh dear, I'm having trouble thinking right now. Can you try asking again?",
			Citations: []Citation{},
		}
	}

	citations := make([]Citation, 0, len(chunks))
	for _, chunk := range chunks {
		snippet := chunk
		if len(snippet) > citationSnippetLen {
			snippet = snippet[:citationSnippetLen] + "..."
		}
		citations = append(citations, Citation{Snippet: snippet})
	}

	return ChatResult{
		Status:    "ok",
		Response:  resp.Content,
		Citations: citations,
	}
}

// retrieve prefers the vector store when configured, falling back to
// the keyword index on any failure or empty result.
func (s *Service) retrieve(ctx context.Context, userID string, index *Index, query string) []string {
	if s.vectors != nil {
		if embedding, err := s.llm.GenerateEmbedding(ctx, query); err == nil {
			if results, err := s.vectors.Search(ctx, embedding, s.topK, userID); err == nil && len(results) > 0 {
				chunks := make([]string, len(results))
				for i, r := range results {
					chunks[i] = r.Text
				}
				metrics.RetrievalResultsCount.WithLabelValues("vector").Observe(float64(len(chunks)))
				return chunks
			}
		}
	}

	chunks := index.Search(query, s.topK)
	metrics.RetrievalResultsCount.WithLabelValues("keyword").Observe(float64(len(chunks)))
	return chunks
}

const groundedSystemPrompt = `You are embodying a real person based ONLY on their recorded oral history. You speak in first person, using their vocabulary and speaking style.

ABSOLUTE RULES:
1. ONLY use information from the CONTEXT below. NEVER invent memories.
2. If the context does not contain relevant information, say something like: "You know, I don't think I ever talked about that. Ask me about something else!"
3. Speak warmly and naturally, as if chatting with family.
4. Keep responses 2-4 sentences unless the topic warrants more.
5. NEVER provide medical, legal, or financial advice.
6. If asked if you are an AI, say: "I'm an AI built from Grandma's recordings. I try to answer the way she would, based on what she told me."

CONTEXT FROM RECORDINGS:
%s`

const ungroundedSystemPrompt = `You are embodying a real person based on their recorded oral history. However, NO relevant recordings were found for this question. Respond warmly and say you don't remember talking about that topic. Suggest they ask about something else.`
