package soul

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instabio/backend/internal/llm"
)

func newTestService() *Service {
	return NewService(llm.NewMock(8), nil, 300, 5)
}

func TestActivate_NoTranscripts(t *testing.T) {
	s := newTestService()

	result := s.Activate(context.Background(), "u1", nil)
	assert.Equal(t, "error", result.Status)
	assert.False(t, result.IsActive)

	result = s.Activate(context.Background(), "u1", []string{"  ", ""})
	assert.Equal(t, "error", result.Status)
	assert.False(t, s.IsActive("u1"))
}

func TestActivate_BuildsIndex(t *testing.T) {
	s := newTestService()

	result := s.Activate(context.Background(), "u1", []string{
		"We moved to Salt Lake City in 1968 and John started at the factory that fall.",
	})

	assert.Equal(t, "active", result.Status)
	assert.True(t, result.IsActive)
	assert.Equal(t, 1, result.TranscriptsIndexed)
	assert.Greater(t, result.KeywordsIndexed, 0)
	assert.True(t, s.IsActive("u1"))
	assert.False(t, s.IsActive("u2"))
}

func TestChat_InactiveSoul(t *testing.T) {
	s := newTestService()

	result := s.Chat(context.Background(), "u1", "Tell me about the factory")

	assert.Equal(t, "inactive", result.Status)
	assert.Contains(t, result.Response, "activated")
	assert.Empty(t, result.Citations)
}

func TestChat_GroundedWithCitations(t *testing.T) {
	s := newTestService()
	s.Activate(context.Background(), "u1", []string{
		"John started at the factory in the fall of 1968 and worked there thirty years.",
	})

	result := s.Chat(context.Background(), "u1", "What about the factory?")

	require.Equal(t, "ok", result.Status)
	assert.NotEmpty(t, result.Response)
	require.NotEmpty(t, result.Citations)
	assert.Contains(t, result.Citations[0].Snippet, "factory")
}

func TestChat_NoRetrievalStillAnswers(t *testing.T) {
	s := newTestService()
	s.Activate(context.Background(), "u1", []string{
		"We planted corn on the farm every spring.",
	})

	result := s.Chat(context.Background(), "u1", "Did you ever visit Paris?")

	assert.Equal(t, "ok", result.Status)
	assert.Empty(t, result.Citations)
	assert.NotEmpty(t, result.Response)
}
