package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instabio/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func TestTranscriptRoundTrip(t *testing.T) {
	client := newTestClient(t)

	err := client.InsertTranscript(&models.Transcript{
		ID:          "t1",
		UserID:      "u1",
		SessionID:   "s1",
		Text:        "My mother Mary was born in 1945.",
		DurationSec: 1800,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	transcripts, err := client.GetTranscriptsByUser("u1")
	require.NoError(t, err)
	require.Len(t, transcripts, 1)
	assert.Equal(t, "s1", transcripts[0].SessionID)
	assert.Contains(t, transcripts[0].Text, "Mary")

	hours, err := client.RecordingHours("u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, hours, 0.001)
}

func TestInsertTranscript_UpsertsOnID(t *testing.T) {
	client := newTestClient(t)

	first := &models.Transcript{
		ID: "t1", UserID: "u1", SessionID: "s1",
		Text: "first", DurationSec: 60, CreatedAt: time.Now(),
	}
	require.NoError(t, client.InsertTranscript(first))

	first.Text = "second"
	first.DurationSec = 120
	require.NoError(t, client.InsertTranscript(first))

	transcripts, err := client.GetTranscriptsByUser("u1")
	require.NoError(t, err)
	require.Len(t, transcripts, 1)
	assert.Equal(t, "second", transcripts[0].Text)
	assert.Equal(t, 120.0, transcripts[0].DurationSec)
}

func TestMergedExtraction_RoundTripAndReplace(t *testing.T) {
	client := newTestClient(t)

	missing, err := client.GetMergedExtraction("u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = client.SaveExtraction(&models.ExtractionRecord{
		ID: "e1", UserID: "u1", SessionID: "",
		ResultJSON: `{"people":[]}`, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	// Same (user, session) key replaces, not duplicates.
	err = client.SaveExtraction(&models.ExtractionRecord{
		ID: "e2", UserID: "u1", SessionID: "",
		ResultJSON: `{"people":[{"name":"Mary"}]}`, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	rec, err := client.GetMergedExtraction("u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Contains(t, rec.ResultJSON, "Mary")
}

func TestReplaceTimeline_KeepsPositionOrder(t *testing.T) {
	client := newTestClient(t)

	entries := []models.TimelineEntryRecord{
		{UserID: "u1", Date: "1945", EntryType: "birth", SortKey: 1945, Position: 0, CreatedAt: time.Now()},
		{UserID: "u1", Date: "1962", EntryType: "move", SortKey: 1962, Position: 1, CreatedAt: time.Now()},
	}
	require.NoError(t, client.ReplaceTimeline("u1", entries))

	// Replacing drops the old rows entirely.
	require.NoError(t, client.ReplaceTimeline("u1", entries[:1]))

	stored, err := client.GetTimeline("u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "1945", stored[0].Date)
}

func TestProcessingStatus_DefaultsToIdle(t *testing.T) {
	client := newTestClient(t)

	status, err := client.GetProcessingStatus("u1")
	require.NoError(t, err)
	assert.Equal(t, "idle", status.Status)

	require.NoError(t, client.SetProcessingStatus("u1", "processing", "extracting entities"))
	require.NoError(t, client.SetProcessingStatus("u1", "complete", ""))

	status, err = client.GetProcessingStatus("u1")
	require.NoError(t, err)
	assert.Equal(t, "complete", status.Status)
	assert.Equal(t, "", status.Detail)
}
