package soul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatus_Dormant(t *testing.T) {
	status := CalculateStatus(StatusInput{RecordingHours: 0, BiographyStatus: "none"})

	assert.Equal(t, 0, status.ReadinessPct)
	assert.Equal(t, "Dormant", status.Tier)
	assert.False(t, status.IsReady)
	assert.Len(t, status.RequirementsRemaining, 4)
	assert.Equal(t, "Record 10.0 more hours of your story.", status.NextStep)
	assert.NotEmpty(t, status.EncouragingMessage)
}

func TestCalculateStatus_Alive(t *testing.T) {
	status := CalculateStatus(StatusInput{
		RecordingHours:         12,
		BiographyStatus:        "ready",
		BiographyChaptersReady: 5,
		BiographyChaptersTotal: 5,
		VoiceCloneReady:        true,
		AvatarReady:            true,
	})

	assert.Equal(t, 100, status.ReadinessPct)
	assert.Equal(t, "Alive", status.Tier)
	assert.True(t, status.IsReady)
	assert.Empty(t, status.RequirementsRemaining)
	assert.Equal(t, "Your Soul is complete! Share it with family.", status.NextStep)
}

func TestCalculateStatus_WeightedProgress(t *testing.T) {
	// 5/10 hours: recording 50%, voice clone capped at 99%, biography
	// processing 2/5 chapters at 80% scale = 32%.
	status := CalculateStatus(StatusInput{
		RecordingHours:         5,
		BiographyStatus:        "processing",
		BiographyChaptersReady: 2,
		BiographyChaptersTotal: 5,
	})

	// (50*40 + 32*30 + 99*20 + 0*10) / 100 = 49.
	assert.Equal(t, 49, status.ReadinessPct)
	assert.Equal(t, "Forming", status.Tier)

	byID := map[string]Requirement{}
	for _, r := range status.Requirements {
		byID[r.ID] = r
	}
	assert.Equal(t, 50, byID["recording"].ProgressPct)
	assert.Equal(t, 32, byID["biography"].ProgressPct)
	assert.Equal(t, 99, byID["voice_clone"].ProgressPct)
	assert.Equal(t, 0, byID["avatar"].ProgressPct)
	assert.Equal(t, "2/5 chapters", byID["biography"].ProgressDetail)
}

func TestCalculateStatus_NextStepOrder(t *testing.T) {
	// Recording done, biography missing.
	status := CalculateStatus(StatusInput{RecordingHours: 11, BiographyStatus: "none"})
	assert.Equal(t, "Generate your biography from the Progress page.", status.NextStep)

	// Recording and biography done, voice clone missing.
	status = CalculateStatus(StatusInput{RecordingHours: 11, BiographyStatus: "ready"})
	assert.Equal(t, "Your voice clone is almost ready — keep recording!", status.NextStep)

	// Only avatar missing.
	status = CalculateStatus(StatusInput{
		RecordingHours:  11,
		BiographyStatus: "ready",
		VoiceCloneReady: true,
	})
	assert.Equal(t, "Upload a photo to give your Soul a face.", status.NextStep)
	require.Equal(t, []string{"avatar"}, status.RequirementsRemaining)
}
