// Package soul tracks readiness of the interactive memory clone and
// answers family questions grounded in the recorded transcripts.
package soul

import "fmt"

// Requirement is one precondition for the soul, with its progress.
type Requirement struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	IsMet          bool   `json:"is_met"`
	ProgressPct    int    `json:"progress_pct"`
	ProgressDetail string `json:"progress_detail"`
}

type Status struct {
	ReadinessPct          int           `json:"readiness_pct"`
	Tier                  string        `json:"tier"`
	TierDescription       string        `json:"tier_description"`
	Requirements          []Requirement `json:"requirements"`
	RequirementsMet       []string      `json:"requirements_met"`
	RequirementsRemaining []string      `json:"requirements_remaining"`
	NextStep              string        `json:"next_step"`
	EncouragingMessage    string        `json:"encouraging_message"`
	IsReady               bool          `json:"is_ready"`
}

// StatusInput collects everything readiness depends on.
type StatusInput struct {
	RecordingHours         float64
	BiographyStatus        string // "none", "processing", "ready"
	BiographyChaptersReady int
	BiographyChaptersTotal int
	VoiceCloneReady        bool
	AvatarReady            bool
}

// Readiness weights: recording 40, biography 30, voice 20, avatar 10.
const (
	weightRecording  = 40
	weightBiography  = 30
	weightVoiceClone = 20
	weightAvatar     = 10

	targetRecordingHours = 10
)

var tierMessages = map[string]string{
	"Dormant":      "Every word you record brings your Soul closer to life.",
	"Awakening":    "Your stories are taking root. Keep going!",
	"Forming":      "Family will be amazed — your Soul already knows so much.",
	"Almost Ready": "You're so close! Just a little more and your legacy is forever.",
	"Alive":        "Your Soul is alive. Your family can hear your stories anytime.",
}

// CalculateStatus scores readiness from recording volume, biography
// progress, voice clone and avatar state.
func CalculateStatus(in StatusInput) Status {
	if in.BiographyChaptersTotal <= 0 {
		in.BiographyChaptersTotal = 5
	}

	recMet := in.RecordingHours >= targetRecordingHours
	recPct := clampPct(int(in.RecordingHours / targetRecordingHours * 100))

	bioMet := in.BiographyStatus == "ready"
	bioPct := 0
	switch in.BiographyStatus {
	case "processing":
		bioPct = in.BiographyChaptersReady * 80 / in.BiographyChaptersTotal
	case "ready":
		bioPct = 100
	}
	bioDetail := "Not started"
	if in.BiographyStatus != "none" && in.BiographyStatus != "" {
		bioDetail = fmt.Sprintf("%d/%d chapters", in.BiographyChaptersReady, in.BiographyChaptersTotal)
	}

	vcMet := in.VoiceCloneReady
	vcPct := 100
	vcDetail := "Ready!"
	if !vcMet {
		vcPct = int(in.RecordingHours * 100)
		if vcPct > 99 {
			vcPct = 99
		}
		if vcPct < 0 {
			vcPct = 0
		}
		vcDetail = fmt.Sprintf("%.1f/1 hours needed", in.RecordingHours)
	}

	avMet := in.AvatarReady
	avPct := 0
	avDetail := "Upload a photo"
	if avMet {
		avPct = 100
		avDetail = "Ready!"
	}

	requirements := []Requirement{
		{
			ID:             "recording",
			Name:           "Recording Hours",
			Description:    "Record 10+ hours of your life story",
			IsMet:          recMet,
			ProgressPct:    recPct,
			ProgressDetail: fmt.Sprintf("%.1f/10 hours recorded", in.RecordingHours),
		},
		{
			ID:             "biography",
			Name:           "Biography",
			Description:    "Generate your life biography from recordings",
			IsMet:          bioMet,
			ProgressPct:    bioPct,
			ProgressDetail: bioDetail,
		},
		{
			ID:             "voice_clone",
			Name:           "Voice Clone",
			Description:    "Create a clone of your voice (1+ hours)",
			IsMet:          vcMet,
			ProgressPct:    vcPct,
			ProgressDetail: vcDetail,
		},
		{
			ID:             "avatar",
			Name:           "Avatar",
			Description:    "Upload a photo for your visual avatar",
			IsMet:          avMet,
			ProgressPct:    avPct,
			ProgressDetail: avDetail,
		},
	}

	readinessPct := (recPct*weightRecording + bioPct*weightBiography +
		vcPct*weightVoiceClone + avPct*weightAvatar) / 100

	met := []string{}
	remaining := []string{}
	for _, r := range requirements {
		if r.IsMet {
			met = append(met, r.ID)
		} else {
			remaining = append(remaining, r.ID)
		}
	}

	var tier, tierDesc string
	switch {
	case readinessPct < 10:
		tier = "Dormant"
		tierDesc = "The Soul needs more of your story. Keep recording!"
	case readinessPct < 40:
		tier = "Awakening"
		tierDesc = "Your Soul is beginning to take shape."
	case readinessPct < 70:
		tier = "Forming"
		tierDesc = "Your Soul knows many of your stories now."
	case readinessPct < 100:
		tier = "Almost Ready"
		tierDesc = "Just a few more pieces and your Soul will be complete."
	default:
		tier = "Alive"
		tierDesc = "Your Soul is ready! Family can talk to you anytime."
	}

	var nextStep string
	switch {
	case !recMet:
		hours := float64(targetRecordingHours) - in.RecordingHours
		if hours < 0 {
			hours = 0
		}
		nextStep = fmt.Sprintf("Record %.1f more hours of your story.", hours)
	case !bioMet:
		nextStep = "Generate your biography from the Progress page."
	case !vcMet:
		nextStep = "Your voice clone is almost ready — keep recording!"
	case !avMet:
		nextStep = "Upload a photo to give your Soul a face."
	default:
		nextStep = "Your Soul is complete! Share it with family."
	}

	return Status{
		ReadinessPct:          readinessPct,
		Tier:                  tier,
		TierDescription:       tierDesc,
		Requirements:          requirements,
		RequirementsMet:       met,
		RequirementsRemaining: remaining,
		NextStep:              nextStep,
		EncouragingMessage:    tierMessages[tier],
		IsReady:               len(remaining) == 0,
	}
}

func clampPct(pct int) int {
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
