package dashboard

// Classification labels
const (
	LabelBradycardia = "Bradycardia"
	LabelNormal      = "Normal"
	LabelTachycardia = "Tachycardia"
)

// Classification maps a heart-rate value to a clinical category.
type Classification struct {
	Label          string `json:"label"`
	Description    string `json:"description"`
	NeedsAttention bool   `json:"needs_attention"`
}

// Classify returns the clinical category for a bpm value.
func Classify(bpm int) Classification {
	switch {
	case bpm < 60:
		return Classification{
			Label:          LabelBradycardia,
			Description:    "Slower than normal",
			NeedsAttention: true,
		}
	case bpm <= 100:
		return Classification{
			Label:          LabelNormal,
			Description:    "Healthy range",
			NeedsAttention: false,
		}
	default:
		return Classification{
			Label:          LabelTachycardia,
			Description:    "Faster than normal",
			NeedsAttention: true,
		}
	}
}

// AnyAbnormal reports whether any reading in the set needs attention.
func AnyAbnormal(readings []HeartRateReading) bool {
	for _, r := range readings {
		if Classify(r.BPM).NeedsAttention {
			return true
		}
	}
	return false
}
