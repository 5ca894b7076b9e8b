package diagnosis

import (
	"context"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// Prediction is one disease label with its confidence.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Result is the image classifier's output: the primary prediction plus
// ordered runner-up labels.
type Result struct {
	Label        string       `json:"label"`
	Confidence   float64      `json:"confidence"`
	Alternatives []Prediction `json:"alternatives,omitempty"`
}

// ImageClassifier is the external skin-disease model, consumed as a black box.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, image []byte) (Result, error)
}

// upgrade threshold: only confident detections of a configured serious
// disease affect the booking priority.
const upgradeConfidence = 0.8

// UpgradePriority raises a symptom-based priority to at least HIGH when the
// image classifier confidently detects a serious disease. It never lowers an
// existing EMERGENCY.
func UpgradePriority(priority string, result Result, serious map[string]struct{}) string {
	if priority == models.PriorityEmergency {
		return priority
	}
	if _, ok := serious[result.Label]; !ok {
		return priority
	}
	if result.Confidence <= upgradeConfidence {
		return priority
	}
	if models.PriorityRank(priority) > models.PriorityRank(models.PriorityHigh) {
		return models.PriorityHigh
	}
	return priority
}

// SeriousSet builds the lookup for UpgradePriority from configured labels.
func SeriousSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if label != "" {
			set[label] = struct{}{}
		}
	}
	return set
}
