package triage

import (
	"strings"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// criticalKeywords mark cases needing immediate intervention. Checked before
// severeKeywords; the first tier with a hit wins.
var criticalKeywords = []string{
	"not breathing", "cant breathe", "can't breathe", "unconscious",
	"unresponsive", "not moving", "cold body", "seizure", "collapsed",
	"no heartbeat", "cardiac arrest",
	"blue gums", "blue tongue", "severe bleeding", "heavy bleeding",
	"poisoned", "rat poison", "antifreeze", "chocolate poisoning",
	"hit by car", "trauma", "drowning", "electrocution",
	"pale gums", "shock", "anemia", "weak", "weakness",
	"vomiting for two days", "not eating for", "prolonged anorexia",
	"severe dehydration", "internal hemorrhage", "bleeding from mouth",
	"status epilepticus", "gastric dilatation", "volvulus",
}

var severeKeywords = []string{
	"vomiting blood", "bloody diarrhea", "heat stroke",
	"snake bite", "spider bite", "bee sting", "anaphylaxis",
	"bloat", "twisted stomach", "difficulty breathing",
	"paralyzed", "cant walk", "can't walk", "limping badly",
	"swelling rapidly", "swollen face", "throat swelling",
	"urinary blockage", "cant urinate", "can't urinate",
	"broken bone", "fracture", "deep wound", "open fracture",
	"near drowning", "aspiration pneumonia",
}

// GradeSeverity maps an already-confirmed emergency to a clinical severity
// tier. Intentionally keyword-only: it refines a certain emergency, so no
// fallback chain is needed and absence of a hit defaults to MODERATE.
func GradeSeverity(rawText string) string {
	lower := strings.ToLower(rawText)
	for _, keyword := range criticalKeywords {
		if strings.Contains(lower, keyword) {
			return models.SeverityCritical
		}
	}
	for _, keyword := range severeKeywords {
		if strings.Contains(lower, keyword) {
			return models.SeveritySevere
		}
	}
	return models.SeverityModerate
}
