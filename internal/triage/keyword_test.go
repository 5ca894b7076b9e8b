package triage

import (
	"context"
	"strings"
	"testing"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

func TestKeywordClassifierPriorities(t *testing.T) {
	cases := []struct {
		text     string
		priority string
	}{
		{"Dog was hit by a car, severe bleeding", models.PriorityEmergency},
		{"my cat is not breathing", models.PriorityEmergency},
		{"ate rat poison an hour ago", models.PriorityEmergency},
		{"vomiting blood since this morning", models.PriorityHigh},
		{"swollen face after a walk", models.PriorityHigh},
		{"Annual vaccination checkup", models.PriorityNormal},
		{"mild itching on the left ear", models.PriorityNormal},
		{"medication refill for thyroid pills", models.PriorityLow},
		{"microchip before travelling", models.PriorityLow},
	}

	classifier := NewKeywordClassifier()
	for _, tt := range cases {
		verdict, ok, err := classifier.TryClassify(context.Background(), tt.text, "")
		if err != nil || !ok {
			t.Fatalf("TryClassify(%q) ok=%v err=%v, want conclusive", tt.text, ok, err)
		}
		if verdict.Priority != tt.priority {
			t.Fatalf("TryClassify(%q) priority=%s, want %s", tt.text, verdict.Priority, tt.priority)
		}
	}
}

func TestKeywordClassifierDefaultsNormal(t *testing.T) {
	classifier := NewKeywordClassifier()
	verdict, ok, err := classifier.TryClassify(context.Background(), "my pet seems quieter than usual", "")
	if err != nil || !ok {
		t.Fatalf("TryClassify ok=%v err=%v, want conclusive", ok, err)
	}
	if verdict.Priority != models.PriorityNormal {
		t.Fatalf("priority=%s, want NORMAL", verdict.Priority)
	}
	if verdict.Reason != "no urgent keywords detected" {
		t.Fatalf("reason=%q", verdict.Reason)
	}
}

func TestKeywordClassifierReasonNamesMatches(t *testing.T) {
	classifier := NewKeywordClassifier()
	verdict, _, _ := classifier.TryClassify(context.Background(), "Annual vaccination checkup", "")
	if !strings.Contains(verdict.Reason, "checkup") {
		t.Fatalf("reason %q should name the matched keyword", verdict.Reason)
	}
	if verdict.Source != "keyword_classifier" {
		t.Fatalf("source=%s", verdict.Source)
	}
}

func TestKeywordClassifierEmergencyOutranksRoutineWording(t *testing.T) {
	// Emergency keywords win even when routine words appear in the same report.
	classifier := NewKeywordClassifier()
	verdict, _, _ := classifier.TryClassify(context.Background(), "came in for a routine checkup but started a seizure", "")
	if verdict.Priority != models.PriorityEmergency {
		t.Fatalf("priority=%s, want EMERGENCY", verdict.Priority)
	}
}
