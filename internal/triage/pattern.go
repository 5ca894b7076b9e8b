package triage

import (
	"context"
	"strings"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// keyword overlap threshold for a partial pattern match
const partialMatchThreshold = 0.5

// PatternMatcher matches symptom text against the curated emergency pattern
// library. It never calls out; a missing library makes it cede to the next
// tier instead of failing.
type PatternMatcher struct {
	library *PatternLibrary
}

func NewPatternMatcher(library *PatternLibrary) *PatternMatcher {
	return &PatternMatcher{library: library}
}

func (m *PatternMatcher) Name() string { return "pattern_matcher" }

func (m *PatternMatcher) TryClassify(_ context.Context, text, petID string) (models.TriageVerdict, bool, error) {
	if m.library == nil || len(m.library.Entries) == 0 {
		return models.TriageVerdict{}, false, nil
	}

	var best *PatternEntry
	bestScore := 0.0

	for i := range m.library.Entries {
		entry := &m.library.Entries[i]
		if petID != "" && entry.PetID != "" && entry.PetID != petID {
			continue
		}

		if normalizeText(text) == normalizeText(entry.Symptoms) {
			best = entry
			bestScore = 1.0
			break
		}

		if !partialMatch(text, entry.Symptoms) {
			continue
		}
		score := sequenceRatio(normalizeText(text), normalizeText(entry.Symptoms))
		if kw := keywordJaccard(extractKeywords(text), extractKeywords(entry.Symptoms)); kw > score {
			score = kw
		}
		if score > bestScore {
			best = entry
			bestScore = score
		}
	}

	if best == nil {
		return models.TriageVerdict{}, false, nil
	}

	score := bestScore
	verdict := models.TriageVerdict{
		Source:     m.Name(),
		MatchScore: &score,
		Evidence:   []string{best.Symptoms},
	}

	assessment, ok := m.library.LookupAssessment(best.PetID)
	if !ok {
		// Patterns in this library are curated emergency references, so an
		// unresolvable assessment link degrades conservatively.
		verdict.Priority = models.PriorityEmergency
		verdict.Severity = models.SeverityModerate
		verdict.Reason = "symptoms matched predefined emergency pattern"
		return verdict, true, nil
	}

	verdict.Priority = priorityFromAssessment(assessment)
	verdict.Reason = reasonFromAssessment(assessment)
	return verdict, true, nil
}

// partialMatch mirrors the library's loose matching: substring containment in
// either direction, or keyword overlap of at least half the union.
func partialMatch(userText, patternText string) bool {
	userNorm := normalizeText(userText)
	patternNorm := normalizeText(patternText)

	if strings.Contains(userNorm, patternNorm) || strings.Contains(patternNorm, userNorm) {
		return true
	}
	return keywordJaccard(extractKeywords(userText), extractKeywords(patternText)) >= partialMatchThreshold
}

func priorityFromAssessment(assessment string) string {
	lower := strings.ToLower(assessment)
	switch {
	case strings.Contains(lower, "emergency"):
		return models.PriorityEmergency
	case strings.Contains(lower, "urgent"):
		return models.PriorityHigh
	default:
		return models.PriorityNormal
	}
}

// reasonFromAssessment pulls the text after a "Reason:" marker, falling back
// to the first sentence of the assessment.
func reasonFromAssessment(assessment string) string {
	lower := strings.ToLower(assessment)
	if idx := strings.LastIndex(lower, "reason:"); idx >= 0 {
		reason := strings.TrimSpace(assessment[idx+len("reason:"):])
		if reason != "" {
			return strings.ToUpper(reason[:1]) + reason[1:]
		}
	}
	if first, _, found := strings.Cut(assessment, "."); found || first != "" {
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}
	return "symptoms require attention"
}
