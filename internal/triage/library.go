package triage

import (
	"encoding/json"
	"fmt"
	"os"
)

// PatternEntry is one curated emergency reference: the symptom text to match
// against and an optional pet tag restricting which subjects it applies to.
type PatternEntry struct {
	PetID    string `json:"pet_id"`
	Symptoms string `json:"symptoms"`
}

// Assessment is the clinical text linked to a pattern via its pet tag.
type Assessment struct {
	Assessment string `json:"assessment"`
}

// PatternLibrary holds the read-only reference patterns plus the pet-tag to
// assessment lookup. Loaded once at startup.
type PatternLibrary struct {
	Entries     []PatternEntry
	Assessments map[string]Assessment
}

// LoadPatternLibrary reads the symptom patterns and assessment lookup from
// JSON files. The symptoms file may hold a single object or an array.
func LoadPatternLibrary(symptomsPath, assessmentsPath string) (*PatternLibrary, error) {
	entries, err := loadEntries(symptomsPath)
	if err != nil {
		return nil, fmt.Errorf("load symptom patterns: %w", err)
	}

	assessments := map[string]Assessment{}
	if assessmentsPath != "" {
		raw, err := os.ReadFile(assessmentsPath)
		if err != nil {
			return nil, fmt.Errorf("load assessments: %w", err)
		}
		if err := json.Unmarshal(raw, &assessments); err != nil {
			return nil, fmt.Errorf("parse assessments: %w", err)
		}
	}

	return &PatternLibrary{Entries: entries, Assessments: assessments}, nil
}

func loadEntries(path string) ([]PatternEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []PatternEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var single PatternEntry
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []PatternEntry{single}, nil
}

// LookupAssessment returns the assessment text linked to a pet tag.
func (l *PatternLibrary) LookupAssessment(petID string) (string, bool) {
	if l == nil {
		return "", false
	}
	assessment, ok := l.Assessments[petID]
	if !ok || assessment.Assessment == "" {
		return "", false
	}
	return assessment.Assessment, true
}
