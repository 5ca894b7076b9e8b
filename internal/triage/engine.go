package triage

import (
	"context"
	"log"
	"strings"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// Tier is one classification strategy in the fallback chain. A tier returns
// (verdict, true) when it is conclusive. Errors are treated by the engine as
// "tier inconclusive" and never reach the caller.
type Tier interface {
	Name() string
	TryClassify(ctx context.Context, text, petID string) (models.TriageVerdict, bool, error)
}

// Engine runs the ordered tier chain. The first conclusive tier wins; the
// final tier must always be conclusive so Classify never comes up empty.
type Engine struct {
	tiers []Tier
}

func NewEngine(tiers ...Tier) *Engine {
	return &Engine{tiers: tiers}
}

// DefaultEngine wires the standard chain: pattern matcher, optional reasoning
// service, keyword fallback. Pass a nil reasoner when no service is configured.
func DefaultEngine(library *PatternLibrary, reasoner *ReasoningClassifier) *Engine {
	tiers := []Tier{NewPatternMatcher(library)}
	if reasoner != nil {
		tiers = append(tiers, reasoner)
	}
	tiers = append(tiers, NewKeywordClassifier())
	return &Engine{tiers: tiers}
}

// Classify turns free-text symptoms into a verdict. Empty or whitespace-only
// input classifies NORMAL with a fixed reason before any tier runs.
func (e *Engine) Classify(ctx context.Context, text, petID string) models.TriageVerdict {
	if strings.TrimSpace(text) == "" {
		return models.TriageVerdict{
			Priority: models.PriorityNormal,
			Reason:   "no symptoms provided",
			Source:   "engine",
		}
	}

	for _, tier := range e.tiers {
		verdict, ok, err := tier.TryClassify(ctx, text, petID)
		if err != nil {
			log.Printf("triage tier=%s inconclusive: %v", tier.Name(), err)
			continue
		}
		if ok {
			return verdict
		}
	}

	// The keyword tier is always conclusive; reaching here means the chain
	// was constructed without it.
	return models.TriageVerdict{
		Priority: models.PriorityNormal,
		Reason:   "no classifier produced a verdict",
		Source:   "engine",
	}
}
