package triage

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// keywordTable is one rung of the deterministic fallback: a priority with its
// literal keywords and compiled patterns, plus the reason wording for hits.
type keywordTable struct {
	priority string
	label    string
	keywords []string
	patterns []*regexp.Regexp
}

// KeywordClassifier is the always-available last tier. Tables are scanned in
// priority order and the first table with any hit wins.
type KeywordClassifier struct {
	tables []keywordTable
}

func (c *KeywordClassifier) Name() string { return "keyword_classifier" }

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{tables: []keywordTable{
		{
			priority: models.PriorityEmergency,
			label:    "Emergency symptoms detected",
			keywords: []string{
				// breathing
				"not breathing", "cant breathe", "can't breathe", "difficulty breathing",
				"choking", "suffocating", "gasping", "blue gums", "blue tongue",
				// bleeding and trauma
				"severe bleeding", "heavy bleeding", "profuse bleeding", "blood loss",
				"hit by car", "accident", "trauma", "broken bone", "fracture",
				"deep wound", "puncture wound", "attacked by",
				// poisoning
				"poisoned", "poison", "toxic", "rat poison", "antifreeze",
				"chocolate poisoning", "xylitol",
				// seizures and collapse
				"seizure", "convulsion", "collapse", "collapsed", "unconscious",
				"unresponsive", "not moving", "paralyzed", "cant walk", "can't walk",
				// severe conditions
				"bloat", "twisted stomach", "gastric torsion", "heatstroke",
				"heat stroke", "drowning", "electrocution", "bee sting allergy",
				// birth emergencies
				"difficult labor", "dystocia", "stuck puppy", "stuck kitten",
				"prolonged labor", "birthing emergency",
				// venomous bites
				"snake bite", "snakebite", "snake bit", "bitten by snake",
				"spider bite", "scorpion sting", "venomous",
			},
			patterns: compilePatterns(
				`not (breathing|moving|responding)`,
				`(severe|heavy|profuse) bleeding`,
				`(hit|struck) by (car|vehicle)`,
				`(seizure|convulsion)s? (for|lasting)`,
				`(collapse|passed out|unconscious)`,
			),
		},
		{
			priority: models.PriorityHigh,
			label:    "Urgent symptoms detected",
			keywords: []string{
				// pain
				"severe pain", "extreme pain", "screaming", "crying in pain",
				"cant stand", "can't stand", "limping badly", "unable to walk",
				// vomiting and diarrhea
				"vomiting blood", "blood in vomit", "bloody diarrhea",
				"continuous vomiting", "cant keep food down", "can't keep food down",
				"vomiting for hours", "severe vomiting", "projectile vomiting",
				// eyes
				"eye injury", "eye popped", "proptosis", "scratched eye",
				"eye swollen shut", "sudden blindness",
				// urinary
				"cant urinate", "can't urinate", "straining to pee",
				"no urine", "bloody urine", "urinary blockage",
				// allergic reactions
				"swollen face", "hives", "allergic reaction", "face swelling",
				"throat swelling", "anaphylaxis",
				// infections
				"high fever", "very hot", "severe infection", "abscess burst",
				"pus", "infected wound", "septic",
				// appetite
				"not eating for days", "refuses food", "wont eat for 2 days",
				"hasnt eaten", "hasn't eaten", "anorexia",
			},
			patterns: compilePatterns(
				`vomiting (blood|for \d+ hours?)`,
				`(bloody|blood in) (stool|diarrhea|urine)`,
				`(can't|cannot|unable to) (walk|stand|eat|urinate)`,
				`swollen (face|eye|throat)`,
				`(severe|extreme|intense) pain`,
				`not eating for (\d+) days?`,
			),
		},
		{
			priority: models.PriorityNormal,
			label:    "Standard appointment",
			keywords: []string{
				// routine care
				"checkup", "check-up", "check up", "vaccination", "vaccine",
				"annual exam", "wellness", "routine", "regular visit",
				"booster", "shots", "immunization",
				// minor issues
				"mild", "slight", "minor", "small", "little",
				"occasional", "sometimes", "started recently",
				// grooming
				"nail trim", "ear cleaning", "dental cleaning",
				"grooming", "bath", "matted fur",
			},
			patterns: compilePatterns(
				`(annual|routine|regular) (checkup|exam|visit)`,
				`(vaccination|vaccine|booster)`,
				`(mild|slight|minor|occasional)`,
			),
		},
		{
			priority: models.PriorityLow,
			label:    "Routine/follow-up visit",
			keywords: []string{
				// elective
				"microchip", "microchipping", "health certificate",
				"travel certificate", "spay", "neuter", "elective surgery",
				// follow-ups
				"follow up", "follow-up", "recheck", "re-check",
				"medication refill", "refill", "prescription renewal",
				// behavioral
				"behavioral consultation", "training advice",
				"diet advice", "nutrition consultation",
			},
		},
	}}
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return patterns
}

// TryClassify is always conclusive: the first table with a keyword or pattern
// hit wins, and no hit at all defaults to NORMAL.
func (c *KeywordClassifier) TryClassify(_ context.Context, text, _ string) (models.TriageVerdict, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, table := range c.tables {
		var matched []string
		for _, keyword := range table.keywords {
			if strings.Contains(lower, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) > 0 {
			shown := matched
			if len(shown) > 3 {
				shown = shown[:3]
			}
			return models.TriageVerdict{
				Priority: table.priority,
				Reason:   fmt.Sprintf("%s: %s", table.label, strings.Join(shown, ", ")),
				Source:   c.Name(),
				Evidence: matched,
			}, true, nil
		}
		for _, pattern := range table.patterns {
			if loc := pattern.FindString(lower); loc != "" {
				return models.TriageVerdict{
					Priority: table.priority,
					Reason:   fmt.Sprintf("%s: %s", table.label, loc),
					Source:   c.Name(),
					Evidence: []string{loc},
				}, true, nil
			}
		}
	}

	return models.TriageVerdict{
		Priority: models.PriorityNormal,
		Reason:   "no urgent keywords detected",
		Source:   c.Name(),
	}, true, nil
}
