package triage

import "strings"

// delimiters split symptom text into keywords; " and "/" or "/" with " are
// treated as separators so conjunctions don't pollute the keyword sets.
var keywordDelimiters = []string{",", ";", ".", " and ", " or ", " with ", "-", "/", "(", ")"}

// normalizeText lowercases and collapses all whitespace runs to single spaces.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func extractKeywords(text string) map[string]struct{} {
	normalized := strings.ToLower(text)
	for _, delim := range keywordDelimiters {
		normalized = strings.ReplaceAll(normalized, delim, " ")
	}
	keywords := map[string]struct{}{}
	for _, token := range strings.Fields(normalized) {
		keywords[token] = struct{}{}
	}
	return keywords
}

// keywordJaccard is |intersection| / |union| of two keyword sets.
func keywordJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// sequenceRatio is the classic difflib similarity: twice the total length of
// matching blocks over the combined length of both strings.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(total)
}

// matchingRunes sums matching block lengths by finding the longest common
// block and recursing on the pieces to its left and right.
func matchingRunes(a, b []rune) int {
	aStart, bStart, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	matched := size
	matched += matchingRunes(a[:aStart], b[:bStart])
	matched += matchingRunes(a[aStart+size:], b[bStart+size:])
	return matched
}

func longestCommonBlock(a, b []rune) (aStart, bStart, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			current := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					aStart = i - size
					bStart = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = current
		}
	}
	return aStart, bStart, size
}
