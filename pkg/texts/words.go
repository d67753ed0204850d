package texts

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultThreshold is the similarity score two words need to share a group.
const DefaultThreshold = 90

// Scorer rates the similarity of two strings from 0 to 100.
type Scorer func(a, b string) int

// Ratio scores a and b by edit distance relative to their combined length.
// Case is ignored.
func Ratio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return (100*(total-d) + total/2) / total
}

// PartialRatio is the best Ratio between the shorter string and every
// window of the same length in the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		score := Ratio(string(short), string(long[i:i+len(short)]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// GroupOptions tune FuzzyGroupWords. Zero values select PartialRatio and
// DefaultThreshold.
type GroupOptions struct {
	Scorer    Scorer
	Threshold int
}

// FuzzyGroupWords returns one group per input word: the word itself
// followed by every other word scoring at least the threshold against it,
// in input order and without repeats.
func FuzzyGroupWords(words []string, opts GroupOptions) [][]string {
	if opts.Scorer == nil {
		opts.Scorer = PartialRatio
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}

	groups := make([][]string, 0, len(words))
	for _, w := range words {
		group := []string{w}
		seen := map[string]bool{w: true}
		for _, other := range words {
			if seen[other] {
				continue
			}
			if opts.Scorer(w, other) >= opts.Threshold {
				group = append(group, other)
				seen[other] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}
