package reconcile

import (
	"fmt"

	"github.com/hbollon/go-edlib"
)

// Similarity scores two normalized strings in [0, 1].
//
// Implementations must be symmetric and return 1.0 for identical strings.
type Similarity func(a, b string) float64

// Similarity algorithm names accepted by [SimilarityByName].
const (
	AlgorithmQuick       = "quick"
	AlgorithmLevenshtein = "levenshtein"
	AlgorithmJaroWinkler = "jaro-winkler"
)

// QuickRatio is the character-multiset matching ratio 2*M/T, where M is the size of the
// multiset intersection of the runes of a and b and T is their combined length.
//
// Two empty strings are identical and score 1.0.
func QuickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}

	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}

	return 2.0 * float64(matches) / float64(total)
}

// edlibSimilarity adapts a go-edlib algorithm to [Similarity].
func edlibSimilarity(algo edlib.Algorithm) Similarity {
	return func(a, b string) float64 {
		if a == b {
			return 1.0
		}
		sim, err := edlib.StringsSimilarity(a, b, algo)
		if err != nil {
			return 0
		}
		return float64(sim)
	}
}

// SimilarityByName resolves a configured algorithm name. The empty name selects [QuickRatio].
func SimilarityByName(name string) (Similarity, error) {
	switch name {
	case "", AlgorithmQuick:
		return QuickRatio, nil
	case AlgorithmLevenshtein:
		return edlibSimilarity(edlib.Levenshtein), nil
	case AlgorithmJaroWinkler:
		return edlibSimilarity(edlib.JaroWinkler), nil
	default:
		return nil, fmt.Errorf("unknown similarity algorithm %q", name)
	}
}
