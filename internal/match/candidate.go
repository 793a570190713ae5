package match

import (
	"sort"
	"strings"
)

// maxFlattenTokens bounds the number of name tokens considered for
// flattening; a name with n tokens has 2^(n-1) decompositions.
const maxFlattenTokens = 8

// BuildCandidates returns the member path candidates for a member name.
// The exact name comes first, followed by its flattened decompositions into
// nested segments: "AddressCity" yields [[AddressCity] [Address City]].
// Decompositions with fewer segments come first, and among those the ones
// with the longest first segment.
func BuildCandidates(name string) [][]string {
	candidates := [][]string{{name}}

	tokens := SplitIdent(name)
	if len(tokens) < 2 || len(tokens) > maxFlattenTokens || strings.Join(tokens, "") != name {
		return candidates
	}

	var splits [][]string

	// Every bit of mask marks a split after the token with that index.
	for mask := 1; mask < 1<<(len(tokens)-1); mask++ {
		var (
			segments []string
			current  strings.Builder
		)

		for i, tok := range tokens {
			current.WriteString(tok)

			if i == len(tokens)-1 || mask&(1<<i) != 0 {
				segments = append(segments, current.String())
				current.Reset()
			}
		}

		splits = append(splits, segments)
	}

	sort.SliceStable(splits, func(i, j int) bool {
		a, b := splits[i], splits[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}

		for k := range a {
			if len(a[k]) != len(b[k]) {
				return len(a[k]) > len(b[k])
			}
		}

		return false
	})

	return append(candidates, splits...)
}
