package match

import (
	"sort"

	"caster-planner/internal/analyze"
)

// Thresholds for suggestions.
const (
	// DefaultMinScore is the minimum combined score of a suggestion.
	DefaultMinScore = 0.5
	// DefaultSuggestions is the number of suggestions attached to a diagnostic.
	DefaultSuggestions = 3
)

// Candidate is a member ranked as a likely counterpart of a name.
type Candidate struct {
	Member *analyze.FieldInfo

	NameScore  float64           // normalized name similarity (0-1)
	TypeCompat TypeCompatibility // how the member type maps to the wanted type

	// CombinedScore ranks candidates (higher is better).
	CombinedScore float64
}

// CandidateList is a list of candidates sorted by descending score.
type CandidateList []Candidate

// RankCandidates ranks members as counterparts of a member called name with
// type typ. A nil typ ranks by name only.
func RankCandidates(name string, typ *analyze.TypeInfo, members []*analyze.FieldInfo) CandidateList {
	list := make(CandidateList, 0, len(members))

	for _, m := range members {
		c := Candidate{
			Member:    m,
			NameScore: NameSimilarity(name, m.Name),
		}

		if typ != nil {
			c.TypeCompat = ScoreTypeCompatibility(m.Type, typ)
			c.CombinedScore = combinedScore(c.NameScore, c.TypeCompat)
		} else {
			c.CombinedScore = c.NameScore
		}

		list = append(list, c)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CombinedScore != list[j].CombinedScore {
			return list[i].CombinedScore > list[j].CombinedScore
		}

		return list[i].Member.Name < list[j].Member.Name
	})

	return list
}

// combinedScore weights name similarity 60% and type compatibility 40%.
func combinedScore(nameScore float64, compat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	return nameScore*nameWeight + compat.weight()*typeWeight
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the member names of the candidates.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Member.Name
	}

	return names
}

// Suggest returns up to DefaultSuggestions member names that likely were
// meant instead of name.
func Suggest(name string, typ *analyze.TypeInfo, members []*analyze.FieldInfo) []string {
	var others []*analyze.FieldInfo

	for _, m := range members {
		if m.Name != name {
			others = append(others, m)
		}
	}

	return RankCandidates(name, typ, others).AboveThreshold(DefaultMinScore).Top(DefaultSuggestions).Names()
}
