// Package ranker orders duplicate spans for reporting.
package ranker

import (
	"sort"

	"github.com/cpscan/cpscan/internal/types"
)

// Rank returns spans ordered by length, longest first, truncated to topN.
//
// Spans of equal length keep their input order. A topN of zero or less
// yields no spans. The input slice is not modified.
func Rank(spans []types.DuplicateSpan, topN int) []types.DuplicateSpan {
	if topN <= 0 || len(spans) == 0 {
		return []types.DuplicateSpan{}
	}

	ranked := make([]types.DuplicateSpan, len(spans))
	copy(ranked, spans)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Len() > ranked[j].Len()
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
