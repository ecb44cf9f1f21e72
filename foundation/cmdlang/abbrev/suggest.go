// File: suggest.go
// Title: Did-You-Mean Suggestions
// Description: Ranks candidates that resemble an unresolved input so
//              error messages can offer alternatives.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
// - 2026-10-19 v0.1.1: Deduplication through slicex.Unique

package abbrev

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	mdwslicex "github.com/msto63/cmdscript/foundation/utils/slicex"
)

// Suggest returns up to limit candidates resembling input, best first.
// Candidates containing the input's letters in order rank ahead of
// candidates that are merely a few edits away.
func Suggest(input string, candidates []string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" || limit <= 0 {
		return nil
	}

	var names []string
	ranks := fuzzy.RankFindFold(input, candidates)
	sort.Sort(ranks)
	for _, rank := range ranks {
		names = append(names, rank.Target)
	}

	type scored struct {
		name     string
		distance int
	}
	lowered := strings.ToLower(input)
	maxDistance := len(input)/3 + 1
	var near []scored
	for _, candidate := range candidates {
		d := fuzzy.LevenshteinDistance(lowered, strings.ToLower(candidate))
		if d <= maxDistance {
			near = append(near, scored{candidate, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		return near[i].distance < near[j].distance
	})
	for _, c := range near {
		names = append(names, c.name)
	}

	names = mdwslicex.Unique(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
