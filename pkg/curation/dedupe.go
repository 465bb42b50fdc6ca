package curation

import (
	"sort"
	"strings"
	"unicode"
)

// titleSimilarityThreshold is the ratio at which two normalized titles are
// considered the same work. Carried over from the tuning of earlier runs.
const titleSimilarityThreshold = 0.98

// Deduplicate removes duplicate items in two stages. First, items sharing
// an identifier collapse to the highest-scoring one (ties keep the first
// encountered). Second, the survivors are sorted by score descending and
// swept greedily: an item is kept only if its normalized title is not
// near-identical to a title already kept, so the best-scoring
// representative of every near-duplicate cluster survives.
func Deduplicate(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]Item, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		existing, seen := byID[item.Identifier]
		if !seen {
			byID[item.Identifier] = item
			order = append(order, item.Identifier)
			continue
		}
		if item.Confidence.Score > existing.Confidence.Score {
			byID[item.Identifier] = item
		}
	}

	unique := make([]Item, 0, len(order))
	for _, id := range order {
		unique = append(unique, byID[id])
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence.Score > unique[j].Confidence.Score
	})

	kept := make([]Item, 0, len(unique))
	keptTitles := make([]string, 0, len(unique))
	for _, item := range unique {
		norm := normalizeTitle(item.Title)
		duplicate := false
		for _, seen := range keptTitles {
			if titlesSimilar(norm, seen) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, item)
		keptTitles = append(keptTitles, norm)
	}
	return kept
}

// CapByMediatype truncates over-represented mediatypes to their top-N by
// score. Types without a limit pass through untouched. Items are only
// reordered within a capped type group, never across groups.
func CapByMediatype(items []Item, limits map[string]int) []Item {
	if len(items) == 0 {
		return nil
	}

	groups := make(map[string][]Item)
	groupOrder := make([]string, 0)
	for _, item := range items {
		if _, seen := groups[item.Mediatype]; !seen {
			groupOrder = append(groupOrder, item.Mediatype)
		}
		groups[item.Mediatype] = append(groups[item.Mediatype], item)
	}

	result := make([]Item, 0, len(items))
	for _, mt := range groupOrder {
		group := groups[mt]
		if limit, ok := limits[mt]; ok {
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Confidence.Score > group[j].Confidence.Score
			})
			if len(group) > limit {
				group = group[:limit]
			}
		}
		result = append(result, group...)
	}
	return result
}

// DedupeAndCap is the composition export and persist consumers apply
// before handing items to a merge store.
func DedupeAndCap(items []Item, limits map[string]int) []Item {
	return CapByMediatype(Deduplicate(items), limits)
}

// normalizeTitle strips everything but letters, digits and spaces,
// collapses whitespace and lowercases, so punctuation and casing variants
// of the same title compare equal.
func normalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// titlesSimilar compares two already-normalized titles.
func titlesSimilar(a, b string) bool {
	if a == b {
		return true
	}
	return similarityRatio(a, b) >= titleSimilarityThreshold
}

// similarityRatio is 2*LCS(a,b) / (len(a)+len(b)) over runes, the classic
// longest-common-subsequence similarity in [0,1]. Quadratic, which is fine
// at curation scale (titles, hundreds of items).
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
