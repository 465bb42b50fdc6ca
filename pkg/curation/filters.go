package curation

import (
	"fmt"
	"strings"
)

// intentMinTokenLen is the longest token length still considered too
// ambiguous to prove intent on its own.
const intentMinTokenLen = 3

// MatchesIntent reports whether a hit plausibly matches the search term.
// The term is split on whitespace and tokens of length <= 3 are ignored;
// any remaining token appearing case-insensitively in the title or creator
// qualifies. A term with no qualifying tokens matches nothing: when the
// term carries no distinguishing words we prefer dropping results over
// keeping noise.
func MatchesIntent(hit Hit, searchTerm string) bool {
	title := strings.ToLower(hit.Title)
	creator := strings.ToLower(hit.Creator)

	for _, word := range strings.Fields(strings.ToLower(searchTerm)) {
		if len(word) <= intentMinTokenLen {
			continue
		}
		if strings.Contains(title, word) || strings.Contains(creator, word) {
			return true
		}
	}
	return false
}

// MeetsEngagement checks a hit against the minimum download and favorite
// thresholds. Missing counts arrive as zero, which is the common case and
// not an error. The reason string is diagnostic only.
func MeetsEngagement(hit Hit, cfg *Config) (bool, string) {
	if hit.Downloads < cfg.MinDownloads {
		return false, fmt.Sprintf("downloads (%d) below minimum (%d)", hit.Downloads, cfg.MinDownloads)
	}
	if hit.Favorites < cfg.MinFavorites {
		return false, fmt.Sprintf("favorites (%d) below minimum (%d)", hit.Favorites, cfg.MinFavorites)
	}
	return true, ""
}
