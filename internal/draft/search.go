package draft

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
)

// similarityThreshold is the minimum Levenshtein similarity for a name match
const similarityThreshold = 0.7

// SearchPlayers finds players whose name matches query. Substring-style fold
// matches rank first, then close spellings by Levenshtein similarity.
func SearchPlayers(players []stats.PlayerStatRow, query string, limit int) []stats.PlayerStatRow {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	type match struct {
		row   stats.PlayerStatRow
		score float64
	}

	lowered := strings.ToLower(query)
	var matches []match
	for _, player := range players {
		name := strings.ToLower(player.PlayerName)
		if name == lowered {
			matches = append(matches, match{row: player, score: 3})
			continue
		}
		if fuzzy.MatchFold(query, player.PlayerName) {
			matches = append(matches, match{row: player, score: 2})
			continue
		}

		distance := fuzzy.LevenshteinDistance(lowered, name)
		maxLen := float64(max(len(lowered), len(name)))
		similarity := 1 - float64(distance)/maxLen
		if similarity >= similarityThreshold {
			matches = append(matches, match{row: player, score: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]stats.PlayerStatRow, len(matches))
	for i, m := range matches {
		results[i] = m.row
	}
	return results
}
