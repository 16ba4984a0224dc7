package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
)

// ScoredRow pairs a statistic row with its fantasy point total
type ScoredRow struct {
	stats.PlayerStatRow
	FantasyPoints float64 `json:"fantasy_points"`
}

// MissingStatsError reports weighted statistics the source rows cannot supply
type MissingStatsError struct {
	Keys []string
}

func (e *MissingStatsError) Error() string {
	return fmt.Sprintf("statistics are missing required columns for the scoring profile: %s", strings.Join(e.Keys, ", "))
}

// ValidateWeights checks that every weighted key exists in the row schema
func ValidateWeights(rows []stats.PlayerStatRow, weights map[string]float64) error {
	schema := stats.Schema(rows)

	var missing []string
	for key := range weights {
		if !schema[stats.CanonicalKey(key)] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingStatsError{Keys: missing}
	}
	return nil
}

// ComputeFantasyPoints scores every row with the weighted sum of its statistics.
// It fails without scoring anything when a weight references an absent statistic.
func ComputeFantasyPoints(rows []stats.PlayerStatRow, weights map[string]float64) ([]ScoredRow, error) {
	if err := ValidateWeights(rows, weights); err != nil {
		return nil, err
	}

	keys := sortedKeys(weights)
	scored := make([]ScoredRow, len(rows))
	for i, row := range rows {
		scored[i] = ScoredRow{
			PlayerStatRow: row,
			FantasyPoints: weightedSum(row, keys, weights),
		}
	}
	return scored, nil
}

// FantasyPoints scores a single row; absent statistics count as zero
func FantasyPoints(row stats.PlayerStatRow, weights map[string]float64) float64 {
	return weightedSum(row, sortedKeys(weights), weights)
}

func weightedSum(row stats.PlayerStatRow, keys []string, weights map[string]float64) float64 {
	total := 0.0
	for _, key := range keys {
		value, _ := row.Value(key)
		total += value * weights[key]
	}
	return total
}

// sortedKeys fixes summation order so totals are reproducible
func sortedKeys(weights map[string]float64) []string {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
