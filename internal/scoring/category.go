package scoring

import (
	"math"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
)

// CategoryEpsilon is the tolerance under which two category values are equal
const CategoryEpsilon = 1e-9

// CategoryKind distinguishes summed categories from ratio categories
type CategoryKind string

const (
	KindSum        CategoryKind = "sum"
	KindPercentage CategoryKind = "percentage"
)

// Outcome is the ternary result of comparing one category head to head
type Outcome string

const (
	OutcomeTeamA Outcome = "team_a"
	OutcomeTeamB Outcome = "team_b"
	OutcomeTie   Outcome = "tie"
)

// CategoryDefinition describes one head-to-head category
type CategoryDefinition struct {
	Key            string       `json:"key"`
	Label          string       `json:"label"`
	Kind           CategoryKind `json:"kind"`
	Stat           string       `json:"stat,omitempty"`
	Numerator      string       `json:"numerator,omitempty"`
	Denominator    string       `json:"denominator,omitempty"`
	HigherIsBetter bool         `json:"higher_is_better"`
	Precision      int          `json:"precision"`
}

// RequiresRatio reports whether the category divides two summed statistics
func (d CategoryDefinition) RequiresRatio() bool {
	return d.Kind == KindPercentage
}

// CategoryResult holds an aggregated category value. Ratio categories keep
// their numerator and denominator so totals can be merged later.
type CategoryResult struct {
	Value          float64      `json:"value"`
	Label          string       `json:"label"`
	HigherIsBetter bool         `json:"higher_is_better"`
	Kind           CategoryKind `json:"kind"`
	Precision      int          `json:"precision"`
	Numerator      float64      `json:"numerator,omitempty"`
	Denominator    float64      `json:"denominator,omitempty"`
}

// CategoryComparison tallies a head-to-head category matchup
type CategoryComparison struct {
	Outcomes map[string]Outcome `json:"outcomes"`
	WinsA    int                `json:"wins_a"`
	WinsB    int                `json:"wins_b"`
	Ties     int                `json:"ties"`
}

// ComputeCategoryTotals aggregates rows per category. Ratio categories are
// the quotient of summed numerator and denominator, never an average of
// per-row ratios.
func ComputeCategoryTotals(rows []stats.PlayerStatRow, defs []CategoryDefinition) map[string]CategoryResult {
	results := make(map[string]CategoryResult, len(defs))
	for _, def := range defs {
		result := emptyResult(def)
		if def.RequiresRatio() {
			result.Numerator = sumStat(rows, def.Numerator)
			result.Denominator = sumStat(rows, def.Denominator)
			result.Value = stats.Ratio(result.Numerator, result.Denominator)
		} else {
			result.Value = sumStat(rows, def.Stat)
		}
		results[def.Key] = result
	}
	return results
}

// MergeCategoryTotals adds addition into a copy of base
func MergeCategoryTotals(base, addition map[string]CategoryResult, defs []CategoryDefinition) map[string]CategoryResult {
	merged := make(map[string]CategoryResult, len(base))
	for k, v := range base {
		merged[k] = v
	}

	for _, def := range defs {
		incoming, ok := addition[def.Key]
		if !ok {
			continue
		}
		record, exists := merged[def.Key]
		if !exists {
			record = emptyResult(def)
		}
		if def.RequiresRatio() {
			record.Numerator += incoming.Numerator
			record.Denominator += incoming.Denominator
			record.Value = stats.Ratio(record.Numerator, record.Denominator)
		} else {
			record.Value += incoming.Value
		}
		merged[def.Key] = record
	}
	return merged
}

// CompareCategory decides a single category. Values within CategoryEpsilon tie.
func CompareCategory(a, b float64, def CategoryDefinition) Outcome {
	if math.Abs(a-b) <= CategoryEpsilon {
		return OutcomeTie
	}
	if (a > b) == def.HigherIsBetter {
		return OutcomeTeamA
	}
	return OutcomeTeamB
}

// CompareCategories decides every category between two aggregated teams
func CompareCategories(a, b map[string]CategoryResult, defs []CategoryDefinition) CategoryComparison {
	comparison := CategoryComparison{Outcomes: make(map[string]Outcome, len(defs))}
	for _, def := range defs {
		outcome := CompareCategory(a[def.Key].Value, b[def.Key].Value, def)
		comparison.Outcomes[def.Key] = outcome
		switch outcome {
		case OutcomeTeamA:
			comparison.WinsA++
		case OutcomeTeamB:
			comparison.WinsB++
		default:
			comparison.Ties++
		}
	}
	return comparison
}

func emptyResult(def CategoryDefinition) CategoryResult {
	return CategoryResult{
		Label:          def.Label,
		HigherIsBetter: def.HigherIsBetter,
		Kind:           def.Kind,
		Precision:      def.Precision,
	}
}

func sumStat(rows []stats.PlayerStatRow, key string) float64 {
	if key == "" {
		return 0
	}
	total := 0.0
	for _, row := range rows {
		if v, ok := row.Value(key); ok {
			total += v
		}
	}
	return total
}
