package stats

import (
	"sort"
	"strings"
)

// Statistic keys understood by every row regardless of source
const (
	KeyPoints       = "PTS"
	KeyOffRebounds  = "OREB"
	KeyDefRebounds  = "DREB"
	KeyRebounds     = "REB"
	KeyAssists      = "AST"
	KeySteals       = "STL"
	KeyBlocks       = "BLK"
	KeyThreePM      = "3PM"
	KeyThreePA      = "3PA"
	KeyMinutes      = "MPG"
	KeyFGM          = "FGM"
	KeyFGA          = "FGA"
	KeyFGMiss       = "FG_MISS"
	KeyFGPct        = "FG_PCT"
	KeyFTM          = "FTM"
	KeyFTA          = "FTA"
	KeyFTMiss       = "FT_MISS"
	KeyFTPct        = "FT_PCT"
	KeyTurnovers    = "TOV"
	KeyFouls        = "PF"
	KeyPlusMinus    = "PLUS_MINUS"
	KeyDoubleDouble = "DD"
	KeyTripleDouble = "TD"
	KeyGamesPlayed  = "GP"
)

// aliases maps alternate column names onto the canonical key
var aliases = map[string]string{
	"TREB":          KeyRebounds,
	"FG3M":          KeyThreePM,
	"FG3A":          KeyThreePA,
	"MINUTES":       KeyMinutes,
	"MIN":           KeyMinutes,
	"TO":            KeyTurnovers,
	"DOUBLE_DOUBLE": KeyDoubleDouble,
	"TRIPLE_DOUBLE": KeyTripleDouble,
}

// knownKeys lists every canonical key backed by a typed field or derived from one
var knownKeys = []string{
	KeyPoints, KeyOffRebounds, KeyDefRebounds, KeyRebounds, KeyAssists,
	KeySteals, KeyBlocks, KeyThreePM, KeyThreePA, KeyMinutes, KeyFGM, KeyFGA,
	KeyFGMiss, KeyFGPct, KeyFTM, KeyFTA, KeyFTMiss, KeyFTPct, KeyTurnovers, KeyFouls, KeyPlusMinus,
	KeyDoubleDouble, KeyTripleDouble, KeyGamesPlayed,
}

// PlayerStatRow represents one player's statistics for a single game or
// averaged over a season. Both shapes feed the same scoring code.
type PlayerStatRow struct {
	PlayerID    int     `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	Team        string  `json:"team"`
	GameID      string  `json:"game_id,omitempty"`
	GameDate    string  `json:"game_date,omitempty"`
	GamesPlayed int     `json:"games_played,omitempty"`
	Minutes     float64 `json:"minutes"`
	Points      float64 `json:"points"`
	OffRebounds float64 `json:"off_rebounds"`
	DefRebounds float64 `json:"def_rebounds"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
	Steals      float64 `json:"steals"`
	Blocks      float64 `json:"blocks"`
	FGM         float64 `json:"fgm"`
	FGA         float64 `json:"fga"`
	FTM         float64 `json:"ftm"`
	FTA         float64 `json:"fta"`
	ThreePM     float64 `json:"three_pm"`
	ThreePA     float64 `json:"three_pa"`
	Turnovers   float64 `json:"turnovers"`
	Fouls       float64 `json:"fouls"`
	PlusMinus   float64 `json:"plus_minus"`

	// Extra holds profile-specific columns that have no typed field
	Extra map[string]float64 `json:"extra,omitempty"`
}

// CanonicalKey upper-cases a statistic key and resolves known aliases
func CanonicalKey(key string) string {
	upper := strings.ToUpper(strings.TrimSpace(key))
	if canonical, ok := aliases[upper]; ok {
		return canonical
	}
	return upper
}

// IsKnown reports whether a key is backed by a typed or derived field
func IsKnown(key string) bool {
	canonical := CanonicalKey(key)
	for _, k := range knownKeys {
		if k == canonical {
			return true
		}
	}
	return false
}

// KnownKeys returns the canonical keys every row can answer
func KnownKeys() []string {
	keys := make([]string, len(knownKeys))
	copy(keys, knownKeys)
	return keys
}

// Value returns the statistic for key and whether the row carries it
func (r PlayerStatRow) Value(key string) (float64, bool) {
	switch CanonicalKey(key) {
	case KeyPoints:
		return r.Points, true
	case KeyOffRebounds:
		return r.OffRebounds, true
	case KeyDefRebounds:
		return r.DefRebounds, true
	case KeyRebounds:
		return r.Rebounds, true
	case KeyAssists:
		return r.Assists, true
	case KeySteals:
		return r.Steals, true
	case KeyBlocks:
		return r.Blocks, true
	case KeyThreePM:
		return r.ThreePM, true
	case KeyThreePA:
		return r.ThreePA, true
	case KeyMinutes:
		return r.Minutes, true
	case KeyFGM:
		return r.FGM, true
	case KeyFGA:
		return r.FGA, true
	case KeyFGMiss:
		return r.FGA - r.FGM, true
	case KeyFGPct:
		return Ratio(r.FGM, r.FGA), true
	case KeyFTM:
		return r.FTM, true
	case KeyFTA:
		return r.FTA, true
	case KeyFTMiss:
		return r.FTA - r.FTM, true
	case KeyFTPct:
		return Ratio(r.FTM, r.FTA), true
	case KeyTurnovers:
		return r.Turnovers, true
	case KeyFouls:
		return r.Fouls, true
	case KeyPlusMinus:
		return r.PlusMinus, true
	case KeyDoubleDouble:
		return boolToFloat(r.doubleDigitCategories() >= 2), true
	case KeyTripleDouble:
		return boolToFloat(r.doubleDigitCategories() >= 3), true
	case KeyGamesPlayed:
		return float64(r.GamesPlayed), true
	}

	v, ok := r.Extra[CanonicalKey(key)]
	return v, ok
}

// Set stores value under key. Derived keys are ignored and unknown keys
// are kept as extension columns.
func (r *PlayerStatRow) Set(key string, value float64) {
	switch CanonicalKey(key) {
	case KeyPoints:
		r.Points = value
	case KeyOffRebounds:
		r.OffRebounds = value
	case KeyDefRebounds:
		r.DefRebounds = value
	case KeyRebounds:
		r.Rebounds = value
	case KeyAssists:
		r.Assists = value
	case KeySteals:
		r.Steals = value
	case KeyBlocks:
		r.Blocks = value
	case KeyThreePM:
		r.ThreePM = value
	case KeyThreePA:
		r.ThreePA = value
	case KeyMinutes:
		r.Minutes = value
	case KeyFGM:
		r.FGM = value
	case KeyFGA:
		r.FGA = value
	case KeyFTM:
		r.FTM = value
	case KeyFTA:
		r.FTA = value
	case KeyTurnovers:
		r.Turnovers = value
	case KeyFouls:
		r.Fouls = value
	case KeyPlusMinus:
		r.PlusMinus = value
	case KeyGamesPlayed:
		r.GamesPlayed = int(value)
	case KeyFGMiss, KeyFGPct, KeyFTMiss, KeyFTPct, KeyDoubleDouble, KeyTripleDouble:
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]float64)
		}
		r.Extra[CanonicalKey(key)] = value
	}
}

// Played reports whether the row represents actual court time
func (r PlayerStatRow) Played() bool {
	return r.Minutes > 0
}

func (r PlayerStatRow) doubleDigitCategories() int {
	count := 0
	for _, v := range []float64{r.Points, r.Rebounds, r.Assists, r.Steals, r.Blocks} {
		if v >= 10 {
			count++
		}
	}
	return count
}

// Ratio divides numerator by denominator, treating a zero denominator as 0
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Schema returns every statistic key available across rows: the known keys
// plus any extension columns carried by at least one row.
func Schema(rows []PlayerStatRow) map[string]bool {
	schema := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		schema[k] = true
	}
	for _, row := range rows {
		for k := range row.Extra {
			schema[CanonicalKey(k)] = true
		}
	}
	return schema
}

// FilterByDate returns the rows recorded on the given ISO date
func FilterByDate(rows []PlayerStatRow, date string) []PlayerStatRow {
	var filtered []PlayerStatRow
	for _, row := range rows {
		if row.GameDate == date {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SeasonAverages collapses per-game logs into one averaged row per player.
// Rows with zero minutes do not count as games played. The team is the
// abbreviation the player appeared under most often.
func SeasonAverages(logs []PlayerStatRow) []PlayerStatRow {
	type accumulator struct {
		sum        PlayerStatRow
		games      int
		teamCounts map[string]int
		firstSeen  int
	}

	byPlayer := make(map[int]*accumulator)
	for i, row := range logs {
		acc, exists := byPlayer[row.PlayerID]
		if !exists {
			acc = &accumulator{
				sum:        PlayerStatRow{PlayerID: row.PlayerID, PlayerName: row.PlayerName},
				teamCounts: make(map[string]int),
				firstSeen:  i,
			}
			byPlayer[row.PlayerID] = acc
		}
		if row.Team != "" {
			acc.teamCounts[row.Team]++
		}
		if !row.Played() {
			continue
		}
		acc.games++
		acc.sum.add(row)
	}

	averages := make([]PlayerStatRow, 0, len(byPlayer))
	order := make([]*accumulator, 0, len(byPlayer))
	for _, acc := range byPlayer {
		order = append(order, acc)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].firstSeen < order[j].firstSeen })

	for _, acc := range order {
		avg := acc.sum
		if acc.games > 0 {
			avg.scale(1 / float64(acc.games))
		}
		avg.GamesPlayed = acc.games
		avg.Team = mostCommon(acc.teamCounts)
		averages = append(averages, avg)
	}
	return averages
}

func (r *PlayerStatRow) add(o PlayerStatRow) {
	r.Minutes += o.Minutes
	r.Points += o.Points
	r.OffRebounds += o.OffRebounds
	r.DefRebounds += o.DefRebounds
	r.Rebounds += o.Rebounds
	r.Assists += o.Assists
	r.Steals += o.Steals
	r.Blocks += o.Blocks
	r.FGM += o.FGM
	r.FGA += o.FGA
	r.FTM += o.FTM
	r.FTA += o.FTA
	r.ThreePM += o.ThreePM
	r.ThreePA += o.ThreePA
	r.Turnovers += o.Turnovers
	r.Fouls += o.Fouls
	r.PlusMinus += o.PlusMinus
	for k, v := range o.Extra {
		if r.Extra == nil {
			r.Extra = make(map[string]float64)
		}
		r.Extra[k] += v
	}
}

func (r *PlayerStatRow) scale(f float64) {
	r.Minutes *= f
	r.Points *= f
	r.OffRebounds *= f
	r.DefRebounds *= f
	r.Rebounds *= f
	r.Assists *= f
	r.Steals *= f
	r.Blocks *= f
	r.FGM *= f
	r.FGA *= f
	r.FTM *= f
	r.FTA *= f
	r.ThreePM *= f
	r.ThreePA *= f
	r.Turnovers *= f
	r.Fouls *= f
	r.PlusMinus *= f
	for k := range r.Extra {
		r.Extra[k] *= f
	}
}

// mostCommon picks the highest count, breaking ties alphabetically
func mostCommon(counts map[string]int) string {
	best, bestCount := "", 0
	for team, count := range counts {
		if count > bestCount || (count == bestCount && team < best) {
			best, bestCount = team, count
		}
	}
	return best
}
