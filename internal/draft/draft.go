package draft

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
)

// BotPoolSize is how many of the best remaining players a bot considers
const BotPoolSize = 5

var (
	ErrDraftInactive      = errors.New("draft is not currently active for this league")
	ErrRosterFull         = errors.New("roster is already full")
	ErrPlayerTaken        = errors.New("player has already been drafted")
	ErrNoPlayersAvailable = errors.New("no players available to draft")
	ErrRosterIncomplete   = errors.New("fill your roster before completing the draft")
	ErrUnknownPlayer      = errors.New("player is not in the draft pool")
)

// Status is the lifecycle state of an interactive draft
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// State tracks an interactive draft with one human-controlled team
type State struct {
	Status      Status     `json:"status"`
	RosterSize  int        `json:"roster_size"`
	UserTeam    string     `json:"user_team"`
	UserPicks   []int      `json:"user_picks"`
	TakenIDs    []int      `json:"taken_ids"`
	OrderedIDs  []int      `json:"ordered_ids,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewState prepares a pending draft over the ranked candidate order
func NewState(userTeam string, rosterSize int, orderedIDs []int) *State {
	ordered := make([]int, len(orderedIDs))
	copy(ordered, orderedIDs)
	return &State{
		Status:     StatusPending,
		RosterSize: rosterSize,
		UserTeam:   userTeam,
		UserPicks:  []int{},
		TakenIDs:   []int{},
		OrderedIDs: ordered,
	}
}

// Clone returns a deep copy of the draft state
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.UserPicks = append([]int(nil), s.UserPicks...)
	c.TakenIDs = append([]int(nil), s.TakenIDs...)
	c.OrderedIDs = append([]int(nil), s.OrderedIDs...)
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// Active reports whether picks are still being made
func (s *State) Active() bool {
	return s != nil && s.Status != StatusCompleted
}

// RemainingSlots is the number of open roster spots for the human team
func (s *State) RemainingSlots(rosters map[string][]int) int {
	if !s.Active() {
		return 0
	}
	remaining := s.RosterSize - len(rosters[s.UserTeam])
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Available returns the untaken candidates in ranked order. Players already
// on a roster count as taken even if the draft state missed them.
func (s *State) Available(rosters map[string][]int) []int {
	if s == nil {
		return nil
	}
	taken := s.takenSet(rosters)
	available := make([]int, 0, len(s.OrderedIDs))
	for _, id := range s.OrderedIDs {
		if !taken[id] {
			available = append(available, id)
		}
	}
	return available
}

// Pick drafts playerID onto the human team
func (s *State) Pick(rosters map[string][]int, playerID int) error {
	if !s.Active() {
		return ErrDraftInactive
	}
	if s.UserTeam == "" {
		return errors.New("draft configuration is missing the user team")
	}
	if len(rosters[s.UserTeam]) >= s.RosterSize {
		return ErrRosterFull
	}
	if s.takenSet(rosters)[playerID] {
		return fmt.Errorf("%w: %d", ErrPlayerTaken, playerID)
	}
	if !contains(s.OrderedIDs, playerID) {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}

	rosters[s.UserTeam] = append(rosters[s.UserTeam], playerID)
	s.UserPicks = append(s.UserPicks, playerID)
	s.TakenIDs = append(s.TakenIDs, playerID)
	return nil
}

// BotPick drafts for the human team by weighted random choice among the top
// BotPoolSize remaining players, weighting rank r by 1/(r+1).
func (s *State) BotPick(rosters map[string][]int, rng *rand.Rand) (int, error) {
	if !s.Active() {
		return 0, ErrDraftInactive
	}
	available := s.Available(rosters)
	if len(available) == 0 {
		return 0, ErrNoPlayersAvailable
	}

	pool := available
	if len(pool) > BotPoolSize {
		pool = pool[:BotPoolSize]
	}
	playerID := pool[weightedIndex(len(pool), rng)]
	if err := s.Pick(rosters, playerID); err != nil {
		return 0, err
	}
	return playerID, nil
}

// AutoDraftRest bot-picks until the human roster is full, then finalizes
func (s *State) AutoDraftRest(rosters map[string][]int, teams []string, rng *rand.Rand, now time.Time) (map[string][]int, error) {
	for s.RemainingSlots(rosters) > 0 {
		if _, err := s.BotPick(rosters, rng); err != nil {
			return nil, err
		}
	}
	return s.Finalize(rosters, teams, now)
}

// Finalize fills every other team by auto-draft over the ranked order and
// locks the draft. Finalizing a completed draft returns rosters unchanged.
func (s *State) Finalize(rosters map[string][]int, teams []string, now time.Time) (map[string][]int, error) {
	if !s.Active() {
		return rosters, nil
	}
	if s.UserTeam == "" {
		return nil, errors.New("draft configuration is missing the user team")
	}
	if len(rosters[s.UserTeam]) < s.RosterSize {
		return nil, ErrRosterIncomplete
	}

	filled := AutoDraft(teams, s.RosterSize, s.OrderedIDs, rosters)

	taken := make([]int, 0, len(teams)*s.RosterSize)
	for _, team := range teams {
		taken = append(taken, filled[team]...)
	}

	completedAt := now.UTC()
	s.Status = StatusCompleted
	s.CompletedAt = &completedAt
	s.TakenIDs = taken
	s.OrderedIDs = nil
	return filled, nil
}

func (s *State) takenSet(rosters map[string][]int) map[int]bool {
	taken := make(map[int]bool, len(s.TakenIDs))
	for _, id := range s.TakenIDs {
		taken[id] = true
	}
	for _, id := range s.UserPicks {
		taken[id] = true
	}
	for _, roster := range rosters {
		for _, id := range roster {
			taken[id] = true
		}
	}
	return taken
}

// RankCandidates orders players by fantasy points under weights, best first.
// Equal scores keep their input order.
func RankCandidates(players []stats.PlayerStatRow, weights map[string]float64) ([]int, error) {
	scored, err := scoring.ComputeFantasyPoints(players, weights)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FantasyPoints > scored[j].FantasyPoints
	})

	ids := make([]int, len(scored))
	for i, row := range scored {
		ids[i] = row.PlayerID
	}
	return ids, nil
}

// AutoDraft assigns candidates to teams in repeated passes over the team
// order, each team taking the next untaken candidate, until every roster is
// full or candidates run out. Existing rosters are kept and their players
// count as taken.
func AutoDraft(teams []string, rosterSize int, candidates []int, existing map[string][]int) map[string][]int {
	rosters := make(map[string][]int, len(teams))
	taken := make(map[int]bool)
	for _, team := range teams {
		rosters[team] = append([]int{}, existing[team]...)
		for _, id := range rosters[team] {
			taken[id] = true
		}
	}

	index := 0
	for {
		assigned := false
		for _, team := range teams {
			if len(rosters[team]) >= rosterSize {
				continue
			}
			for index < len(candidates) && taken[candidates[index]] {
				index++
			}
			if index >= len(candidates) {
				return rosters
			}
			id := candidates[index]
			index++
			rosters[team] = append(rosters[team], id)
			taken[id] = true
			assigned = true
		}
		if !assigned {
			return rosters
		}
	}
}

// weightedIndex picks an index in [0, n) with weight 1/(i+1)
func weightedIndex(n int, rng *rand.Rand) int {
	total := 0.0
	for i := 0; i < n; i++ {
		total += 1 / float64(i+1)
	}

	target := rng.Float64() * total
	for i := 0; i < n; i++ {
		target -= 1 / float64(i+1)
		if target < 0 {
			return i
		}
	}
	return n - 1
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
