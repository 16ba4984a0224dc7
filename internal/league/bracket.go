package league

import (
	"fmt"
	"sort"
)

// requiredRounds maps supported bracket sizes to their round count
var requiredRounds = map[int]int{4: 2, 6: 3, 8: 3}

// BracketStatus is the lifecycle state of a playoff bracket
type BracketStatus string

const (
	BracketActive    BracketStatus = "active"
	BracketCompleted BracketStatus = "completed"
)

// RoundStatus is the lifecycle state of a bracket round or matchup
type RoundStatus string

const (
	RoundPending   RoundStatus = "pending"
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

// Playoff outcomes recorded on placements
const (
	OutcomeChampion    = "champion"
	OutcomeRunnerUp    = "runner_up"
	OutcomeThirdPlace  = "third_place"
	OutcomeFourthPlace = "fourth_place"
	OutcomeNoPlayoffs  = "no_playoffs"
)

// Bracket holds seeds, rounds and results of a single-elimination playoff
type Bracket struct {
	Size         int           `json:"size"`
	Reseed       bool          `json:"reseed"`
	Consolation  bool          `json:"consolation"`
	Seeds        []Seed        `json:"seeds"`
	Rounds       []Round       `json:"rounds"`
	CurrentRound int           `json:"current_round"`
	Status       BracketStatus `json:"status"`
	Eliminations []Elimination `json:"eliminations"`
	Placements   []Placement   `json:"placements,omitempty"`
	Champion     string        `json:"champion,omitempty"`
}

// Seed is a playoff team and the record that earned its seed
type Seed struct {
	Seed      int     `json:"seed"`
	Team      string  `json:"team"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Ties      int     `json:"ties"`
	PointsFor float64 `json:"points_for"`
}

// Round is one elimination stage bound to a single week
type Round struct {
	Number     int              `json:"number"`
	Name       string           `json:"name"`
	WeekIndex  int              `json:"week_index"`
	Status     RoundStatus      `json:"status"`
	Matchups   []BracketMatchup `json:"matchups"`
	ThirdPlace *BracketMatchup  `json:"third_place,omitempty"`
}

// BracketMatchup is a playoff pairing. A bye matchup has no away team and
// advances its home team without a game.
type BracketMatchup struct {
	ID            string      `json:"id"`
	Home          Slot        `json:"home"`
	Away          Slot        `json:"away"`
	Bye           bool        `json:"bye,omitempty"`
	Status        RoundStatus `json:"status"`
	Winner        string      `json:"winner,omitempty"`
	Loser         string      `json:"loser,omitempty"`
	HomeTotal     float64     `json:"home_total"`
	AwayTotal     float64     `json:"away_total"`
	TieBreak      string      `json:"tie_break,omitempty"`
	WeekMatchupID string      `json:"week_matchup_id,omitempty"`
}

// Slot is one side of a bracket matchup. Until it is resolved, Source
// describes where its team will come from.
type Slot struct {
	Team   string `json:"team,omitempty"`
	Seed   int    `json:"seed,omitempty"`
	Source string `json:"source"`
	From   string `json:"from,omitempty"`
}

// Resolved reports whether the slot has a team
func (s Slot) Resolved() bool {
	return s.Team != ""
}

// Elimination records a team knocked out of the bracket
type Elimination struct {
	Order        int    `json:"order"`
	Round        int    `json:"round"`
	Team         string `json:"team"`
	Seed         int    `json:"seed"`
	EliminatedBy string `json:"eliminated_by"`
}

// Placement is a team's final finishing position
type Placement struct {
	Place   int    `json:"place"`
	Team    string `json:"team"`
	Seed    int    `json:"seed,omitempty"`
	Outcome string `json:"outcome"`
}

// slotSpec is a topology entry: a fixed seed or the winner of a matchup
type slotSpec struct {
	seed int
	from string
}

func seed(n int) slotSpec        { return slotSpec{seed: n} }
func winnerOf(id string) slotSpec { return slotSpec{from: id} }

// topologies lists each round's pairings for the supported bracket sizes.
// Seeds absent from round 1 have a bye into round 2.
var topologies = map[int][][][2]slotSpec{
	4: {
		{{seed(1), seed(4)}, {seed(2), seed(3)}},
		{{winnerOf("r1-m1"), winnerOf("r1-m2")}},
	},
	6: {
		{{seed(3), seed(6)}, {seed(4), seed(5)}},
		{{seed(1), winnerOf("r1-m2")}, {seed(2), winnerOf("r1-m1")}},
		{{winnerOf("r2-m1"), winnerOf("r2-m2")}},
	},
	8: {
		{{seed(1), seed(8)}, {seed(4), seed(5)}, {seed(3), seed(6)}, {seed(2), seed(7)}},
		{{winnerOf("r1-m1"), winnerOf("r1-m2")}, {winnerOf("r1-m3"), winnerOf("r1-m4")}},
		{{winnerOf("r2-m1"), winnerOf("r2-m2")}},
	},
}

// roundName names a round by how far it is from the final
func roundName(number, total int) string {
	switch total - number {
	case 0:
		return "final"
	case 1:
		return "semifinal"
	case 2:
		return "quarterfinal"
	}
	return fmt.Sprintf("round_%d", number)
}

// newBracket seeds a bracket from standings and lays out every round.
// With reseeding, rounds after the first are left as placeholders until
// the previous round resolves.
func newBracket(cfg PlayoffConfig, standings []StandingEntry) *Bracket {
	b := &Bracket{
		Size:         cfg.Teams,
		Reseed:       cfg.Reseed,
		Consolation:  cfg.Consolation,
		CurrentRound: 0,
		Status:       BracketActive,
		Eliminations: []Elimination{},
	}

	for i := 0; i < cfg.Teams && i < len(standings); i++ {
		entry := standings[i]
		b.Seeds = append(b.Seeds, Seed{
			Seed:      i + 1,
			Team:      entry.Team,
			Wins:      entry.Wins,
			Losses:    entry.Losses,
			Ties:      entry.Ties,
			PointsFor: entry.PointsFor,
		})
	}

	topology := topologies[cfg.Teams]
	for r, pairs := range topology {
		number := r + 1
		round := Round{
			Number:    number,
			Name:      roundName(number, len(topology)),
			WeekIndex: cfg.Weeks[r],
			Status:    RoundPending,
		}
		for i, pair := range pairs {
			m := BracketMatchup{
				ID:     fmt.Sprintf("r%d-m%d", number, i+1),
				Status: RoundPending,
			}
			if cfg.Reseed && number > 1 {
				m.Home = Slot{Source: "reseeded: higher remaining seed"}
				m.Away = Slot{Source: "reseeded: lower remaining seed"}
			} else {
				m.Home = b.slotFor(pair[0])
				m.Away = b.slotFor(pair[1])
			}
			round.Matchups = append(round.Matchups, m)
		}
		b.Rounds = append(b.Rounds, round)
	}
	return b
}

func (b *Bracket) slotFor(spec slotSpec) Slot {
	if spec.from != "" {
		return Slot{Source: fmt.Sprintf("winner of %s", spec.from), From: spec.from}
	}
	slot := Slot{Seed: spec.seed, Source: fmt.Sprintf("seed %d", spec.seed)}
	slot.Team = b.teamForSeed(spec.seed)
	return slot
}

func (b *Bracket) teamForSeed(n int) string {
	for _, s := range b.Seeds {
		if s.Seed == n {
			return s.Team
		}
	}
	return ""
}

func (b *Bracket) seedOf(team string) int {
	for _, s := range b.Seeds {
		if s.Team == team {
			return s.Seed
		}
	}
	return 0
}

// Round returns the round with the given 1-based number
func (b *Bracket) Round(number int) (*Round, bool) {
	if number < 1 || number > len(b.Rounds) {
		return nil, false
	}
	return &b.Rounds[number-1], true
}

func (b *Bracket) findMatchup(id string) (*BracketMatchup, bool) {
	for r := range b.Rounds {
		for i := range b.Rounds[r].Matchups {
			if b.Rounds[r].Matchups[i].ID == id {
				return &b.Rounds[r].Matchups[i], true
			}
		}
	}
	return nil, false
}

// alive returns the teams not yet eliminated, best seed first
func (b *Bracket) alive() []Seed {
	eliminated := make(map[string]bool, len(b.Eliminations))
	for _, e := range b.Eliminations {
		eliminated[e.Team] = true
	}
	var teams []Seed
	for _, s := range b.Seeds {
		if !eliminated[s.Team] {
			teams = append(teams, s)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Seed < teams[j].Seed })
	return teams
}

// fillRound resolves a round's slots from earlier results. Fixed brackets
// take winners of the feeding matchups; reseeded brackets pair surviving
// teams best against worst, giving the best seed a bye when the count is odd.
func (b *Bracket) fillRound(round *Round) {
	if !b.Reseed || round.Number == 1 {
		for i := range round.Matchups {
			b.fillSlot(&round.Matchups[i].Home)
			b.fillSlot(&round.Matchups[i].Away)
		}
		return
	}

	survivors := b.alive()
	var matchups []BracketMatchup
	if len(survivors)%2 == 1 {
		top := survivors[0]
		survivors = survivors[1:]
		matchups = append(matchups, BracketMatchup{
			Home:   Slot{Team: top.Team, Seed: top.Seed, Source: fmt.Sprintf("seed %d", top.Seed)},
			Away:   Slot{Source: "bye"},
			Bye:    true,
			Status: RoundPending,
		})
	}
	for i := 0; i < len(survivors)/2; i++ {
		hi, lo := survivors[i], survivors[len(survivors)-1-i]
		matchups = append(matchups, BracketMatchup{
			Home:   Slot{Team: hi.Team, Seed: hi.Seed, Source: fmt.Sprintf("seed %d", hi.Seed)},
			Away:   Slot{Team: lo.Team, Seed: lo.Seed, Source: fmt.Sprintf("seed %d", lo.Seed)},
			Status: RoundPending,
		})
	}
	for i := range matchups {
		matchups[i].ID = fmt.Sprintf("r%d-m%d", round.Number, i+1)
	}
	round.Matchups = matchups
}

func (b *Bracket) fillSlot(slot *Slot) {
	if slot.Resolved() || slot.From == "" {
		return
	}
	feeder, ok := b.findMatchup(slot.From)
	if !ok || feeder.Status != RoundCompleted || feeder.Winner == "" {
		return
	}
	slot.Team = feeder.Winner
	slot.Seed = b.seedOf(feeder.Winner)
}

// resolveMatchup decides a matchup from weekly totals. Equal totals go to
// the better seed, and to the home side when neither side has a seed.
func (b *Bracket) resolveMatchup(m *BracketMatchup, homeTotal, awayTotal float64) {
	m.HomeTotal, m.AwayTotal = homeTotal, awayTotal
	m.Status = RoundCompleted

	homeWins := homeTotal > awayTotal
	if homeTotal == awayTotal {
		switch {
		case m.Home.Seed > 0 && m.Away.Seed > 0 && m.Home.Seed != m.Away.Seed:
			homeWins = m.Home.Seed < m.Away.Seed
			m.TieBreak = "seed"
		default:
			homeWins = true
			m.TieBreak = "home"
		}
	}

	if homeWins {
		m.Winner, m.Loser = m.Home.Team, m.Away.Team
	} else {
		m.Winner, m.Loser = m.Away.Team, m.Home.Team
	}
}

// computePlacements orders every team: champion, runner-up, the third-place
// game if played, then eliminated teams by latest elimination round and
// recorded order, then non-playoff teams by regular-season standing.
func (b *Bracket) computePlacements(standings []StandingEntry) []Placement {
	var placements []Placement
	placed := make(map[string]bool)
	add := func(team, outcome string) {
		if team == "" || placed[team] {
			return
		}
		placed[team] = true
		placements = append(placements, Placement{
			Place:   len(placements) + 1,
			Team:    team,
			Seed:    b.seedOf(team),
			Outcome: outcome,
		})
	}

	final := b.Rounds[len(b.Rounds)-1]
	if len(final.Matchups) > 0 {
		add(final.Matchups[0].Winner, OutcomeChampion)
		add(final.Matchups[0].Loser, OutcomeRunnerUp)
	}
	if tp := final.ThirdPlace; tp != nil && tp.Status == RoundCompleted {
		add(tp.Winner, OutcomeThirdPlace)
		add(tp.Loser, OutcomeFourthPlace)
	}

	eliminations := make([]Elimination, len(b.Eliminations))
	copy(eliminations, b.Eliminations)
	sort.SliceStable(eliminations, func(i, j int) bool {
		if eliminations[i].Round != eliminations[j].Round {
			return eliminations[i].Round > eliminations[j].Round
		}
		return eliminations[i].Order < eliminations[j].Order
	})
	for _, e := range eliminations {
		add(e.Team, roundName(e.Round, len(b.Rounds))+"_loss")
	}

	for _, entry := range standings {
		add(entry.Team, OutcomeNoPlayoffs)
	}
	return placements
}
