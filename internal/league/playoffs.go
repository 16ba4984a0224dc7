package league

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PlayoffConfig describes the playoff format of a league
type PlayoffConfig struct {
	Enabled     bool  `json:"enabled"`
	Teams       int   `json:"teams" validate:"oneof=4 6 8"`
	Weeks       []int `json:"weeks" validate:"required,dive,min=1"`
	Reseed      bool  `json:"reseed"`
	Consolation bool  `json:"consolation"`
}

// RequiredRounds returns the number of rounds a bracket size needs
func RequiredRounds(teams int) (int, bool) {
	rounds, ok := requiredRounds[teams]
	return rounds, ok
}

// PlayoffView is the playoff payload: a live bracket once playoffs have
// started, otherwise a projection from current standings
type PlayoffView struct {
	Config  PlayoffConfig `json:"config"`
	Phase   Phase         `json:"phase"`
	Started bool          `json:"started"`
	Bracket *Bracket      `json:"bracket"`
}

// validateFor checks the configuration against a league's teams and weeks,
// reporting every violated rule at once
func (c PlayoffConfig) validateFor(st *State) error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return configErrorf("invalid playoff configuration: %v", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	if rounds, ok := requiredRounds[c.Teams]; ok && len(c.Weeks) != rounds {
		problems = append(problems, fmt.Sprintf("%d playoff teams require %d playoff weeks, got %d", c.Teams, rounds, len(c.Weeks)))
	}
	if c.Teams > len(st.TeamNames) {
		problems = append(problems, fmt.Sprintf("playoff team count %d exceeds the league's %d teams", c.Teams, len(st.TeamNames)))
	}
	for i := 1; i < len(c.Weeks); i++ {
		if c.Weeks[i] != c.Weeks[i-1]+1 {
			problems = append(problems, "playoff weeks must be contiguous and ascending")
			break
		}
	}
	for _, w := range c.Weeks {
		if w < 1 || w > len(st.Weeks) {
			problems = append(problems, fmt.Sprintf("week %d is not part of the %d-week season", w, len(st.Weeks)))
		}
	}

	if len(problems) > 0 {
		return configErrorf("invalid playoff configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Teams":
		return fmt.Sprintf("playoff team count must be 4, 6 or 8, got %v", fe.Value())
	case fe.Tag() == "required":
		return "playoff weeks are required"
	case strings.HasPrefix(fe.Field(), "Weeks"):
		return fmt.Sprintf("playoff week %v is not a valid week index", fe.Value())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// ConfigurePlayoffs enables, changes or disables the playoff format. The
// format is locked once playoffs begin, and the first playoff week must not
// have started.
func (e *Engine) ConfigurePlayoffs(st *State, cfg PlayoffConfig) error {
	if st.Phase != PhaseRegular || st.Bracket != nil {
		return stateErrorf("playoffs have already started and can no longer be reconfigured")
	}

	if !cfg.Enabled {
		st.Playoffs = cfg
		e.logger.WithField("league_id", st.ID).Info("Playoffs disabled")
		return nil
	}

	if err := cfg.validateFor(st); err != nil {
		e.logger.WithError(err).WithField("league_id", st.ID).Warn("Rejected playoff configuration")
		return err
	}
	first, _ := st.Week(cfg.Weeks[0])
	if st.WeekStatus(*first) != WeekNotStarted {
		return configErrorf("invalid playoff configuration: week %d has already started", first.Index)
	}

	st.Playoffs = cfg
	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"teams":     cfg.Teams,
		"weeks":     cfg.Weeks,
		"reseed":    cfg.Reseed,
	}).Info("Playoffs configured")

	return e.startPlayoffsIfDue(st)
}

// startPlayoffsIfDue moves a league into the playoff phase once the cursor
// reaches the first playoff week
func (e *Engine) startPlayoffsIfDue(st *State) error {
	if st.Phase != PhaseRegular || !st.Playoffs.Enabled || st.Bracket != nil {
		return nil
	}
	date, ok := st.CurrentDate()
	if !ok {
		return nil
	}
	first, ok := st.Week(st.Playoffs.Weeks[0])
	if !ok {
		return configErrorf("playoff week %d is not part of the season", st.Playoffs.Weeks[0])
	}
	if date < first.Start {
		return nil
	}

	standings := st.Standings(first.Index)
	bracket := newBracket(st.Playoffs, standings)
	if len(bracket.Seeds) < st.Playoffs.Teams {
		return configErrorf("only %d teams available for a %d-team bracket", len(bracket.Seeds), st.Playoffs.Teams)
	}

	for _, round := range bracket.Rounds {
		week, _ := st.Week(round.WeekIndex)
		week.Playoff = true
		week.PlayoffRound = round.Number
		week.Matchups = []Matchup{}
	}

	st.Bracket = bracket
	st.Phase = PhasePlayoffs
	bracket.CurrentRound = 1
	e.bindRound(st, &bracket.Rounds[0])

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"date":      date,
		"week":      first.Index,
		"phase":     st.Phase,
		"seeds":     len(bracket.Seeds),
	}).Info("Playoffs started")
	return nil
}

// bindRound writes a round's pairings onto its week so daily simulation and
// weekly aggregation treat playoff games like any other matchup
func (e *Engine) bindRound(st *State, round *Round) {
	bracket := st.Bracket
	bracket.fillRound(round)

	week, _ := st.Week(round.WeekIndex)
	matchups := []Matchup{}
	for i := range round.Matchups {
		m := &round.Matchups[i]
		if m.Bye || !m.Home.Resolved() || !m.Away.Resolved() {
			continue
		}
		m.WeekMatchupID = fmt.Sprintf("week%d-playoff-r%d-m%d", week.Index, round.Number, i+1)
		m.Status = RoundActive
		matchups = append(matchups, playoffMatchup(m))
	}
	if tp := round.ThirdPlace; tp != nil && tp.Home.Resolved() && tp.Away.Resolved() {
		tp.WeekMatchupID = fmt.Sprintf("week%d-playoff-r%d-third", week.Index, round.Number)
		tp.Status = RoundActive
		matchups = append(matchups, playoffMatchup(tp))
	}

	week.Matchups = matchups
	round.Status = RoundActive
	st.RebuildWeeklyResults()

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"round":     round.Number,
		"week":      week.Index,
		"matchups":  len(matchups),
	}).Info("Bound playoff round to week")
}

func playoffMatchup(m *BracketMatchup) Matchup {
	return Matchup{
		ID:       m.WeekMatchupID,
		Home:     m.Home.Team,
		Away:     m.Away.Team,
		HomeSeed: m.Home.Seed,
		AwaySeed: m.Away.Seed,
		Bracket:  m.ID,
	}
}

// resolvePlayoffs resolves every round whose week is complete, preparing
// the next round or finishing the league after the final
func (e *Engine) resolvePlayoffs(st *State) {
	bracket := st.Bracket
	if st.Phase != PhasePlayoffs || bracket == nil || bracket.Status == BracketCompleted {
		return
	}

	for {
		round, ok := bracket.Round(bracket.CurrentRound)
		if !ok {
			return
		}
		week, _ := st.Week(round.WeekIndex)
		if st.WeekStatus(*week) != WeekCompleted {
			return
		}
		if !e.resolveRound(st, round) {
			e.logger.WithFields(logrus.Fields{
				"league_id": st.ID,
				"round":     round.Number,
			}).Warn("Playoff round has unresolved slots; leaving it pending")
			return
		}

		if round.Number == len(bracket.Rounds) {
			e.finishBracket(st)
			return
		}

		bracket.CurrentRound++
		next := &bracket.Rounds[bracket.CurrentRound-1]
		if bracket.Consolation && next.Number == len(bracket.Rounds) {
			next.ThirdPlace = thirdPlaceGame(bracket, round)
		}
		e.bindRound(st, next)
	}
}

// resolveRound decides every matchup in a completed round. It returns false
// without changes when any slot is still unfilled.
func (e *Engine) resolveRound(st *State, round *Round) bool {
	bracket := st.Bracket
	for _, m := range round.Matchups {
		if !m.Bye && (!m.Home.Resolved() || !m.Away.Resolved()) {
			return false
		}
	}

	for i := range round.Matchups {
		m := &round.Matchups[i]
		if m.Bye {
			m.Winner = m.Home.Team
			m.Status = RoundCompleted
			continue
		}

		home, away := st.matchupTotals(playoffMatchup(m))
		bracket.resolveMatchup(m, home, away)
		bracket.Eliminations = append(bracket.Eliminations, Elimination{
			Order:        len(bracket.Eliminations) + 1,
			Round:        round.Number,
			Team:         m.Loser,
			Seed:         bracket.seedOf(m.Loser),
			EliminatedBy: m.Winner,
		})

		e.logger.WithFields(logrus.Fields{
			"league_id":  st.ID,
			"round":      round.Number,
			"winner":     m.Winner,
			"loser":      m.Loser,
			"home_total": home,
			"away_total": away,
			"tie_break":  m.TieBreak,
		}).Info("Resolved playoff matchup")
	}

	if tp := round.ThirdPlace; tp != nil && tp.Home.Resolved() && tp.Away.Resolved() {
		home, away := st.matchupTotals(playoffMatchup(tp))
		bracket.resolveMatchup(tp, home, away)
	}

	round.Status = RoundCompleted
	return true
}

func (e *Engine) finishBracket(st *State) {
	bracket := st.Bracket
	final := bracket.Rounds[len(bracket.Rounds)-1]

	bracket.Status = BracketCompleted
	if len(final.Matchups) > 0 {
		bracket.Champion = final.Matchups[0].Winner
	}
	bracket.Placements = bracket.computePlacements(st.Standings(st.Playoffs.Weeks[0]))
	st.Phase = PhaseFinished

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"champion":  bracket.Champion,
		"phase":     st.Phase,
	}).Info("Playoffs completed")
}

// thirdPlaceGame pairs the losers of the semifinal round
func thirdPlaceGame(bracket *Bracket, semifinal *Round) *BracketMatchup {
	var slots []Slot
	for _, m := range semifinal.Matchups {
		if m.Bye || m.Loser == "" {
			continue
		}
		slots = append(slots, Slot{
			Team:   m.Loser,
			Seed:   bracket.seedOf(m.Loser),
			Source: fmt.Sprintf("loser of %s", m.ID),
			From:   m.ID,
		})
	}
	if len(slots) != 2 {
		return nil
	}
	return &BracketMatchup{
		ID:     "third-place",
		Home:   slots[0],
		Away:   slots[1],
		Status: RoundPending,
	}
}

// PlayoffPreview returns the live bracket, or projects one from the
// standings through the week before the first playoff week
func (e *Engine) PlayoffPreview(st *State) (*PlayoffView, error) {
	if !st.Playoffs.Enabled {
		return nil, configErrorf("playoffs are not enabled for this league")
	}
	if st.Bracket != nil {
		return &PlayoffView{Config: st.Playoffs, Phase: st.Phase, Started: true, Bracket: st.Bracket}, nil
	}

	first := st.Playoffs.Weeks[0]
	return &PlayoffView{
		Config:  st.Playoffs,
		Phase:   st.Phase,
		Started: false,
		Bracket: newBracket(st.Playoffs, st.Standings(first)),
	}, nil
}
