package league

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func fourTeamPlayoffs() *PlayoffConfig {
	return &PlayoffConfig{Enabled: true, Teams: 4, Weeks: []int{4, 5}, Consolation: true}
}

func TestFourTeamPlayoffSeason(t *testing.T) {
	engine, st, hook := fourTeamLeague(t, 5, fourTeamPlayoffs())

	simulated, err := engine.SimulateUntilPlayoffs(st)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if simulated != 3 {
		t.Errorf("Expected 3 regular-season days, got %d", simulated)
	}
	if st.Phase != PhasePlayoffs {
		t.Fatalf("Expected phase playoffs, got %s", st.Phase)
	}

	bracket := st.Bracket
	expectedSeeds := []string{"A", "B", "C", "D"}
	for i, team := range expectedSeeds {
		if bracket.Seeds[i].Team != team || bracket.Seeds[i].Seed != i+1 {
			t.Errorf("Expected seed %d to be %s, got %+v", i+1, team, bracket.Seeds[i])
		}
	}

	week4, _ := st.Week(4)
	if !week4.Playoff || len(week4.Matchups) != 2 {
		t.Fatalf("Expected week 4 bound to two playoff matchups, got %+v", week4.Matchups)
	}
	if week4.Matchups[0].ID != "week4-playoff-r1-m1" || week4.Matchups[0].Home != "A" || week4.Matchups[0].Away != "D" {
		t.Errorf("Expected 1 vs 4 in week4-playoff-r1-m1, got %+v", week4.Matchups[0])
	}
	if week4.Matchups[1].Home != "B" || week4.Matchups[1].Away != "C" {
		t.Errorf("Expected 2 vs 3, got %+v", week4.Matchups[1])
	}

	// Semifinal week
	if _, err := engine.SimulateDay(st, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bracket.Rounds[0].Status != RoundCompleted {
		t.Errorf("Expected semifinal round completed, got %s", bracket.Rounds[0].Status)
	}
	final := bracket.Rounds[1]
	if final.Matchups[0].Home.Team != "A" || final.Matchups[0].Away.Team != "B" {
		t.Errorf("Expected final A vs B, got %+v", final.Matchups[0])
	}
	if final.ThirdPlace == nil || final.ThirdPlace.Home.Team != "D" || final.ThirdPlace.Away.Team != "C" {
		t.Errorf("Expected third-place game D vs C, got %+v", final.ThirdPlace)
	}

	if err := engine.AdvanceDay(st); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := engine.SimulateDay(st, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if st.Phase != PhaseFinished {
		t.Fatalf("Expected phase finished, got %s", st.Phase)
	}
	if bracket.Champion != "A" || bracket.Status != BracketCompleted {
		t.Errorf("Expected A champion of a completed bracket, got '%s' (%s)", bracket.Champion, bracket.Status)
	}

	expectedPlacements := []struct {
		team    string
		outcome string
	}{{"A", OutcomeChampion}, {"B", OutcomeRunnerUp}, {"C", OutcomeThirdPlace}, {"D", OutcomeFourthPlace}}
	for i, want := range expectedPlacements {
		got := bracket.Placements[i]
		if got.Place != i+1 || got.Team != want.team || got.Outcome != want.outcome {
			t.Errorf("Place %d: expected %s (%s), got %+v", i+1, want.team, want.outcome, got)
		}
	}

	standings := st.AnnotatedStandings()
	if standings[0].Wins != 3 || standings[0].PlayoffSeed != 1 || standings[0].PlayoffOutcome != OutcomeChampion {
		t.Errorf("Expected playoff weeks excluded from A's 3-0 record, got %+v", standings[0])
	}

	if _, err := engine.SimulateDay(st, ""); !IsStateError(err) {
		t.Errorf("Expected state error simulating a finished league, got %v", err)
	}
	if _, err := engine.ResimulateDay(st, weekDate(4), ""); !IsStateError(err) {
		t.Errorf("Expected state error resimulating a finished league, got %v", err)
	}

	started := false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Playoffs started" && entry.Level == logrus.InfoLevel {
			started = true
		}
	}
	if !started {
		t.Error("Expected a 'Playoffs started' log entry")
	}
}

func TestPlayoffsDoNotStartBeforeFirstWeek(t *testing.T) {
	engine, st, _ := fourTeamLeague(t, 5, fourTeamPlayoffs())

	for i := 0; i < 2; i++ {
		if _, err := engine.SimulateDay(st, ""); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := engine.AdvanceDay(st); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if st.Phase != PhaseRegular || st.Bracket != nil {
		t.Errorf("Expected regular phase without bracket, got %s", st.Phase)
	}

	view, err := engine.PlayoffPreview(st)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if view.Started || len(view.Bracket.Seeds) != 4 {
		t.Errorf("Expected unstarted preview with 4 seeds, got %+v", view)
	}
	if st.Bracket != nil {
		t.Error("Expected preview not to create a bracket")
	}
}

func TestConfigurePlayoffsValidation(t *testing.T) {
	tests := []struct {
		name     string
		cfg      PlayoffConfig
		messages []string
	}{
		{
			name:     "unsupported size and wrong week count",
			cfg:      PlayoffConfig{Enabled: true, Teams: 5, Weeks: []int{4}},
			messages: []string{"must be 4, 6 or 8"},
		},
		{
			name:     "more teams than league",
			cfg:      PlayoffConfig{Enabled: true, Teams: 6, Weeks: []int{3, 4, 5}},
			messages: []string{"exceeds the league's 4 teams"},
		},
		{
			name:     "week count mismatch",
			cfg:      PlayoffConfig{Enabled: true, Teams: 4, Weeks: []int{3, 4, 5}},
			messages: []string{"require 2 playoff weeks, got 3"},
		},
		{
			name:     "non contiguous and outside season",
			cfg:      PlayoffConfig{Enabled: true, Teams: 4, Weeks: []int{4, 9}},
			messages: []string{"contiguous", "week 9 is not part of the 5-week season"},
		},
		{
			name:     "missing weeks",
			cfg:      PlayoffConfig{Enabled: true, Teams: 4},
			messages: []string{"playoff weeks are required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, st, _ := fourTeamLeague(t, 5, nil)
			err := engine.ConfigurePlayoffs(st, tt.cfg)
			if !IsConfigError(err) {
				t.Fatalf("Expected config error, got %v", err)
			}
			for _, msg := range tt.messages {
				if !strings.Contains(err.Error(), msg) {
					t.Errorf("Expected error to mention '%s', got '%s'", msg, err.Error())
				}
			}
			if st.Playoffs.Enabled {
				t.Error("Expected rejected configuration not to be stored")
			}
		})
	}
}

func TestConfigurePlayoffsLockedAfterStart(t *testing.T) {
	engine, st, _ := fourTeamLeague(t, 5, nil)
	if _, err := engine.SimulateDay(st, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err := engine.ConfigurePlayoffs(st, PlayoffConfig{Enabled: true, Teams: 4, Weeks: []int{1, 2}})
	if !IsConfigError(err) {
		t.Errorf("Expected config error for a started first week, got %v", err)
	}

	if err := engine.ConfigurePlayoffs(st, *fourTeamPlayoffs()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := engine.SimulateUntilPlayoffs(st); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := engine.ConfigurePlayoffs(st, PlayoffConfig{Enabled: false}); !IsStateError(err) {
		t.Errorf("Expected state error reconfiguring started playoffs, got %v", err)
	}
}

func TestPlayoffPreviewRequiresPlayoffs(t *testing.T) {
	engine, st, _ := fourTeamLeague(t, 3, nil)
	if _, err := engine.PlayoffPreview(st); !IsConfigError(err) {
		t.Errorf("Expected config error, got %v", err)
	}
}

func TestResolveMatchupTieBreak(t *testing.T) {
	tests := []struct {
		name      string
		home      Slot
		away      Slot
		homeTotal float64
		awayTotal float64
		winner    string
		tieBreak  string
	}{
		{
			name:      "higher total wins",
			home:      Slot{Team: "H", Seed: 1},
			away:      Slot{Team: "V", Seed: 4},
			homeTotal: 90, awayTotal: 95,
			winner: "V",
		},
		{
			name:      "tie goes to better seed",
			home:      Slot{Team: "H", Seed: 4},
			away:      Slot{Team: "V", Seed: 1},
			homeTotal: 80, awayTotal: 80,
			winner: "V", tieBreak: "seed",
		},
		{
			name:      "tie without seeds goes home",
			home:      Slot{Team: "H"},
			away:      Slot{Team: "V"},
			homeTotal: 0, awayTotal: 0,
			winner: "H", tieBreak: "home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bracket{}
			m := &BracketMatchup{Home: tt.home, Away: tt.away}
			b.resolveMatchup(m, tt.homeTotal, tt.awayTotal)
			if m.Winner != tt.winner {
				t.Errorf("Expected winner %s, got %s", tt.winner, m.Winner)
			}
			if m.TieBreak != tt.tieBreak {
				t.Errorf("Expected tie break '%s', got '%s'", tt.tieBreak, m.TieBreak)
			}
			if m.Status != RoundCompleted {
				t.Errorf("Expected matchup completed, got %s", m.Status)
			}
		})
	}
}

func standingsFor(teams ...string) []StandingEntry {
	standings := make([]StandingEntry, len(teams))
	for i, team := range teams {
		standings[i] = StandingEntry{Rank: i + 1, Team: team, Wins: len(teams) - i}
	}
	return standings
}

func TestSixTeamBracketByes(t *testing.T) {
	b := newBracket(PlayoffConfig{Enabled: true, Teams: 6, Weeks: []int{5, 6, 7}}, standingsFor("S1", "S2", "S3", "S4", "S5", "S6", "S7"))

	if len(b.Seeds) != 6 {
		t.Fatalf("Expected 6 seeds, got %d", len(b.Seeds))
	}
	first := b.Rounds[0]
	if len(first.Matchups) != 2 || first.Matchups[0].Home.Team != "S3" || first.Matchups[0].Away.Team != "S6" {
		t.Errorf("Expected 3 vs 6 opening round, got %+v", first.Matchups)
	}
	second := b.Rounds[1]
	if second.Matchups[0].Home.Team != "S1" || second.Matchups[0].Away.Resolved() {
		t.Errorf("Expected seed 1 waiting on a round-one winner, got %+v", second.Matchups[0])
	}
	if b.Rounds[2].Name != "final" || second.Name != "semifinal" || first.Name != "quarterfinal" {
		t.Errorf("Unexpected round names %s/%s/%s", first.Name, second.Name, b.Rounds[2].Name)
	}

	// 6 upsets 3, 4 beats 5
	b.resolveMatchup(&b.Rounds[0].Matchups[0], 10, 20)
	b.resolveMatchup(&b.Rounds[0].Matchups[1], 30, 20)
	b.fillRound(&b.Rounds[1])
	if b.Rounds[1].Matchups[0].Away.Team != "S4" || b.Rounds[1].Matchups[1].Away.Team != "S6" {
		t.Errorf("Expected fixed bracket 1 vs 4/5 winner and 2 vs 3/6 winner, got %+v", b.Rounds[1].Matchups)
	}
}

func TestReseededBracket(t *testing.T) {
	b := newBracket(PlayoffConfig{Enabled: true, Teams: 6, Weeks: []int{5, 6, 7}, Reseed: true}, standingsFor("S1", "S2", "S3", "S4", "S5", "S6"))

	if b.Rounds[1].Matchups[0].Home.Resolved() {
		t.Error("Expected reseeded later rounds to start as placeholders")
	}

	// 6 upsets 3, 4 beats 5
	b.resolveMatchup(&b.Rounds[0].Matchups[0], 10, 20)
	b.Eliminations = append(b.Eliminations, Elimination{Order: 1, Round: 1, Team: "S3", Seed: 3})
	b.resolveMatchup(&b.Rounds[0].Matchups[1], 30, 20)
	b.Eliminations = append(b.Eliminations, Elimination{Order: 2, Round: 1, Team: "S5", Seed: 5})

	b.fillRound(&b.Rounds[1])
	semis := b.Rounds[1].Matchups
	if len(semis) != 2 {
		t.Fatalf("Expected 2 semifinals, got %d", len(semis))
	}
	if semis[0].Home.Team != "S1" || semis[0].Away.Team != "S6" {
		t.Errorf("Expected best seed to face worst remaining, got %s vs %s", semis[0].Home.Team, semis[0].Away.Team)
	}
	if semis[1].Home.Team != "S2" || semis[1].Away.Team != "S4" {
		t.Errorf("Expected 2 vs 4, got %s vs %s", semis[1].Home.Team, semis[1].Away.Team)
	}
}

func TestEightTeamPlayoffSeason(t *testing.T) {
	points := map[int]float64{1: 80, 2: 70, 3: 60, 4: 50, 5: 40, 6: 30, 7: 20, 8: 10}
	engine, _ := newTestEngine(t, fixtureSource(10, points))
	st, err := engine.Create("league-8", CreateLeagueRequest{
		Name:       "Eight",
		TeamCount:  8,
		RosterSize: 1,
		TeamNames:  []string{"A", "B", "C", "D", "E", "F", "G", "H"},
		Playoffs:   &PlayoffConfig{Enabled: true, Teams: 8, Weeks: []int{8, 9, 10}},
	})
	if err != nil {
		t.Fatalf("Failed to create league: %v", err)
	}

	if _, err := engine.SimulateUntilPlayoffs(st); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Phase != PhasePlayoffs {
		t.Fatalf("Expected phase playoffs, got %s", st.Phase)
	}

	week8, _ := st.Week(8)
	expectedFirstRound := [][2]string{{"A", "H"}, {"D", "E"}, {"C", "F"}, {"B", "G"}}
	if len(week8.Matchups) != len(expectedFirstRound) {
		t.Fatalf("Expected %d quarterfinals in week 8, got %+v", len(expectedFirstRound), week8.Matchups)
	}
	for i, pair := range expectedFirstRound {
		m := week8.Matchups[i]
		if m.Home != pair[0] || m.Away != pair[1] {
			t.Errorf("Quarterfinal %d: expected %s vs %s, got %s vs %s", i+1, pair[0], pair[1], m.Home, m.Away)
		}
	}

	bracket := st.Bracket
	if _, err := engine.SimulateDay(st, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	semis := bracket.Rounds[1].Matchups
	if semis[0].Home.Team != "A" || semis[0].Away.Team != "D" {
		t.Errorf("Expected winner of 1v8 to meet winner of 4v5, got %s vs %s", semis[0].Home.Team, semis[0].Away.Team)
	}
	if semis[1].Home.Team != "C" || semis[1].Away.Team != "B" {
		t.Errorf("Expected winner of 3v6 to meet winner of 2v7, got %s vs %s", semis[1].Home.Team, semis[1].Away.Team)
	}

	for week := 9; week <= 10; week++ {
		if err := engine.AdvanceDay(st); err != nil {
			t.Fatalf("Week %d: unexpected error advancing: %v", week, err)
		}
		if _, err := engine.SimulateDay(st, ""); err != nil {
			t.Fatalf("Week %d: unexpected error simulating: %v", week, err)
		}
	}

	if st.Phase != PhaseFinished || bracket.Champion != "A" {
		t.Fatalf("Expected A champion of a finished league, got '%s' (%s)", bracket.Champion, st.Phase)
	}
	if bracket.Rounds[len(bracket.Rounds)-1].ThirdPlace != nil {
		t.Error("Expected no third-place game without consolation")
	}

	expectedPlacements := []struct {
		team    string
		outcome string
	}{
		{"A", OutcomeChampion},
		{"B", OutcomeRunnerUp},
		{"D", "semifinal_loss"},
		{"C", "semifinal_loss"},
		{"H", "quarterfinal_loss"},
		{"E", "quarterfinal_loss"},
		{"F", "quarterfinal_loss"},
		{"G", "quarterfinal_loss"},
	}
	if len(bracket.Placements) != len(expectedPlacements) {
		t.Fatalf("Expected %d placements, got %+v", len(expectedPlacements), bracket.Placements)
	}
	for i, want := range expectedPlacements {
		got := bracket.Placements[i]
		if got.Place != i+1 || got.Team != want.team || got.Outcome != want.outcome {
			t.Errorf("Place %d: expected %s (%s), got %+v", i+1, want.team, want.outcome, got)
		}
	}
}
