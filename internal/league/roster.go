package league

import (
	"fmt"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/draft"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
	"github.com/sirupsen/logrus"
)

// DefaultBoardSize is how many available players a draft board lists
const DefaultBoardSize = 25

// PlayerView is a player with season averages projected under the league's
// scoring profile
type PlayerView struct {
	PlayerID      int     `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Team          string  `json:"team"`
	GamesPlayed   int     `json:"games_played"`
	FantasyPoints float64 `json:"projected_fantasy_points"`
}

// DraftBoard is the interactive draft's current view
type DraftBoard struct {
	Status         draft.Status `json:"status"`
	UserTeam       string       `json:"user_team"`
	RosterSize     int          `json:"roster_size"`
	RemainingSlots int          `json:"remaining_slots"`
	UserRoster     []PlayerView `json:"user_roster"`
	Available      []PlayerView `json:"available"`
}

// TeamRoster is one team's roster with player details
type TeamRoster struct {
	Team    string       `json:"team"`
	User    bool         `json:"user_team"`
	Players []PlayerView `json:"players"`
}

// DraftBoard lists the best available players and the user's picks
func (e *Engine) DraftBoard(st *State, limit int) (*DraftBoard, error) {
	if st.Draft == nil {
		return nil, stateErrorf("this league has no interactive draft")
	}
	if limit <= 0 {
		limit = DefaultBoardSize
	}
	directory, err := e.playerProjections(st)
	if err != nil {
		return nil, err
	}

	available := st.Draft.Available(st.Rosters)
	if len(available) > limit {
		available = available[:limit]
	}
	return &DraftBoard{
		Status:         st.Draft.Status,
		UserTeam:       st.Draft.UserTeam,
		RosterSize:     st.Draft.RosterSize,
		RemainingSlots: st.Draft.RemainingSlots(st.Rosters),
		UserRoster:     viewsFor(directory, st.Rosters[st.Draft.UserTeam]),
		Available:      viewsFor(directory, available),
	}, nil
}

// DraftPick drafts playerID onto the user's team
func (e *Engine) DraftPick(st *State, playerID int) (*PlayerView, error) {
	if err := st.Draft.Pick(st.Rosters, playerID); err != nil {
		return nil, classify(err)
	}
	return e.pickedPlayer(st, playerID)
}

// DraftPickByName drafts the best available match for a player name
func (e *Engine) DraftPickByName(st *State, name string) (*PlayerView, error) {
	if !st.DraftActive() {
		return nil, classify(draft.ErrDraftInactive)
	}
	logs, _, err := e.loadData()
	if err != nil {
		return nil, err
	}

	availableSet := make(map[int]bool)
	for _, id := range st.Draft.Available(st.Rosters) {
		availableSet[id] = true
	}
	var pool []stats.PlayerStatRow
	for _, row := range stats.SeasonAverages(logs) {
		if availableSet[row.PlayerID] {
			pool = append(pool, row)
		}
	}

	matches := draft.SearchPlayers(pool, name, 1)
	if len(matches) == 0 {
		return nil, notFoundf("no available player matches '%s'", name)
	}
	return e.DraftPick(st, matches[0].PlayerID)
}

// DraftAutoPick makes one bot pick for the user's team
func (e *Engine) DraftAutoPick(st *State) (*PlayerView, error) {
	rng, unlock := e.botRand()
	playerID, err := st.Draft.BotPick(st.Rosters, rng)
	unlock()
	if err != nil {
		return nil, classify(err)
	}
	return e.pickedPlayer(st, playerID)
}

// DraftAutoRest fills the user's roster with bot picks and finalizes the draft
func (e *Engine) DraftAutoRest(st *State) error {
	if !st.DraftActive() {
		return classify(draft.ErrDraftInactive)
	}
	rng, unlock := e.botRand()
	rosters, err := st.Draft.AutoDraftRest(st.Rosters, st.TeamNames, rng, e.now())
	unlock()
	if err != nil {
		return classify(err)
	}
	e.completeDraft(st, rosters)
	return nil
}

// FinalizeDraft auto-drafts the other teams once the user's roster is full
func (e *Engine) FinalizeDraft(st *State) error {
	if !st.DraftActive() {
		return classify(draft.ErrDraftInactive)
	}
	rosters, err := st.Draft.Finalize(st.Rosters, st.TeamNames, e.now())
	if err != nil {
		return classify(err)
	}
	e.completeDraft(st, rosters)
	return nil
}

func (e *Engine) completeDraft(st *State, rosters map[string][]int) {
	st.Rosters = rosters
	st.RebuildWeeklyResults()
	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"user_team": st.UserTeam,
		"teams":     len(rosters),
	}).Info("Draft completed")
}

// RemovePlayer drops a player from the user's roster
func (e *Engine) RemovePlayer(st *State, playerID int) error {
	if st.UserTeam == "" {
		return stateErrorf("this league has no user team")
	}
	roster := st.Rosters[st.UserTeam]
	index := -1
	for i, id := range roster {
		if id == playerID {
			index = i
			break
		}
	}
	if index < 0 {
		return notFoundf("player %d is not on %s's roster", playerID, st.UserTeam)
	}

	st.Rosters[st.UserTeam] = append(roster[:index:index], roster[index+1:]...)
	if st.Draft != nil {
		st.Draft.UserPicks = removeID(st.Draft.UserPicks, playerID)
		st.Draft.TakenIDs = removeID(st.Draft.TakenIDs, playerID)
	}

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"player_id": playerID,
		"team":      st.UserTeam,
	}).Info("Removed player from roster")
	return nil
}

// Rosters returns every team's roster in team order
func (e *Engine) Rosters(st *State) ([]TeamRoster, error) {
	directory, err := e.playerProjections(st)
	if err != nil {
		return nil, err
	}
	rosters := make([]TeamRoster, 0, len(st.TeamNames))
	for _, team := range st.TeamNames {
		rosters = append(rosters, TeamRoster{
			Team:    team,
			User:    team == st.UserTeam,
			Players: viewsFor(directory, st.Rosters[team]),
		})
	}
	return rosters, nil
}

func (e *Engine) pickedPlayer(st *State, playerID int) (*PlayerView, error) {
	directory, err := e.playerProjections(st)
	if err != nil {
		return nil, err
	}
	view := viewsFor(directory, []int{playerID})[0]

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"player_id": playerID,
		"remaining": st.Draft.RemainingSlots(st.Rosters),
	}).Info("Drafted player")
	return &view, nil
}

// playerProjections projects every player's season averages under the
// league's scoring profile
func (e *Engine) playerProjections(st *State) (map[int]PlayerView, error) {
	logs, _, err := e.loadData()
	if err != nil {
		return nil, err
	}
	profile, err := e.resolveProfile(st, "")
	if err != nil {
		return nil, err
	}

	averages := stats.SeasonAverages(logs)
	scored, err := scoring.ComputeFantasyPoints(averages, profile.Weights)
	if err != nil {
		return nil, classify(err)
	}
	directory := make(map[int]PlayerView, len(scored))
	for _, row := range scored {
		directory[row.PlayerID] = PlayerView{
			PlayerID:      row.PlayerID,
			PlayerName:    row.PlayerName,
			Team:          row.Team,
			GamesPlayed:   row.GamesPlayed,
			FantasyPoints: row.FantasyPoints,
		}
	}
	return directory, nil
}

func viewsFor(directory map[int]PlayerView, ids []int) []PlayerView {
	views := make([]PlayerView, 0, len(ids))
	for _, id := range ids {
		view, ok := directory[id]
		if !ok {
			view = PlayerView{PlayerID: id, PlayerName: fmt.Sprintf("Player %d", id)}
		}
		views = append(views, view)
	}
	return views
}

func removeID(ids []int, id int) []int {
	kept := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
