package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
)

// SimulateDayTool returns the MCP tool definition for simulate_day
func (h *LeagueHandler) SimulateDayTool() mcp.Tool {
	return mcp.Tool{
		Name:        "simulate_day",
		Description: "Score the league's current date from the real box scores of that day. The date stays current until advance_day is called.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id":       leagueIDProperty(),
				"scoring_profile": stringProperty("Score this day with another profile instead of the league's own", false),
			},
		},
	}
}

// HandleSimulateDay handles the simulate_day tool call
func (h *LeagueHandler) HandleSimulateDay(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling simulate_day")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "simulate day", "", err), nil
	}
	profile, err := optionalString(args, "scoring_profile")
	if err != nil {
		return failure(h.logger, "simulate day", leagueID, err), nil
	}

	record, st, err := h.service.SimulateDay(ctx, leagueID, profile)
	if err != nil {
		return failure(h.logger, "simulate day", leagueID, err), nil
	}
	return success(h.logger, simulationResult(record, st), daySummary("Simulated", record), leagueMetadata(st)), nil
}

// ResimulateDayTool returns the MCP tool definition for resimulate_day
func (h *LeagueHandler) ResimulateDayTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resimulate_day",
		Description: "Re-score an already simulated date, replacing its previous result. Rosters and scoring changes take effect; repeating it gives the same totals.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id":       leagueIDProperty(),
				"date":            stringProperty("The simulated date to re-score (YYYY-MM-DD)", true),
				"scoring_profile": stringProperty("Score the day with another profile instead of the league's own", false),
			},
		},
	}
}

// HandleResimulateDay handles the resimulate_day tool call
func (h *LeagueHandler) HandleResimulateDay(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling resimulate_day")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "resimulate day", "", err), nil
	}
	date, err := requireString(args, "date")
	if err != nil {
		return failure(h.logger, "resimulate day", leagueID, err), nil
	}
	profile, err := optionalString(args, "scoring_profile")
	if err != nil {
		return failure(h.logger, "resimulate day", leagueID, err), nil
	}

	record, st, err := h.service.ResimulateDay(ctx, leagueID, date, profile)
	if err != nil {
		return failure(h.logger, "resimulate day", leagueID, err), nil
	}
	return success(h.logger, simulationResult(record, st), daySummary("Re-simulated", record), leagueMetadata(st)), nil
}

// AdvanceDayTool returns the MCP tool definition for advance_day
func (h *LeagueHandler) AdvanceDayTool() mcp.Tool {
	return mcp.Tool{
		Name:        "advance_day",
		Description: "Move the league to its next game date. The current date must be simulated first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleAdvanceDay handles the advance_day tool call
func (h *LeagueHandler) HandleAdvanceDay(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling advance_day")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "advance day", "", err), nil
	}
	st, err := h.service.AdvanceDay(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "advance day", leagueID, err), nil
	}

	summary := "Reached the end of the season calendar"
	if date, ok := st.CurrentDate(); ok {
		summary = fmt.Sprintf("Advanced to %s", date)
	}
	if st.Phase == league.PhasePlayoffs {
		summary += " (playoffs)"
	}
	return success(h.logger, progressResult(st, 0), summary, leagueMetadata(st)), nil
}

// SimulateUntilPlayoffsTool returns the MCP tool definition for simulate_until_playoffs
func (h *LeagueHandler) SimulateUntilPlayoffsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "simulate_until_playoffs",
		Description: "Simulate and advance day by day until the regular season ends: playoffs start, or the season finishes when playoffs are disabled",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleSimulateUntilPlayoffs handles the simulate_until_playoffs tool call
func (h *LeagueHandler) HandleSimulateUntilPlayoffs(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling simulate_until_playoffs")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "simulate until playoffs", "", err), nil
	}
	st, simulated, err := h.service.SimulateUntilPlayoffs(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "simulate until playoffs", leagueID, err), nil
	}
	return success(h.logger, progressResult(st, simulated),
		fmt.Sprintf("Simulated %d days; league is now in the %s phase", simulated, st.Phase),
		leagueMetadata(st)), nil
}

// WeekOverviewTool returns the MCP tool definition for week_overview
func (h *LeagueHandler) WeekOverviewTool() mcp.Tool {
	return mcp.Tool{
		Name:        "week_overview",
		Description: "Get every matchup of a week with running totals, daily breakdowns, player contributions and category results",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
				"week":      integerProperty("1-based week index (default: the current week)", false),
			},
		},
	}
}

// HandleWeekOverview handles the week_overview tool call
func (h *LeagueHandler) HandleWeekOverview(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling week_overview")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "get week overview", "", err), nil
	}
	week, _, err := optionalInt(args, "week")
	if err != nil {
		return failure(h.logger, "get week overview", leagueID, err), nil
	}
	if week < 0 {
		return failure(h.logger, "get week overview", leagueID, invalidArgs("week must be positive")), nil
	}

	overview, err := h.service.WeekOverview(ctx, leagueID, week)
	if err != nil {
		return failure(h.logger, "get week overview", leagueID, err), nil
	}
	return success(h.logger, overview,
		fmt.Sprintf("%s (%s to %s) - %s, %d matchups", overview.Name, overview.Start, overview.End, overview.Status, len(overview.Matchups)),
		metadata(leagueID)), nil
}

// StandingsTool returns the MCP tool definition for standings
func (h *LeagueHandler) StandingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "standings",
		Description: "Get regular-season standings ranked by win percentage, wins, point differential and points for, with playoff seeds and outcomes once known",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleStandings handles the standings tool call
func (h *LeagueHandler) HandleStandings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling standings")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "get standings", "", err), nil
	}
	standings, err := h.service.Standings(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "get standings", leagueID, err), nil
	}

	summary := fmt.Sprintf("Standings for %d teams", len(standings))
	if len(standings) > 0 {
		leader := standings[0]
		summary = fmt.Sprintf("%s leads at %d-%d-%d with %.1f points for",
			leader.Team, leader.Wins, leader.Losses, leader.Ties, leader.PointsFor)
	}
	return success(h.logger, standings, summary, metadata(leagueID)), nil
}

func simulationResult(record *league.DayRecord, st *league.State) SimulationResult {
	result := SimulationResult{
		Record:             record,
		AwaitingSimulation: st.AwaitingSimulation,
		Phase:              st.Phase,
	}
	if date, ok := st.CurrentDate(); ok {
		result.CurrentDate = date
	}
	return result
}

func daySummary(verb string, record *league.DayRecord) string {
	summary := fmt.Sprintf("%s %s under %s", verb, record.Date, record.ScoringProfile)
	if len(record.TeamResults) > 0 {
		top := record.TeamResults[0]
		summary += fmt.Sprintf(": %s led with %.1f points", top.Team, top.Total)
	}
	return summary
}
