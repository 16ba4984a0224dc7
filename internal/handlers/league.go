package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// LeagueHandler handles league lifecycle and season progression tools
type LeagueHandler struct {
	service LeagueService
	logger  *logrus.Logger
}

// NewLeagueHandler creates a new league handler
func NewLeagueHandler(service LeagueService, logger *logrus.Logger) *LeagueHandler {
	return &LeagueHandler{
		service: service,
		logger:  logger,
	}
}

// CreateLeagueTool returns the MCP tool definition for create_league
func (h *LeagueHandler) CreateLeagueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_league",
		Description: "Create a fantasy basketball league over the cached NBA season. Bots draft immediately unless user_team_name is given, in which case an interactive draft opens for that team.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_name":     stringProperty("Display name of the league", true),
				"team_count":      integerProperty("Number of fantasy teams (default 12)", false),
				"roster_size":     integerProperty("Players per roster (default 13)", false),
				"scoring_profile": stringProperty("Scoring profile key (default: the registry default)", false),
				"user_team_name":  stringProperty("Name of the team you will draft interactively", false),
				"team_names": map[string]interface{}{
					"type":        "array",
					"description": "Names for the other teams, used before the built-in name pool",
					"items": map[string]interface{}{
						"type": "string",
					},
					"required": false,
				},
				"playoffs": map[string]interface{}{
					"type":        "object",
					"description": "Optional playoff format: {enabled, teams (4, 6 or 8), weeks (contiguous week indices), reseed, consolation}",
					"required":    false,
				},
			},
		},
	}
}

// HandleCreateLeague handles the create_league tool call
func (h *LeagueHandler) HandleCreateLeague(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling create_league")

	var req league.CreateLeagueRequest
	if err := decodeArgs(args, &req); err != nil {
		return failure(h.logger, "create league", "", err), nil
	}

	st, err := h.service.CreateLeague(ctx, req)
	if err != nil {
		return failure(h.logger, "create league", "", err), nil
	}

	draftNote := "rosters drafted by bots"
	if st.DraftActive() {
		draftNote = fmt.Sprintf("interactive draft open for '%s'", st.UserTeam)
	}
	return success(h.logger, leagueDetails(st, false),
		fmt.Sprintf("Created league '%s' (%s) - %d teams, %d-man rosters, %s scoring, %d weeks, %s",
			st.Name, st.ID, st.TeamCount, st.RosterSize, st.ScoringProfileName, len(st.Weeks), draftNote),
		leagueMetadata(st)), nil
}

// ListLeaguesTool returns the MCP tool definition for list_leagues
func (h *LeagueHandler) ListLeaguesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_leagues",
		Description: "List every saved league with its phase and latest simulated date",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleListLeagues handles the list_leagues tool call
func (h *LeagueHandler) HandleListLeagues(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling list_leagues")

	summaries, err := h.service.ListLeagues(ctx)
	if err != nil {
		return failure(h.logger, "list leagues", "", err), nil
	}
	return success(h.logger, summaries, fmt.Sprintf("Found %d leagues", len(summaries)), metadata("")), nil
}

// GetLeagueTool returns the MCP tool definition for get_league
func (h *LeagueHandler) GetLeagueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_league",
		Description: "Get a league's settings, calendar position, weeks, standings and optionally its full simulation history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id":       leagueIDProperty(),
				"include_history": booleanProperty("Include every simulated day record (default false)"),
			},
		},
	}
}

// HandleGetLeague handles the get_league tool call
func (h *LeagueHandler) HandleGetLeague(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_league")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "get league", "", err), nil
	}
	includeHistory, err := optionalBool(args, "include_history")
	if err != nil {
		return failure(h.logger, "get league", leagueID, err), nil
	}

	st, err := h.service.GetLeague(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "get league", leagueID, err), nil
	}

	current := "season complete"
	if date, ok := st.CurrentDate(); ok {
		current = "current date " + date
	}
	return success(h.logger, leagueDetails(st, includeHistory),
		fmt.Sprintf("League '%s' (%s) - %s phase, %s, %d of %d days simulated",
			st.Name, st.ID, st.Phase, current, len(st.History), len(st.Calendar)),
		leagueMetadata(st)), nil
}

// DeleteLeagueTool returns the MCP tool definition for delete_league
func (h *LeagueHandler) DeleteLeagueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_league",
		Description: "Permanently delete a league",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleDeleteLeague handles the delete_league tool call
func (h *LeagueHandler) HandleDeleteLeague(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling delete_league")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "delete league", "", err), nil
	}
	if err := h.service.DeleteLeague(ctx, leagueID); err != nil {
		return failure(h.logger, "delete league", leagueID, err), nil
	}
	return success(h.logger, map[string]interface{}{"deleted": leagueID},
		fmt.Sprintf("Deleted league %s", leagueID), metadata(leagueID)), nil
}

// ResetLeagueTool returns the MCP tool definition for reset_league
func (h *LeagueHandler) ResetLeagueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reset_league",
		Description: "Restart a league's season: clears history, rebuilds the calendar and redrafts rosters (or reopens the interactive draft)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleResetLeague handles the reset_league tool call
func (h *LeagueHandler) HandleResetLeague(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling reset_league")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "reset league", "", err), nil
	}
	st, err := h.service.Reset(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "reset league", leagueID, err), nil
	}
	return success(h.logger, leagueDetails(st, false),
		fmt.Sprintf("Reset league '%s' to the start of its %d-day calendar", st.Name, len(st.Calendar)),
		leagueMetadata(st)), nil
}
