package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// RosterHandler handles the interactive draft and roster tools
type RosterHandler struct {
	service LeagueService
	logger  *logrus.Logger
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(service LeagueService, logger *logrus.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger,
	}
}

// DraftBoardTool returns the MCP tool definition for draft_board
func (h *RosterHandler) DraftBoardTool() mcp.Tool {
	return mcp.Tool{
		Name:        "draft_board",
		Description: "Show the interactive draft: your picks, remaining roster slots and the best available players by projected fantasy points",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
				"limit":     integerProperty("Number of available players to list (default 25)", false),
			},
		},
	}
}

// HandleDraftBoard handles the draft_board tool call
func (h *RosterHandler) HandleDraftBoard(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling draft_board")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "get draft board", "", err), nil
	}
	limit, _, err := optionalInt(args, "limit")
	if err != nil {
		return failure(h.logger, "get draft board", leagueID, err), nil
	}

	board, err := h.service.DraftBoard(ctx, leagueID, limit)
	if err != nil {
		return failure(h.logger, "get draft board", leagueID, err), nil
	}
	return success(h.logger, board,
		fmt.Sprintf("Draft %s for '%s' - %d of %d slots open, showing %d available players",
			board.Status, board.UserTeam, board.RemainingSlots, board.RosterSize, len(board.Available)),
		metadata(leagueID)), nil
}

// DraftPickTool returns the MCP tool definition for draft_pick
func (h *RosterHandler) DraftPickTool() mcp.Tool {
	return mcp.Tool{
		Name:        "draft_pick",
		Description: "Draft a player onto your team by player_id, or by player_name using fuzzy name matching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id":   leagueIDProperty(),
				"player_id":   integerProperty("ID of the player to draft", false),
				"player_name": stringProperty("Name of the player to draft when the ID is not known", false),
			},
		},
	}
}

// HandleDraftPick handles the draft_pick tool call
func (h *RosterHandler) HandleDraftPick(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling draft_pick")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "draft player", "", err), nil
	}
	playerID, hasID, err := optionalInt(args, "player_id")
	if err != nil {
		return failure(h.logger, "draft player", leagueID, err), nil
	}
	name, err := optionalString(args, "player_name")
	if err != nil {
		return failure(h.logger, "draft player", leagueID, err), nil
	}

	var picked *league.PlayerView
	switch {
	case hasID:
		picked, err = h.service.DraftPick(ctx, leagueID, playerID)
	case name != "":
		picked, err = h.service.DraftPickByName(ctx, leagueID, name)
	default:
		err = invalidArgs("player_id or player_name is required")
	}
	if err != nil {
		return failure(h.logger, "draft player", leagueID, err), nil
	}
	return success(h.logger, picked, pickSummary("Drafted", picked), metadata(leagueID)), nil
}

// DraftAutoPickTool returns the MCP tool definition for draft_auto_pick
func (h *RosterHandler) DraftAutoPickTool() mcp.Tool {
	return mcp.Tool{
		Name:        "draft_auto_pick",
		Description: "Let the draft bot make your next pick from the best available players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleDraftAutoPick handles the draft_auto_pick tool call
func (h *RosterHandler) HandleDraftAutoPick(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling draft_auto_pick")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "auto-pick player", "", err), nil
	}
	picked, err := h.service.DraftAutoPick(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "auto-pick player", leagueID, err), nil
	}
	return success(h.logger, picked, pickSummary("Auto-drafted", picked), metadata(leagueID)), nil
}

// DraftAutoRestTool returns the MCP tool definition for draft_auto_rest
func (h *RosterHandler) DraftAutoRestTool() mcp.Tool {
	return mcp.Tool{
		Name:        "draft_auto_rest",
		Description: "Fill your remaining roster slots with bot picks, draft the other teams and close the draft",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleDraftAutoRest handles the draft_auto_rest tool call
func (h *RosterHandler) HandleDraftAutoRest(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling draft_auto_rest")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "complete draft", "", err), nil
	}
	st, err := h.service.DraftAutoRest(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "complete draft", leagueID, err), nil
	}
	return h.rostersResult(ctx, st, "Completed the draft with bot picks")
}

// DraftFinalizeTool returns the MCP tool definition for draft_finalize
func (h *RosterHandler) DraftFinalizeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "draft_finalize",
		Description: "Close the draft once your roster is full; the other teams are drafted by bots",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleDraftFinalize handles the draft_finalize tool call
func (h *RosterHandler) HandleDraftFinalize(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling draft_finalize")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "finalize draft", "", err), nil
	}
	st, err := h.service.FinalizeDraft(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "finalize draft", leagueID, err), nil
	}
	return h.rostersResult(ctx, st, "Finalized the draft")
}

// RemovePlayerTool returns the MCP tool definition for remove_player
func (h *RosterHandler) RemovePlayerTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_player",
		Description: "Drop a player from your team's roster. Days simulated later, and re-simulated days, no longer count the player.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
				"player_id": integerProperty("ID of the player to drop", true),
			},
		},
	}
}

// HandleRemovePlayer handles the remove_player tool call
func (h *RosterHandler) HandleRemovePlayer(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling remove_player")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "remove player", "", err), nil
	}
	playerID, ok, err := optionalInt(args, "player_id")
	if err == nil && !ok {
		err = invalidArgs("player_id is required")
	}
	if err != nil {
		return failure(h.logger, "remove player", leagueID, err), nil
	}

	st, err := h.service.RemovePlayer(ctx, leagueID, playerID)
	if err != nil {
		return failure(h.logger, "remove player", leagueID, err), nil
	}
	return h.rostersResult(ctx, st, fmt.Sprintf("Removed player %d from '%s'", playerID, st.UserTeam))
}

// GetRostersTool returns the MCP tool definition for get_rosters
func (h *RosterHandler) GetRostersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_rosters",
		Description: "Get every team's roster with season-average projections under the league's scoring profile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleGetRosters handles the get_rosters tool call
func (h *RosterHandler) HandleGetRosters(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_rosters")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "get rosters", "", err), nil
	}
	rosters, err := h.service.Rosters(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "get rosters", leagueID, err), nil
	}
	return success(h.logger, rosters, fmt.Sprintf("Rosters for %d teams", len(rosters)), metadata(leagueID)), nil
}

// rostersResult reports a roster change together with the league's rosters
func (h *RosterHandler) rostersResult(ctx context.Context, st *league.State, summary string) (*mcp.CallToolResult, error) {
	rosters, err := h.service.Rosters(ctx, st.ID)
	if err != nil {
		return failure(h.logger, "get rosters", st.ID, err), nil
	}
	return success(h.logger, rosters, summary, leagueMetadata(st)), nil
}

func pickSummary(verb string, picked *league.PlayerView) string {
	return fmt.Sprintf("%s %s (%s, id %d) projected at %.1f fantasy points per game",
		verb, picked.PlayerName, picked.Team, picked.PlayerID, picked.FantasyPoints)
}
