package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// PlayoffHandler handles playoff configuration and bracket tools
type PlayoffHandler struct {
	service LeagueService
	logger  *logrus.Logger
}

// NewPlayoffHandler creates a new playoff handler
func NewPlayoffHandler(service LeagueService, logger *logrus.Logger) *PlayoffHandler {
	return &PlayoffHandler{
		service: service,
		logger:  logger,
	}
}

// ConfigurePlayoffsTool returns the MCP tool definition for configure_playoffs
func (h *PlayoffHandler) ConfigurePlayoffsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "configure_playoffs",
		Description: "Enable, change or disable single-elimination playoffs. Allowed until the first playoff week starts. 4 teams need 2 weeks; 6 or 8 teams need 3.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
				"enabled":   booleanProperty("Whether the league has playoffs"),
				"teams":     integerProperty("Playoff teams: 4, 6 or 8", false),
				"weeks": map[string]interface{}{
					"type":        "array",
					"description": "Contiguous ascending 1-based week indices, one per round",
					"items": map[string]interface{}{
						"type": "integer",
					},
					"required": false,
				},
				"reseed":      booleanProperty("Re-pair survivors by original seed after every round"),
				"consolation": booleanProperty("Play a third-place game between the semifinal losers"),
			},
		},
	}
}

// HandleConfigurePlayoffs handles the configure_playoffs tool call
func (h *PlayoffHandler) HandleConfigurePlayoffs(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling configure_playoffs")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "configure playoffs", "", err), nil
	}
	var cfg league.PlayoffConfig
	if err := decodeArgs(args, &cfg); err != nil {
		return failure(h.logger, "configure playoffs", leagueID, err), nil
	}

	st, err := h.service.ConfigurePlayoffs(ctx, leagueID, cfg)
	if err != nil {
		return failure(h.logger, "configure playoffs", leagueID, err), nil
	}

	summary := "Playoffs disabled; the season ends after the final week"
	if st.Playoffs.Enabled {
		summary = fmt.Sprintf("Playoffs set: %d teams over weeks %s", st.Playoffs.Teams, joinInts(st.Playoffs.Weeks))
		if st.Bracket != nil {
			summary += " (bracket seeded)"
		}
	}
	return success(h.logger, st.Playoffs, summary, leagueMetadata(st)), nil
}

// PlayoffPreviewTool returns the MCP tool definition for playoff_preview
func (h *PlayoffHandler) PlayoffPreviewTool() mcp.Tool {
	return mcp.Tool{
		Name:        "playoff_preview",
		Description: "Show the playoff bracket: the live bracket once playoffs start, otherwise a projection seeded from current standings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandlePlayoffPreview handles the playoff_preview tool call
func (h *PlayoffHandler) HandlePlayoffPreview(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling playoff_preview")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "preview playoffs", "", err), nil
	}
	view, err := h.service.PlayoffPreview(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "preview playoffs", leagueID, err), nil
	}

	kind := "Projected"
	if view.Started {
		kind = "Live"
	}
	return success(h.logger, view, fmt.Sprintf("%s %s", kind, bracketSummary(view.Bracket)), metadata(leagueID)), nil
}

// GetBracketTool returns the MCP tool definition for get_bracket
func (h *PlayoffHandler) GetBracketTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_bracket",
		Description: "Get the live playoff bracket with round results, eliminations, champion and final placements",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": leagueIDProperty(),
			},
		},
	}
}

// HandleGetBracket handles the get_bracket tool call
func (h *PlayoffHandler) HandleGetBracket(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_bracket")

	leagueID, err := requireString(args, "league_id")
	if err != nil {
		return failure(h.logger, "get bracket", "", err), nil
	}
	bracket, err := h.service.Bracket(ctx, leagueID)
	if err != nil {
		return failure(h.logger, "get bracket", leagueID, err), nil
	}
	return success(h.logger, bracket, bracketSummary(bracket), metadata(leagueID)), nil
}

func bracketSummary(b *league.Bracket) string {
	if b == nil {
		return "bracket unavailable"
	}
	summary := fmt.Sprintf("%d-team bracket, %d rounds, %s", b.Size, len(b.Rounds), b.Status)
	if b.Champion != "" {
		summary += fmt.Sprintf(", champion %s", b.Champion)
	} else if b.CurrentRound > 0 && b.CurrentRound <= len(b.Rounds) {
		summary += fmt.Sprintf(", current round %s", b.Rounds[b.CurrentRound-1].Name)
	}
	return summary
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
