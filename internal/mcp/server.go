package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/handlers"
	"github.com/sirupsen/logrus"
)

const (
	serverName    = "Fantasy Hoops League"
	serverVersion = "1.0.0"
)

// ToolFunc handles one tool call
type ToolFunc func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)

// Registry pairs tool definitions with their handlers in listing order
type Registry struct {
	tools    []mcp.Tool
	handlers map[string]ToolFunc
}

// Register adds a tool
func (r *Registry) Register(tool mcp.Tool, handle ToolFunc) {
	if r.handlers == nil {
		r.handlers = make(map[string]ToolFunc)
	}
	r.tools = append(r.tools, tool)
	r.handlers[tool.Name] = handle
}

// Tools returns every registered tool definition
func (r *Registry) Tools() []mcp.Tool {
	return r.tools
}

// Call routes a tool call to its handler
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, bool, error) {
	handle, ok := r.handlers[name]
	if !ok {
		return nil, false, nil
	}
	result, err := handle(ctx, args)
	return result, true, err
}

// NewToolRegistry registers every league tool backed by service
func NewToolRegistry(service handlers.LeagueService, logger *logrus.Logger) *Registry {
	leagueHandler := handlers.NewLeagueHandler(service, logger)
	rosterHandler := handlers.NewRosterHandler(service, logger)
	playoffHandler := handlers.NewPlayoffHandler(service, logger)
	scoringHandler := handlers.NewScoringHandler(service, logger)

	r := &Registry{}
	r.Register(leagueHandler.CreateLeagueTool(), leagueHandler.HandleCreateLeague)
	r.Register(leagueHandler.ListLeaguesTool(), leagueHandler.HandleListLeagues)
	r.Register(leagueHandler.GetLeagueTool(), leagueHandler.HandleGetLeague)
	r.Register(leagueHandler.DeleteLeagueTool(), leagueHandler.HandleDeleteLeague)
	r.Register(leagueHandler.ResetLeagueTool(), leagueHandler.HandleResetLeague)

	r.Register(rosterHandler.DraftBoardTool(), rosterHandler.HandleDraftBoard)
	r.Register(rosterHandler.DraftPickTool(), rosterHandler.HandleDraftPick)
	r.Register(rosterHandler.DraftAutoPickTool(), rosterHandler.HandleDraftAutoPick)
	r.Register(rosterHandler.DraftAutoRestTool(), rosterHandler.HandleDraftAutoRest)
	r.Register(rosterHandler.DraftFinalizeTool(), rosterHandler.HandleDraftFinalize)
	r.Register(rosterHandler.RemovePlayerTool(), rosterHandler.HandleRemovePlayer)
	r.Register(rosterHandler.GetRostersTool(), rosterHandler.HandleGetRosters)

	r.Register(leagueHandler.SimulateDayTool(), leagueHandler.HandleSimulateDay)
	r.Register(leagueHandler.ResimulateDayTool(), leagueHandler.HandleResimulateDay)
	r.Register(leagueHandler.AdvanceDayTool(), leagueHandler.HandleAdvanceDay)
	r.Register(leagueHandler.SimulateUntilPlayoffsTool(), leagueHandler.HandleSimulateUntilPlayoffs)
	r.Register(leagueHandler.WeekOverviewTool(), leagueHandler.HandleWeekOverview)
	r.Register(leagueHandler.StandingsTool(), leagueHandler.HandleStandings)

	r.Register(playoffHandler.ConfigurePlayoffsTool(), playoffHandler.HandleConfigurePlayoffs)
	r.Register(playoffHandler.PlayoffPreviewTool(), playoffHandler.HandlePlayoffPreview)
	r.Register(playoffHandler.GetBracketTool(), playoffHandler.HandleGetBracket)

	r.Register(scoringHandler.ListScoringProfilesTool(), scoringHandler.HandleListScoringProfiles)
	r.Register(scoringHandler.UpsertScoringProfileTool(), scoringHandler.HandleUpsertScoringProfile)
	return r
}

// NewLeagueMCPServer creates the MCP server exposing the league tools
func NewLeagueMCPServer(service handlers.LeagueService, logger *logrus.Logger) *server.DefaultServer {
	registry := NewToolRegistry(service, logger)

	s := server.NewDefaultServer(serverName, serverVersion)
	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		tools := registry.Tools()
		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		result, found, err := registry.Call(ctx, name, arguments)
		if found {
			return result, err
		}

		logger.WithField("tool", name).Warn("Unknown tool called")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Type: "text",
					Text: "Unknown tool: " + name,
				},
			},
			IsError: true,
		}, nil
	})

	logger.WithField("tools_count", len(registry.Tools())).Info("All tools registered successfully")
	return s
}
