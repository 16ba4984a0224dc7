package mcp

import (
	"context"
	"testing"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/dataset"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/store"
	"github.com/sirupsen/logrus/hooks/test"
)

func newService(t *testing.T) *league.Service {
	t.Helper()
	logger, _ := test.NewNullLogger()
	engine := league.NewEngine(scoring.NewDefaultRegistry(), &dataset.Static{}, logger)
	return league.NewService(engine, store.NewMemoryStore(), logger)
}

func TestToolRegistry(t *testing.T) {
	logger, _ := test.NewNullLogger()
	registry := NewToolRegistry(newService(t), logger)

	expected := []string{
		"create_league", "list_leagues", "get_league", "delete_league", "reset_league",
		"draft_board", "draft_pick", "draft_auto_pick", "draft_auto_rest", "draft_finalize",
		"remove_player", "get_rosters", "simulate_day", "resimulate_day", "advance_day",
		"simulate_until_playoffs", "week_overview", "standings", "configure_playoffs",
		"playoff_preview", "get_bracket", "list_scoring_profiles", "upsert_scoring_profile",
	}

	tools := registry.Tools()
	if len(tools) != len(expected) {
		t.Fatalf("Expected %d tools, got %d", len(expected), len(tools))
	}
	for i, name := range expected {
		if tools[i].Name != name {
			t.Errorf("Expected tool %d to be '%s', got '%s'", i, name, tools[i].Name)
		}
	}
}

func TestToolRegistryCall(t *testing.T) {
	logger, _ := test.NewNullLogger()
	registry := NewToolRegistry(newService(t), logger)
	ctx := context.Background()

	result, found, err := registry.Call(ctx, "list_leagues", map[string]interface{}{})
	if err != nil || !found {
		t.Fatalf("Expected list_leagues to be routed, got found=%v err=%v", found, err)
	}
	if result == nil || result.IsError {
		t.Error("Expected successful list_leagues result")
	}

	if _, found, _ := registry.Call(ctx, "get_league_info", nil); found {
		t.Error("Expected unknown tool to be reported as not found")
	}
}

func TestNewLeagueMCPServer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	if s := NewLeagueMCPServer(newService(t), logger); s == nil {
		t.Fatal("Expected server to be created")
	}
	if hook.LastEntry() == nil || hook.LastEntry().Message != "All tools registered successfully" {
		t.Error("Expected registration to be logged")
	}
}
