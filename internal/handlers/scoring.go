package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sirupsen/logrus"
)

// ScoringHandler handles scoring profile tools
type ScoringHandler struct {
	service LeagueService
	logger  *logrus.Logger
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(service LeagueService, logger *logrus.Logger) *ScoringHandler {
	return &ScoringHandler{
		service: service,
		logger:  logger,
	}
}

// ProfileListing is the list_scoring_profiles payload
type ProfileListing struct {
	Default  string           `json:"default"`
	Profiles []ProfileSummary `json:"profiles"`
}

// ProfileSummary is one scoring profile with its readable description
type ProfileSummary struct {
	scoring.Profile
	Description string `json:"description"`
}

// ListScoringProfilesTool returns the MCP tool definition for list_scoring_profiles
func (h *ScoringHandler) ListScoringProfilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_scoring_profiles",
		Description: "List the scoring profiles leagues can use, with their statistic weights and head-to-head categories",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleListScoringProfiles handles the list_scoring_profiles tool call
func (h *ScoringHandler) HandleListScoringProfiles(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling list_scoring_profiles")

	profiles, defaultKey := h.service.ScoringProfiles()
	listing := ProfileListing{Default: defaultKey, Profiles: make([]ProfileSummary, 0, len(profiles))}
	for _, p := range profiles {
		listing.Profiles = append(listing.Profiles, ProfileSummary{Profile: p, Description: p.Describe()})
	}
	return success(h.logger, listing,
		fmt.Sprintf("%d scoring profiles, default '%s'", len(profiles), defaultKey),
		metadata("")), nil
}

// UpsertScoringProfileTool returns the MCP tool definition for upsert_scoring_profile
func (h *ScoringHandler) UpsertScoringProfileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "upsert_scoring_profile",
		Description: "Create or update a scoring profile. Given weights override existing ones; standard statistics left out default to zero.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"key":  stringProperty("Profile key, e.g. 'bigs_league'", true),
				"name": stringProperty("Display name (default: the key, or the existing name)", false),
				"weights": map[string]interface{}{
					"type":        "object",
					"description": "Statistic weights keyed by statistic, e.g. {\"PTS\": 1, \"TREB\": 1.2, \"TO\": -1}",
					"required":    false,
				},
				"make_default": booleanProperty("Make this the default profile for new leagues"),
			},
		},
	}
}

type upsertProfileArgs struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Weights     map[string]float64 `json:"weights"`
	MakeDefault bool               `json:"make_default"`
}

// HandleUpsertScoringProfile handles the upsert_scoring_profile tool call
func (h *ScoringHandler) HandleUpsertScoringProfile(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling upsert_scoring_profile")

	if _, err := requireString(args, "key"); err != nil {
		return failure(h.logger, "save scoring profile", "", err), nil
	}
	var req upsertProfileArgs
	if err := decodeArgs(args, &req); err != nil {
		return failure(h.logger, "save scoring profile", "", err), nil
	}

	profile, err := h.service.UpsertScoringProfile(req.Key, req.Name, req.Weights, req.MakeDefault)
	if err != nil {
		return failure(h.logger, "save scoring profile", "", err), nil
	}
	return success(h.logger, ProfileSummary{Profile: profile, Description: profile.Describe()},
		fmt.Sprintf("Saved scoring profile '%s'", profile.Key), metadata("")), nil
}
