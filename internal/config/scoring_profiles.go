package config

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
)

// ProfileSettings represents one scoring profile in the settings file
type ProfileSettings struct {
	Name       string                       `json:"name"`
	Weights    map[string]float64           `json:"weights"`
	Categories []scoring.CategoryDefinition `json:"categories,omitempty"`
}

// ScoringProfilesFile represents the entire scoring profile settings file
type ScoringProfilesFile struct {
	Instructions string                     `json:"_instructions,omitempty"`
	Profiles     map[string]ProfileSettings `json:"profiles"`
	Default      string                     `json:"default"`
}

const profilesInstructions = "Scoring profiles keyed by profile key. Weights use statistic keys such as PTS, TREB, AST, 3PM or TO."

var defaultProfilePaths = []string{
	"configs/scoring_profiles.json",
	"../configs/scoring_profiles.json",
	"../../configs/scoring_profiles.json",
}

// LoadScoringProfiles builds the scoring profile registry. When path is empty
// the usual config locations are searched. If no file is found the built-in
// profiles are used. The returned path is the file that was read, or the
// path new profiles should be saved to.
func LoadScoringProfiles(path string) (*scoring.Registry, string, error) {
	candidates := defaultProfilePaths
	if path != "" {
		candidates = []string{path}
	}

	var data []byte
	var foundPath string
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			var readErr error
			data, readErr = os.ReadFile(candidate)
			if readErr == nil {
				foundPath = candidate
				break
			}
		}
	}

	if foundPath == "" {
		return scoring.NewDefaultRegistry(), candidates[0], nil
	}

	var file ScoringProfilesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, foundPath, fmt.Errorf("failed to parse scoring profiles from %s: %w", foundPath, err)
	}

	profiles := make(map[string]scoring.Profile, len(file.Profiles))
	for key, settings := range file.Profiles {
		profiles[key] = scoring.Profile{
			Key:        key,
			Name:       settings.Name,
			Weights:    settings.Weights,
			Categories: settings.Categories,
		}
	}
	defaultKey := file.Default
	if defaultKey == "" {
		defaultKey = scoring.PointsLeague
	}

	registry, err := scoring.NewRegistry(profiles, defaultKey)
	if err != nil {
		return nil, foundPath, fmt.Errorf("invalid scoring profiles in %s: %w", foundPath, err)
	}
	return registry, foundPath, nil
}

// SaveScoringProfiles writes every profile of the registry to path
func SaveScoringProfiles(path string, registry *scoring.Registry) error {
	file := ScoringProfilesFile{
		Instructions: profilesInstructions,
		Profiles:     make(map[string]ProfileSettings),
		Default:      registry.DefaultKey(),
	}
	for _, profile := range registry.List() {
		file.Profiles[profile.Key] = ProfileSettings{
			Name:       profile.Name,
			Weights:    profile.Weights,
			Categories: profile.Categories,
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scoring profiles: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scoring profiles to %s: %w", path, err)
	}
	return nil
}

// ProfileSaver returns a callback that persists the registry to path
func ProfileSaver(path string) func(*scoring.Registry) error {
	return func(registry *scoring.Registry) error {
		return SaveScoringProfiles(path, registry)
	}
}
