package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
)

const (
	// PointsLeague is the built-in weighted points profile
	PointsLeague = "points_league"
	// NineCategory is the built-in head-to-head category profile
	NineCategory = "nine_cat"
)

var (
	// ErrUnknownProfile is returned when a profile key is not registered
	ErrUnknownProfile = errors.New("unknown scoring profile")
	// ErrProtectedProfile is returned when deleting the default or last profile
	ErrProtectedProfile = errors.New("scoring profile cannot be removed")
)

// defaultWeightKeys are filled with zero when a profile omits them
var defaultWeightKeys = []string{
	stats.KeyPoints, stats.KeyOffRebounds, stats.KeyDefRebounds, stats.KeyRebounds,
	stats.KeyAssists, stats.KeySteals, stats.KeyBlocks, stats.KeyThreePM, stats.KeyThreePA,
	stats.KeyMinutes, stats.KeyFGM, stats.KeyFGA, stats.KeyFGMiss, stats.KeyFTM, stats.KeyFTA,
	stats.KeyFTMiss, stats.KeyTurnovers, stats.KeyDoubleDouble, stats.KeyTripleDouble, stats.KeyFouls,
}

// Profile represents a named scoring scheme
type Profile struct {
	Key        string               `json:"key"`
	Name       string               `json:"name"`
	Weights    map[string]float64   `json:"weights"`
	Categories []CategoryDefinition `json:"categories,omitempty"`
}

// Describe renders the profile as "Name: PTS(+1), ..." with nonzero weights
func (p Profile) Describe() string {
	var bits []string
	for _, key := range sortedKeys(p.Weights) {
		if p.Weights[key] == 0 {
			continue
		}
		bits = append(bits, fmt.Sprintf("%s(%+g)", key, p.Weights[key]))
	}
	return fmt.Sprintf("%s: %s", p.Name, strings.Join(bits, ", "))
}

func (p Profile) clone() Profile {
	weights := make(map[string]float64, len(p.Weights))
	for k, v := range p.Weights {
		weights[k] = v
	}
	categories := make([]CategoryDefinition, len(p.Categories))
	copy(categories, p.Categories)
	p.Weights = weights
	p.Categories = categories
	return p
}

// DefaultProfiles returns the built-in profiles keyed by profile key
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		PointsLeague: {
			Key:  PointsLeague,
			Name: "Points league (balanced)",
			Weights: withDefaults(map[string]float64{
				stats.KeyPoints:       1.0,
				stats.KeyOffRebounds:  1.2,
				stats.KeyDefRebounds:  1.0,
				stats.KeyAssists:      1.5,
				stats.KeySteals:       3.0,
				stats.KeyBlocks:       3.0,
				stats.KeyThreePM:      1.0,
				stats.KeyFGM:          1.0,
				stats.KeyFGA:          -0.45,
				stats.KeyFTM:          1.0,
				stats.KeyFTA:          -0.75,
				stats.KeyTurnovers:    -1.0,
				stats.KeyDoubleDouble: 3.0,
				stats.KeyTripleDouble: 5.0,
			}),
		},
		NineCategory: {
			Key:  NineCategory,
			Name: "Nine category rotisserie",
			Weights: withDefaults(map[string]float64{
				stats.KeyFGPct:     1.0,
				stats.KeyFTPct:     1.0,
				stats.KeyThreePM:   1.0,
				stats.KeyPoints:    1.0,
				stats.KeyRebounds:  1.0,
				stats.KeyAssists:   1.0,
				stats.KeySteals:    1.0,
				stats.KeyBlocks:    1.0,
				stats.KeyTurnovers: -1.0,
			}),
			Categories: NineCategoryDefinitions(),
		},
	}
}

// NineCategoryDefinitions returns the standard nine head-to-head categories
func NineCategoryDefinitions() []CategoryDefinition {
	return []CategoryDefinition{
		{Key: stats.KeyFGPct, Label: "FG%", Kind: KindPercentage, Numerator: stats.KeyFGM, Denominator: stats.KeyFGA, HigherIsBetter: true, Precision: 3},
		{Key: stats.KeyFTPct, Label: "FT%", Kind: KindPercentage, Numerator: stats.KeyFTM, Denominator: stats.KeyFTA, HigherIsBetter: true, Precision: 3},
		{Key: stats.KeyThreePM, Label: "3PM", Kind: KindSum, Stat: stats.KeyThreePM, HigherIsBetter: true},
		{Key: stats.KeyPoints, Label: "PTS", Kind: KindSum, Stat: stats.KeyPoints, HigherIsBetter: true},
		{Key: stats.KeyRebounds, Label: "REB", Kind: KindSum, Stat: stats.KeyRebounds, HigherIsBetter: true},
		{Key: stats.KeyAssists, Label: "AST", Kind: KindSum, Stat: stats.KeyAssists, HigherIsBetter: true},
		{Key: stats.KeySteals, Label: "STL", Kind: KindSum, Stat: stats.KeySteals, HigherIsBetter: true},
		{Key: stats.KeyBlocks, Label: "BLK", Kind: KindSum, Stat: stats.KeyBlocks, HigherIsBetter: true},
		{Key: stats.KeyTurnovers, Label: "TO", Kind: KindSum, Stat: stats.KeyTurnovers, HigherIsBetter: false},
	}
}

// withDefaults canonicalizes weight keys and fills the standard keys with zero
func withDefaults(weights map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(weights)+len(defaultWeightKeys))
	for _, key := range defaultWeightKeys {
		merged[key] = 0
	}
	for k, v := range weights {
		merged[stats.CanonicalKey(k)] = v
	}
	return merged
}

// Registry holds the scoring profiles available to a process. It is safe
// for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	profiles   map[string]Profile
	defaultKey string
}

// NewRegistry creates a registry over profiles with the given default
func NewRegistry(profiles map[string]Profile, defaultKey string) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, errors.New("at least one scoring profile is required")
	}
	if _, ok := profiles[defaultKey]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownProfile, defaultKey)
	}

	r := &Registry{profiles: make(map[string]Profile, len(profiles)), defaultKey: defaultKey}
	for key, profile := range profiles {
		profile.Key = key
		profile.Weights = withDefaults(profile.Weights)
		r.profiles[key] = profile.clone()
	}
	return r, nil
}

// NewDefaultRegistry returns a registry seeded with the built-in profiles
func NewDefaultRegistry() *Registry {
	r, _ := NewRegistry(DefaultProfiles(), PointsLeague)
	return r
}

// Resolve returns the profile for key, or the default when key is empty
func (r *Registry) Resolve(key string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if key == "" {
		key = r.defaultKey
	}
	profile, ok := r.profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q, known profiles: %s", ErrUnknownProfile, key, strings.Join(r.keysLocked(), ", "))
	}
	return profile.clone(), nil
}

// DefaultKey returns the key used when no profile is requested
func (r *Registry) DefaultKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultKey
}

// List returns every profile ordered by key
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]Profile, 0, len(r.profiles))
	for _, key := range r.keysLocked() {
		profiles = append(profiles, r.profiles[key].clone())
	}
	return profiles
}

// Upsert creates or updates a profile. Supplied weights override the
// existing ones and unspecified standard statistics default to zero.
func (r *Registry) Upsert(key, name string, weights map[string]float64, makeDefault bool) (Profile, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Profile{}, errors.New("scoring profile key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.profiles[key]
	base := map[string]float64{}
	if exists {
		base = existing.Weights
	}
	merged := withDefaults(base)
	for k, v := range weights {
		merged[stats.CanonicalKey(k)] = v
	}

	profile := Profile{Key: key, Name: name, Weights: merged}
	if exists {
		profile.Categories = existing.Categories
		if profile.Name == "" {
			profile.Name = existing.Name
		}
	}
	if profile.Name == "" {
		profile.Name = key
	}

	r.profiles[key] = profile
	if makeDefault {
		r.defaultKey = key
	}
	return profile.clone(), nil
}

// Rename changes a profile's display name
func (r *Registry) Rename(key, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[key]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownProfile, key)
	}
	profile.Name = name
	r.profiles[key] = profile
	return nil
}

// SetDefault makes key the default profile
func (r *Registry) SetDefault(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[key]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownProfile, key)
	}
	r.defaultKey = key
	return nil
}

// Delete removes a profile. The default profile cannot be removed.
func (r *Registry) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[key]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownProfile, key)
	}
	if key == r.defaultKey || len(r.profiles) == 1 {
		return fmt.Errorf("%w: %q is the default profile", ErrProtectedProfile, key)
	}
	delete(r.profiles, key)
	return nil
}

func (r *Registry) keysLocked() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
