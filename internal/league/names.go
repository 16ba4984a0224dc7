package league

import (
	"fmt"
	"strings"
)

var defaultTeamNames = []string{
	"Downtown Dynamos",
	"Fast Break Falcons",
	"Glass Cleaners",
	"Pick and Rollers",
	"Bank Shot Bandits",
	"Triple Threats",
	"Baseline Bombers",
	"Full Court Press",
	"Alley Oop Aces",
	"Sixth Men",
	"Paint Protectors",
	"Buzzer Beaters",
	"Splash Brothers",
	"Crossover Kings",
	"Hardwood Hounds",
	"Shot Clock Stoppers",
}

// DefaultTeamNames returns the built-in team name pool
func DefaultTeamNames() []string {
	return append([]string(nil), defaultTeamNames...)
}

// buildTeamNames produces count unique team names: the user team first,
// then requested names, then the pool, then "Team N" fill-ins. Duplicates
// are dropped case-insensitively.
func buildTeamNames(requested []string, userTeam string, count int, pool []string) []string {
	names := make([]string, 0, count)
	seen := make(map[string]bool, count)
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] || len(names) >= count {
			return
		}
		seen[key] = true
		names = append(names, name)
	}

	add(userTeam)
	for _, name := range requested {
		add(name)
	}
	for _, name := range pool {
		add(name)
	}
	for i := 1; len(names) < count; i++ {
		add(fmt.Sprintf("Team %d", i))
	}
	return names
}
