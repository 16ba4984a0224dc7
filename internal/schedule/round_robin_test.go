package schedule

import (
	"fmt"
	"testing"
)

func teamNames(n int) []string {
	teams := make([]string, n)
	for i := range teams {
		teams[i] = fmt.Sprintf("Team %d", i+1)
	}
	return teams
}

func TestRoundRobinEveryPairOnce(t *testing.T) {
	for _, n := range []int{2, 4, 6, 8, 12} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			teams := teamNames(n)
			rounds := RoundRobin(teams)
			if len(rounds) != n-1 {
				t.Fatalf("Expected %d rounds, got %d", n-1, len(rounds))
			}

			seen := make(map[string]int)
			for r, round := range rounds {
				if len(round) != n/2 {
					t.Errorf("Round %d: expected %d pairings, got %d", r, n/2, len(round))
				}
				inRound := make(map[string]bool)
				for _, p := range round {
					if p.Home == p.Away {
						t.Errorf("Round %d: %s plays itself", r, p.Home)
					}
					if inRound[p.Home] || inRound[p.Away] {
						t.Errorf("Round %d: team scheduled twice", r)
					}
					inRound[p.Home], inRound[p.Away] = true, true

					a, b := p.Home, p.Away
					if a > b {
						a, b = b, a
					}
					seen[a+"|"+b]++
				}
			}

			if len(seen) != n*(n-1)/2 {
				t.Errorf("Expected %d distinct pairs, got %d", n*(n-1)/2, len(seen))
			}
			for pair, count := range seen {
				if count != 1 {
					t.Errorf("Pair %s played %d times", pair, count)
				}
			}
		})
	}
}

func TestRoundRobinOddDropsBye(t *testing.T) {
	rounds := RoundRobin(teamNames(5))
	if len(rounds) != 5 {
		t.Fatalf("Expected 5 rounds, got %d", len(rounds))
	}
	for r, round := range rounds {
		if len(round) != 2 {
			t.Errorf("Round %d: expected 2 pairings, got %d", r, len(round))
		}
		for _, p := range round {
			if p.Home == Bye || p.Away == Bye {
				t.Errorf("Round %d: bye pairing leaked: %+v", r, p)
			}
		}
	}
}

func TestRoundRobinDoesNotMutateInput(t *testing.T) {
	teams := teamNames(3)
	RoundRobin(teams)
	if len(teams) != 3 || teams[2] != "Team 3" {
		t.Errorf("Expected input untouched, got %v", teams)
	}
}

func TestWeeklyPairingsFlipsOnRepeat(t *testing.T) {
	teams := teamNames(4)
	cycle := RoundRobin(teams)
	weeks := WeeklyPairings(teams, 8)

	if len(weeks) != 8 {
		t.Fatalf("Expected 8 weeks, got %d", len(weeks))
	}
	for w := 0; w < 3; w++ {
		for i := range cycle[w] {
			if weeks[w][i] != cycle[w][i] {
				t.Errorf("Week %d: expected %+v, got %+v", w, cycle[w][i], weeks[w][i])
			}
			flipped := weeks[w+3][i]
			if flipped.Home != cycle[w][i].Away || flipped.Away != cycle[w][i].Home {
				t.Errorf("Week %d: expected flipped %+v, got %+v", w+3, cycle[w][i], flipped)
			}
		}
	}
	// Third repetition returns to the original orientation
	if weeks[6][0] != cycle[0][0] {
		t.Errorf("Expected week 7 to match round 1, got %+v", weeks[6][0])
	}
}

func TestWeeklyPairingsNoTeams(t *testing.T) {
	weeks := WeeklyPairings(nil, 3)
	if len(weeks) != 3 {
		t.Fatalf("Expected 3 empty weeks, got %d", len(weeks))
	}
	for _, w := range weeks {
		if len(w) != 0 {
			t.Errorf("Expected no pairings, got %v", w)
		}
	}
}
