package schedule

// Bye pads an odd team list; pairings against it are dropped
const Bye = "BYE"

// Pairing is one home/away matchup in a round
type Pairing struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// RoundRobin builds one full cycle of rounds using the circle method: the
// first team stays fixed while the others rotate one slot per round.
func RoundRobin(teams []string) [][]Pairing {
	if len(teams) == 0 {
		return nil
	}

	rotation := make([]string, len(teams))
	copy(rotation, teams)
	if len(rotation)%2 != 0 {
		rotation = append(rotation, Bye)
	}

	n := len(rotation)
	if n <= 1 {
		return nil
	}

	rounds := make([][]Pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		pairings := make([]Pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			home, away := rotation[i], rotation[n-1-i]
			if home == Bye || away == Bye {
				continue
			}
			pairings = append(pairings, Pairing{Home: home, Away: away})
		}
		rounds = append(rounds, pairings)

		// Move the last team into slot 1, shifting the rest right
		next := make([]string, 0, n)
		next = append(next, rotation[0], rotation[n-1])
		next = append(next, rotation[1:n-1]...)
		rotation = next
	}
	return rounds
}

// WeeklyPairings stretches the round-robin cycle over weekCount weeks,
// flipping home and away on every second repetition of the cycle.
func WeeklyPairings(teams []string, weekCount int) [][]Pairing {
	if weekCount <= 0 {
		return nil
	}

	weeks := make([][]Pairing, weekCount)
	cycle := RoundRobin(teams)
	if len(cycle) == 0 {
		return weeks
	}

	for w := 0; w < weekCount; w++ {
		base := cycle[w%len(cycle)]
		flip := (w/len(cycle))%2 == 1

		pairings := make([]Pairing, len(base))
		for i, p := range base {
			if flip {
				p = Pairing{Home: p.Away, Away: p.Home}
			}
			pairings[i] = p
		}
		weeks[w] = pairings
	}
	return weeks
}
