package dataset

import (
	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
)

// Static serves game logs and a schedule held in memory
type Static struct {
	Logs  []stats.PlayerStatRow
	Games []calendar.Game
}

func (s *Static) GameLogs() ([]stats.PlayerStatRow, error) {
	return s.Logs, nil
}

func (s *Static) Schedule() ([]calendar.Game, error) {
	return s.Games, nil
}
