package store

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
)

// encodeNext bumps st.Version and encodes it, restoring the version if
// encoding fails
func encodeNext(st *league.State) ([]byte, error) {
	st.Version++
	data, err := json.Marshal(st)
	if err != nil {
		st.Version--
		return nil, fmt.Errorf("failed to encode league %s: %w", st.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*league.State, error) {
	var st league.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode league: %w", err)
	}
	return &st, nil
}

func encodeSummary(summary league.Summary) ([]byte, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode league summary %s: %w", summary.ID, err)
	}
	return data, nil
}

func decodeSummary(data []byte) (league.Summary, error) {
	var summary league.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return league.Summary{}, fmt.Errorf("failed to decode league summary: %w", err)
	}
	return summary, nil
}
