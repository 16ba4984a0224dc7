package league

import (
	"errors"
	"fmt"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/draft"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
)

// Error types reported by league operations
const (
	ErrTypeConfig      = "config_error"
	ErrTypeState       = "state_error"
	ErrTypeNotFound    = "not_found"
	ErrTypeUnavailable = "data_unavailable"
	ErrTypeConflict    = "conflict"
)

// Error represents a classified failure from a league operation
type Error struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	LeagueID string `json:"league_id,omitempty"`
	Err      error  `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func configErrorf(format string, args ...interface{}) *Error {
	return &Error{Type: ErrTypeConfig, Message: fmt.Sprintf(format, args...)}
}

func stateErrorf(format string, args ...interface{}) *Error {
	return &Error{Type: ErrTypeState, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) *Error {
	return &Error{Type: ErrTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func unavailable(what string, err error) *Error {
	return &Error{Type: ErrTypeUnavailable, Message: fmt.Sprintf("%s unavailable: %v", what, err), Err: err}
}

// NotFound builds a not-found error for a league id
func NotFound(leagueID string) *Error {
	return &Error{Type: ErrTypeNotFound, Message: fmt.Sprintf("unknown league id '%s'", leagueID), LeagueID: leagueID}
}

// Conflict builds an error for a save that lost a concurrent update
func Conflict(leagueID string, expected, actual int64) *Error {
	return &Error{
		Type:     ErrTypeConflict,
		Message:  fmt.Sprintf("league %s was modified concurrently (expected version %d, found %d)", leagueID, expected, actual),
		LeagueID: leagueID,
	}
}

// ErrorType returns the classification of err, or "" for unclassified errors
func ErrorType(err error) string {
	var leagueErr *Error
	if errors.As(err, &leagueErr) {
		return leagueErr.Type
	}
	return ""
}

func IsConfigError(err error) bool { return ErrorType(err) == ErrTypeConfig }
func IsStateError(err error) bool  { return ErrorType(err) == ErrTypeState }
func IsNotFound(err error) bool    { return ErrorType(err) == ErrTypeNotFound }
func IsUnavailable(err error) bool { return ErrorType(err) == ErrTypeUnavailable }
func IsConflict(err error) bool    { return ErrorType(err) == ErrTypeConflict }

// classify maps errors from the draft and scoring packages onto league errors
func classify(err error) error {
	if err == nil {
		return nil
	}
	var leagueErr *Error
	if errors.As(err, &leagueErr) {
		return err
	}

	var missing *scoring.MissingStatsError
	switch {
	case errors.As(err, &missing),
		errors.Is(err, scoring.ErrUnknownProfile),
		errors.Is(err, scoring.ErrProtectedProfile):
		return &Error{Type: ErrTypeConfig, Message: err.Error(), Err: err}
	case errors.Is(err, draft.ErrUnknownPlayer):
		return &Error{Type: ErrTypeNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, draft.ErrDraftInactive),
		errors.Is(err, draft.ErrRosterFull),
		errors.Is(err, draft.ErrPlayerTaken),
		errors.Is(err, draft.ErrNoPlayersAvailable),
		errors.Is(err, draft.ErrRosterIncomplete):
		return &Error{Type: ErrTypeState, Message: err.Error(), Err: err}
	}
	return err
}

// withLeague stamps the league id onto classified errors
func withLeague(err error, leagueID string) error {
	var leagueErr *Error
	if errors.As(err, &leagueErr) && leagueErr.LeagueID == "" {
		leagueErr.LeagueID = leagueID
	}
	return err
}
