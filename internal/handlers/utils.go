package handlers

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

const (
	responseSource = "league_engine"

	// ErrTypeInvalidArguments marks tool calls with missing or malformed arguments
	ErrTypeInvalidArguments = "invalid_arguments"
	// ErrTypeInternal marks failures that carry no league classification
	ErrTypeInternal = "internal_error"
)

// argumentError is a tool argument problem found before the service is called
type argumentError struct {
	message string
}

func (e *argumentError) Error() string {
	return e.message
}

func invalidArgs(format string, args ...interface{}) error {
	return &argumentError{message: fmt.Sprintf(format, args...)}
}

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: isError,
	}
}

// respond renders response as the tool result
func respond(logger *logrus.Logger, response APIResponse) *mcp.CallToolResult {
	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		logger.WithError(err).Error("Failed to format response")
		return textResult(fmt.Sprintf("Error formatting response: %s", err.Error()), true)
	}
	return textResult(jsonResponse, !response.Success)
}

func success(logger *logrus.Logger, data interface{}, summary string, metadata Metadata) *mcp.CallToolResult {
	return respond(logger, APIResponse{
		Success:  true,
		Data:     data,
		Summary:  summary,
		Metadata: metadata,
	})
}

// failure reports err as an error result classified by its league error type
func failure(logger *logrus.Logger, action, leagueID string, err error) *mcp.CallToolResult {
	errType := league.ErrorType(err)
	var argErr *argumentError
	switch {
	case errors.As(err, &argErr):
		errType = ErrTypeInvalidArguments
	case errType == "":
		errType = ErrTypeInternal
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"league_id":  leagueID,
		"error_type": errType,
	})
	if errType == ErrTypeInternal || errType == league.ErrTypeUnavailable {
		entry.Errorf("Failed to %s", action)
	} else {
		entry.Warnf("Failed to %s", action)
	}

	return respond(logger, APIResponse{
		Success:   false,
		Summary:   fmt.Sprintf("Failed to %s", action),
		Error:     err.Error(),
		ErrorType: errType,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    responseSource,
			LeagueID:  leagueID,
		},
	})
}

func metadata(leagueID string) Metadata {
	return Metadata{
		Timestamp: time.Now(),
		Source:    responseSource,
		LeagueID:  leagueID,
	}
}

func leagueMetadata(st *league.State) Metadata {
	meta := metadata(st.ID)
	meta.Version = st.Version
	meta.Phase = string(st.Phase)
	if date, ok := st.CurrentDate(); ok {
		meta.CurrentDate = date
	}
	return meta
}

// requireString returns a non-empty string argument
func requireString(args map[string]interface{}, key string) (string, error) {
	raw, exists := args[key]
	if !exists {
		return "", invalidArgs("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", invalidArgs("%s is required and must be a string", key)
	}
	return strings.TrimSpace(value), nil
}

func optionalString(args map[string]interface{}, key string) (string, error) {
	raw, exists := args[key]
	if !exists || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", invalidArgs("%s must be a string", key)
	}
	return strings.TrimSpace(value), nil
}

// optionalInt returns an integer argument. JSON numbers arrive as float64.
func optionalInt(args map[string]interface{}, key string) (int, bool, error) {
	raw, exists := args[key]
	if !exists || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false, invalidArgs("%s must be a whole number", key)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	}
	return 0, false, invalidArgs("%s must be a number", key)
}

func optionalBool(args map[string]interface{}, key string) (bool, error) {
	raw, exists := args[key]
	if !exists || raw == nil {
		return false, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, invalidArgs("%s must be a boolean", key)
	}
	return value, nil
}

// decodeArgs maps the raw tool arguments onto a request struct by its json tags
func decodeArgs(args map[string]interface{}, target interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return invalidArgs("failed to read arguments: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return invalidArgs("invalid arguments: %v", err)
	}
	return nil
}

func stringProperty(description string, required bool) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"required":    required,
	}
}

func integerProperty(description string, required bool) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"required":    required,
	}
}

func booleanProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": description,
		"required":    false,
	}
}

func leagueIDProperty() map[string]interface{} {
	return stringProperty("The league ID returned by create_league", true)
}
