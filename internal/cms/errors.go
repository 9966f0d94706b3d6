package cms

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuery is returned when Query is called without a query string.
	ErrEmptyQuery = errors.New("graphql query is empty")

	// ErrMissingProjects marks a payload without a projects collection.
	// An empty collection is valid and does not produce this error.
	ErrMissingProjects = errors.New("payload has no projects collection")
)

// TransportError describes a failed GraphQL round trip: network failure,
// unparseable envelope, GraphQL-reported errors or a non-success status.
type TransportError struct {
	StatusCode int
	Status     string
	// Messages holds the GraphQL "errors" messages, or the body "message"
	// field for non-success responses.
	Messages []string
	// graphQL is set when Messages came from the "errors" array.
	graphQL bool
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return "GraphQL error: " + e.Err.Error()
	case e.graphQL:
		return "GraphQL error: " + strings.Join(e.Messages, "; ")
	case len(e.Messages) > 0:
		return fmt.Sprintf("GraphQL error: %d %s - %s", e.StatusCode, e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("GraphQL error: %d %s", e.StatusCode, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DataError reports a payload that is structurally invalid.
type DataError struct {
	// Slug identifies the offending project when known.
	Slug string
	Err  error
}

func (e *DataError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("invalid project %q: %v", e.Slug, e.Err)
	}
	return "invalid payload: " + e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}
