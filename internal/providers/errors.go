package providers

import (
	"errors"
	"fmt"
)

var ErrNoChaptersFound = errors.New("no chapters found")

type InvalidInputError struct {
	URL    string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.URL == "" {
		return "invalid input: " + e.Reason
	}

	return fmt.Sprintf("invalid input %q: %s", e.URL, e.Reason)
}

// ContentNotFoundError means no content matcher recognized a chapter page.
// Position is 1-based; Total is zero until the caller knows the run size.
type ContentNotFoundError struct {
	Position int
	Total    int
	URL      string
}

func (e *ContentNotFoundError) Error() string {
	if e.Total > 0 {
		return fmt.Sprintf("content not found for chapter %d/%d (%s)", e.Position, e.Total, e.URL)
	}

	return fmt.Sprintf("content not found for chapter %d (%s)", e.Position, e.URL)
}
