package actions

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSelectors means an interaction action reached execution without
	// any selector. It is a caller bug, not a page condition.
	ErrNoSelectors = errors.New("interaction action has no selectors")

	// ErrElementNotFound is wrapped by every ResolutionError.
	ErrElementNotFound = errors.New("element not found")

	ErrUnknownKind     = errors.New("unknown action kind")
	ErrUnknownVerb     = errors.New("unknown action verb")
	ErrInvalidParams   = errors.New("invalid action params")
	ErrInvalidSelector = errors.New("invalid selector")
)

// ResolutionError reports that none of the selectors matched an element.
type ResolutionError struct {
	Selectors []Selector
	// Err joins lookup failures reported by the engine, if any.
	Err error
}

func (e *ResolutionError) Error() string {
	tried := make([]string, len(e.Selectors))
	for i, s := range e.Selectors {
		tried[i] = s.String()
	}
	msg := fmt.Sprintf("no element matched selectors [%s]", strings.Join(tried, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrElementNotFound, e.Err}
	}
	return []error{ErrElementNotFound}
}
