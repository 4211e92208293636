package mealplan

import (
	"errors"
	"sort"
	"strings"
)

const (
	// AnyCuisine is the wildcard selection; it is exclusive with concrete cuisines.
	AnyCuisine = "any"
	// MaxCuisines caps the number of concrete cuisines in one selection.
	MaxCuisines = 5
)

// ErrCuisineLimit is returned when selecting past MaxCuisines.
var ErrCuisineLimit = errors.New("at most 5 cuisines may be selected")

// CuisineSelection applies the form rules for the cuisine multi-select.
// The zero value is an "any" selection.
type CuisineSelection struct {
	items []string
}

// NewCuisineSelection applies Select for every value in order.
func NewCuisineSelection(values ...string) (CuisineSelection, error) {
	var sel CuisineSelection
	for _, v := range values {
		if err := sel.Select(v); err != nil {
			return CuisineSelection{}, err
		}
	}
	return sel, nil
}

// Select adds a cuisine. Selecting "any" clears every concrete cuisine;
// a concrete cuisine implicitly clears "any". A sixth concrete cuisine is
// rejected and leaves the selection unchanged.
func (s *CuisineSelection) Select(value string) error {
	v := normalizeTag(value)
	switch {
	case v == "":
		return nil
	case v == AnyCuisine:
		s.items = nil
		return nil
	case s.contains(v):
		return nil
	case len(s.items) >= MaxCuisines:
		return ErrCuisineLimit
	}
	s.items = append(s.items, v)
	return nil
}

// Deselect removes a concrete cuisine. Removing the last one yields "any".
func (s *CuisineSelection) Deselect(value string) {
	v := normalizeTag(value)
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

// IsAny reports whether no concrete cuisine is selected.
func (s CuisineSelection) IsAny() bool {
	return len(s.items) == 0
}

// Values returns the concrete cuisines sorted, or nil for "any".
func (s CuisineSelection) Values() []string {
	if len(s.items) == 0 {
		return nil
	}
	out := append([]string(nil), s.items...)
	sort.Strings(out)
	return out
}

func (s CuisineSelection) contains(v string) bool {
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

func normalizeTag(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
