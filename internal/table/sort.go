package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ErrUnknownColumn is returned when sorting by a column the table does not define.
var ErrUnknownColumn = errors.New("table: unknown sort column")

// ParseDirection accepts "asc" and "desc" (case-insensitive); empty input means ascending.
func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", fmt.Errorf("table: unknown sort direction %q", value)
	}
}

// SortState is the column a table is sorted by. The zero value is unsorted.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after the user clicks column: a new column sorts
// ascending, the current column flips direction.
func (s SortState) Toggle(column string) SortState {
	if s.Column != column {
		return SortState{Column: column, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Column: column, Direction: Descending}
	}
	return SortState{Column: column, Direction: Ascending}
}

// Sorted reports whether a column is selected.
func (s SortState) Sorted() bool {
	return s.Column != ""
}

// Columns maps column names to comparators returning <0, 0 or >0.
type Columns[T any] map[string]func(a, b T) int

// Sort returns a sorted copy of rows. Equal rows keep their input order in
// both directions. An unsorted state returns the rows unchanged.
func Sort[T any](rows []T, state SortState, columns Columns[T]) ([]T, error) {
	out := slices.Clone(rows)
	if !state.Sorted() {
		return out, nil
	}

	cmp, ok := columns[state.Column]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, state.Column)
	}
	if state.Direction == Descending {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out, nil
}

// Filter returns the rows for which keep is true, in input order.
func Filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// Contains reports whether any of values contains query, ignoring case.
// An empty query matches everything.
func Contains(query string, values ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}
	return false
}
