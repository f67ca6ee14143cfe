package audit

import (
	"fmt"
	"time"

	"github.com/partslane/backoffice-backend/pkg/types"
)

// Change is one rendered row of a before/after table.
type Change struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// Diff compares two snapshots over the tracked-field table and returns the
// changed rows in table order. Date fields compare by instant, so differing
// string renderings of the same timestamp are not reported as changes.
func Diff(before, after types.JSONMap, fields []TrackedField) []Change {
	changes := make([]Change, 0)
	for _, field := range fields {
		b := stringify(valueAt(before, field.Key))
		a := stringify(valueAt(after, field.Key))
		if equalValues(b, a, field.IsDate) {
			continue
		}

		displayBefore, displayAfter := b, a
		if field.DisplayKey != "" {
			displayBefore = stringify(valueAt(before, field.DisplayKey))
			displayAfter = stringify(valueAt(after, field.DisplayKey))
		}
		changes = append(changes, Change{
			Key:    field.Key,
			Label:  field.Label,
			Before: displayBefore,
			After:  displayAfter,
		})
	}
	return changes
}

// CompareValues reports whether two raw snapshot values are equal, applying
// date normalization when requested.
func CompareValues(a, b any, isDate bool) bool {
	return equalValues(stringify(a), stringify(b), isDate)
}

func equalValues(a, b string, isDate bool) bool {
	if a == b {
		return true
	}
	if !isDate {
		return false
	}
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if !okA || !okB {
		return false
	}
	return ta.Equal(tb)
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func valueAt(snap types.JSONMap, key string) any {
	if snap == nil {
		return nil
	}
	return snap[key]
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		// JSON round-trips numbers as float64.
		return trimFloat(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return s
}
