// Package interval provides the half-open interval primitives shared by slot
// generation, booking validation and calendar coalescing. All three must agree
// on the same overlap semantics, which is why the test lives here and nowhere
// else.
package interval

import (
	"sort"
	"time"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch at a boundary
// (one ends exactly where the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Snap rounds t to the nearest multiple of stepMinutes within the hour,
// zeroing seconds and sub-second precision. Used so drag-and-drop positions
// and generated slot starts always land on the grid.
func Snap(t time.Time, stepMinutes int) time.Time {
	if stepMinutes <= 0 {
		return t.Truncate(time.Minute)
	}
	step := time.Duration(stepMinutes) * time.Minute
	return t.Round(step)
}

// Span is an interval attributed to a resource. An empty Key means the span
// belongs to the aggregate "all resources" bucket.
type Span struct {
	Key   string
	Start time.Time
	End   time.Time
}

// MergeAdjacent sorts spans by (key, start) and folds adjacent or overlapping
// spans that share the same key into single contiguous spans. Two spans are
// folded when the earlier one ends at or after the start of the later one.
// The input slice is not modified.
func MergeAdjacent(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Key != sorted[j].Key {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]Span, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if next.Key == current.Key && !current.End.Before(next.Start) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}
