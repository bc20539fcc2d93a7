package ocr

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Thresholds controls pass selection and per-detection filtering.
type Thresholds struct {
	// HighConfidence accepts the raw pass when any detection exceeds it.
	HighConfidence float64
	// ReprocessFloor is the bar the preprocessed pass must clear somewhere;
	// below it the raw pass is used instead (when FallbackToRaw is set).
	ReprocessFloor float64
	// ShortText is the rune length at or below which ShortMin applies.
	ShortText int
	ShortMin  float64
	LongMin   float64
	// FallbackToRaw reverts to the raw pass when preprocessing found nothing
	// above ReprocessFloor.
	FallbackToRaw bool
}

// DefaultThresholds returns the stock filtering thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighConfidence: 0.6,
		ReprocessFloor: 0.3,
		ShortText:      2,
		ShortMin:       0.4,
		LongMin:        0.2,
		FallbackToRaw:  true,
	}
}

// Keep reports whether a detection survives filtering. Short tokens are
// noisier and need a higher bar.
func (t Thresholds) Keep(d Detection) bool {
	text := strings.TrimSpace(d.Text)
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return false
	}
	if n <= t.ShortText {
		return d.Confidence > t.ShortMin
	}
	return d.Confidence > t.LongMin
}

// SortReadingOrder returns a copy of set ordered by the (y, x) of each
// box's first corner. Ties keep engine order.
func SortReadingOrder(set DetectionSet) DetectionSet {
	sorted := make(DetectionSet, len(set))
	copy(sorted, set)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.First().Less(sorted[j].Box.First())
	})
	return sorted
}

// Consolidate turns a detection set into one cleaned string. An empty
// result means no usable text.
func Consolidate(set DetectionSet, t Thresholds) string {
	var parts []string
	for _, d := range SortReadingOrder(set) {
		if !t.Keep(d) {
			continue
		}
		parts = append(parts, strings.TrimSpace(d.Text))
	}
	if len(parts) == 0 {
		return ""
	}
	return CleanText(strings.Join(parts, " "))
}

// CleanText collapses whitespace and fixes the pipe/"l" OCR confusion.
func CleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " | ", " ")
	s = strings.ReplaceAll(s, "|", "l")
	return strings.TrimSpace(s)
}
