package ocr

import (
	"image"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"screen-translator/pkg/geometry"
)

func det(x, y int, text string, conf float64) Detection {
	return Detection{
		Box:        geometry.QuadFromRect(image.Rect(x, y, x+40, y+12)),
		Text:       text,
		Confidence: conf,
	}
}

func TestConsolidateEmptySet(t *testing.T) {
	assert.Equal(t, "", Consolidate(nil, DefaultThresholds()))
	assert.Equal(t, "", Consolidate(DetectionSet{}, DefaultThresholds()))
}

func TestConsolidateReadingOrder(t *testing.T) {
	set := DetectionSet{
		det(200, 50, "world", 0.9),
		det(10, 50, "hello", 0.9),
		det(10, 10, "Title", 0.9),
	}
	assert.Equal(t, "Title hello world", Consolidate(set, DefaultThresholds()))
}

func TestSortReadingOrderNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	set := make(DetectionSet, 200)
	for i := range set {
		set[i] = det(rng.Intn(50), rng.Intn(50), "word", 0.9)
	}

	sorted := SortReadingOrder(set)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].Box.First(), sorted[i].Box.First()
		assert.False(t, cur.Less(prev), "index %d out of order: %v before %v", i, prev, cur)
	}
	// Input untouched.
	assert.Len(t, set, 200)
}

func TestShortTextConfidenceBoundary(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		text string
		conf float64
		keep bool
	}{
		{"short at boundary dropped", "ok", 0.4, false},
		{"short below dropped", "a", 0.35, false},
		{"short above kept", "ok", 0.41, true},
		{"long at short bar kept", "okay", 0.4, true},
		{"long at boundary dropped", "okay", 0.2, false},
		{"long above kept", "okay", 0.21, true},
		{"blank dropped", "   ", 0.99, false},
		{"two runes non-ascii short", "да", 0.4, false},
		{"three runes non-ascii long", "нет", 0.3, true},
		{"surrounding space trimmed before length", "  a  ", 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keep, th.Keep(det(0, 0, tt.text, tt.conf)))
		})
	}
}

func TestConsolidateFiltersAndJoins(t *testing.T) {
	set := DetectionSet{
		det(0, 0, "  Hello  ", 0.5),
		det(50, 0, "xy", 0.3),
		det(100, 0, "", 0.99),
		det(150, 0, "there   friend", 0.25),
	}
	assert.Equal(t, "Hello there friend", Consolidate(set, DefaultThresholds()))
}

func TestCleanTextPipeCorrection(t *testing.T) {
	assert.Equal(t, "alb", CleanText("a|b"))
	assert.Equal(t, "a b", CleanText("a | b"))
	assert.Equal(t, "a b", CleanText("a   |   b"))
	assert.Equal(t, "He said hello", CleanText("  He\tsaid\n hello "))
	assert.Equal(t, "l", CleanText("|"))
}

func TestConsolidatePipeAcrossDetections(t *testing.T) {
	set := DetectionSet{
		det(0, 0, "left", 0.9),
		det(50, 0, "|", 0.9),
		det(100, 0, "right", 0.9),
		det(0, 30, "he|lo", 0.9),
	}
	out := Consolidate(set, DefaultThresholds())
	assert.Equal(t, "left right hello", out)
	assert.False(t, strings.Contains(out, "|"))
}

func TestDetectionSetHelpers(t *testing.T) {
	set := DetectionSet{det(0, 0, "a", 0.2), det(0, 0, "b", 0.6)}
	assert.False(t, set.AnyAbove(0.6))
	assert.True(t, set.AnyAbove(0.59))
	assert.Equal(t, []float64{0.2, 0.6}, set.Confidences())
}
