package ocr

import (
	"image"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-translator/pkg/geometry"
)

func TestDetectionsFromBoxesNormalizesConfidence(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(10, 20, 110, 40), Word: "Hello", Confidence: 87.5},
		{Box: image.Rect(0, 0, 5, 5), Word: "x", Confidence: 120},
		{Box: image.Rect(0, 0, 5, 5), Word: "y", Confidence: -1},
	}

	set := detectionsFromBoxes(boxes)

	require.Len(t, set, 3)
	assert.Equal(t, "Hello", set[0].Text)
	assert.InDelta(t, 0.875, set[0].Confidence, 1e-9)
	assert.Equal(t, geometry.PointInt{X: 10, Y: 20}, set[0].Box.First())
	assert.Equal(t, geometry.PointInt{X: 110, Y: 40}, set[0].Box[2])
	assert.Equal(t, 1.0, set[1].Confidence)
	assert.Equal(t, 0.0, set[2].Confidence)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]gosseract.PageIteratorLevel{
		"":       gosseract.RIL_TEXTLINE,
		"line":   gosseract.RIL_TEXTLINE,
		"WORD":   gosseract.RIL_WORD,
		"block":  gosseract.RIL_BLOCK,
		"para":   gosseract.RIL_PARA,
		"symbol": gosseract.RIL_SYMBOL,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("page")
	assert.Error(t, err)
}

func TestNewEngineRequiresLanguages(t *testing.T) {
	_, err := NewEngine(EngineOptions{})
	assert.Error(t, err)
}
