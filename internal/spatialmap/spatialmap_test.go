package spatialmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSpanNegativeStartWrapsAndSplits(t *testing.T) {
	// A 4-pixel strip with a span declared as [-2, 4): two pixels "before"
	// index 0 wrap around to the tail of the strip.
	pixels := 4
	start := NewLocation(0, 0)
	end := NewLocation(6, 0)

	m, err := NewBuilder(pixels).AddSpan(-2, 4, start, end).Build()
	require.NoError(t, err)
	require.Len(t, m.Locations(), pixels)

	// splitLocation is where the wrap crosses pixel index 0, at ratio
	// 2/(4-(-2)) = 1/3 along the declared line.
	splitLocation := start.Lerp(end, 1.0/3.0)

	// The wrapped tail starts exactly at the span's start location.
	wrapStart := m.GetPixelLocation(pixels - 2)
	assert.InDelta(t, start.X, wrapStart.X, 1e-9)
	assert.InDelta(t, start.Y, wrapStart.Y, 1e-9)

	// Pixel 0 begins the head half exactly at the split point.
	head := m.GetPixelLocation(0)
	assert.InDelta(t, splitLocation.X, head.X, 1e-9)
	assert.InDelta(t, splitLocation.Y, head.Y, 1e-9)
}

func TestAddSpanNegativeEndIsAnError(t *testing.T) {
	_, err := NewBuilder(10).AddSpan(-5, -1, Location{}, Location{}).Build()
	assert.Error(t, err)
}

func TestBuildErrorsOnUncoveredPixel(t *testing.T) {
	_, err := NewBuilder(10).AddSpan(0, 5, Location{}, Location{}).Build()
	assert.Error(t, err)
}

func TestBuildSucceedsWhenFullyCovered(t *testing.T) {
	m, err := NewBuilder(4).
		AddSpan(0, 2, NewLocation(0, 0), NewLocation(1, 0)).
		AddSpan(2, 4, NewLocation(1, 0), NewLocation(1, 1)).
		Build()
	require.NoError(t, err)
	assert.Len(t, m.Locations(), 4)
}

func TestAddSpanLatchesFirstError(t *testing.T) {
	b := NewBuilder(10).
		AddSpan(-1, -1, Location{}, Location{}).
		AddSpan(0, 5, Location{}, Location{})
	_, err := b.Build()
	assert.Error(t, err)
}
