package spatialmap

import "fmt"

// span is a declared range of pixels whose locations are linearly
// interpolated between two endpoints. startIndex is inclusive, endIndex is
// exclusive.
type span struct {
	startIndex, endIndex       int
	startLocation, endLocation Location
}

func (s span) contains(index int) bool {
	return index >= s.startIndex && index < s.endIndex
}

func (s span) locationAt(index int) Location {
	distance := float64(s.endIndex - s.startIndex)
	ratio := float64(index-s.startIndex) / distance
	return s.startLocation.Lerp(s.endLocation, ratio)
}

// Builder accumulates spans before validating full [0, pixels) coverage and
// producing a Map.
type Builder struct {
	pixels int
	spans  []span
	err    error
}

// NewBuilder starts a spatial map covering pixel indices [0, pixels).
func NewBuilder(pixels int) *Builder {
	return &Builder{pixels: pixels}
}

// AddSpan declares that pixels [startIndex, endIndex) lie on a straight line
// between startLocation and endLocation, inclusive start, exclusive end.
//
// A negative startIndex denotes wrap-around: the span is split at pixel
// index 0 into two concrete spans, preserving the location interpolation by
// splitting it at the ratio the wrap crosses zero. endIndex must never be
// negative.
//
// AddSpan returns the Builder so calls can be chained; the first error
// encountered is latched and surfaces from Build.
func (b *Builder) AddSpan(startIndex, endIndex int, startLocation, endLocation Location) *Builder {
	if b.err != nil {
		return b
	}
	if endIndex < 0 {
		b.err = fmt.Errorf("spatialmap: end index %d cannot be negative", endIndex)
		return b
	}

	if startIndex < 0 {
		ratio := float64(-startIndex) / float64(endIndex-startIndex)
		splitLocation := startLocation.Lerp(endLocation, ratio)

		b.spans = append(b.spans,
			span{startIndex: b.pixels + startIndex, endIndex: b.pixels, startLocation: startLocation, endLocation: splitLocation},
			span{startIndex: 0, endIndex: endIndex, startLocation: splitLocation, endLocation: endLocation},
		)
		return b
	}

	b.spans = append(b.spans, span{startIndex: startIndex, endIndex: endIndex, startLocation: startLocation, endLocation: endLocation})
	return b
}

// Map looks up pixel locations by linearly interpolating within whichever
// declared span contains the index.
type Map struct {
	pixels    int
	spans     []span
	locations []Location
}

// Build validates that every pixel in [0, pixels) is covered by some span and
// materializes the per-pixel location array. Queries outside any declared
// span are a construction-time error, never a query-time failure, per the
// installation's requirement to cover the whole strip.
func (b *Builder) Build() (*Map, error) {
	if b.err != nil {
		return nil, b.err
	}

	locations := make([]Location, b.pixels)
	for i := 0; i < b.pixels; i++ {
		found := false
		for _, s := range b.spans {
			if s.contains(i) {
				locations[i] = s.locationAt(i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("spatialmap: pixel index %d not covered by any span", i)
		}
	}

	return &Map{pixels: b.pixels, spans: b.spans, locations: locations}, nil
}

// GetPixelLocation returns the materialized location of a pixel index.
// index must be within [0, pixels) — this is a programmer error, not a
// domain error, since coverage was already validated at Build time.
func (m *Map) GetPixelLocation(index int) Location {
	return m.locations[index]
}

// Locations returns the materialized per-pixel location array, size P.
func (m *Map) Locations() []Location {
	return m.locations
}
