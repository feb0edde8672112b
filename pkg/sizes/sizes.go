// Package sizes defines the golden-ratio size ladder shared by the whole
// app. Every sphere radius is BaseRadius scaled by a power of Phi; no other
// size constants exist.
package sizes

import "math"

// Phi is the golden ratio.
const Phi = 1.6180339887498948

// BaseRadius is the radius of the exponent-0 sphere in world units.
const BaseRadius = 0.35

// ladder is the fixed ordered set of exponents. Adjacency is defined by
// position in this slice, not by numeric difference, so the ladder could be
// made non-contiguous without touching any caller.
var ladder = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

// palette assigns one distinct hue per ladder position.
var palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6", "#E74C3C",
	"#1ABC9C", "#F39C12", "#3498DB", "#D35400", "#27AE60",
}

// index maps exponent -> ladder position.
var index = func() map[int]int {
	m := make(map[int]int, len(ladder))
	for i, e := range ladder {
		m[e] = i
	}
	return m
}()

// Count returns the number of entries in the ladder.
func Count() int {
	return len(ladder)
}

// Exponents returns the ladder in order. The returned slice is a copy.
func Exponents() []int {
	out := make([]int, len(ladder))
	copy(out, ladder)
	return out
}

// Valid reports whether exp is a ladder exponent.
func Valid(exp int) bool {
	_, ok := index[exp]
	return ok
}

// IndexOf returns the ladder position of exp, or -1 if exp is not in the
// ladder.
func IndexOf(exp int) int {
	i, ok := index[exp]
	if !ok {
		return -1
	}
	return i
}

// RadiusOf returns the radius for a ladder exponent: BaseRadius * Phi^exp.
func RadiusOf(exp int) float64 {
	return BaseRadius * math.Pow(Phi, float64(exp))
}

// ColorOf returns the display color for a ladder exponent, or white for an
// exponent outside the ladder.
func ColorOf(exp int) string {
	i, ok := index[exp]
	if !ok {
		return "#FFFFFF"
	}
	return palette[i]
}

// AdjacencyDistance returns the absolute distance between two exponents'
// ladder positions. Exponents outside the ladder yield -1, which no caller
// treats as adjacent.
func AdjacencyDistance(e1, e2 int) int {
	i1, ok1 := index[e1]
	i2, ok2 := index[e2]
	if !ok1 || !ok2 {
		return -1
	}
	d := i1 - i2
	if d < 0 {
		d = -d
	}
	return d
}
