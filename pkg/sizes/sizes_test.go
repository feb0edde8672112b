package sizes

import (
	"math"
	"testing"
)

func TestLadderShape(t *testing.T) {
	exps := Exponents()
	if len(exps) != 10 {
		t.Fatalf("ladder length = %d, want 10", len(exps))
	}
	if Count() != len(exps) {
		t.Errorf("Count() = %d, want %d", Count(), len(exps))
	}
	seen := map[int]bool{}
	for i, e := range exps {
		if seen[e] {
			t.Errorf("duplicate exponent %d", e)
		}
		seen[e] = true
		if IndexOf(e) != i {
			t.Errorf("IndexOf(%d) = %d, want %d", e, IndexOf(e), i)
		}
		if !Valid(e) {
			t.Errorf("Valid(%d) = false", e)
		}
	}
}

func TestRadiusGoldenRatioProgression(t *testing.T) {
	exps := Exponents()
	if r := RadiusOf(exps[0]); math.Abs(r-BaseRadius) > 1e-12 {
		t.Errorf("radius of first rung = %f, want %f", r, BaseRadius)
	}
	// Each rung is exactly Phi times the previous one.
	for i := 1; i < len(exps); i++ {
		ratio := RadiusOf(exps[i]) / RadiusOf(exps[i-1])
		if math.Abs(ratio-Phi) > 1e-9 {
			t.Errorf("radius ratio at rung %d = %f, want Phi", i, ratio)
		}
	}
}

func TestColorsDistinct(t *testing.T) {
	seen := map[string]int{}
	for _, e := range Exponents() {
		c := ColorOf(e)
		if c == "" {
			t.Fatalf("ColorOf(%d) returned empty color", e)
		}
		if prev, dup := seen[c]; dup {
			t.Errorf("exponents %d and %d share color %s", prev, e, c)
		}
		seen[c] = e
	}
}

func TestAdjacencyDistance(t *testing.T) {
	exps := Exponents()
	cases := []struct {
		a, b, want int
	}{
		{exps[0], exps[0], 0},
		{exps[0], exps[1], 1},
		{exps[1], exps[0], 1},
		{exps[2], exps[7], 5},
		{exps[0], exps[9], 9},
	}
	for _, c := range cases {
		if got := AdjacencyDistance(c.a, c.b); got != c.want {
			t.Errorf("AdjacencyDistance(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestUnknownExponent(t *testing.T) {
	if Valid(42) {
		t.Error("Valid(42) = true, want false")
	}
	if IndexOf(42) != -1 {
		t.Errorf("IndexOf(42) = %d, want -1", IndexOf(42))
	}
	if AdjacencyDistance(42, 0) != -1 {
		t.Errorf("AdjacencyDistance(42, 0) = %d, want -1", AdjacencyDistance(42, 0))
	}
	if AdjacencyDistance(0, 42) != -1 {
		t.Errorf("AdjacencyDistance(0, 42) = %d, want -1", AdjacencyDistance(0, 42))
	}
}
