package registry

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b string
		want float64
	}{
		"identical":            {a: "Death Note", b: "Death Note", want: 1},
		"case and separators":  {a: "Demon.Slayer", b: "demon slayer", want: 1},
		"both empty":           {a: "", b: "", want: 1},
		"one empty":            {a: "Bleach", b: "", want: 0},
		"disjoint":             {a: "abc", b: "xyz", want: 0},
		"extended title":       {a: "Demon Slayer Kimetsu no Yaiba", b: "Demon Slayer", want: 1 - 14.0/36.0},
		"one character suffix": {a: "Show", b: "Show A", want: 1 - 1.0/9.0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := Similarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSimilarity_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.String().Draw(t, "a")
		b := rapid.String().Draw(t, "b")

		ab := Similarity(a, b)
		if ab < 0 || ab > 1 {
			t.Fatalf("Similarity(%q, %q) = %v, out of [0,1]", a, b, ab)
		}
		if ba := Similarity(b, a); math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("Similarity not symmetric: %v vs %v", ab, ba)
		}
		if self := Similarity(a, a); self != 1 {
			t.Fatalf("Similarity(%q, %q) = %v, want 1", a, a, self)
		}
	})
}
