// Package testutil provides shared test infrastructure for the simulator.
// It holds fixture paths and assertion helpers used across sim/ and sim/voi/ tests.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestdataPath resolves a file under the repository's testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// ChiSquarePValue returns the goodness-of-fit p-value of observed counts
// against expected probabilities. Categories with zero expected probability
// must have zero observations and are skipped.
func ChiSquarePValue(t *testing.T, observed []float64, probs []float64) float64 {
	t.Helper()
	if len(observed) != len(probs) {
		t.Fatalf("observed has %d categories, probs has %d", len(observed), len(probs))
	}
	total := 0.0
	for _, o := range observed {
		total += o
	}
	var obs, exp []float64
	for i, p := range probs {
		if p == 0 {
			if observed[i] != 0 {
				t.Errorf("category %d has probability 0 but %v observations", i, observed[i])
			}
			continue
		}
		obs = append(obs, observed[i])
		exp = append(exp, p*total)
	}
	if len(obs) < 2 {
		return 1
	}
	chi2 := stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(len(obs) - 1)}
	return 1 - dist.CDF(chi2)
}
