package hgr

import (
	"math"
	"strings"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"
)

//////
// Helper functions.
//////

// Floats converts a slice of any integer or floating-point type to a slice
// of float64 values. It is the casting bridge between caller-side numeric
// types and the float64 vectors the estimators consume.
//
// Parameters:
// - v: Slice of numeric values to convert
//
// Returns:
// - []float64: New slice containing float64 versions of the input values
//
// Important notes:
// - Creates a new slice; does not modify the input
// - Preserves order of elements
// - Returns an empty slice if the input is nil or empty
func Floats[T constraints.Integer | constraints.Float](v []T) []float64 {
	out := make([]float64, len(v))

	for i, x := range v {
		out[i] = float64(x)
	}

	return out
}

// normalize lowercases a name and folds dashes and underscores to spaces so
// that aliases like "Trust-Constr" and "trust_constr" parse the same way.
func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	return strings.TrimSpace(name)
}

// popVariance returns the population variance (denominator n, no Bessel
// correction) of v.
func popVariance(v []float64) float64 {
	m := stat.Mean(v, nil)

	var sum float64

	for _, x := range v {
		d := x - m
		sum += d * d
	}

	return sum / float64(len(v))
}

// popStdDev returns the population standard deviation of v.
func popStdDev(v []float64) float64 {
	return math.Sqrt(popVariance(v))
}

// standardize returns (v - mean(v)) / (std(v) + eps) using the population
// standard deviation. The eps guard keeps constant vectors from producing
// NaN: they standardize to the zero vector instead.
func standardize(v []float64, eps float64) []float64 {
	m := stat.Mean(v, nil)
	s := popStdDev(v) + eps

	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = (x - m) / s
	}

	return out
}

// meanProduct returns mean(x * y) for two equal-length vectors.
func meanProduct(x, y []float64) float64 {
	var sum float64

	for i := range x {
		sum += x[i] * y[i]
	}

	return sum / float64(len(x))
}

// gather returns the elements of v at the given indices, in order.
func gather(v []float64, indices []int) []float64 {
	out := make([]float64, len(indices))

	for i, idx := range indices {
		out[i] = v[idx]
	}

	return out
}

// scatter builds a length-n vector that is zero everywhere except at the
// given indices, which receive the values of v in order. It reconstructs
// full-length coefficient vectors after dependent columns were removed.
func scatter(v []float64, indices []int, n int) []float64 {
	out := make([]float64, n)

	for i, idx := range indices {
		out[idx] = v[i]
	}

	return out
}

// sign returns -1, 0, or +1 matching the sign of x. It is the subgradient
// of |x| used by the lasso term.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// checkVectors validates the call-time preconditions shared by every
// estimator entry point: both vectors one-dimensional slices of the same
// length, at least two samples, all entries finite.
func checkVectors(a, b []float64) error {
	if len(a) != len(b) {
		return ErrLengthMismatch
	}

	if len(a) < 2 {
		return ErrTooShort
	}

	for _, v := range [2][]float64{a, b} {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return ErrNonFinite
			}
		}
	}

	return nil
}
