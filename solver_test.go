package hgr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveWith(t *testing.T, method Method, a, b []float64, degreeA, degreeB int, lasso float64) ([]float64, []float64, bool) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Method = method
	cfg.Lasso = lasso

	f := kernelMatrix(a, degreeA)
	g := kernelMatrix(b, degreeB)

	return higherOrderCoefficients(cfg, f, g, nil, nil)
}

func TestSolverSatisfiesVarianceConstraint(t *testing.T) {
	a := normalVector(21, 150)
	b := quadraticOf(a, 0.3, 22)

	for _, method := range []Method{MethodTrustRegion, MethodSLSQP} {
		_, beta, converged := solveWith(t, method, a, b, 3, 3, 0)

		require.Len(t, beta, 3)
		assert.True(t, converged, "method %s did not converge", method)

		// The solved projection G*beta must have unit variance.
		gb := matVec(kernelMatrix(b, 3), beta)
		assert.InDelta(t, 1, popVariance(gb), 0.05, "method %s", method)
	}
}

func TestSolverMethodsAgree(t *testing.T) {
	a := normalVector(23, 150)
	b := quadraticOf(a, 0.3, 24)

	cfgTR := DefaultConfig()
	cfgTR.Method = MethodTrustRegion

	cfgSQ := DefaultConfig()
	cfgSQ.Method = MethodSLSQP

	rTR := kbhgr(cfgTR, a, b, 3, 3, nil, nil)
	rSQ := kbhgr(cfgSQ, a, b, 3, 3, nil, nil)

	assert.InDelta(t, rTR.correlation, rSQ.correlation, 0.05)
}

func TestSolverScattersZeroAtDependentIndices(t *testing.T) {
	a := normalVector(25, 120)
	b := binaryVector(26, 120)

	for _, method := range []Method{MethodTrustRegion, MethodSLSQP} {
		alpha, beta, _ := solveWith(t, method, a, b, 2, 2, 0)

		require.Len(t, alpha, 2)
		require.Len(t, beta, 2)

		// The duplicated b^2 column was removed; its coefficient must be
		// exactly zero, not merely small.
		assert.Zero(t, beta[1], "method %s", method)
		assert.NotZero(t, beta[0], "method %s", method)
	}
}

func TestSolverWarmStartStaysPut(t *testing.T) {
	a := normalVector(27, 150)
	b := quadraticOf(a, 0.3, 28)

	cfg := DefaultConfig()

	f := kernelMatrix(a, 3)
	g := kernelMatrix(b, 3)

	alpha1, beta1, _ := higherOrderCoefficients(cfg, f, g, nil, nil)
	alpha2, beta2, converged := higherOrderCoefficients(cfg, f, g, alpha1, beta1)

	assert.True(t, converged)
	for i := range alpha1 {
		assert.InDelta(t, alpha1[i], alpha2[i], 0.05)
	}
	for i := range beta1 {
		assert.InDelta(t, beta1[i], beta2[i], 0.05)
	}
}

func TestSolverLassoShrinksCoefficients(t *testing.T) {
	a := normalVector(29, 150)
	b := quadraticOf(a, 0.3, 30)

	alpha0, beta0, _ := solveWith(t, MethodSLSQP, a, b, 3, 3, 0)
	alpha1, beta1, _ := solveWith(t, MethodSLSQP, a, b, 3, 3, 5)

	l1 := func(alpha, beta []float64) float64 {
		var sum float64
		for _, x := range alpha {
			sum += math.Abs(x)
		}
		for _, x := range beta {
			sum += math.Abs(x)
		}
		return sum
	}

	// The penalty discourages unnecessary mass on the coefficients.
	assert.LessOrEqual(t, l1(alpha1, beta1), l1(alpha0, beta0)+0.1)
}
