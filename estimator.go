package hgr

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//////
// Orchestration shared by the estimator variants.
//////

// kbResult carries the outcome of one orchestrated kernel computation before
// semantics rescaling and state bookkeeping are applied.
type kbResult struct {
	correlation float64
	alpha       []float64
	beta        []float64
	converged   bool
}

// kbhgr ties the kernel expansion, the dependence detection, and the solver
// into a single correlation computation for one pair of degrees.
//
// Trivial and simpler cases short-circuit to closed forms:
//   - both degrees 1: the projections are the standardized input vectors and
//     the coefficient vectors are the unit scalar
//   - exactly one degree 1 (with the shortcut enabled): the degree-1 side is
//     standardized directly and the other side's coefficients come from an
//     unconstrained least-squares fit, because with one projection fixed the
//     variance-matching problem collapses to ordinary least squares
//   - otherwise: the constrained solver produces both coefficient vectors
//
// The returned correlation is |mean(fa * gb)| over the standardized
// projections. The absolute value is taken because the raw sign of a
// non-linear correlation carries no meaning under polynomial
// reparameterization.
func kbhgr(cfg Config, a, b []float64, degreeA, degreeB int, a0, b0 []float64) kbResult {
	alpha := []float64{1}
	beta := []float64{1}
	converged := true

	var fa, gb []float64

	switch {
	case degreeA == 1 && degreeB == 1:
		fa = standardize(a, cfg.Eps)
		gb = standardize(b, cfg.Eps)
	case degreeA == 1 && cfg.UseLstsq:
		g := kernelMatrix(b, degreeB)
		fa = standardize(a, cfg.Eps)
		beta = leastSquares(g, fa)
		gb = standardize(matVec(g, beta), cfg.Eps)
	case degreeB == 1 && cfg.UseLstsq:
		f := kernelMatrix(a, degreeA)
		gb = standardize(b, cfg.Eps)
		alpha = leastSquares(f, gb)
		fa = standardize(matVec(f, alpha), cfg.Eps)
	default:
		f := kernelMatrix(a, degreeA)
		g := kernelMatrix(b, degreeB)
		alpha, beta, converged = higherOrderCoefficients(cfg, f, g, a0, b0)
		fa = standardize(matVec(f, alpha), cfg.Eps)
		gb = standardize(matVec(g, beta), cfg.Eps)
	}

	return kbResult{
		correlation: math.Abs(meanProduct(fa, gb)),
		alpha:       alpha,
		beta:        beta,
		converged:   converged,
	}
}

// leastSquares solves the unconstrained least-squares fit of y against the
// columns of m. QR is tried first; a rank-deficient system falls back to the
// minimum-norm SVD solution, so duplicated kernel columns never raise.
func leastSquares(m *mat.Dense, y []float64) []float64 {
	r, c := m.Dims()

	// QR needs at least as many rows as columns; zero rows on both sides
	// leave the least-squares solution unchanged.
	rows := r
	if rows < c {
		rows = c
	}

	a := m
	rhs := y

	if rows != r {
		padded := mat.NewDense(rows, c, nil)
		padded.Copy(m)
		a = padded

		rhs = make([]float64, rows)
		copy(rhs, y)
	}

	sol := mat.NewVecDense(c, nil)

	var qr mat.QR
	qr.Factorize(a)

	if err := qr.SolveVecTo(sol, false, mat.NewVecDense(rows, rhs)); err != nil {
		var svd mat.SVD
		if ok := svd.Factorize(a, mat.SVDThin); !ok {
			return make([]float64, c)
		}

		rank := svd.Rank(1e-12)
		if rank == 0 {
			return make([]float64, c)
		}

		svd.SolveVecTo(sol, mat.NewVecDense(rows, rhs), rank)
	}

	out := make([]float64, c)
	copy(out, sol.RawVector().Data)

	return out
}

//////
// Shared estimator state.
//////

// base holds the frozen configuration and the mutable per-instance state
// (single-slot last result, monotonic call counter) common to both variants.
// The state mutates only through successive calls; concurrent calls on the
// same instance must be serialized by the caller.
type base struct {
	cfg Config

	degreeA int
	degreeB int

	last  *Result
	calls int

	// self is the variant the base is embedded in, for Result back
	// references.
	self Estimator
}

// LastResult returns the Result of the most recent call, or nil before the
// first call.
func (e *base) LastResult() *Result {
	return e.last
}

// NumCalls returns how many times the estimator has been called.
func (e *base) NumCalls() int {
	return e.calls
}

// F re-applies the fitted copula transformation of the first variable to a
// new vector: F(a) = kernel(a, degreeA) * alpha with the stored alpha. The
// projection is raw, not standardized.
func (e *base) F(a []float64) ([]float64, error) {
	if e.last == nil {
		return nil, ErrNotComputed
	}

	return matVec(kernelMatrix(a, e.degreeA), e.last.Alpha), nil
}

// G re-applies the fitted copula transformation of the second variable to a
// new vector: G(b) = kernel(b, degreeB) * beta with the stored beta. The
// projection is raw, not standardized.
func (e *base) G(b []float64) ([]float64, error) {
	if e.last == nil {
		return nil, ErrNotComputed
	}

	return matVec(kernelMatrix(b, e.degreeB), e.last.Beta), nil
}

// Value evaluates the dependence measure on new vectors using the stored
// copula transformations, without re-fitting: the projections are
// standardized, their mean product is rescaled by the configured semantics.
// Unlike Correlate, the sign is kept.
func (e *base) Value(a, b []float64) (float64, error) {
	if e.last == nil {
		return 0, ErrNotComputed
	}

	if err := checkVectors(a, b); err != nil {
		return 0, err
	}

	fa, err := e.F(a)
	if err != nil {
		return 0, err
	}

	gb, err := e.G(b)
	if err != nil {
		return 0, err
	}

	fa = standardize(fa, e.cfg.Eps)
	gb = standardize(gb, e.cfg.Eps)

	return meanProduct(fa, gb) * e.factor(a, b), nil
}

// factor returns the semantics rescaling for one vector pair: 1 for HGR,
// std(b)/std(a) for GeDI, std(a)*std(b) for NLC.
func (e *base) factor(a, b []float64) float64 {
	switch e.cfg.Semantics {
	case SemanticsGeDI:
		return popStdDev(b) / (popStdDev(a) + e.cfg.Eps)
	case SemanticsNLC:
		return popStdDev(a) * popStdDev(b)
	default:
		return 1
	}
}

// finish rescales a kernel computation by the semantics factor, assembles
// the immutable Result, stores it in the single-slot cache, and bumps the
// call counter.
func (e *base) finish(a, b []float64, r kbResult) *Result {
	e.calls++

	res := &Result{
		A:           a,
		B:           b,
		Correlation: r.correlation * e.factor(a, b),
		Alpha:       r.alpha,
		Beta:        r.beta,
		NumCall:     e.calls,
		Converged:   r.converged,
		Estimator:   e.self,
	}
	e.last = res

	return res
}

// canonicalize validates and normalizes the method and semantics names of a
// configuration, applying the defaults for empty values. Construction fails
// here for unknown names.
func canonicalize(cfg Config) (Config, error) {
	if cfg.Method == "" {
		cfg.Method = MethodTrustRegion
	} else {
		m, err := ParseMethod(string(cfg.Method))
		if err != nil {
			return cfg, err
		}
		cfg.Method = m
	}

	if cfg.Semantics == "" {
		cfg.Semantics = SemanticsHGR
	} else {
		s, err := ParseSemantics(string(cfg.Semantics))
		if err != nil {
			return cfg, err
		}
		cfg.Semantics = s
	}

	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 1000
	}

	return cfg, nil
}
