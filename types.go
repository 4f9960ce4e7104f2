package hgr

import "errors"

//////
// Const, vars, types.
//////

// Method identifies the algorithm used to solve the constrained least-squares
// problem that produces the copula coefficients.
//
// Available methods:
// - MethodTrustRegion: augmented-Lagrangian outer loop with Newton inner solves
// - MethodSLSQP: sequential quadratic programming on the KKT system
//
// Both methods receive the exact objective gradient, a constant objective
// Hessian, and the exact constraint jacobian and Hessian; neither relies on
// finite-difference approximations.
type Method string

const (
	// MethodTrustRegion solves the constrained problem by repeatedly
	// minimizing an augmented Lagrangian with a Newton-type method.
	// This is the default and the more robust choice.
	MethodTrustRegion Method = "trust-constr"

	// MethodSLSQP solves the constrained problem by sequential quadratic
	// programming: each iteration solves one bordered KKT linear system and
	// backtracks on an L1 merit function. Usually faster on small degrees.
	MethodSLSQP Method = "slsqp"
)

// Semantics selects the rescaling applied to the raw HGR correlation.
//
// The raw value is always |mean(fa * gb)| over the standardized projections.
// The semantics only multiply it by a data-dependent factor:
// - SemanticsHGR:  factor 1 (value stays in [0, 1])
// - SemanticsGeDI: factor std(b) / std(a) (Generalized Disparate Impact)
// - SemanticsNLC:  factor std(b) * std(a) (Non-Linear Covariance)
type Semantics string

const (
	// SemanticsHGR reports the plain Hirschfeld-Gebelein-Renyi coefficient.
	SemanticsHGR Semantics = "hgr"

	// SemanticsGeDI reports the Generalized Disparate Impact rescaling.
	SemanticsGeDI Semantics = "gedi"

	// SemanticsNLC reports the Non-Linear Covariance rescaling.
	SemanticsNLC Semantics = "nlc"
)

//////
// Errors.
//////

var (
	// ErrInvalidDegree indicates a kernel degree smaller than 1 was
	// configured. Raised at construction time.
	ErrInvalidDegree = errors.New("hgr: kernel degree must be at least 1")

	// ErrUnknownMethod indicates an optimizer method name that is neither
	// MethodTrustRegion nor MethodSLSQP. Raised at construction time.
	ErrUnknownMethod = errors.New("hgr: unknown optimizer method")

	// ErrUnknownSemantics indicates a semantics name that is none of hgr,
	// gedi, or nlc. Raised at construction time.
	ErrUnknownSemantics = errors.New("hgr: unknown semantics")

	// ErrLengthMismatch indicates the two input vectors differ in length.
	// Raised at call time before any computation begins.
	ErrLengthMismatch = errors.New("hgr: input vectors must have the same length")

	// ErrTooShort indicates an input vector with fewer than two samples.
	// Raised at call time before any computation begins.
	ErrTooShort = errors.New("hgr: input vectors need at least two samples")

	// ErrNonFinite indicates an input vector containing NaN or Inf entries.
	// Raised at call time before any computation begins.
	ErrNonFinite = errors.New("hgr: input vectors must contain only finite values")

	// ErrNotComputed indicates that a fitted transform (F, G, or Value) was
	// requested before any successful call on the estimator.
	ErrNotComputed = errors.New("hgr: estimator has not been computed yet")
)

//////
// Configuration.
//////

// Config holds all configuration parameters for a kernel-based estimator.
// The configuration is frozen at construction; successive calls only mutate
// the per-instance state (last result and call counter).
//
// Fields explanation:
// - DegreeA, DegreeB: kernel degrees of the two variables (DoubleKernel)
// - Degree: shared kernel degree (SingleKernel)
// - Method: constrained optimizer selection
// - MaxIter: iteration cap for the optimizer
// - Eps: guard added to standard-deviation denominators
// - Tol: optimizer stopping tolerance
// - UseLstsq: enable the closed-form shortcut when one degree equals 1
// - Delta: QR-diagonal tolerance for the linear dependence test
// - Lasso: L1 regularization weight on the coefficient vectors
// - Semantics: rescaling applied to the raw correlation
// - WarmStart: reuse the previous call's coefficients as the initial point
type Config struct {
	// DegreeA is the kernel degree for the first variable (DoubleKernel).
	DegreeA int

	// DegreeB is the kernel degree for the second variable (DoubleKernel).
	DegreeB int

	// Degree is the shared kernel degree (SingleKernel).
	Degree int

	// Method selects the constrained minimization algorithm.
	Method Method

	// MaxIter caps the number of optimizer iterations. Reaching the cap is
	// not an error: the best iterate found so far is used and the result is
	// flagged as not converged.
	MaxIter int

	// Eps is added to standard-deviation denominators to avoid division by
	// zero on constant vectors.
	Eps float64

	// Tol is the stopping tolerance of the optimization process.
	Tol float64

	// UseLstsq enables the closed-form least-squares shortcut when exactly
	// one of the two kernel degrees equals 1.
	UseLstsq bool

	// Delta is the tolerance under which a QR diagonal entry marks the
	// corresponding kernel column as linearly dependent on earlier columns.
	Delta float64

	// Lasso is the L1 regularization weight discouraging unnecessary
	// non-zero coefficients. Zero disables the penalty.
	Lasso float64

	// Semantics selects the rescaling of the raw correlation.
	Semantics Semantics

	// WarmStart reuses the previous call's coefficient vectors as the
	// optimizer's initial point on successive calls.
	WarmStart bool
}

// DefaultConfig returns a default configuration: degree 3 kernels, the
// trust-region method with 1000 iterations and tolerance 1e-2, the
// closed-form shortcut enabled, dependence delta 1e-2, no lasso penalty,
// plain HGR semantics, and warm starting enabled.
func DefaultConfig() Config {
	return Config{
		DegreeA:   3,
		DegreeB:   3,
		Degree:    3,
		Method:    MethodTrustRegion,
		MaxIter:   1000,
		Eps:       1e-9,
		Tol:       1e-2,
		UseLstsq:  true,
		Delta:     1e-2,
		Lasso:     0,
		Semantics: SemanticsHGR,
		WarmStart: true,
	}
}

//////
// Results.
//////

// Result is the immutable record produced by one estimator call.
//
// The input slices are stored by reference, not copied: the caller retains
// ownership and must not mutate them while the result is in use. The
// Estimator back-reference is non-owning and exists for traceability only.
type Result struct {
	// A is the first input vector, as passed to the call.
	A []float64

	// B is the second input vector, as passed to the call.
	B []float64

	// Correlation is the measured dependence value. Under SemanticsHGR it
	// lies in [0, 1]; GeDI and NLC rescale it by a data-dependent factor.
	Correlation float64

	// Alpha is the coefficient vector combining the kernel columns of A
	// into the f projection. Entries at removed (linearly dependent)
	// indices are exactly zero.
	Alpha []float64

	// Beta is the coefficient vector combining the kernel columns of B
	// into the g projection. Entries at removed (linearly dependent)
	// indices are exactly zero.
	Beta []float64

	// NumCall is the 1-based index of the call that produced this result.
	NumCall int

	// Converged reports whether the optimizer met its tolerance within the
	// iteration budget. Closed-form paths always report true. A false value
	// is informational: the best iterate found is still used.
	Converged bool

	// Estimator is a back-reference to the instance that produced this
	// result.
	Estimator Estimator
}

//////
// Estimator surface.
//////

// Estimator is the closed set of kernel-based estimation strategies:
// DoubleKernel (independent degrees per vector) and SingleKernel (shared
// degree, best-of-two selection).
//
// Instances are not safe for concurrent use: each call reads and writes the
// per-instance state (last result, call counter). Use one instance per
// logical stream or serialize calls externally.
type Estimator interface {
	// Correlate computes the dependence measure between two equal-length
	// vectors and returns the full Result record.
	Correlate(a, b []float64) (*Result, error)

	// Compute computes the dependence measure and returns only the scalar
	// value.
	Compute(a, b []float64) (float64, error)

	// LastResult returns the Result of the most recent call, or nil if the
	// estimator has not been called yet.
	LastResult() *Result

	// NumCalls returns how many times the estimator has been called.
	NumCalls() int

	// F re-applies the fitted copula transformation of the first variable
	// to a new vector using the stored coefficients. It fails with
	// ErrNotComputed before the first call.
	F(a []float64) ([]float64, error)

	// G re-applies the fitted copula transformation of the second variable
	// to a new vector using the stored coefficients. It fails with
	// ErrNotComputed before the first call.
	G(b []float64) ([]float64, error)

	// Value evaluates the dependence measure on new vectors using the
	// stored copula transformations, without re-fitting. It fails with
	// ErrNotComputed before the first call.
	Value(a, b []float64) (float64, error)
}

//////
// Parsing helpers.
//////

// ParseMethod converts a method name into a Method. It accepts the canonical
// names "trust-constr" and "slsqp" case-insensitively.
func ParseMethod(name string) (Method, error) {
	switch normalize(name) {
	case "trust constr", "trust region":
		return MethodTrustRegion, nil
	case "slsqp":
		return MethodSLSQP, nil
	default:
		return "", ErrUnknownMethod
	}
}

// ParseSemantics converts a semantics name into a Semantics. It accepts
// "hgr", "gedi", and "nlc" case-insensitively.
func ParseSemantics(name string) (Semantics, error) {
	switch normalize(name) {
	case "hgr":
		return SemanticsHGR, nil
	case "gedi":
		return SemanticsGeDI, nil
	case "nlc":
		return SemanticsNLC, nil
	default:
		return "", ErrUnknownSemantics
	}
}
