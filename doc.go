// Package hgr computes non-linear dependence measures between two
// real-valued vectors using kernel-based copula projections. It estimates
// the Hirschfeld-Gebelein-Renyi coefficient (HGR), the maximal non-linear
// correlation between the two variables, together with two rescaled
// variants, GeDI and NLC.
//
// # How it works
//
// Each vector is expanded into a centered polynomial kernel feature matrix
// up to a configured degree. Linearly dependent kernel columns are detected
// with a QR-based rank test and removed, then a constrained least-squares
// problem
//
//	minimize   || F*alpha - G*beta ||^2 + lasso * ||[alpha, beta]||_1
//	subject to Var(G*beta) = 1
//
// produces the coefficient vectors combining the kernel columns into one
// scalar projection per sample. The dependence measure is the absolute mean
// product of the standardized projections. Degenerate cases (one or both
// degrees equal 1) short-circuit to closed-form solutions and skip the
// iterative optimizer entirely.
//
// # Variants
//
// Two estimation strategies are provided:
//
//   - DoubleKernel: independent kernel degrees per vector (default 3 each),
//     one computation per call, warm-started from the previous call's
//     coefficients
//   - SingleKernel: one shared degree; each call tests both "a is the
//     non-linear variable" and "b is the non-linear variable" and keeps the
//     configuration with the larger correlation
//
// # Semantics
//
// The raw HGR value lies in [0, 1]. Two rescalings are available at
// construction time:
//
//   - SemanticsGeDI: Generalized Disparate Impact, HGR * std(b) / std(a)
//   - SemanticsNLC: Non-Linear Covariance, HGR * std(b) * std(a)
//
// # Usage
//
//	config := hgr.DefaultConfig()
//	config.DegreeA = 5
//
//	estimator, err := hgr.NewDoubleKernel(config)
//	if err != nil {
//	    return err
//	}
//
//	result, err := estimator.Correlate(a, b)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(result.Correlation, result.Converged)
//
// After at least one call the fitted copula transformations can be
// re-applied to new data with F, G, and Value.
//
// # Error handling
//
// Configuration errors (degree below 1, unknown method or semantics) are
// reported at construction. Shape errors (length mismatch, fewer than two
// samples, non-finite entries) are reported at call time before any
// computation. Numerical near-singularity is handled by zeroing the affected
// coefficients, zero-variance vectors are guarded by an epsilon in every
// standard-deviation denominator, and optimizer non-convergence within the
// iteration budget returns the best iterate with Result.Converged set to
// false. None of these three surface as errors.
//
// # Thread safety
//
// Estimator instances hold mutable per-call state (last result, call
// counter) and are not safe for concurrent use; create one instance per
// logical stream or serialize calls externally. Distinct instances share no
// mutable state.
package hgr
