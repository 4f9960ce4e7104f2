package hgr

//////
// Double-Kernel variant.
//////

// DoubleKernel estimates the dependence measure with independently
// configured kernel degrees per vector (DegreeA, DegreeB) and a single
// orchestrated computation per call. Successive calls warm-start the solver
// from the previous call's coefficient vectors.
//
// Usage example:
//
//	dk, err := hgr.NewDoubleKernel(hgr.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	value, err := dk.Compute(a, b)
type DoubleKernel struct {
	base
}

// NewDoubleKernel creates a Double-Kernel estimator from the given
// configuration. The configuration is validated and frozen here: kernel
// degrees below 1, unknown methods, and unknown semantics are rejected.
func NewDoubleKernel(cfg Config) (*DoubleKernel, error) {
	cfg, err := canonicalize(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DegreeA < 1 || cfg.DegreeB < 1 {
		return nil, ErrInvalidDegree
	}

	dk := &DoubleKernel{base{
		cfg:     cfg,
		degreeA: cfg.DegreeA,
		degreeB: cfg.DegreeB,
	}}
	dk.self = dk

	return dk, nil
}

// Correlate computes the dependence measure between a and b and returns the
// full Result record. Shape errors are reported before any computation;
// numerical near-singularity and optimizer non-convergence are not errors.
func (dk *DoubleKernel) Correlate(a, b []float64) (*Result, error) {
	if err := checkVectors(a, b); err != nil {
		return nil, err
	}

	var a0, b0 []float64

	if dk.cfg.WarmStart && dk.last != nil {
		a0, b0 = dk.last.Alpha, dk.last.Beta
	}

	r := kbhgr(dk.cfg, a, b, dk.degreeA, dk.degreeB, a0, b0)

	return dk.finish(a, b, r), nil
}

// Compute computes the dependence measure and returns only the scalar value.
func (dk *DoubleKernel) Compute(a, b []float64) (float64, error) {
	res, err := dk.Correlate(a, b)
	if err != nil {
		return 0, err
	}

	return res.Correlation, nil
}
