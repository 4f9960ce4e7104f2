package hgr

//////
// Single-Kernel variant.
//////

// SingleKernel estimates the dependence measure with one shared kernel
// degree. Each call runs the orchestrator twice, once treating the first
// variable as the non-linear one (the other side fixed to degree 1) and once
// the reverse, and keeps the configuration with the larger correlation. The
// losing side's coefficient vector is zeroed except for its first entry,
// preserving shape while signaling the winning structure.
//
// Usage example:
//
//	sk, err := hgr.NewSingleKernel(hgr.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	value, err := sk.Compute(a, b)
type SingleKernel struct {
	base
}

// NewSingleKernel creates a Single-Kernel estimator from the given
// configuration. The shared Degree must be at least 1; unknown methods and
// semantics are rejected, as for the Double-Kernel variant.
func NewSingleKernel(cfg Config) (*SingleKernel, error) {
	cfg, err := canonicalize(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Degree < 1 {
		return nil, ErrInvalidDegree
	}

	sk := &SingleKernel{base{
		cfg:     cfg,
		degreeA: cfg.Degree,
		degreeB: cfg.Degree,
	}}
	sk.self = sk

	return sk, nil
}

// Correlate computes the dependence measure between a and b and returns the
// full Result record. Ties between the two branches prefer the first one
// computed (a treated as the non-linear variable).
func (sk *SingleKernel) Correlate(a, b []float64) (*Result, error) {
	if err := checkVectors(a, b); err != nil {
		return nil, err
	}

	var a0, b0 []float64

	if sk.cfg.WarmStart && sk.last != nil {
		a0, b0 = sk.last.Alpha, sk.last.Beta
	}

	degree := sk.cfg.Degree

	resA := kbhgr(sk.cfg, a, b, degree, 1, a0, nil)
	resB := kbhgr(sk.cfg, a, b, 1, degree, nil, b0)

	var r kbResult

	if resA.correlation >= resB.correlation {
		beta := make([]float64, degree)
		beta[0] = resA.beta[0]

		r = kbResult{
			correlation: resA.correlation,
			alpha:       resA.alpha,
			beta:        beta,
			converged:   resA.converged,
		}
	} else {
		alpha := make([]float64, degree)
		alpha[0] = resB.alpha[0]

		r = kbResult{
			correlation: resB.correlation,
			alpha:       alpha,
			beta:        resB.beta,
			converged:   resB.converged,
		}
	}

	return sk.finish(a, b, r), nil
}

// Compute computes the dependence measure and returns only the scalar value.
func (sk *SingleKernel) Compute(a, b []float64) (float64, error) {
	res, err := sk.Correlate(a, b)
	if err != nil {
		return 0, err
	}

	return res.Correlation, nil
}
