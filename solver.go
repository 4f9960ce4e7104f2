package hgr

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

//////
// Constrained least-squares solver.
//
// The copula coefficients solve
//
//	minimize   || F*alpha - G*beta ||^2 + lasso * ||[alpha, beta]||_1
//	subject to Var(G*beta) = 1
//
// over the reduced kernel matrices. All derivatives are closed-form:
//
//	objective gradient:  2 * [F -G]^T * (F*alpha - G*beta) + lasso * sign
//	objective Hessian:   2 * [F -G]^T * [F -G]              (constant)
//	constraint jacobian: [ 0 | 2 * G^T*G * beta / n ]
//	constraint Hessian:  zero alpha block, 2 * G^T*G / n beta block
//////

// lsqProblem bundles the operands of one constrained solve. Everything the
// objective and constraint functions need is carried here explicitly; none
// of them captures outer-scope state.
type lsqProblem struct {
	g   *mat.Dense // reduced kernel matrix of the second variable (n x dy)
	fg  *mat.Dense // [F | -G] (n x d)
	gtg *mat.Dense // G^T * G (dy x dy)

	n      int
	dx, dy int

	hess *mat.Dense // constant objective Hessian 2 * fg^T * fg (d x d)

	lasso float64
}

func newLSQProblem(f, g *mat.Dense, lasso float64) *lsqProblem {
	n, dx := f.Dims()
	_, dy := g.Dims()
	d := dx + dy

	fg := mat.NewDense(n, d, nil)
	col := make([]float64, n)

	for j := 0; j < dx; j++ {
		mat.Col(col, j, f)
		fg.SetCol(j, col)
	}
	for j := 0; j < dy; j++ {
		mat.Col(col, j, g)
		floats.Scale(-1, col)
		fg.SetCol(dx+j, col)
	}

	gtg := mat.NewDense(dy, dy, nil)
	gtg.Mul(g.T(), g)

	hess := mat.NewDense(d, d, nil)
	hess.Mul(fg.T(), fg)
	hess.Scale(2, hess)

	return &lsqProblem{
		g:     g,
		fg:    fg,
		gtg:   gtg,
		n:     n,
		dx:    dx,
		dy:    dy,
		hess:  hess,
		lasso: lasso,
	}
}

// objectiveValue returns the penalized least-squares objective at x.
func (p *lsqProblem) objectiveValue(x []float64) float64 {
	diff := matVec(p.fg, x)
	v := floats.Dot(diff, diff)

	if p.lasso != 0 {
		for _, xi := range x {
			v += p.lasso * math.Abs(xi)
		}
	}

	return v
}

// objective returns the penalized objective at x and fills grad with its
// gradient.
func (p *lsqProblem) objective(x, grad []float64) float64 {
	diff := matVec(p.fg, x)
	v := floats.Dot(diff, diff)

	var gv mat.VecDense
	gv.MulVec(p.fg.T(), mat.NewVecDense(len(diff), diff))

	for i := range grad {
		grad[i] = 2 * gv.AtVec(i)
	}

	if p.lasso != 0 {
		for i, xi := range x {
			v += p.lasso * math.Abs(xi)
			grad[i] += p.lasso * sign(xi)
		}
	}

	return v
}

// constraint returns Var(G*beta) at x. The equality constraint requires the
// returned value to equal 1.
func (p *lsqProblem) constraint(x []float64) float64 {
	return popVariance(matVec(p.g, x[p.dx:]))
}

// constraintJac fills jac with the constraint jacobian at x:
// zero on the alpha block, 2 * G^T*G * beta / n on the beta block.
func (p *lsqProblem) constraintJac(x, jac []float64) {
	var v mat.VecDense
	v.MulVec(p.gtg, mat.NewVecDense(p.dy, x[p.dx:]))

	for i := 0; i < p.dx; i++ {
		jac[i] = 0
	}
	for i := 0; i < p.dy; i++ {
		jac[p.dx+i] = 2 * v.AtVec(i) / float64(p.n)
	}
}

// constraintHessAt returns entry (i, j) of the constraint Hessian: zero
// outside the beta block, 2 * G^T*G / n inside it.
func (p *lsqProblem) constraintHessAt(i, j int) float64 {
	if i < p.dx || j < p.dx {
		return 0
	}

	return 2 * p.gtg.At(i-p.dx, j-p.dx) / float64(p.n)
}

//////
// Solve entry point.
//////

// higherOrderCoefficients computes the coefficient vectors when both kernel
// degrees are above 1: it removes linearly dependent columns, solves the
// constrained least-squares problem with the configured method, and scatters
// the solution back to full length with zeros at the removed indices.
//
// a0 and b0 are optional warm-start vectors (full length); nil seeds the
// initial point so the combined projections start with unit variance.
func higherOrderCoefficients(cfg Config, f, g *mat.Dense, a0, b0 []float64) (alpha, beta []float64, converged bool) {
	_, degreeA := f.Dims()
	_, degreeB := g.Dims()

	fIdx, gIdx := independentColumns(f, g, cfg.Delta)
	fSlim := columnSubset(f, fIdx)
	gSlim := columnSubset(g, gIdx)

	p := newLSQProblem(fSlim, gSlim, cfg.Lasso)

	x0 := make([]float64, p.dx+p.dy)
	seedBlock(x0[:p.dx], fSlim, a0, fIdx, cfg.Eps)
	seedBlock(x0[p.dx:], gSlim, b0, gIdx, cfg.Eps)

	var x []float64

	switch cfg.Method {
	case MethodSLSQP:
		x, converged = solveSLSQP(p, x0, cfg.Tol, cfg.MaxIter)
	default:
		x, converged = solveTrustRegion(p, x0, cfg.Tol, cfg.MaxIter)
	}

	alpha = scatter(x[:p.dx], fIdx, degreeA)
	beta = scatter(x[p.dx:], gIdx, degreeB)

	return alpha, beta, converged
}

// seedBlock fills one coefficient block of the initial point. A warm-start
// vector is restricted to the retained indices; without one, every entry is
// seeded as 1 / std(row sums of the kernel block) so the initial combined
// projection has unit variance, with an epsilon-guarded denominator.
func seedBlock(dst []float64, slim *mat.Dense, warm []float64, kept []int, eps float64) {
	if warm != nil {
		copy(dst, gather(warm, kept))

		return
	}

	_, cols := slim.Dims()

	ones := make([]float64, cols)
	for i := range ones {
		ones[i] = 1
	}

	v := 1 / math.Sqrt(popVariance(matVec(slim, ones))+eps)
	for i := range dst {
		dst[i] = v
	}
}

// columnSubset returns a new matrix holding the given columns of m, in order.
func columnSubset(m *mat.Dense, cols []int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, len(cols), nil)

	buf := make([]float64, r)
	for j, c := range cols {
		mat.Col(buf, c, m)
		out.SetCol(j, buf)
	}

	return out
}

//////
// Sequential quadratic programming.
//////

// solveSLSQP runs sequential quadratic programming on the equality
// constrained problem. Each iteration solves one bordered KKT system
//
//	[ H + mu*C  a ] [ p  ]   [ -grad ]
//	[   a^T     0 ] [ mu'] = [ -c    ]
//
// with the constant objective Hessian H, the constraint Hessian C, the
// constraint jacobian a, and the constraint violation c, then backtracks on
// the L1 merit function phi = f + rho*|c|. The best iterate is returned even
// when the iteration cap is reached.
func solveSLSQP(p *lsqProblem, x0 []float64, tol float64, maxIter int) ([]float64, bool) {
	d := p.dx + p.dy

	x := append([]float64(nil), x0...)
	grad := make([]float64, d)
	jac := make([]float64, d)
	step := make([]float64, d)
	trial := make([]float64, d)

	var mu, rho float64

	kkt := mat.NewDense(d+1, d+1, nil)
	rhs := mat.NewVecDense(d+1, nil)

	for iter := 0; iter < maxIter; iter++ {
		fval := p.objective(x, grad)
		c := p.constraint(x) - 1
		p.constraintJac(x, jac)

		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				kkt.Set(i, j, p.hess.At(i, j)+mu*p.constraintHessAt(i, j))
			}
			kkt.Set(i, d, jac[i])
			kkt.Set(d, i, jac[i])
			rhs.SetVec(i, -grad[i])
		}
		kkt.Set(d, d, 0)
		rhs.SetVec(d, -c)

		var sol mat.VecDense

		err := sol.SolveVec(kkt, rhs)
		for ridge := 1e-8; err != nil && ridge <= 1e2; ridge *= 100 {
			for i := 0; i < d; i++ {
				kkt.Set(i, i, kkt.At(i, i)+ridge)
			}
			err = sol.SolveVec(kkt, rhs)
		}
		if err != nil {
			return x, false
		}

		for i := 0; i < d; i++ {
			step[i] = sol.AtVec(i)
		}
		muNext := sol.AtVec(d)

		// Keep the merit penalty above the multiplier estimate so the KKT
		// direction stays a descent direction for the merit function.
		if r := 2*math.Abs(muNext) + 1; r > rho {
			rho = r
		}
		merit := fval + rho*math.Abs(c)

		alpha := 1.0
		for t := 0; t < 30; t++ {
			for i := range x {
				trial[i] = x[i] + alpha*step[i]
			}

			fT := p.objectiveValue(trial)
			cT := p.constraint(trial) - 1
			if fT+rho*math.Abs(cT) <= merit+1e-12 {
				break
			}

			alpha *= 0.5
		}

		copy(x, trial)
		mu = muNext

		if floats.Norm(step, math.Inf(1)) <= tol && math.Abs(p.constraint(x)-1) <= tol {
			return x, true
		}
	}

	return x, false
}

//////
// Augmented Lagrangian with Newton inner solves.
//////

// solveTrustRegion minimizes an augmented Lagrangian
//
//	f(x) + mu*c(x) + rho/2 * c(x)^2,  c(x) = Var(G*beta) - 1
//
// with a Newton-type trust method for the inner solves, updating the
// multiplier estimate between rounds and increasing the penalty when the
// constraint violation stalls. The best iterate is returned even when the
// iteration budget runs out before the violation drops below tol.
func solveTrustRegion(p *lsqProblem, x0 []float64, tol float64, maxIter int) ([]float64, bool) {
	const outer = 10

	d := p.dx + p.dy

	inner := maxIter / outer
	if inner < 1 {
		inner = 1
	}

	x := append([]float64(nil), x0...)

	mu := 0.0
	rho := 10.0
	prevViolation := math.Inf(1)

	for k := 0; k < outer; k++ {
		problem := optimize.Problem{
			Func: func(y []float64) float64 {
				c := p.constraint(y) - 1

				return p.objectiveValue(y) + mu*c + 0.5*rho*c*c
			},
			Grad: func(dst, y []float64) {
				p.objective(y, dst)

				c := p.constraint(y) - 1
				jac := make([]float64, d)
				p.constraintJac(y, jac)

				floats.AddScaled(dst, mu+rho*c, jac)
			},
			Hess: func(dst *mat.SymDense, y []float64) {
				c := p.constraint(y) - 1
				jac := make([]float64, d)
				p.constraintJac(y, jac)

				w := mu + rho*c
				for i := 0; i < d; i++ {
					for j := i; j < d; j++ {
						h := p.hess.At(i, j) + w*p.constraintHessAt(i, j) + rho*jac[i]*jac[j]
						dst.SetSym(i, j, h)
					}
				}
			},
		}

		settings := &optimize.Settings{
			GradientThreshold: tol,
			MajorIterations:   inner,
		}

		// The inner solve may stop on its iteration cap; the best iterate
		// carries into the next round.
		result, _ := optimize.Minimize(problem, x, settings, &optimize.Newton{})
		if result != nil {
			copy(x, result.X)
		}

		violation := math.Abs(p.constraint(x) - 1)
		if violation <= tol {
			return x, true
		}

		mu += rho * (p.constraint(x) - 1)
		if violation > 0.25*prevViolation {
			rho *= 10
		}
		prevViolation = violation
	}

	return x, false
}
