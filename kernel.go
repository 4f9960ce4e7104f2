package hgr

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//////
// Kernel expansion.
//////

// kernelMatrix expands a vector into its centered polynomial feature matrix.
//
// Column k (0-based k-1) of the returned n x degree matrix holds the
// centered monomial v^k - mean(v^k) for k = 1..degree. With degree 1 the
// result is the centered vector itself, not yet variance-normalized.
//
// The powers are accumulated column by column instead of calling math.Pow
// per entry, the same way a Vandermonde matrix is filled.
func kernelMatrix(v []float64, degree int) *mat.Dense {
	n := len(v)
	out := mat.NewDense(n, degree, nil)

	pow := make([]float64, n)
	copy(pow, v)

	col := make([]float64, n)

	for k := 0; k < degree; k++ {
		if k > 0 {
			for i := range pow {
				pow[i] *= v[i]
			}
		}

		m := stat.Mean(pow, nil)
		for i := range pow {
			col[i] = pow[i] - m
		}

		out.SetCol(k, col)
	}

	return out
}

// matVec returns m times x as a plain slice.
func matVec(m *mat.Dense, x []float64) []float64 {
	r, c := m.Dims()

	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(c, x))

	res := make([]float64, r)
	copy(res, out.RawVector().Data)

	return res
}
