package hgr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestKernelMatrixShapeAndCentering(t *testing.T) {
	v := normalVector(11, 50)

	k := kernelMatrix(v, 3)

	rows, cols := k.Dims()
	require.Equal(t, 50, rows)
	require.Equal(t, 3, cols)

	// Every column must hold the centered monomial v^k - mean(v^k).
	for c := 0; c < cols; c++ {
		col := make([]float64, rows)
		raw := make([]float64, rows)

		for i := 0; i < rows; i++ {
			col[i] = k.At(i, c)
			raw[i] = math.Pow(v[i], float64(c+1))
		}

		m := stat.Mean(raw, nil)

		assert.InDelta(t, 0, stat.Mean(col, nil), 1e-10)
		for i := 0; i < rows; i++ {
			assert.InDelta(t, raw[i]-m, col[i], 1e-10)
		}
	}
}

func TestKernelMatrixDegreeOne(t *testing.T) {
	v := []float64{1, 2, 3, 4}

	k := kernelMatrix(v, 1)

	rows, cols := k.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 1, cols)

	// Degree 1 yields the centered vector itself.
	for i, x := range v {
		assert.InDelta(t, x-2.5, k.At(i, 0), 1e-12)
	}
}
