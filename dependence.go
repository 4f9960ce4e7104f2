package hgr

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//////
// Linear dependence detection.
//////

// independentColumns identifies which columns of the two kernel matrices are
// linearly independent from the other ones, so that the optimization system
// stays non-singular after the dependent columns are removed.
//
// Parameters:
// - f: Kernel matrix of the first variable (n x dx)
// - g: Kernel matrix of the second variable (n x dy)
// - delta: Tolerance under which a QR diagonal entry flags dependence
//
// Returns:
// - fKeep: Indices of f columns to retain (always includes 0)
// - gKeep: Indices of g columns to retain (always includes 0)
//
// How it works:
//  1. Build an augmented matrix [ 1 | F_1 | G_1 | F_2 | G_2 | ... ]. The
//     interleaved ordering places lower degrees first so they are preferred
//     when a dependence is found; when degrees differ, the variable with
//     fewer columns interleaves fully and the other variable's remaining
//     columns are appended at the end.
//  2. Compute the QR factorization and take the absolute values of the
//     diagonal of R. A value at or below delta means the corresponding
//     column is linearly dependent on earlier columns.
//  3. The first kernel column of each variable is kept even when flagged: a
//     near-singularity there likely reflects a deterministic relationship
//     in the data rather than a redundant basis column, and dropping it
//     would degenerate the whole transform to zero.
func independentColumns(f, g *mat.Dense, delta float64) (fKeep, gKeep []int) {
	n, dx := f.Dims()
	_, dy := g.Dims()
	d := dx + dy

	// Column positions of F and G inside the augmented matrix. Position 0
	// holds the bias column of ones.
	var fCols, gCols []int

	if dx < dy {
		for i := 0; i < dx; i++ {
			fCols = append(fCols, 2*i+1)
			gCols = append(gCols, 2*i+2)
		}
		for i := 2 * dx; i < d; i++ {
			gCols = append(gCols, i+1)
		}
	} else {
		for i := 0; i < dy; i++ {
			fCols = append(fCols, 2*i+1)
			gCols = append(gCols, 2*i+2)
		}
		for i := 2 * dy; i < d; i++ {
			fCols = append(fCols, i+1)
		}
	}

	// gonum's QR requires at least as many rows as columns. Padding with
	// zero rows leaves R unchanged, so short inputs are padded up to d+1.
	rows := n
	if rows < d+1 {
		rows = d + 1
	}

	aug := mat.NewDense(rows, d+1, nil)
	for i := 0; i < n; i++ {
		aug.Set(i, 0, 1)
	}

	col := make([]float64, n)
	padded := make([]float64, rows)

	setCol := func(src *mat.Dense, srcCol, dstCol int) {
		mat.Col(col, srcCol, src)
		copy(padded, col)
		aug.SetCol(dstCol, padded)
	}

	for i, c := range fCols {
		setCol(f, i, c)
	}
	for i, c := range gCols {
		setCol(g, i, c)
	}

	var qr mat.QR
	qr.Factorize(aug)

	var r mat.Dense
	qr.RTo(&r)

	diag := make([]float64, d+1)
	for i := range diag {
		diag[i] = math.Abs(r.At(i, i))
	}

	keep := func(cols []int, degree int) []int {
		// Index 0 is exempt even when flagged.
		kept := []int{0}
		for i := 1; i < degree; i++ {
			if diag[cols[i]] > delta {
				kept = append(kept, i)
			}
		}

		return kept
	}

	return keep(fCols, dx), keep(gCols, dy)
}
