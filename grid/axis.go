// Package grid builds the 1D σ/K axes and broadcasts them into the
// (nSigma, nStrike) grids every other component consumes.
package grid

import (
	"gonum.org/v1/gonum/mat"
)

// Linspace returns a length-n sequence with x[0]=lo, x[n-1]=hi, and
// uniform spacing. For n=1 it returns [lo].
func Linspace(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// Axes are the outer-product broadcast of the σ and K axes, each of
// shape (nSigma, nStrike): SigmaGrid[i,j] = sigmas[i], StrikeGrid[i,j] = strikes[j].
type Axes struct {
	Sigmas, Strikes       []float64
	SigmaGrid, StrikeGrid *mat.Dense
}

// Build constructs the axes and their broadcast grids via mat.Dense.Outer,
// the gonum analogue of the tensor-broadcast this system was distilled from.
func Build(nSigma, nStrike int, sigmaLo, sigmaHi, strikeLo, strikeHi float64) *Axes {
	sigmas := Linspace(nSigma, sigmaLo, sigmaHi)
	strikes := Linspace(nStrike, strikeLo, strikeHi)

	sigmaVec := mat.NewVecDense(nSigma, sigmas)
	onesStrike := mat.NewVecDense(nStrike, ones(nStrike))
	sigmaGrid := mat.NewDense(nSigma, nStrike, nil)
	sigmaGrid.Outer(1, sigmaVec, onesStrike)

	onesSigma := mat.NewVecDense(nSigma, ones(nSigma))
	strikeVec := mat.NewVecDense(nStrike, strikes)
	strikeGrid := mat.NewDense(nSigma, nStrike, nil)
	strikeGrid.Outer(1, onesSigma, strikeVec)

	return &Axes{
		Sigmas:     sigmas,
		Strikes:    strikes,
		SigmaGrid:  sigmaGrid,
		StrikeGrid: strikeGrid,
	}
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
