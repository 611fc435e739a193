// Package lattice prices American options across a whole (sigma, strike)
// grid with a log-symmetric trinomial lattice and backward induction,
// comparing continuation value against early exercise at every node.
package lattice

import (
	"math"

	"github.com/bcdannyboy/voltrace/types"
	"gonum.org/v1/gonum/mat"
)

// Depth is the fixed number of backward-induction steps. Kept as a
// compile-time constant rather than a runtime parameter; see the design
// notes on lattice depth.
const Depth = 100

// Price returns the (nSigma x nStrike) American price grid for opt, given
// spot/rate/dividend/tau scalars and a broadcast sigma/strike grid pair.
// opt must be AmericanCall or AmericanPut.
func Price(opt types.OptionKind, spot, r, q, tau float64, sigmaGrid, strikeGrid *mat.Dense) *mat.Dense {
	isCall := opt.IsCall()
	rows, cols := sigmaGrid.Dims()

	dtau := tau / float64(Depth)
	discount := math.Exp(-r * dtau)

	lnU := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sigma := sigmaGrid.At(i, 0)
		lnU[i] = sigma * math.Sqrt(3*dtau)
	}

	pU, pM, pD := probabilities(sigmaGrid, r, q, dtau)

	// Two preallocated (2D+1)-length buffers of (nSigma x nStrike) grids,
	// swapped between steps rather than reallocated.
	cur := newBufferSet(2*Depth+1, rows, cols)
	next := newBufferSet(2*Depth+1, rows, cols)

	for k := 0; k <= 2*Depth; k++ {
		m := k - Depth
		fillIntrinsic(cur[k], spot, lnU, m, strikeGrid, isCall)
	}

	for t := Depth - 1; t >= 0; t-- {
		nNodes := 2*t + 1
		for k := 0; k < nNodes; k++ {
			m := k - t
			valUp, valMid, valDown := cur[k+2], cur[k+1], cur[k]
			dst := next[k]
			for i := 0; i < rows; i++ {
				spotK := spot * math.Exp(float64(m)*lnU[i])
				for j := 0; j < cols; j++ {
					cont := discount * (pU.At(i, j)*valUp.At(i, j) + pM.At(i, j)*valMid.At(i, j) + pD.At(i, j)*valDown.At(i, j))
					ex := intrinsic(spotK, strikeGrid.At(i, j), isCall)
					dst.Set(i, j, math.Max(cont, ex))
				}
			}
		}
		cur, next = next, cur
	}

	return cur[0]
}

func newBufferSet(n, rows, cols int) []*mat.Dense {
	out := make([]*mat.Dense, n)
	for i := range out {
		out[i] = mat.NewDense(rows, cols, nil)
	}
	return out
}

func intrinsic(spot, strike float64, isCall bool) float64 {
	if isCall {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

func fillIntrinsic(dst *mat.Dense, spot float64, lnU []float64, m int, strikeGrid *mat.Dense, isCall bool) {
	rows, cols := dst.Dims()
	for i := 0; i < rows; i++ {
		spotK := spot * math.Exp(float64(m)*lnU[i])
		for j := 0; j < cols; j++ {
			dst.Set(i, j, intrinsic(spotK, strikeGrid.At(i, j), isCall))
		}
	}
}

// probabilities returns the risk-neutral up/middle/down probability grids,
// each (nSigma x nStrike), per Hull Ch.20: pU = drift + 1/6, pD = 1/6 - drift,
// pM = 1 - pU - pD.
func probabilities(sigmaGrid *mat.Dense, r, q, dtau float64) (pU, pM, pD *mat.Dense) {
	rows, cols := sigmaGrid.Dims()
	pU = mat.NewDense(rows, cols, nil)
	pM = mat.NewDense(rows, cols, nil)
	pD = mat.NewDense(rows, cols, nil)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sigma := sigmaGrid.At(i, j)
			sigmaSq := sigma * sigma
			drift := math.Sqrt(dtau/(12*sigmaSq)) * (r - q - sigmaSq/2)
			u := drift + 1.0/6.0
			d := 1.0/6.0 - drift
			pU.Set(i, j, u)
			pD.Set(i, j, d)
			pM.Set(i, j, 1-u-d)
		}
	}
	return pU, pM, pD
}
