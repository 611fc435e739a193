// Package bsm computes closed-form Black-Scholes-Merton price and Greeks
// over a whole (sigma, strike) grid, rather than one option at a time.
package bsm

import (
	"math"

	"github.com/bcdannyboy/voltrace/types"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.UnitNormal

func normCDF(x float64) float64 { return stdNormal.CDF(x) }
func normPDF(x float64) float64 { return stdNormal.Prob(x) }

// CallGreeks computes the six call Greeks, element-wise, over sigmaGrid and
// strikeGrid, following the BSM closed form with continuous dividend yield q.
func CallGreeks(spot, r, q, tau float64, sigmaGrid, strikeGrid *mat.Dense) *types.GreeksBundle {
	rows, cols := sigmaGrid.Dims()

	price := mat.NewDense(rows, cols, nil)
	delta := mat.NewDense(rows, cols, nil)
	gamma := mat.NewDense(rows, cols, nil)
	vega := mat.NewDense(rows, cols, nil)
	theta := mat.NewDense(rows, cols, nil)
	rho := mat.NewDense(rows, cols, nil)

	sqrtTau := math.Sqrt(tau)
	discQ := math.Exp(-q * tau)
	discR := math.Exp(-r * tau)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sigma := sigmaGrid.At(i, j)
			k := strikeGrid.At(i, j)

			d1 := (math.Log(spot/k) + (r-q+0.5*sigma*sigma)*tau) / (sigma * sqrtTau)
			d2 := d1 - sigma*sqrtTau
			nD1, nD2 := normCDF(d1), normCDF(d2)
			phiD1 := normPDF(d1)

			price.Set(i, j, spot*discQ*nD1-k*discR*nD2)
			delta.Set(i, j, discQ*nD1)
			gamma.Set(i, j, phiD1*discQ/(spot*sigma*sqrtTau))
			vega.Set(i, j, spot*sqrtTau*phiD1*discQ)
			theta.Set(i, j, -spot*phiD1*sigma*discQ/(2*sqrtTau)+q*spot*nD1*discQ-r*k*discR*nD2)
			rho.Set(i, j, k*tau*discR*nD2)
		}
	}

	return &types.GreeksBundle{PriceGrid: price, Delta: delta, Gamma: gamma, Vega: vega, Theta: theta, Rho: rho}
}

// PutGreeks derives the put Greek bundle from the call bundle via put-call
// parity, avoiding a second pass over d1/d2.
func PutGreeks(spot, r, q, tau float64, sigmaGrid, strikeGrid *mat.Dense) *types.GreeksBundle {
	call := CallGreeks(spot, r, q, tau, sigmaGrid, strikeGrid)
	rows, cols := sigmaGrid.Dims()

	price := mat.NewDense(rows, cols, nil)
	delta := mat.NewDense(rows, cols, nil)
	theta := mat.NewDense(rows, cols, nil)
	rho := mat.NewDense(rows, cols, nil)

	discQ := math.Exp(-q * tau)
	discR := math.Exp(-r * tau)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			k := strikeGrid.At(i, j)
			parity := spot*discQ - k*discR

			price.Set(i, j, call.PriceGrid.At(i, j)-parity)
			delta.Set(i, j, call.Delta.At(i, j)-discQ)
			theta.Set(i, j, call.Theta.At(i, j)-q*spot*discQ+r*k*discR)
			rho.Set(i, j, call.Rho.At(i, j)-k*tau*discR)
		}
	}

	return &types.GreeksBundle{
		PriceGrid: price,
		Delta:     delta,
		Gamma:     call.Gamma, // gamma and vega are shared between call and put
		Vega:      call.Vega,
		Theta:     theta,
		Rho:       rho,
	}
}
