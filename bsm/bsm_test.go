package bsm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func singlePoint(sigma, strike float64) (*mat.Dense, *mat.Dense) {
	return mat.NewDense(1, 1, []float64{sigma}), mat.NewDense(1, 1, []float64{strike})
}

func TestCallGreeksSinglePoint(t *testing.T) {
	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	gb := CallGreeks(100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)

	t.Run("Price", func(t *testing.T) {
		if !approxEqual(gb.PriceGrid.At(0, 0), 9.2270, 1e-3) {
			t.Errorf("Price = %v, want ~9.2270", gb.PriceGrid.At(0, 0))
		}
	})
	t.Run("Delta", func(t *testing.T) {
		if !approxEqual(gb.Delta.At(0, 0), 0.6159, 1e-3) {
			t.Errorf("Delta = %v, want ~0.6159", gb.Delta.At(0, 0))
		}
	})
	t.Run("Gamma", func(t *testing.T) {
		if !approxEqual(gb.Gamma.At(0, 0), 0.0196, 1e-3) {
			t.Errorf("Gamma = %v, want ~0.0196", gb.Gamma.At(0, 0))
		}
	})
	t.Run("Vega", func(t *testing.T) {
		if !approxEqual(gb.Vega.At(0, 0), 39.138, 1e-3) {
			t.Errorf("Vega = %v, want ~39.138", gb.Vega.At(0, 0))
		}
	})
	t.Run("Rho", func(t *testing.T) {
		if !approxEqual(gb.Rho.At(0, 0), 49.725, 1e-3) {
			t.Errorf("Rho = %v, want ~49.725", gb.Rho.At(0, 0))
		}
	})
}

func TestPutCallParity(t *testing.T) {
	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	const spot, r, q, tau = 100.0, 0.05, 0.02, 1.0

	call := CallGreeks(spot, r, q, tau, sigmaGrid, strikeGrid)
	put := PutGreeks(spot, r, q, tau, sigmaGrid, strikeGrid)

	parity := spot*math.Exp(-q*tau) - 100*math.Exp(-r*tau)
	got := call.PriceGrid.At(0, 0) - put.PriceGrid.At(0, 0)

	if !approxEqual(got, parity, 1e-8) {
		t.Errorf("C - P = %v, want %v (parity)", got, parity)
	}
}

func TestDeltaMonotonicitySign(t *testing.T) {
	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	call := CallGreeks(100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)
	put := PutGreeks(100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)

	if call.Delta.At(0, 0) < 0 {
		t.Errorf("call delta = %v, want >= 0", call.Delta.At(0, 0))
	}
	if put.Delta.At(0, 0) > 0 {
		t.Errorf("put delta = %v, want <= 0", put.Delta.At(0, 0))
	}
}

func TestGammaVegaSharedBetweenCallAndPut(t *testing.T) {
	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	call := CallGreeks(100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)
	put := PutGreeks(100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)

	if !approxEqual(call.Gamma.At(0, 0), put.Gamma.At(0, 0), 1e-12) {
		t.Errorf("call gamma %v != put gamma %v", call.Gamma.At(0, 0), put.Gamma.At(0, 0))
	}
	if !approxEqual(call.Vega.At(0, 0), put.Vega.At(0, 0), 1e-12) {
		t.Errorf("call vega %v != put vega %v", call.Vega.At(0, 0), put.Vega.At(0, 0))
	}
}

func BenchmarkCallGreeksGrid(b *testing.B) {
	sigmas := make([]float64, 50*50)
	strikes := make([]float64, 50*50)
	for i := range sigmas {
		sigmas[i] = 0.2
		strikes[i] = 100
	}
	sigmaGrid := mat.NewDense(50, 50, sigmas)
	strikeGrid := mat.NewDense(50, 50, strikes)

	b.Run("50x50", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			CallGreeks(100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)
		}
	})
}
