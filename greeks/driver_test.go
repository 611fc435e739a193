package greeks

import (
	"context"
	"math"
	"testing"

	"github.com/bcdannyboy/voltrace/pool"
	"github.com/bcdannyboy/voltrace/types"
	"gonum.org/v1/gonum/mat"
)

func singlePoint(sigma, strike float64) (*mat.Dense, *mat.Dense) {
	return mat.NewDense(1, 1, []float64{sigma}), mat.NewDense(1, 1, []float64{strike})
}

func TestAmericanBundleShapeAndFiniteness(t *testing.T) {
	p := pool.New(4)
	defer p.Close()

	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	gb, err := AmericanBundle(context.Background(), p, types.AmericanCall, 100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)
	if err != nil {
		t.Fatalf("AmericanBundle: %v", err)
	}

	grids := []*mat.Dense{gb.PriceGrid, gb.Delta, gb.Gamma, gb.Vega, gb.Theta, gb.Rho}
	for i, g := range grids {
		rows, cols := g.Dims()
		if rows != 1 || cols != 1 {
			t.Fatalf("grid %d dims = (%d,%d), want (1,1)", i, rows, cols)
		}
		v := g.At(0, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("grid %d value = %v, want finite", i, v)
		}
	}
}

func TestAmericanCallDeltaInRange(t *testing.T) {
	p := pool.New(4)
	defer p.Close()

	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	gb, err := AmericanBundle(context.Background(), p, types.AmericanCall, 100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)
	if err != nil {
		t.Fatalf("AmericanBundle: %v", err)
	}

	delta := gb.Delta.At(0, 0)
	if delta < -0.05 || delta > 1.05 {
		t.Errorf("American call delta = %v, want roughly within [0,1]", delta)
	}
}

func TestAmericanGammaNonNegative(t *testing.T) {
	p := pool.New(4)
	defer p.Close()

	sigmaGrid, strikeGrid := singlePoint(0.2, 100)
	for _, opt := range []types.OptionKind{types.AmericanCall, types.AmericanPut} {
		gb, err := AmericanBundle(context.Background(), p, opt, 100, 0.05, 0.02, 1.0, sigmaGrid, strikeGrid)
		if err != nil {
			t.Fatalf("AmericanBundle(%v): %v", opt, err)
		}
		if gb.Gamma.At(0, 0) < -1e-3 {
			t.Errorf("%v gamma = %v, want >= -1e-3", opt, gb.Gamma.At(0, 0))
		}
	}
}
