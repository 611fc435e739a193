// Package greeks drives the American side of the engine: nine perturbed
// trinomial lattice runs per option kind, scheduled on the shared worker
// pool and combined by central finite differences.
package greeks

import (
	"context"
	"time"

	"github.com/bcdannyboy/voltrace/internal/obslog"
	"github.com/bcdannyboy/voltrace/lattice"
	"github.com/bcdannyboy/voltrace/pool"
	"github.com/bcdannyboy/voltrace/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// run indices into the fixed nine-run perturbation schedule. Results are
// always combined by this index, never by completion order, so repeated
// requests are bit-identical.
const (
	runBase = iota
	runSpotMinus
	runSpotPlus
	runSigmaMinus
	runSigmaPlus
	runTauMinus
	runTauPlus
	runRateMinus
	runRatePlus
	numRuns
)

type perturbation struct {
	spot, r, q, tau float64
	sigmaGrid       *mat.Dense
}

// AmericanBundle computes price and Greeks for opt (AmericanCall or
// AmericanPut) by submitting the nine-run perturbation schedule to p and
// combining the results with central finite differences.
func AmericanBundle(ctx context.Context, p *pool.Pool, opt types.OptionKind, spot, r, q, tau float64, sigmaGrid, strikeGrid *mat.Dense) (*types.GreeksBundle, error) {
	start := time.Now()
	epsSpot := 0.05 * spot
	epsTau := 0.01 * tau
	epsRate := 0.01 * r
	epsSigmaGrid := scaleGrid(sigmaGrid, 0.01)

	perturbations := [numRuns]perturbation{
		runBase:       {spot, r, q, tau, sigmaGrid},
		runSpotMinus:  {spot - epsSpot, r, q, tau, sigmaGrid},
		runSpotPlus:   {spot + epsSpot, r, q, tau, sigmaGrid},
		runSigmaMinus: {spot, r, q, tau, scaleGrid(sigmaGrid, 0.99)},
		runSigmaPlus:  {spot, r, q, tau, scaleGrid(sigmaGrid, 1.01)},
		runTauMinus:   {spot, r, q, tau - epsTau, sigmaGrid},
		runTauPlus:    {spot, r, q, tau + epsTau, sigmaGrid},
		runRateMinus:  {spot, r - epsRate, q, tau, sigmaGrid},
		runRatePlus:   {spot, r + epsRate, q, tau, sigmaGrid},
	}

	var futures [numRuns]*pool.Future
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numRuns; i++ {
		i := i
		pert := perturbations[i]
		g.Go(func() error {
			f, err := p.Submit(gctx, func(taskCtx context.Context) (*mat.Dense, error) {
				return lattice.Price(opt, pert.spot, pert.r, pert.q, pert.tau, pert.sigmaGrid, strikeGrid), nil
			})
			if err != nil {
				return err
			}
			futures[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results, err := pool.WaitAll(futures[:]...)
	if err != nil {
		return nil, err
	}

	base := results[runBase]
	rows, cols := base.Dims()

	delta := centralDiff(results[runSpotPlus], results[runSpotMinus], 2*epsSpot)
	gamma := secondDiff(results[runSpotPlus], base, results[runSpotMinus], epsSpot*epsSpot)
	theta := negCentralDiff(results[runTauPlus], results[runTauMinus], 2*epsTau)
	rho := centralDiff(results[runRatePlus], results[runRateMinus], 2*epsRate)
	vega := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			denom := 2 * epsSigmaGrid.At(i, j)
			vega.Set(i, j, (results[runSigmaPlus].At(i, j)-results[runSigmaMinus].At(i, j))/denom)
		}
	}

	obslog.L().Debug("greeks: american bundle computed",
		zap.String("option", opt.String()), zap.Int("runs", numRuns), zap.Duration("elapsed", time.Since(start)))

	return &types.GreeksBundle{
		PriceGrid: base,
		Delta:     delta,
		Gamma:     gamma,
		Vega:      vega,
		Theta:     theta,
		Rho:       rho,
	}, nil
}

func scaleGrid(g *mat.Dense, factor float64) *mat.Dense {
	rows, cols := g.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Scale(factor, g)
	return out
}

func centralDiff(hi, lo *mat.Dense, denom float64) *mat.Dense {
	rows, cols := hi.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Sub(hi, lo)
	out.Scale(1/denom, out)
	return out
}

func negCentralDiff(hi, lo *mat.Dense, denom float64) *mat.Dense {
	rows, cols := hi.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Sub(hi, lo)
	out.Scale(-1/denom, out)
	return out
}

func secondDiff(hi, mid, lo *mat.Dense, denom float64) *mat.Dense {
	rows, cols := hi.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Add(hi, lo)
	twoMid := mat.NewDense(rows, cols, nil)
	twoMid.Scale(2, mid)
	out.Sub(out, twoMid)
	out.Scale(1/denom, out)
	return out
}
