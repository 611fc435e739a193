// Command voltrace is a small demonstration entry point: it loads the
// engine's runtime knobs from the environment, prices a batch of grids
// across a spot scan with a progress bar tracking lattice-run completion,
// then prints a handful of Greeks from the last one. It is a convenience
// wrapper around the library, not part of the core's required surface.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/bcdannyboy/voltrace"
	"github.com/bcdannyboy/voltrace/config"
	"github.com/bcdannyboy/voltrace/internal/obslog"
	"github.com/bcdannyboy/voltrace/types"
)

// lattice runs per Get call: 9 perturbation runs x 2 American option kinds.
const latticeRunsPerGet = 9 * 2

func main() {
	cfg := config.Load()
	obslog.Init(cfg.LogLevel)
	defer obslog.Sync()

	requests := batchRequests()

	mgr := voltrace.NewManager(cfg.CacheCapacity,
		voltrace.WithThreads(cfg.Threads),
		voltrace.WithProgress(latticeRunsPerGet*len(requests)),
	)
	defer mgr.Close()

	var last *types.Bundle
	for _, req := range requests {
		bundle, err := mgr.Get(context.Background(), req)
		if err != nil {
			log.Fatalf("voltrace: get failed: %v", err)
		}
		last = bundle
	}

	price := last.At(types.EuropeanCall, types.Price)
	delta := last.At(types.EuropeanCall, types.Delta)
	fmt.Printf("European call, sigma[0]/strike[0]: price=%.4f delta=%.4f\n", price.At(0, 0), delta.At(0, 0))

	data, err := voltrace.ExportJSON(last)
	if err != nil {
		log.Fatalf("voltrace: export failed: %v", err)
	}
	fmt.Printf("bundle serialized to %d bytes of JSON\n", len(data))
}

// batchRequests builds a small scan over spot price, the shape a batch/
// offline pricing run (as opposed to a single latency-sensitive request)
// takes: one grid per spot, all sharing the same progress bar.
func batchRequests() []types.Request {
	spots := []float64{80, 90, 100, 110, 120}
	out := make([]types.Request, len(spots))
	for i, spot := range spots {
		out[i] = types.Request{
			NSigma: 10, NStrike: 10,
			Spot: spot, R: 0.05, Q: 0.02,
			SigmaLo: 0.1, SigmaHi: 0.4,
			StrikeLo: 80, StrikeHi: 120,
			Tau: 1.0,
		}
	}
	return out
}
