// Package types holds the data model shared by every component of the
// pricing engine: the option and Greek enumerations, the request shape,
// and the 24-grid result bundle.
package types

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OptionKind identifies one of the four contracts the engine prices.
type OptionKind int

const (
	AmericanCall OptionKind = iota
	AmericanPut
	EuropeanCall
	EuropeanPut
)

func (k OptionKind) String() string {
	switch k {
	case AmericanCall:
		return "AmericanCall"
	case AmericanPut:
		return "AmericanPut"
	case EuropeanCall:
		return "EuropeanCall"
	case EuropeanPut:
		return "EuropeanPut"
	default:
		return fmt.Sprintf("OptionKind(%d)", int(k))
	}
}

// IsCall reports whether the contract is a call (true) or a put (false).
func (k OptionKind) IsCall() bool {
	return k == AmericanCall || k == EuropeanCall
}

// IsAmerican reports whether the contract allows early exercise.
func (k OptionKind) IsAmerican() bool {
	return k == AmericanCall || k == AmericanPut
}

// NumOptionKinds is the number of OptionKind values.
const NumOptionKinds = 4

// GreekKind identifies price or one of its sensitivities.
type GreekKind int

const (
	Price GreekKind = iota
	Delta
	Gamma
	Vega
	Theta
	Rho
)

func (g GreekKind) String() string {
	switch g {
	case Price:
		return "Price"
	case Delta:
		return "Delta"
	case Gamma:
		return "Gamma"
	case Vega:
		return "Vega"
	case Theta:
		return "Theta"
	case Rho:
		return "Rho"
	default:
		return fmt.Sprintf("GreekKind(%d)", int(g))
	}
}

// NumGreekKinds is the number of GreekKind values.
const NumGreekKinds = 6

// NumGrids is the total number of grids carried by a Bundle.
const NumGrids = NumOptionKinds * NumGreekKinds

// Request describes a single grid pricing query. All fields are validated
// against the preconditions in the manager before any work is scheduled.
type Request struct {
	NSigma, NStrike                      int
	Spot, R, Q                           float64
	SigmaLo, SigmaHi, StrikeLo, StrikeHi float64
	Tau                                  float64
}

// GreeksBundle holds the six Greek grids for a single option contract,
// all sharing shape (nSigma, nStrike).
type GreeksBundle struct {
	PriceGrid *mat.Dense
	Delta     *mat.Dense
	Gamma     *mat.Dense
	Vega      *mat.Dense
	Theta     *mat.Dense
	Rho       *mat.Dense
}

// Grid returns the grid for the given GreekKind.
func (b *GreeksBundle) Grid(g GreekKind) *mat.Dense {
	switch g {
	case Price:
		return b.PriceGrid
	case Delta:
		return b.Delta
	case Gamma:
		return b.Gamma
	case Vega:
		return b.Vega
	case Theta:
		return b.Theta
	case Rho:
		return b.Rho
	default:
		panic(fmt.Sprintf("types: unknown greek kind %v", g))
	}
}

// Bundle is the full 24-grid result for one request, indexed by
// OptionKind*6 + GreekKind.
type Bundle struct {
	Grids           [NumGrids]*mat.Dense
	NSigma, NStrike int
}

// At returns the grid for the given option and Greek combination.
func (b *Bundle) At(opt OptionKind, greek GreekKind) *mat.Dense {
	return b.Grids[int(opt)*NumGreekKinds+int(greek)]
}

// Set installs the grid for the given option and Greek combination.
func (b *Bundle) Set(opt OptionKind, greek GreekKind, g *mat.Dense) {
	b.Grids[int(opt)*NumGreekKinds+int(greek)] = g
}

// SetGreeksBundle installs all six grids of gb under the given option kind.
func (b *Bundle) SetGreeksBundle(opt OptionKind, gb *GreeksBundle) {
	b.Set(opt, Price, gb.PriceGrid)
	b.Set(opt, Delta, gb.Delta)
	b.Set(opt, Gamma, gb.Gamma)
	b.Set(opt, Vega, gb.Vega)
	b.Set(opt, Theta, gb.Theta)
	b.Set(opt, Rho, gb.Rho)
}

// Clone returns a deep copy of the bundle, safe to retain beyond the
// lifetime of a cache borrow.
func (b *Bundle) Clone() *Bundle {
	out := &Bundle{NSigma: b.NSigma, NStrike: b.NStrike}
	for i, g := range b.Grids {
		if g == nil {
			continue
		}
		c := mat.NewDense(b.NSigma, b.NStrike, nil)
		c.Copy(g)
		out.Grids[i] = c
	}
	return out
}
