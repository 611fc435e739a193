package voltrace

import (
	"github.com/bcdannyboy/voltrace/types"
	"github.com/xhhuango/json"
)

// gridDTO is the flat, JSON-friendly projection of a single grid, since
// *mat.Dense itself carries no exported fields for json to walk.
type gridDTO struct {
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Values [][]float64 `json:"values"`
}

// bundleDTO mirrors types.Bundle for serialization, keyed by the option
// and Greek names rather than the packed linear index.
type bundleDTO struct {
	NSigma  int                           `json:"n_sigma"`
	NStrike int                           `json:"n_strike"`
	Grids   map[string]map[string]gridDTO `json:"grids"`
}

// ExportJSON serializes a bundle with github.com/xhhuango/json. This is a
// convenience outside the core's required surface: the engine imposes no
// serialization format on its own.
func ExportJSON(b *types.Bundle) ([]byte, error) {
	dto := bundleDTO{
		NSigma:  b.NSigma,
		NStrike: b.NStrike,
		Grids:   make(map[string]map[string]gridDTO),
	}

	for opt := types.AmericanCall; opt <= types.EuropeanPut; opt++ {
		greekMap := make(map[string]gridDTO, types.NumGreekKinds)
		for greek := types.Price; greek <= types.Rho; greek++ {
			g := b.At(opt, greek)
			rows, cols := g.Dims()
			values := make([][]float64, rows)
			for i := 0; i < rows; i++ {
				values[i] = make([]float64, cols)
				for j := 0; j < cols; j++ {
					values[i][j] = g.At(i, j)
				}
			}
			greekMap[greek.String()] = gridDTO{Rows: rows, Cols: cols, Values: values}
		}
		dto.Grids[opt.String()] = greekMap
	}

	return json.Marshal(dto)
}
