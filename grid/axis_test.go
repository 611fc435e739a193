package grid

import "testing"

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestLinspaceEndpoints(t *testing.T) {
	cases := []struct {
		n      int
		lo, hi float64
	}{
		{1, 0.1, 0.4},
		{2, 0.1, 0.4},
		{10, 80, 120},
	}

	for _, c := range cases {
		xs := Linspace(c.n, c.lo, c.hi)
		if len(xs) != c.n {
			t.Fatalf("Linspace(%d, %v, %v): got len %d, want %d", c.n, c.lo, c.hi, len(xs), c.n)
		}
		if !approxEqual(xs[0], c.lo, 1e-12) {
			t.Errorf("Linspace(%d, %v, %v): x[0]=%v, want %v", c.n, c.lo, c.hi, xs[0], c.lo)
		}
		// For n=1 the single element is lo, so that is also the last element.
		wantLast := c.hi
		if c.n == 1 {
			wantLast = c.lo
		}
		if !approxEqual(xs[c.n-1], wantLast, 1e-12) {
			t.Errorf("Linspace(%d, %v, %v): x[n-1]=%v, want %v", c.n, c.lo, c.hi, xs[c.n-1], wantLast)
		}
	}
}

func TestLinspaceUniformSpacing(t *testing.T) {
	xs := Linspace(5, 0, 8)
	want := []float64{0, 2, 4, 6, 8}
	for i, w := range want {
		if !approxEqual(xs[i], w, 1e-9) {
			t.Errorf("x[%d] = %v, want %v", i, xs[i], w)
		}
	}
}

func TestBuildBroadcast(t *testing.T) {
	axes := Build(3, 4, 0.1, 0.3, 80, 110)
	rows, cols := axes.SigmaGrid.Dims()
	if rows != 3 || cols != 4 {
		t.Fatalf("SigmaGrid dims = (%d,%d), want (3,4)", rows, cols)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !approxEqual(axes.SigmaGrid.At(i, j), axes.Sigmas[i], 1e-12) {
				t.Errorf("SigmaGrid[%d,%d] = %v, want %v", i, j, axes.SigmaGrid.At(i, j), axes.Sigmas[i])
			}
			if !approxEqual(axes.StrikeGrid.At(i, j), axes.Strikes[j], 1e-12) {
				t.Errorf("StrikeGrid[%d,%d] = %v, want %v", i, j, axes.StrikeGrid.At(i, j), axes.Strikes[j])
			}
		}
	}
}
