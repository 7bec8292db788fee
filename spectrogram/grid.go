package spectrogram

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Grid holds one magnitude spectrum per task, row-major. Row k belongs to
// task k and is written only by the worker that claimed that task.
type Grid struct {
	Bins int
	Rows int
	Data []float64
}

func NewGrid(bins, rows int) *Grid {
	return &Grid{Bins: bins, Rows: rows, Data: make([]float64, bins*rows)}
}

func (g *Grid) Row(k int) []float64 {
	return g.Data[k*g.Bins : (k+1)*g.Bins : (k+1)*g.Bins]
}

func (g *Grid) At(row, bin int) float64 { return g.Data[row*g.Bins+bin] }

// Max scans every cell. Use the run's global maximum instead when one is
// available.
func (g *Grid) Max() float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return floats.Max(g.Data)
}

// MeanStdDev of all cells.
func (g *Grid) MeanStdDev() (mean, std float64) {
	if len(g.Data) == 0 {
		return 0, 0
	}
	return stat.MeanStdDev(g.Data, nil)
}

// PeakBin returns the bin holding the largest magnitude of a row.
func (g *Grid) PeakBin(row int) int { return floats.MaxIdx(g.Row(row)) }
