package radio

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chzchzchz/waterfall/spectrogram"
)

// minMagnitude keeps empty bins finite in dB.
const minMagnitude = 1e-12

// SpectralPower summarizes each frequency bin of a spectrogram over time, in
// dB.
type SpectralPower struct {
	band FreqBand
	avg  []float64
	med  []float64
}

type binBand struct {
	Begin int
	Bins  int
	DB    float64
}

func NewSpectralPower(g *spectrogram.Grid, hzb HzBand) *SpectralPower {
	sp := &SpectralPower{
		band: hzb.ToMHz(),
		avg:  make([]float64, g.Bins),
		med:  make([]float64, g.Bins),
	}
	col := make([]float64, g.Rows)
	for bin := 0; bin < g.Bins; bin++ {
		for row := range col {
			col[row] = 20 * math.Log10(math.Max(g.At(row, bin), minMagnitude))
		}
		sp.avg[bin] = stat.Mean(col, nil)
		sort.Float64s(col)
		sp.med[bin] = stat.Quantile(0.5, stat.Empirical, col, nil)
	}
	return sp
}

func (sp *SpectralPower) Average() []float64 { return sp.avg }

func median(v []float64) float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}

func (sp *SpectralPower) NoiseFloor() float64 { return median(sp.med) }

// Spread is the median of the per-bin averages.
func (sp *SpectralPower) Spread() float64 { return median(sp.avg) }

// Stddev is taken around the spread rather than the mean.
func (sp *SpectralPower) Stddev() float64 {
	if len(sp.avg) < 2 {
		return 0
	}
	spr, sdev := sp.Spread(), 0.0
	for _, v := range sp.avg {
		sdev += (v - spr) * (v - spr)
	}
	sdev /= float64(len(sp.avg) - 1)
	return math.Sqrt(sdev)
}

// Spurs are single bins standing well above both neighbours.
func (sp *SpectralPower) Spurs() (ret []FreqBand) {
	spr, sdev := sp.Spread(), sp.Stddev()
	for i := 1; i < len(sp.avg)-1; i++ {
		left, mid, right := sp.avg[i-1]-spr, sp.avg[i]-spr, sp.avg[i+1]-spr
		if mid < 0 {
			continue
		}
		if mid-left > 2.0*sdev && mid-right > 2.0*sdev {
			ret = append(ret, sp.freq(binBand{i, 1, sp.avg[i]}))
		}
	}
	return ret
}

// Bands are runs of bins at least 1.5 deviations over the spread.
func (sp *SpectralPower) Bands() (ret []FreqBand) {
	spr, sdev := sp.Spread(), sp.Stddev()
	if sdev == 0 {
		return nil
	}
	begin, end := -1, -1
	db := 0.0
	flush := func() {
		n := end - begin + 1
		ret = append(ret, sp.freq(binBand{begin, n, db / float64(n)}))
		begin, db = -1, 0
	}
	for i, avg := range sp.avg {
		if avg-spr >= 1.5*sdev {
			if begin == -1 {
				if i == 0 || sp.avg[i-1]-spr > (avg-spr)/2.0 {
					continue
				}
				begin = i
			}
			end = i
			db += avg - spr
		} else if begin != -1 {
			flush()
		}
	}
	if begin != -1 {
		flush()
	}
	return ret
}

// Signals are the bands wider than minWidthHz that do not contain a spur.
func (sp *SpectralPower) Signals(minWidthHz float64) (ret []FreqBand) {
	spurs := sp.Spurs()
	for _, fb := range sp.Bands() {
		if fb.Width <= minWidthHz/1e6 {
			continue
		}
		hasSpur := false
		for _, spur := range spurs {
			if spur.Overlaps(fb) {
				hasSpur = true
				break
			}
		}
		if !hasSpur {
			ret = append(ret, fb)
		}
	}
	return ret
}

func (sp *SpectralPower) binMHz() float64 { return sp.band.Width / float64(len(sp.avg)) }

func (sp *SpectralPower) freq(bb binBand) FreqBand {
	beginMHz := float64(bb.Begin-len(sp.avg)/2)*sp.binMHz() + sp.band.Center
	bw := float64(bb.Bins) * sp.binMHz()
	return FreqBand{Center: beginMHz + bw/2.0, Width: bw}
}
