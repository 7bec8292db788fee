package radio

import "fmt"

// HzBand is the tuning of a recording: its center frequency and its sample
// rate, which is also the width of the band it covers.
type HzBand struct {
	Center uint64 `json:"center_hz"`
	Width  uint64 `json:"width_hz"`
}

func (hzb HzBand) ToMHz() FreqBand {
	return FreqBand{
		float64(hzb.Center) / 1e6,
		float64(hzb.Width) / 1e6,
	}
}

// BinHz is the frequency of bin in a zero-centered spectrum of bins bins.
func (hzb HzBand) BinHz(bin, bins int) float64 {
	binWidth := float64(hzb.Width) / float64(bins)
	return float64(hzb.Center) + float64(bin-bins/2)*binWidth
}

// Seconds is the duration of n samples.
func (hzb HzBand) Seconds(n int) float64 {
	if hzb.Width == 0 {
		return 0
	}
	return float64(n) / float64(hzb.Width)
}

func (hzb HzBand) String() string {
	mhz := hzb.ToMHz()
	return fmt.Sprintf("[%0.5g,%0.5g]MHz", mhz.BeginMHz(), mhz.EndMHz())
}

type FreqBand struct {
	Center float64
	Width  float64
}

func (f FreqBand) BeginMHz() float64 { return f.Center - f.Width/2.0 }
func (f FreqBand) EndMHz() float64   { return f.Center + f.Width/2.0 }

func (fb1 FreqBand) Overlaps(fb2 FreqBand) bool {
	return !(fb2.EndMHz() < fb1.BeginMHz() || fb2.BeginMHz() > fb1.EndMHz())
}
