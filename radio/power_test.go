package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/waterfall/spectrogram"
)

// flatGrid is 0 dB everywhere except 40 dB in the given bins.
func flatGrid(hot ...int) *spectrogram.Grid {
	g := spectrogram.NewGrid(64, 4)
	for i := range g.Data {
		g.Data[i] = 1
	}
	for row := 0; row < g.Rows; row++ {
		for _, bin := range hot {
			g.Row(row)[bin] = 100
		}
	}
	return g
}

var testBand = HzBand{Center: 100000000, Width: 6400000}

func TestSpectralPowerFlat(t *testing.T) {
	sp := NewSpectralPower(flatGrid(), testBand)
	assert.InDelta(t, 0, sp.NoiseFloor(), 1e-9)
	assert.InDelta(t, 0, sp.Stddev(), 1e-9)
	assert.Empty(t, sp.Bands())
	assert.Empty(t, sp.Spurs())
}

func TestSpectralPowerBand(t *testing.T) {
	sp := NewSpectralPower(flatGrid(40, 41, 42, 43), testBand)
	assert.InDelta(t, 40, sp.Average()[41], 1e-9)
	assert.InDelta(t, 0, sp.Spread(), 1e-9)

	bands := sp.Bands()
	require.Len(t, bands, 1)
	assert.InDelta(t, 101.0, bands[0].Center, 1e-9)
	assert.InDelta(t, 0.4, bands[0].Width, 1e-9)
	assert.Empty(t, sp.Spurs())
}

func TestSignalsSkipSpurs(t *testing.T) {
	sp := NewSpectralPower(flatGrid(10, 40, 41, 42, 43), testBand)
	spurs := sp.Spurs()
	require.Len(t, spurs, 1)
	assert.InDelta(t, 97.85, spurs[0].Center, 1e-9)

	require.Len(t, sp.Bands(), 2)
	sigs := sp.Signals(0)
	require.Len(t, sigs, 1)
	assert.InDelta(t, 101.0, sigs[0].Center, 1e-9)

	assert.Empty(t, sp.Signals(500000))
}

func TestOverlaps(t *testing.T) {
	a := FreqBand{Center: 100, Width: 1}
	assert.True(t, a.Overlaps(FreqBand{Center: 100.9, Width: 1}))
	assert.False(t, a.Overlaps(FreqBand{Center: 102, Width: 1}))
}
