package radio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/waterfall/radio/wav"
)

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, FormatWAV, FormatFromPath("a/b.WAV"))
	require.Equal(t, FormatIQ16, FormatFromPath("rec.iq16"))
	require.Equal(t, FormatIQ16, FormatFromPath("rec.bin"))
	require.Equal(t, FormatIQ8, FormatFromPath("100000000[2048000].iq8"))
	require.Equal(t, FormatIQ8, FormatFromPath("-"))
}

func TestLoadIQ8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.iq8")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, NewIQWriter(f).Write64(make([]complex64, 100)))
	require.NoError(t, f.Close())

	hzb := HzBand{Center: 433920000, Width: 1024000}
	rec, err := Load(path, "", hzb)
	require.NoError(t, err)
	require.Len(t, rec.Samples, 100)
	require.Equal(t, hzb, rec.Band)
}

func TestLoadWAVUsesFileRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	in := []complex64{complex(0.5, -0.5), complex(-0.25, 0.25), 0}
	require.NoError(t, wav.WriteIQ(f, 48000, 16, in))
	require.NoError(t, f.Close())

	rec, err := Load(path, "", HzBand{Center: 7e6, Width: 1})
	require.NoError(t, err)
	require.Equal(t, uint64(48000), rec.Band.Width)
	require.Equal(t, uint64(7e6), rec.Band.Center)
	require.Len(t, rec.Samples, len(in))
	for i := range in {
		require.InDelta(t, real(in[i]), real(rec.Samples[i]), 1e-3)
		require.InDelta(t, imag(in[i]), imag(rec.Samples[i]), 1e-3)
	}
}

func TestLoadBadFormat(t *testing.T) {
	_, err := Load("x.iq8", "mp3", HzBand{})
	require.ErrorIs(t, err, ErrFormat)
	_, err = Load(filepath.Join(t.TempDir(), "missing.iq8"), "", HzBand{})
	require.ErrorIs(t, err, os.ErrNotExist)
}
