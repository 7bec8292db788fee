package wav

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRejectsNonWAV(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("definitely not a riff header")))
	require.ErrorIs(t, err, ErrBadFormat)
}

func TestWriteIQBadArgs(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	require.NoError(t, err)
	defer f.Close()
	require.ErrorIs(t, WriteIQ(f, 0, 16, nil), ErrBadFormat)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iq.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	in := make([]complex64, 256)
	for i := range in {
		in[i] = complex(float32(i)/512, -float32(i)/512)
	}
	require.NoError(t, WriteIQ(f, 96000, 16, in))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r, err := NewReader(f)
	require.NoError(t, err)
	require.Equal(t, 2, r.Channels())
	require.Equal(t, 96000, r.SampleRate())
	require.Equal(t, 16, r.BitDepth())
	out, err := r.ReadIQ()
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		require.InDelta(t, real(in[i]), real(out[i]), 1e-4)
		require.InDelta(t, imag(in[i]), imag(out[i]), 1e-4)
	}
}
