package spectrogram

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenterZeroTwiceIsIdentity(t *testing.T) {
	for _, n := range []int{2, 4, 6, 8, 16, 1024} {
		orig := make([]int, n)
		for i := range orig {
			orig[i] = i
		}
		s := append([]int(nil), orig...)
		CenterZero(s)
		for i := range s {
			require.Equal(t, orig[(i+n/2)%n], s[i], "n=%d i=%d", n, i)
		}
		CenterZero(s)
		require.Equal(t, orig, s)
	}
}

func TestCenterZeroOdd(t *testing.T) {
	s := []int{0, 1, 2, 3, 4}
	CenterZero(s)
	require.Equal(t, []int{2, 3, 4, 0, 1}, s)
}

func TestStageZeros(t *testing.T) {
	s, err := NewStage(BackendGonum, TaperNone, 4)
	require.NoError(t, err)
	dst := []float64{-1, -1, -1, -1}
	peak := s.Run(dst, make([]complex64, 4))
	require.Zero(t, peak)
	require.Equal(t, []float64{0, 0, 0, 0}, dst)
}

func TestStageDC(t *testing.T) {
	const n = 8
	s, err := NewStage(BackendGonum, TaperNone, n)
	require.NoError(t, err)
	samps := make([]complex64, n)
	for i := range samps {
		samps[i] = 1
	}
	dst := make([]float64, n)
	peak := s.Run(dst, samps)
	require.InDelta(t, float64(n), peak, 1e-9)
	for i, v := range dst {
		if i == n/2 {
			require.InDelta(t, float64(n), v, 1e-9)
		} else {
			require.InDelta(t, 0, v, 1e-9, "bin %d", i)
		}
	}
}

func toneSamples(n, bin int) []complex64 {
	samps := make([]complex64, n)
	for j := range samps {
		samps[j] = complex64(cmplx.Exp(complex(0, 2*math.Pi*float64(bin*j)/float64(n))))
	}
	return samps
}

func TestStageToneLandsRightOfCenter(t *testing.T) {
	const n, bin = 16, 3
	for _, b := range []Backend{BackendGonum, BackendDSP} {
		s, err := NewStage(b, TaperNone, n)
		require.NoError(t, err)
		dst := make([]float64, n)
		peak := s.Run(dst, toneSamples(n, bin))
		require.InDelta(t, float64(n), peak, 1e-3, "backend %s", b)
		require.InDelta(t, float64(n), dst[n/2+bin], 1e-3, "backend %s", b)
	}
}

func TestBackendsAgree(t *testing.T) {
	const n = 256
	rng := rand.New(rand.NewSource(7))
	samps := make([]complex64, n)
	for i := range samps {
		samps[i] = complex(rng.Float32()*2-1, rng.Float32()*2-1)
	}
	gs, err := NewStage(BackendGonum, TaperHann, n)
	require.NoError(t, err)
	ds, err := NewStage(BackendDSP, TaperHann, n)
	require.NoError(t, err)
	g, d := make([]float64, n), make([]float64, n)
	gp, dp := gs.Run(g, samps), ds.Run(d, samps)
	assert.InDelta(t, gp, dp, 1e-9)
	assert.InDeltaSlice(t, g, d, 1e-9)
}

func TestStageTaperReducesLeakagePeak(t *testing.T) {
	const n = 64
	plain, err := NewStage(BackendGonum, TaperNone, n)
	require.NoError(t, err)
	tapered, err := NewStage(BackendGonum, TaperBlackman, n)
	require.NoError(t, err)
	samps := toneSamples(n, 5)
	a, b := make([]float64, n), make([]float64, n)
	require.Greater(t, plain.Run(a, samps), tapered.Run(b, samps))
}

func TestStageResize(t *testing.T) {
	s, err := NewStage(BackendGonum, TaperNone, 8)
	require.NoError(t, err)
	f := s.fft
	require.NoError(t, s.Resize(8))
	require.True(t, f == s.fft, "same length must keep the transform")
	require.NoError(t, s.Resize(32))
	require.Equal(t, 32, s.Len())
	require.Equal(t, 32, s.fft.Len())
}

func TestNewStageErrors(t *testing.T) {
	_, err := NewStage(BackendGonum, TaperNone, 12)
	require.ErrorIs(t, err, ErrWindowLength)
	_, err = NewStage(BackendGonum, TaperNone, 1)
	require.ErrorIs(t, err, ErrWindowLength)
	_, err = NewStage("nope", TaperNone, 8)
	require.ErrorIs(t, err, ErrBackend)
	_, err = NewStage(BackendGonum, "triangle", 8)
	require.ErrorIs(t, err, ErrTaper)
}

func BenchmarkStage8192(b *testing.B) {
	const n = 8192
	s, err := NewStage(BackendGonum, TaperNone, n)
	require.NoError(b, err)
	samps, dst := toneSamples(n, 100), make([]float64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Run(dst, samps)
	}
}
