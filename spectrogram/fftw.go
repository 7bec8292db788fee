//go:build fftw

package spectrogram

import (
	"sync"

	"github.com/runningwild/go-fftw/fftw32"
)

// The FFTW planner is not thread safe; plan execution is.
var fftwPlanMu sync.Mutex

type fftwFFT struct {
	in   *fftw32.Array
	out  *fftw32.Array
	plan *fftw32.Plan
}

func newFFTW(n int) FFT {
	fftwPlanMu.Lock()
	defer fftwPlanMu.Unlock()
	in, out := fftw32.NewArray(n), fftw32.NewArray(n)
	return &fftwFFT{
		in:   in,
		out:  out,
		plan: fftw32.NewPlan(in, out, fftw32.Forward, fftw32.Estimate),
	}
}

func (f *fftwFFT) Len() int { return len(f.in.Elems) }

func (f *fftwFFT) Coefficients(dst, seq []complex128) []complex128 {
	for i, v := range seq {
		f.in.Elems[i] = complex64(v)
	}
	f.plan.Execute()
	if dst == nil {
		dst = make([]complex128, len(f.out.Elems))
	}
	for i, v := range f.out.Elems {
		dst[i] = complex128(v)
	}
	return dst
}

func (f *fftwFFT) Close() error {
	fftwPlanMu.Lock()
	f.plan.Destroy()
	fftwPlanMu.Unlock()
	return nil
}

func init() { RegisterBackend(BackendFFTW, newFFTW) }
