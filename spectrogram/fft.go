package spectrogram

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT is a forward complex transform of a fixed length. Implementations keep
// internal scratch and are not safe for concurrent use; every worker owns its
// own instance.
type FFT interface {
	Len() int
	Coefficients(dst, seq []complex128) []complex128
}

type Backend string

const (
	BackendGonum Backend = "gonum"
	BackendDSP   Backend = "dsp"
	BackendFFTW  Backend = "fftw"
)

var (
	backendsMu sync.RWMutex
	backends   = map[Backend]func(n int) FFT{
		BackendGonum: func(n int) FFT { return fourier.NewCmplxFFT(n) },
		BackendDSP:   func(n int) FFT { return dspFFT(n) },
	}
)

// RegisterBackend makes a transform available by name to NewStage and Config.
func RegisterBackend(name Backend, newFFT func(n int) FFT) {
	backendsMu.Lock()
	backends[name] = newFFT
	backendsMu.Unlock()
}

func Backends() (ret []Backend) {
	backendsMu.RLock()
	for k := range backends {
		ret = append(ret, k)
	}
	backendsMu.RUnlock()
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

func (b Backend) Valid() bool {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	_, ok := backends[b]
	return ok
}

func newFFT(b Backend, n int) (FFT, error) {
	backendsMu.RLock()
	newf, ok := backends[b]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackend, b)
	}
	return newf(n), nil
}

func closeFFT(f FFT) {
	if c, ok := f.(io.Closer); ok {
		c.Close()
	}
}

// dspFFT adapts go-dsp, which allocates its own output on every call.
type dspFFT int

func (f dspFFT) Len() int { return int(f) }

func (f dspFFT) Coefficients(dst, seq []complex128) []complex128 {
	out := fft.FFT(seq)
	if dst == nil {
		return out
	}
	copy(dst, out)
	return dst
}
