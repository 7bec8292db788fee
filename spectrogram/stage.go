package spectrogram

import (
	"fmt"
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
)

type Taper string

const (
	TaperNone     Taper = "none"
	TaperHann     Taper = "hann"
	TaperHamming  Taper = "hamming"
	TaperBlackman Taper = "blackman"
)

// coefficients returns nil for TaperNone so the stage can skip the multiply.
func (t Taper) coefficients(n int) ([]float64, error) {
	switch t {
	case TaperNone, "":
		return nil, nil
	case TaperHann:
		return window.Hann(n), nil
	case TaperHamming:
		return window.Hamming(n), nil
	case TaperBlackman:
		return window.Blackman(n), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTaper, t)
}

func (t Taper) Valid() bool {
	_, err := t.coefficients(2)
	return err == nil
}

// IsPow2 reports whether n is a usable window length.
func IsPow2(n int) bool { return n >= 2 && bits.OnesCount(uint(n)) == 1 }

// Stage turns one window of samples into a zero-centered magnitude spectrum.
// Its scratch buffers are reused across calls; a Stage belongs to one worker.
type Stage struct {
	backend Backend
	taper   Taper

	fft  FFT
	coef []float64
	in   []complex128
	out  []complex128
}

func NewStage(b Backend, t Taper, n int) (*Stage, error) {
	s := &Stage{backend: b, taper: t}
	if err := s.Resize(n); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stage) Len() int { return len(s.in) }

// Resize reallocates the transform for n-sample windows. It does nothing if
// the stage already has that length.
func (s *Stage) Resize(n int) error {
	if s.fft != nil && len(s.in) == n {
		return nil
	}
	if !IsPow2(n) {
		return fmt.Errorf("%w: %d", ErrWindowLength, n)
	}
	coef, err := s.taper.coefficients(n)
	if err != nil {
		return err
	}
	f, err := newFFT(s.backend, n)
	if err != nil {
		return err
	}
	s.Close()
	s.fft, s.coef = f, coef
	s.in, s.out = make([]complex128, n), make([]complex128, n)
	return nil
}

// Run transforms samps into dst and returns the largest magnitude written.
// Both slices must be Len() long.
func (s *Stage) Run(dst []float64, samps []complex64) float64 {
	for i, v := range samps {
		s.in[i] = complex128(v)
	}
	if s.coef != nil {
		for i, c := range s.coef {
			s.in[i] *= complex(c, 0)
		}
	}
	s.out = s.fft.Coefficients(s.out, s.in)
	CenterZero(s.out)
	peak := 0.0
	for i, v := range s.out {
		mag := cmplx.Abs(v)
		dst[i] = mag
		if mag > peak {
			peak = mag
		}
	}
	return peak
}

func (s *Stage) Close() {
	if s.fft != nil {
		closeFFT(s.fft)
		s.fft = nil
	}
}

// CenterZero rotates s by half its length so the zero-frequency bin lands in
// the middle: new[i] = old[(i+n/2) mod n]. For even n this is a swap of the
// two halves and applying it twice restores the input.
func CenterZero[T any](s []T) {
	half := len(s) / 2
	if len(s)%2 == 0 {
		for i := 0; i < half; i++ {
			s[i], s[i+half] = s[i+half], s[i]
		}
		return
	}
	rotated := append(s[half:len(s):len(s)], s[:half]...)
	copy(s, rotated)
}
