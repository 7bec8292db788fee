package spectrogram

import "errors"

var (
	ErrWindowLength  = errors.New("window length must be a power of two >= 2")
	ErrEmptyBuffer   = errors.New("empty sample buffer")
	ErrStride        = errors.New("stride factor out of range")
	ErrNoTasks       = errors.New("no windows fit in sample buffer")
	ErrRunning       = errors.New("run already in progress")
	ErrNotConfigured = errors.New("pool not configured")
	ErrNotStarted    = errors.New("no run started")
	ErrBackend       = errors.New("unknown fft backend")
	ErrTaper         = errors.New("unknown taper")
)
