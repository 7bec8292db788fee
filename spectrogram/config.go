package spectrogram

import (
	"fmt"
	"runtime"
)

type Config struct {
	// Workers is fixed for the lifetime of a Pool.
	Workers int
	Backend Backend
	Taper   Taper
}

// DefaultWorkers is half the hardware threads, at least one.
func DefaultWorkers() int { return max(1, runtime.NumCPU()/2) }

func DefaultConfig() Config {
	return Config{
		Workers: DefaultWorkers(),
		Backend: BackendGonum,
		Taper:   TaperNone,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Taper == "" {
		c.Taper = def.Taper
	}
	return c
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("need at least one worker, got %d", c.Workers)
	}
	if !c.Backend.Valid() {
		return fmt.Errorf("%w: %q (have %v)", ErrBackend, c.Backend, Backends())
	}
	if !c.Taper.Valid() {
		return fmt.Errorf("%w: %q", ErrTaper, c.Taper)
	}
	return nil
}
