package radio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzchzchz/waterfall/radio/wav"
)

type Format string

const (
	FormatIQ8  Format = "iq8"
	FormatIQ16 Format = "iq16"
	FormatWAV  Format = "wav"
)

var ErrFormat = errors.New("unknown sample format")

// FormatFromPath guesses the sample format from a file extension. Raw
// recordings of unknown extension are assumed to be rtl-sdr u8 pairs.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return FormatWAV
	case ".iq16", ".bin", ".dat", ".pcm", ".cs16":
		return FormatIQ16
	}
	return FormatIQ8
}

func (f Format) Valid() bool {
	switch f {
	case FormatIQ8, FormatIQ16, FormatWAV:
		return true
	}
	return false
}

// Recording is a fully decoded capture and the band it was tuned to.
type Recording struct {
	Samples []complex64
	Band    HzBand
}

func (rec *Recording) Seconds() float64 { return rec.Band.Seconds(len(rec.Samples)) }

// Load decodes a whole capture. An empty format is inferred from the path.
// WAV files carry their own sample rate, which replaces hzb.Width.
func Load(path string, f Format, hzb HzBand) (*Recording, error) {
	if f == "" {
		f = FormatFromPath(path)
	}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrFormat, f)
	}
	r, closer, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closer()
	return Decode(r, f, hzb)
}

func Decode(r io.Reader, f Format, hzb HzBand) (*Recording, error) {
	switch f {
	case FormatIQ8, FormatIQ16:
		samps, err := newIQReader(r, f).ReadAll()
		if err != nil {
			return nil, err
		}
		return &Recording{Samples: samps, Band: hzb}, nil
	case FormatWAV:
		rs, ok := r.(io.ReadSeeker)
		if !ok {
			b, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			rs = bytes.NewReader(b)
		}
		wr, err := wav.NewReader(rs)
		if err != nil {
			return nil, err
		}
		samps, err := wr.ReadIQ()
		if err != nil {
			return nil, err
		}
		hzb.Width = uint64(wr.SampleRate())
		return &Recording{Samples: samps, Band: hzb}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, f)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	fin, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return fin, func() { fin.Close() }, nil
}
