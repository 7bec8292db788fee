package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	ErrBadFormat = errors.New("bad format")
)

// Reader decodes stereo PCM WAV files holding I on the left channel and Q on
// the right, the layout SDR tools use when exporting baseband.
type Reader struct {
	dec *wav.Decoder
}

func NewReader(r io.ReadSeeker) (*Reader, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		return nil, ErrBadFormat
	}
	if dec.NumChans != 2 {
		return nil, fmt.Errorf("%w: need 2 channels for I/Q, got %d", ErrBadFormat, dec.NumChans)
	}
	return &Reader{dec: dec}, nil
}

func (r *Reader) Channels() int { return int(r.dec.NumChans) }

func (r *Reader) SampleRate() int { return int(r.dec.SampleRate) }

func (r *Reader) BitDepth() int { return int(r.dec.BitDepth) }

// ReadIQ decodes every frame, scaling samples to [-1, 1).
func (r *Reader) ReadIQ() ([]complex64, error) {
	buf, err := r.dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if r.BitDepth() == 0 {
		return nil, ErrBadFormat
	}
	scale := float32(int64(1) << (r.BitDepth() - 1))
	samps := make([]complex64, len(buf.Data)/2)
	for i := range samps {
		samps[i] = complex(float32(buf.Data[2*i])/scale, float32(buf.Data[2*i+1])/scale)
	}
	return samps, nil
}

// WriteIQ encodes samps as a stereo PCM WAV of the given bit depth.
func WriteIQ(w io.WriteSeeker, rate, depth int, samps []complex64) error {
	if rate == 0 || depth == 0 {
		return ErrBadFormat
	}
	scale := float32(int64(1)<<(depth-1)) - 1
	data := make([]int, 2*len(samps))
	for i, v := range samps {
		data[2*i] = int(real(v) * scale)
		data[2*i+1] = int(imag(v) * scale)
	}
	enc := wav.NewEncoder(w, rate, depth, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: depth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
