package radio

import (
	"encoding/binary"
	"errors"
	"io"
)

// IQReader decodes interleaved I/Q samples. Unsigned 8-bit pairs are the
// rtl-sdr format; signed 16-bit little endian pairs are the iq16 format.
type IQReader struct {
	r      io.Reader
	format Format
	buf    []byte
}

// NewIQReader takes a reader that uses u8 I/Q samples.
func NewIQReader(r io.Reader) *IQReader { return newIQReader(r, FormatIQ8) }

// NewIQ16Reader takes a reader that uses s16le I/Q samples.
func NewIQ16Reader(r io.Reader) *IQReader { return newIQReader(r, FormatIQ16) }

func newIQReader(r io.Reader, f Format) *IQReader {
	if r == nil {
		panic("nil reader")
	}
	return &IQReader{r: r, format: f}
}

func (iq *IQReader) sampleBytes() int {
	if iq.format == FormatIQ16 {
		return 4
	}
	return 2
}

// Read64 fills out with whole samples and returns how many were decoded. A
// trailing partial sample at end of stream is dropped.
func (iq *IQReader) Read64(out []complex64) (int, error) {
	sz := iq.sampleBytes()
	if n := len(out) * sz; cap(iq.buf) < n {
		iq.buf = make([]byte, n)
	}
	buf := iq.buf[:len(out)*sz]
	nbytes, err := io.ReadFull(iq.r, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	n := nbytes / sz
	for i := 0; i < n; i++ {
		if iq.format == FormatIQ16 {
			out[i] = complex(
				float32(int16(binary.LittleEndian.Uint16(buf[4*i:])))/32768.0,
				float32(int16(binary.LittleEndian.Uint16(buf[4*i+2:])))/32768.0)
		} else {
			out[i] = complex(
				(float32(buf[2*i])-127)/128.0,
				(float32(buf[2*i+1])-127)/128.0)
		}
	}
	return n, err
}

// ReadAll decodes samples until end of stream.
func (iq *IQReader) ReadAll() ([]complex64, error) {
	var ret []complex64
	chunk := make([]complex64, 64*1024)
	for {
		n, err := iq.Read64(chunk)
		ret = append(ret, chunk[:n]...)
		if err == io.EOF {
			return ret, nil
		} else if err != nil {
			return nil, err
		}
	}
}

type IQWriter struct {
	w      io.Writer
	format Format
}

func NewIQWriter(w io.Writer) *IQWriter { return &IQWriter{w, FormatIQ8} }

func NewIQ16Writer(w io.Writer) *IQWriter { return &IQWriter{w, FormatIQ16} }

func (iq *IQWriter) Write64(out []complex64) error {
	if iq.format == FormatIQ16 {
		buf := make([]byte, 4*len(out))
		for i, v := range out {
			binary.LittleEndian.PutUint16(buf[4*i:], uint16(clamp16(real(v))))
			binary.LittleEndian.PutUint16(buf[4*i+2:], uint16(clamp16(imag(v))))
		}
		_, err := iq.w.Write(buf)
		return err
	}
	buf := make([]byte, 2*len(out))
	for i := range out {
		buf[2*i] = clamp8(real(out[i]))
		buf[2*i+1] = clamp8(imag(out[i]))
	}
	_, err := iq.w.Write(buf)
	return err
}

func clamp16(v float32) int16 {
	s := v * 32768.0
	if s > 32767 {
		return 32767
	} else if s < -32768 {
		return -32768
	}
	return int16(s)
}

func clamp8(v float32) byte {
	u := v*128.0 + 127.0
	if u > 255 {
		return 255
	} else if u < 0 {
		return 0
	}
	return byte(u)
}
