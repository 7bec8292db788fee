package spectrogram

// SampleBuffer is a read-only view over complex samples. A single buffer is
// shared by every worker for the duration of a run.
type SampleBuffer struct {
	samps []complex64
}

// NewSampleBuffer takes ownership of samps; callers must not modify the slice
// after handing it over.
func NewSampleBuffer(samps []complex64) *SampleBuffer {
	return &SampleBuffer{samps: samps}
}

func (sb *SampleBuffer) Len() int {
	if sb == nil {
		return 0
	}
	return len(sb.samps)
}

// Window returns n samples starting at off. The returned slice has its
// capacity clipped so appends cannot reach into the shared buffer.
func (sb *SampleBuffer) Window(off, n int) []complex64 {
	return sb.samps[off : off+n : off+n]
}
