package fftvis

import "math"

// FrameSet is an immutable decoded {header, frames} bundle.
type FrameSet struct {
	Header Header
	Frames [][]float64
}

// NewFrameSet wraps a header and frame set into an accessor.
func NewFrameSet(h Header, frames [][]float64) FrameSet {
	return FrameSet{Header: h, Frames: frames}
}

// FrameAtMs returns the frame nearest to the given time, in milliseconds,
// clamped to the valid frame range. The returned slice is a defensive copy;
// mutating it does not affect the FrameSet.
func (fs FrameSet) FrameAtMs(ms float64) []float64 {
	if len(fs.Frames) == 0 {
		return nil
	}

	d := 1000 / float64(fs.Header.FrameRate)
	idx := int(math.Round(ms / d))
	if idx < 0 {
		idx = 0
	}
	if max := len(fs.Frames) - 1; idx > max {
		idx = max
	}

	src := fs.Frames[idx]
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
