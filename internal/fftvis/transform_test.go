package fftvis

import "testing"

func sampleFrames(totalFrames, numBands int) [][]float64 {
	frames := make([][]float64, totalFrames)
	for f := 0; f < totalFrames; f++ {
		row := make([]float64, numBands)
		for j := 0; j < numBands; j++ {
			row[j] = float64((f*numBands+j)%11) / 10
		}
		frames[f] = row
	}
	return frames
}

func maxAbsDiff(a, b [][]float64) float64 {
	var max float64
	for f := range a {
		for j := range a[f] {
			d := a[f][j] - b[f][j]
			if d < 0 {
				d = -d
			}
			if d > max {
				max = d
			}
		}
	}
	return max
}

func TestPayloadRoundTripAllCombinations(t *testing.T) {
	const numBands = 4
	const totalFrames = 6
	frames := sampleFrames(totalFrames, numBands)

	cases := []struct {
		name  string
		mask  CompressionMask
		level QuantizeLevel
		tol   float64
	}{
		{"none", 0, Quantize16, 1e-9},
		{"quant16", MaskQuant, Quantize16, 1.0 / 65535},
		{"quant8", MaskQuant, Quantize8, 1.0 / 255},
		{"delta-float", MaskDelta, Quantize16, 1e-9},
		{"delta-quant16", MaskQuant | MaskDelta, Quantize16, 1.0 / 32767},
		{"delta-quant8", MaskQuant | MaskDelta, Quantize8, 1.0 / 127},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			payload := encodePayload(frames, numBands, c.mask, c.level)
			got, err := decodePayload(payload, totalFrames, numBands, c.mask, c.level)
			if err != nil {
				t.Fatalf("decodePayload: %v", err)
			}

			if diff := maxAbsDiff(frames, got); diff > c.tol {
				t.Errorf("max abs diff %g exceeds tolerance %g", diff, c.tol)
			}
		})
	}
}

func TestDeltaIdempotenceFloat(t *testing.T) {
	const numBands = 3
	const totalFrames = 4
	zero := make([][]float64, totalFrames)
	for i := range zero {
		zero[i] = make([]float64, numBands)
	}

	payload := encodePayload(zero, numBands, MaskDelta, Quantize16)
	for _, b := range payload {
		if b != 0 {
			t.Fatalf("expected all-zero delta payload, found non-zero byte")
		}
	}

	got, err := decodePayload(payload, totalFrames, numBands, MaskDelta, Quantize16)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	for f := range got {
		for j := range got[f] {
			if got[f][j] != 0 {
				t.Errorf("frame %d band %d: expected 0, got %g", f, j, got[f][j])
			}
		}
	}
}

func TestDeltaIdempotenceQuantizedConstant(t *testing.T) {
	// v=0.5 maps to signed-quantized value 0 for both 16-bit and 8-bit,
	// so a constant 0.5 series differences to all zero deltas.
	const numBands = 2
	const totalFrames = 3
	frames := make([][]float64, totalFrames)
	for i := range frames {
		frames[i] = []float64{0.5, 0.5}
	}

	for _, level := range []QuantizeLevel{Quantize16, Quantize8} {
		payload := encodePayload(frames, numBands, MaskQuant|MaskDelta, level)
		for _, b := range payload {
			if b != 0 {
				t.Fatalf("level %v: expected all-zero delta payload, found non-zero byte", level)
			}
		}

		got, err := decodePayload(payload, totalFrames, numBands, MaskQuant|MaskDelta, level)
		if err != nil {
			t.Fatalf("decodePayload: %v", err)
		}
		if diff := maxAbsDiff(frames, got); diff > 1.0/127 {
			t.Errorf("level %v: max abs diff %g too large", level, diff)
		}
	}
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	_, err := decodePayload(make([]byte, 3), 10, 4, MaskQuant, Quantize16)
	assertKind(t, err, ErrTruncatedPayload)
}
