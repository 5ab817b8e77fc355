package fftvis

import (
	"encoding/binary"
	"math"
)

// encodePayload flattens frames row-major and applies the quantize/delta
// stages of the cascade (not compression). The cascade order is fixed:
// quantize first, then delta; this function implements both because delta
// encoding with quantization differences a signed-mapped quantized value,
// not the unsigned value that the quantize-only path writes.
func encodePayload(frames [][]float64, numBands int, mask CompressionMask, level QuantizeLevel) []byte {
	quant := mask.hasQuant()
	delta := mask.hasDelta()

	switch {
	case delta && quant && level == Quantize16:
		return encodeDeltaSigned(frames, numBands, 32767, encodeInt16LE)
	case delta && quant && level == Quantize8:
		return encodeDeltaSigned(frames, numBands, 127, encodeInt8LE)
	case delta:
		return encodeDeltaFloat(frames, numBands)
	case quant && level == Quantize16:
		return encodeUnsigned16(frames, numBands)
	case quant && level == Quantize8:
		return encodeUnsigned8(frames, numBands)
	default:
		return encodeFloat64(frames, numBands)
	}
}

// decodePayload inverts encodePayload.
func decodePayload(data []byte, totalFrames, numBands int, mask CompressionMask, level QuantizeLevel) ([][]float64, error) {
	quant := mask.hasQuant()
	delta := mask.hasDelta()

	var want int
	switch {
	case delta && quant && level == Quantize16:
		want = totalFrames * numBands * 2
	case delta && quant && level == Quantize8:
		want = totalFrames * numBands * 1
	case delta:
		want = totalFrames * numBands * 8
	case quant && level == Quantize16:
		want = totalFrames * numBands * 2
	case quant && level == Quantize8:
		want = totalFrames * numBands * 1
	default:
		want = totalFrames * numBands * 8
	}
	if len(data) < want {
		return nil, newErr(ErrTruncatedPayload, "cascade payload shorter than declared geometry", nil)
	}
	data = data[:want]

	switch {
	case delta && quant && level == Quantize16:
		return decodeDeltaSigned(data, totalFrames, numBands, 32767, 2), nil
	case delta && quant && level == Quantize8:
		return decodeDeltaSigned(data, totalFrames, numBands, 127, 1), nil
	case delta:
		return decodeDeltaFloat(data, totalFrames, numBands), nil
	case quant && level == Quantize16:
		return decodeUnsigned16(data, totalFrames, numBands), nil
	case quant && level == Quantize8:
		return decodeUnsigned8(data, totalFrames, numBands), nil
	default:
		return decodeFloat64(data, totalFrames, numBands), nil
	}
}

func roundClamp(v, scale, lo, hi float64) float64 {
	return clamp(math.Round(v*scale), lo, hi)
}

func encodeFloat64(frames [][]float64, numBands int) []byte {
	buf := make([]byte, len(frames)*numBands*8)
	off := 0
	for _, frame := range frames {
		for _, v := range frame {
			binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
			off += 8
		}
	}
	return buf
}

func decodeFloat64(data []byte, totalFrames, numBands int) [][]float64 {
	out := make([][]float64, totalFrames)
	off := 0
	for f := 0; f < totalFrames; f++ {
		row := make([]float64, numBands)
		for j := 0; j < numBands; j++ {
			row[j] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
			off += 8
		}
		out[f] = row
	}
	return out
}

func encodeUnsigned16(frames [][]float64, numBands int) []byte {
	buf := make([]byte, len(frames)*numBands*2)
	off := 0
	for _, frame := range frames {
		for _, v := range frame {
			u := uint16(roundClamp(v, 65535, 0, 65535))
			binary.LittleEndian.PutUint16(buf[off:off+2], u)
			off += 2
		}
	}
	return buf
}

func decodeUnsigned16(data []byte, totalFrames, numBands int) [][]float64 {
	out := make([][]float64, totalFrames)
	off := 0
	for f := 0; f < totalFrames; f++ {
		row := make([]float64, numBands)
		for j := 0; j < numBands; j++ {
			u := binary.LittleEndian.Uint16(data[off : off+2])
			row[j] = float64(u) / 65535
			off += 2
		}
		out[f] = row
	}
	return out
}

func encodeUnsigned8(frames [][]float64, numBands int) []byte {
	buf := make([]byte, len(frames)*numBands)
	off := 0
	for _, frame := range frames {
		for _, v := range frame {
			buf[off] = byte(roundClamp(v, 255, 0, 255))
			off++
		}
	}
	return buf
}

func decodeUnsigned8(data []byte, totalFrames, numBands int) [][]float64 {
	out := make([][]float64, totalFrames)
	off := 0
	for f := 0; f < totalFrames; f++ {
		row := make([]float64, numBands)
		for j := 0; j < numBands; j++ {
			row[j] = float64(data[off]) / 255
			off++
		}
		out[f] = row
	}
	return out
}

func encodeInt16LE(buf []byte, v int32) {
	binary.LittleEndian.PutUint16(buf, uint16(int16(v)))
}

func encodeInt8LE(buf []byte, v int32) {
	buf[0] = byte(int8(v))
}

// encodeDeltaSigned implements the quantize+delta cascade stages: map each
// sample to a signed quantized value, difference against the previous
// frame's signed value (frame -1 is implicitly zero), and write the delta
// with the given byte width.
func encodeDeltaSigned(frames [][]float64, numBands int, scale float64, put func([]byte, int32)) []byte {
	width := 2
	if scale == 127 {
		width = 1
	}
	buf := make([]byte, len(frames)*numBands*width)
	prev := make([]int32, numBands)
	off := 0
	for _, frame := range frames {
		for j, v := range frame {
			q := int32(roundClamp(v*2-1, scale, -scale, scale))
			d := q - prev[j]
			put(buf[off:off+width], d)
			off += width
			prev[j] = q
		}
	}
	return buf
}

func decodeDeltaSigned(data []byte, totalFrames, numBands int, scale float64, width int) [][]float64 {
	out := make([][]float64, totalFrames)
	current := make([]int32, numBands)
	off := 0
	for f := 0; f < totalFrames; f++ {
		row := make([]float64, numBands)
		for j := 0; j < numBands; j++ {
			var d int32
			if width == 2 {
				d = int32(int16(binary.LittleEndian.Uint16(data[off : off+2])))
			} else {
				d = int32(int8(data[off]))
			}
			off += width
			current[j] += d
			row[j] = (float64(current[j])/scale + 1) / 2
		}
		out[f] = row
	}
	return out
}

func encodeDeltaFloat(frames [][]float64, numBands int) []byte {
	buf := make([]byte, len(frames)*numBands*8)
	prev := make([]float64, numBands)
	off := 0
	for _, frame := range frames {
		for j, v := range frame {
			d := v - prev[j]
			binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(d))
			off += 8
			prev[j] = v
		}
	}
	return buf
}

func decodeDeltaFloat(data []byte, totalFrames, numBands int) [][]float64 {
	out := make([][]float64, totalFrames)
	current := make([]float64, numBands)
	off := 0
	for f := 0; f < totalFrames; f++ {
		row := make([]float64, numBands)
		for j := 0; j < numBands; j++ {
			d := math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
			off += 8
			current[j] += d
			row[j] = current[j]
		}
		out[f] = row
	}
	return out
}
