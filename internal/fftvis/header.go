package fftvis

import (
	"encoding/binary"
	"math"
)

const (
	// HeaderSize is the fixed on-disk size of the header record.
	HeaderSize = 36

	formatVersion = 2
)

var magicBytes = [8]byte{'F', 'F', 'T', 'V', 'I', 'S', 0, 0}

// CompressionMask bits select which stages of the transform cascade are active.
type CompressionMask uint16

const (
	MaskZstd  CompressionMask = 1 << 0
	MaskQuant CompressionMask = 1 << 1
	MaskDelta CompressionMask = 1 << 2
)

func (m CompressionMask) hasZstd() bool  { return m&MaskZstd != 0 }
func (m CompressionMask) hasQuant() bool { return m&MaskQuant != 0 }
func (m CompressionMask) hasDelta() bool { return m&MaskDelta != 0 }

// QuantizeLevel selects the integer width used by the quantize transform.
type QuantizeLevel uint8

const (
	Quantize16 QuantizeLevel = 0
	Quantize8  QuantizeLevel = 1
)

// Header is the fixed 36-byte metadata record at the start of every .fvz file.
// Field offsets follow the layout in the format specification exactly; this
// type must never be serialized with a plain struct cast, since native
// record padding rules do not match the on-disk layout.
type Header struct {
	FFTResolution   uint32
	NumBands        uint16
	FrameRate       uint16
	TotalFrames     uint32
	MaxAmplitude    float32
	CompressionType CompressionMask
	QuantizeLevel   QuantizeLevel
}

// encodeHeader writes h as the 36-byte little-endian record described in
// the format specification.
func encodeHeader(h Header) [HeaderSize]byte {
	var buf [HeaderSize]byte
	copy(buf[0:8], magicBytes[:])
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(formatVersion)))
	binary.LittleEndian.PutUint32(buf[12:16], h.FFTResolution)
	binary.LittleEndian.PutUint16(buf[16:18], h.NumBands)
	binary.LittleEndian.PutUint16(buf[18:20], h.FrameRate)
	binary.LittleEndian.PutUint32(buf[20:24], h.TotalFrames)
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(h.MaxAmplitude))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(h.CompressionType))
	// buf[30:32] padding, left zero.
	quantByte := byte(0)
	if h.CompressionType.hasQuant() {
		quantByte = byte(h.QuantizeLevel)
	}
	buf[32] = quantByte
	// buf[33:36] padding, left zero.
	return buf
}

// decodeHeader validates and parses the first HeaderSize bytes of data.
func decodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, newErr(ErrUnsupportedFormat, "file shorter than header", nil)
	}
	if string(data[0:6]) != "FFTVIS" {
		return Header{}, newErr(ErrUnsupportedFormat, "magic mismatch", nil)
	}
	version := int32(binary.LittleEndian.Uint32(data[8:12]))
	if version != formatVersion {
		return Header{}, newErr(ErrUnsupportedFormat, "unsupported version", nil)
	}

	h := Header{
		FFTResolution:   binary.LittleEndian.Uint32(data[12:16]),
		NumBands:        binary.LittleEndian.Uint16(data[16:18]),
		FrameRate:       binary.LittleEndian.Uint16(data[18:20]),
		TotalFrames:     binary.LittleEndian.Uint32(data[20:24]),
		MaxAmplitude:    math.Float32frombits(binary.LittleEndian.Uint32(data[24:28])),
		CompressionType: CompressionMask(binary.LittleEndian.Uint16(data[28:30])),
	}
	if h.CompressionType.hasQuant() && data[32] != 0 {
		h.QuantizeLevel = Quantize8
	} else {
		h.QuantizeLevel = Quantize16
	}
	return h, nil
}
