package fftvis

import "encoding/binary"

// ReadFile parses a .fvz byte buffer, inverting the transform cascade, and
// returns the header alongside the full materialized frame set. decompress
// is required when the header's Zstd bit is set and ignored otherwise.
func ReadFile(data []byte, decompress Decompressor) (Header, [][]float64, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	body := data[HeaderSize:]

	var payload []byte
	if h.CompressionType.hasZstd() {
		if len(body) < 4 {
			return Header{}, nil, newErr(ErrTruncatedPayload, "missing compressed length prefix", nil)
		}
		compressedLen := int(int32(binary.LittleEndian.Uint32(body[0:4])))
		if compressedLen < 0 || len(body) < 4+compressedLen {
			return Header{}, nil, newErr(ErrTruncatedPayload, "compressed payload shorter than declared length", nil)
		}
		if decompress == nil {
			return Header{}, nil, newErr(ErrMissingDecompressor, "zstd bit set but no decompressor provided", nil)
		}
		out, err := decompress(body[4 : 4+compressedLen])
		if err != nil {
			return Header{}, nil, newErr(ErrDecompressionFailed, "decompressor returned an error", err)
		}
		payload = out
	} else {
		payload = body
	}

	frames, err := decodePayload(payload, int(h.TotalFrames), int(h.NumBands), h.CompressionType, h.QuantizeLevel)
	if err != nil {
		return Header{}, nil, err
	}

	return h, frames, nil
}
