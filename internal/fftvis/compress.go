package fftvis

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Decompressor is the capability the decoder needs when the Zstd bit is
// set. It abstracts over any concrete Zstd (or other) implementation so
// the core never binds to one library.
type Decompressor func(compressed []byte) ([]byte, error)

// Compressor is the encoder-side counterpart to Decompressor.
type Compressor func(raw []byte) ([]byte, error)

var (
	zstdEncoderOnce sync.Once
	zstdEncoder     *zstd.Encoder
	zstdEncoderErr  error

	zstdDecoderOnce sync.Once
	zstdDecoder     *zstd.Decoder
	zstdDecoderErr  error
)

func sharedZstdEncoder() (*zstd.Encoder, error) {
	zstdEncoderOnce.Do(func() {
		zstdEncoder, zstdEncoderErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return zstdEncoder, zstdEncoderErr
}

func sharedZstdDecoder() (*zstd.Decoder, error) {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, zstdDecoderErr = zstd.NewReader(nil)
	})
	return zstdDecoder, zstdDecoderErr
}

// ZstdCompress is the default Compressor, backed by klauspost/compress/zstd.
func ZstdCompress(raw []byte) ([]byte, error) {
	enc, err := sharedZstdEncoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(raw, make([]byte, 0, len(raw))), nil
}

// ZstdDecompress is the default Decompressor, backed by klauspost/compress/zstd.
func ZstdDecompress(compressed []byte) ([]byte, error) {
	dec, err := sharedZstdDecoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(compressed, nil)
}
