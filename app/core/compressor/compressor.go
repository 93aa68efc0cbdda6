// Package compressor wraps the block compression codecs used by the pocketbook
// file format behind one interface.
package compressor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Type identifies a codec. The value is stored in every block header, so the
// numbers must never change.
type Type uint8

const (
	None   Type = 0
	Snappy Type = 1
	LZ4    Type = 2
	Zstd   Type = 3
)

// ErrUnknownType is returned for a codec name or id that is not registered.
var ErrUnknownType = errors.New("unknown compression type")

// Compressor compresses and decompresses whole blocks.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Type() Type
}

// New returns the codec for t. Unknown types fall back to Snappy.
func New(t Type) Compressor {
	switch t {
	case None:
		return noneCompressor{}
	case LZ4:
		return lz4Compressor{}
	case Zstd:
		return newZstdCompressor()
	default:
		return snappyCompressor{}
	}
}

// ForType is like New but rejects unknown ids. Readers use it so a damaged
// block header is reported instead of silently decoded with the wrong codec.
func ForType(t Type) (Compressor, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	return New(t), nil
}

// ParseType maps a configuration name to its Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off":
		return None, nil
	case "snappy", "":
		return Snappy, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Valid reports whether t names a registered codec.
func (t Type) Valid() bool {
	return t <= Zstd
}

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

type noneCompressor struct{}

func (noneCompressor) Compress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

func (noneCompressor) Decompress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

func (noneCompressor) Type() Type { return None }

type snappyCompressor struct{}

func (snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

func (snappyCompressor) Type() Type { return Snappy }

type lz4Compressor struct{}

func (lz4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Compressor) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}

func (lz4Compressor) Type() Type { return LZ4 }

type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	err     error
}

func newZstdCompressor() *zstdCompressor {
	c := &zstdCompressor{}
	c.encoder, c.err = zstd.NewWriter(nil)
	if c.err != nil {
		return c
	}
	c.decoder, c.err = zstd.NewReader(nil)
	return c
}

func (c *zstdCompressor) Compress(data []byte) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.encoder.EncodeAll(data, nil), nil
}

func (c *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.decoder.DecodeAll(data, nil)
}

func (c *zstdCompressor) Type() Type { return Zstd }
