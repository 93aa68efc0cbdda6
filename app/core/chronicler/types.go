// Package chronicler implements the block file format pocketbook books are
// saved in.
//
// File format:
//   - 64 byte file header starting with the magic "PBK1"
//   - a sequence of blocks, each a 24 byte block header followed by the
//     compressed entries
//   - every block carries the codec it was written with and an xxhash64 of
//     its compressed payload
//
// A file is written once, front to back, and replaced as a whole. Readers
// replay entries in file order.
package chronicler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pocketbook/pocketbook/app/core/compressor"
)

const (
	// MagicBytes identifies a pocketbook data file
	MagicBytes = "PBK1"

	// CurrentVersion is the block layout version written by this package
	CurrentVersion uint16 = 1

	// DefaultMaxBlockSize is the uncompressed size at which a block is flushed
	DefaultMaxBlockSize = 16 * 1024

	FileHeaderSize  = 64
	BlockHeaderSize = 24

	// MetadataKey is the key of the OpMetadata entry
	MetadataKey = "__pocketbook_metadata__"
)

// Operation types for entries
const (
	OpInsert   uint8 = 1
	OpDelete   uint8 = 2
	OpMetadata uint8 = 3
)

var (
	ErrInvalidMagic    = errors.New("invalid magic bytes: not a pocketbook file")
	ErrUnsupportedVer  = errors.New("unsupported block layout version")
	ErrCorruptedBlock  = errors.New("block checksum mismatch")
	ErrCorruptedEntry  = errors.New("entry data corrupted")
	ErrTruncated       = errors.New("file ends inside a block")
	ErrEmptyKey        = errors.New("entry key cannot be empty")
	ErrFileClosed      = errors.New("file is closed")
	ErrEntryTooLarge   = errors.New("entry exceeds format limits")
	ErrUnknownOp       = errors.New("unknown entry operation")
	errShortFileHeader = errors.New("buffer too small for file header")
)

// IsCorruption reports whether err means the file content is damaged, as
// opposed to an I/O failure while reading it.
func IsCorruption(err error) bool {
	return errors.Is(err, ErrInvalidMagic) ||
		errors.Is(err, ErrCorruptedBlock) ||
		errors.Is(err, ErrCorruptedEntry) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrEmptyKey) ||
		errors.Is(err, ErrUnknownOp) ||
		errors.Is(err, errShortFileHeader) ||
		errors.Is(err, compressor.ErrUnknownType)
}

// FileHeader is the fixed header at the start of every file.
type FileHeader struct {
	Magic       [4]byte
	Version     uint16
	Compression compressor.Type // codec used for new blocks
	Flags       uint8
	CreatedAt   int64 // unix nano
	ModifiedAt  int64 // unix nano
	BlockSize   uint32
	EntryCount  uint64
	BlockCount  uint64
	Reserved    [20]byte
}

// NewFileHeader returns a header stamped with the current time.
func NewFileHeader(compression compressor.Type, blockSize int) *FileHeader {
	now := time.Now().UnixNano()
	h := &FileHeader{
		Version:     CurrentVersion,
		Compression: compression,
		CreatedAt:   now,
		ModifiedAt:  now,
		BlockSize:   uint32(blockSize),
	}
	copy(h.Magic[:], MagicBytes)
	return h
}

func (h *FileHeader) Serialize() []byte {
	buf := make([]byte, FileHeaderSize)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = uint8(h.Compression)
	buf[7] = h.Flags
	binary.LittleEndian.PutUint64(buf[8:16], uint64(h.CreatedAt))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.ModifiedAt))
	binary.LittleEndian.PutUint32(buf[24:28], h.BlockSize)
	binary.LittleEndian.PutUint64(buf[28:36], h.EntryCount)
	binary.LittleEndian.PutUint64(buf[36:44], h.BlockCount)
	copy(buf[44:64], h.Reserved[:])
	return buf
}

func (h *FileHeader) Deserialize(buf []byte) error {
	if len(buf) < FileHeaderSize {
		return errShortFileHeader
	}
	copy(h.Magic[:], buf[0:4])
	if string(h.Magic[:]) != MagicBytes {
		return ErrInvalidMagic
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:6])
	if h.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVer, h.Version)
	}
	h.Compression = compressor.Type(buf[6])
	h.Flags = buf[7]
	h.CreatedAt = int64(binary.LittleEndian.Uint64(buf[8:16]))
	h.ModifiedAt = int64(binary.LittleEndian.Uint64(buf[16:24]))
	h.BlockSize = binary.LittleEndian.Uint32(buf[24:28])
	h.EntryCount = binary.LittleEndian.Uint64(buf[28:36])
	h.BlockCount = binary.LittleEndian.Uint64(buf[36:44])
	copy(h.Reserved[:], buf[44:64])
	return nil
}

// BlockHeader precedes the compressed payload of each block.
type BlockHeader struct {
	CompressedSize   uint32
	UncompressedSize uint32
	EntryCount       uint16
	Compression      compressor.Type
	Flags            uint8
	Checksum         uint64 // xxhash64 of the compressed payload
	Reserved         uint32
}

func (b *BlockHeader) Serialize() []byte {
	buf := make([]byte, BlockHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], b.CompressedSize)
	binary.LittleEndian.PutUint32(buf[4:8], b.UncompressedSize)
	binary.LittleEndian.PutUint16(buf[8:10], b.EntryCount)
	buf[10] = uint8(b.Compression)
	buf[11] = b.Flags
	binary.LittleEndian.PutUint64(buf[12:20], b.Checksum)
	binary.LittleEndian.PutUint32(buf[20:24], b.Reserved)
	return buf
}

func (b *BlockHeader) Deserialize(buf []byte) error {
	if len(buf) < BlockHeaderSize {
		return ErrTruncated
	}
	b.CompressedSize = binary.LittleEndian.Uint32(buf[0:4])
	b.UncompressedSize = binary.LittleEndian.Uint32(buf[4:8])
	b.EntryCount = binary.LittleEndian.Uint16(buf[8:10])
	b.Compression = compressor.Type(buf[10])
	b.Flags = buf[11]
	b.Checksum = binary.LittleEndian.Uint64(buf[12:20])
	b.Reserved = binary.LittleEndian.Uint32(buf[20:24])
	return nil
}

// Entry is one keyed payload inside a block.
// Layout: op(1) keyLen(2) key(N) dataLen(4) data(M)
type Entry struct {
	Operation uint8
	Key       string
	Data      []byte
}

const entryOverhead = 1 + 2 + 4

func (e *Entry) validate() error {
	switch e.Operation {
	case OpInsert, OpDelete, OpMetadata:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownOp, e.Operation)
	}
	if e.Key == "" {
		return ErrEmptyKey
	}
	if len(e.Key) > 0xFFFF || uint64(len(e.Data)) > 0xFFFFFFFF {
		return ErrEntryTooLarge
	}
	return nil
}

func (e *Entry) Serialize() []byte {
	keyLen := len(e.Key)
	buf := make([]byte, e.Size())
	buf[0] = e.Operation
	binary.LittleEndian.PutUint16(buf[1:3], uint16(keyLen))
	copy(buf[3:3+keyLen], e.Key)
	binary.LittleEndian.PutUint32(buf[3+keyLen:7+keyLen], uint32(len(e.Data)))
	copy(buf[7+keyLen:], e.Data)
	return buf
}

// Deserialize parses one entry from buf and returns the bytes consumed.
func (e *Entry) Deserialize(buf []byte) (int, error) {
	if len(buf) < entryOverhead {
		return 0, ErrCorruptedEntry
	}
	e.Operation = buf[0]
	keyLen := int(binary.LittleEndian.Uint16(buf[1:3]))
	offset := 3
	if len(buf) < offset+keyLen+4 {
		return 0, ErrCorruptedEntry
	}
	e.Key = string(buf[offset : offset+keyLen])
	offset += keyLen

	dataLen := int(binary.LittleEndian.Uint32(buf[offset : offset+4]))
	offset += 4
	if len(buf) < offset+dataLen {
		return 0, ErrCorruptedEntry
	}
	e.Data = nil
	if dataLen > 0 {
		e.Data = make([]byte, dataLen)
		copy(e.Data, buf[offset:offset+dataLen])
	}
	offset += dataLen

	if err := e.validate(); err != nil {
		return 0, err
	}
	return offset, nil
}

// Size returns the serialized size of the entry.
func (e *Entry) Size() int {
	return entryOverhead + len(e.Key) + len(e.Data)
}

// Checksum hashes a compressed block payload.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
