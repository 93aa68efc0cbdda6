package chronicler

import (
	"bytes"
	"fmt"

	"github.com/pocketbook/pocketbook/app/core/compressor"
)

// maxEntriesPerBlock keeps EntryCount inside its uint16 field.
const maxEntriesPerBlock = 0xFFFF

// maxPayloadSize bounds what a reader will allocate for one block.
const maxPayloadSize = 64 << 20

// writeBuffer collects entries until they fill a block.
type writeBuffer struct {
	entries     []Entry
	currentSize int
	maxSize     int
}

func newWriteBuffer(maxSize int) *writeBuffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxBlockSize
	}
	return &writeBuffer{
		entries: make([]Entry, 0, 64),
		maxSize: maxSize,
	}
}

// add appends an entry and reports whether the block is full.
func (wb *writeBuffer) add(entry Entry) bool {
	wb.entries = append(wb.entries, entry)
	wb.currentSize += entry.Size()
	return wb.currentSize >= wb.maxSize || len(wb.entries) >= maxEntriesPerBlock
}

func (wb *writeBuffer) empty() bool {
	return len(wb.entries) == 0
}

// flush encodes the buffered entries into one block and clears the buffer.
func (wb *writeBuffer) flush(c compressor.Compressor) (*BlockHeader, []byte, error) {
	if wb.empty() {
		return nil, nil, nil
	}
	header, payload, err := EncodeBlock(wb.entries, c)
	if err != nil {
		return nil, nil, err
	}
	wb.entries = wb.entries[:0]
	wb.currentSize = 0
	return header, payload, nil
}

// Block is a decoded block.
type Block struct {
	Header  BlockHeader
	Entries []Entry
	Offset  int64
}

// EncodeBlock serializes and compresses entries into a block payload.
func EncodeBlock(entries []Entry, c compressor.Compressor) (*BlockHeader, []byte, error) {
	if len(entries) > maxEntriesPerBlock {
		return nil, nil, fmt.Errorf("%w: %d entries in one block", ErrEntryTooLarge, len(entries))
	}

	var buf bytes.Buffer
	for i := range entries {
		if err := entries[i].validate(); err != nil {
			return nil, nil, err
		}
		buf.Write(entries[i].Serialize())
	}
	raw := buf.Bytes()

	compressed, err := c.Compress(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("compress block: %w", err)
	}

	header := &BlockHeader{
		CompressedSize:   uint32(len(compressed)),
		UncompressedSize: uint32(len(raw)),
		EntryCount:       uint16(len(entries)),
		Compression:      c.Type(),
		Checksum:         Checksum(compressed),
	}
	return header, compressed, nil
}

// ParseBlock verifies, decompresses and decodes a block payload.
func ParseBlock(header *BlockHeader, payload []byte) (*Block, error) {
	if Checksum(payload) != header.Checksum {
		return nil, ErrCorruptedBlock
	}

	c, err := compressor.ForType(header.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := c.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedBlock, err)
	}
	if uint32(len(raw)) != header.UncompressedSize {
		return nil, ErrCorruptedBlock
	}

	entries := make([]Entry, 0, header.EntryCount)
	offset := 0
	for i := uint16(0); i < header.EntryCount; i++ {
		var entry Entry
		n, err := entry.Deserialize(raw[offset:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		offset += n
	}
	if offset != len(raw) {
		return nil, ErrCorruptedEntry
	}

	return &Block{Header: *header, Entries: entries}, nil
}
