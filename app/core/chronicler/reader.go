package chronicler

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pocketbook/pocketbook/app/core/compressor"
)

// Reader reads a file written by Writer.
type Reader struct {
	file     *os.File
	filePath string
	header   *FileHeader
}

// Open opens filePath and validates its header.
func Open(filePath string) (*Reader, error) {
	if filePath == "" {
		return nil, errors.New("file path cannot be empty")
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, FileHeaderSize)
	if _, err := io.ReadFull(file, buf); err != nil {
		file.Close()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", errShortFileHeader, err)
		}
		return nil, err
	}
	header := &FileHeader{}
	if err := header.Deserialize(buf); err != nil {
		file.Close()
		return nil, err
	}

	return &Reader{file: file, filePath: filePath, header: header}, nil
}

// Header returns the file header.
func (r *Reader) Header() *FileHeader {
	return r.header
}

// ReadAllEntries calls fn for every entry in file order and stops early when
// fn returns false. It returns the number of entries visited.
func (r *Reader) ReadAllEntries(fn func(entry Entry) bool) (int, error) {
	total := 0
	err := r.eachBlock(func(b *Block) bool {
		for _, e := range b.Entries {
			total++
			if !fn(e) {
				return false
			}
		}
		return true
	})
	return total, err
}

// ReadAllBlocks decodes every block in the file.
func (r *Reader) ReadAllBlocks() ([]*Block, error) {
	var blocks []*Block
	err := r.eachBlock(func(b *Block) bool {
		blocks = append(blocks, b)
		return true
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// Stats summarizes a file.
type Stats struct {
	Path             string
	Size             int64
	Blocks           int
	Entries          int
	CompressedSize   int64
	UncompressedSize int64
	Compression      map[compressor.Type]int // blocks per codec
	CreatedAt        int64
	ModifiedAt       int64
}

// Ratio returns compressed/uncompressed payload size, or 0 for an empty file.
func (s Stats) Ratio() float64 {
	if s.UncompressedSize == 0 {
		return 0
	}
	return float64(s.CompressedSize) / float64(s.UncompressedSize)
}

// Stats walks the whole file, verifying every block.
func (r *Reader) Stats() (Stats, error) {
	st := Stats{
		Path:        r.filePath,
		Compression: make(map[compressor.Type]int),
		CreatedAt:   r.header.CreatedAt,
		ModifiedAt:  r.header.ModifiedAt,
	}
	info, err := r.file.Stat()
	if err != nil {
		return st, err
	}
	st.Size = info.Size()

	err = r.eachBlock(func(b *Block) bool {
		st.Blocks++
		st.Entries += len(b.Entries)
		st.CompressedSize += int64(b.Header.CompressedSize)
		st.UncompressedSize += int64(b.Header.UncompressedSize)
		st.Compression[b.Header.Compression]++
		return true
	})
	return st, err
}

func (r *Reader) eachBlock(fn func(*Block) bool) error {
	if _, err := r.file.Seek(FileHeaderSize, io.SeekStart); err != nil {
		return err
	}
	for {
		block, err := r.readNextBlock()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !fn(block) {
			return nil
		}
	}
}

// readNextBlock returns io.EOF only at a clean block boundary. A file that
// ends inside a block is ErrTruncated.
func (r *Reader) readNextBlock() (*Block, error) {
	offset, err := r.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	headerBuf := make([]byte, BlockHeaderSize)
	if _, err := io.ReadFull(r.file, headerBuf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}
	header := &BlockHeader{}
	if err := header.Deserialize(headerBuf); err != nil {
		return nil, err
	}

	if header.CompressedSize > maxPayloadSize || header.UncompressedSize > maxPayloadSize {
		return nil, ErrCorruptedBlock
	}
	payload := make([]byte, header.CompressedSize)
	if _, err := io.ReadFull(r.file, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}

	block, err := ParseBlock(header, payload)
	if err != nil {
		return nil, err
	}
	block.Offset = offset
	return block, nil
}

// Close closes the file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
