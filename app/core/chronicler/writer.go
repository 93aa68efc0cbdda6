package chronicler

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pocketbook/pocketbook/app/core/compressor"
)

// Options configure a Writer.
type Options struct {
	MaxBlockSize int
	Compression  compressor.Type
}

// Writer writes a new file front to back. Entries are buffered and flushed as
// compressed blocks.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	filePath   string
	header     *FileHeader
	buffer     *writeBuffer
	codec      compressor.Compressor
	blockCount uint64
	entryCount uint64
	closed     bool
}

// Create creates or truncates filePath and writes a fresh header.
func Create(filePath string, opts Options) (*Writer, error) {
	if filePath == "" {
		return nil, errors.New("file path cannot be empty")
	}
	if opts.MaxBlockSize <= 0 {
		opts.MaxBlockSize = DefaultMaxBlockSize
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		file:     file,
		filePath: filePath,
		header:   NewFileHeader(opts.Compression, opts.MaxBlockSize),
		buffer:   newWriteBuffer(opts.MaxBlockSize),
		codec:    compressor.New(opts.Compression),
	}
	if _, err := file.Write(w.header.Serialize()); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// Path returns the file being written.
func (w *Writer) Path() string {
	return w.filePath
}

// WriteEntry buffers an entry and flushes when the block is full.
func (w *Writer) WriteEntry(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrFileClosed
	}
	if err := entry.validate(); err != nil {
		return err
	}
	if w.buffer.add(entry) {
		return w.flushLocked()
	}
	return nil
}

// WriteEntries buffers entries in order.
func (w *Writer) WriteEntries(entries []Entry) error {
	for _, e := range entries {
		if err := w.WriteEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered entries as a block.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrFileClosed
	}
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	header, payload, err := w.buffer.flush(w.codec)
	if err != nil {
		return err
	}
	if header == nil {
		return nil
	}
	if _, err := w.file.Write(header.Serialize()); err != nil {
		return err
	}
	if _, err := w.file.Write(payload); err != nil {
		return err
	}
	w.blockCount++
	w.entryCount += uint64(header.EntryCount)
	return nil
}

// writeHeaderLocked rewrites the file header with the current counts.
func (w *Writer) writeHeaderLocked() error {
	w.header.BlockCount = w.blockCount
	w.header.EntryCount = w.entryCount
	w.header.ModifiedAt = time.Now().UnixNano()

	if _, err := w.file.WriteAt(w.header.Serialize(), 0); err != nil {
		return err
	}
	_, err := w.file.Seek(0, io.SeekEnd)
	return err
}

// Sync flushes the buffer, updates the header and fsyncs the file.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrFileClosed
	}
	if err := w.flushLocked(); err != nil {
		return err
	}
	if err := w.writeHeaderLocked(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close flushes, updates the header and closes the file. Closing twice is a
// no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.flushLocked(); err != nil {
		w.file.Close()
		return err
	}
	if err := w.writeHeaderLocked(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Counts returns the blocks and entries written so far.
func (w *Writer) Counts() (blocks, entries uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.blockCount, w.entryCount
}
