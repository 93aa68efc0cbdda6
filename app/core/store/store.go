// Package store persists books as chronicler block files.
//
// Every Save writes a complete snapshot to a temporary file and renames it over
// the previous one, so a crash mid-write leaves the old file intact.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pocketbook/pocketbook/app/core/book"
	"github.com/pocketbook/pocketbook/app/core/chronicler"
	"github.com/pocketbook/pocketbook/app/core/compressor"
	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is the record layout version written into every file. Files
// with a higher major version are refused.
const FormatVersion = "1.0.0"

var (
	// ErrUnsupportedFormat means the file was written by a newer pocketbook.
	ErrUnsupportedFormat = errors.New("file format is newer than this build supports")
	// ErrKindMismatch means the file holds a different kind of book.
	ErrKindMismatch = errors.New("file holds a different kind of book")

	currentFormat = semver.MustParse(FormatVersion)
)

// Metadata is the first entry of every file.
type Metadata struct {
	Kind          string    `msgpack:"kind"`
	FormatVersion string    `msgpack:"format_version"`
	SavedAt       time.Time `msgpack:"saved_at"`
	Records       int       `msgpack:"records"`
}

// Keyed is a record with a unique key.
type Keyed interface {
	Key() string
}

// BlockStore implements book.Store on top of a chronicler file.
type BlockStore[R Keyed] struct {
	path   string
	codec  Codec[R]
	opts   chronicler.Options
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a BlockStore.
type Option func(*config)

type config struct {
	opts   chronicler.Options
	logger *slog.Logger
}

// WithCompression selects the codec for new blocks.
func WithCompression(t compressor.Type) Option {
	return func(c *config) {
		c.opts.Compression = t
	}
}

// WithMaxBlockSize sets the uncompressed block size.
func WithMaxBlockSize(size int) Option {
	return func(c *config) {
		c.opts.MaxBlockSize = size
	}
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New returns a store backed by the file at path.
func New[R Keyed](path string, codec Codec[R], opts ...Option) *BlockStore[R] {
	c := &config{opts: chronicler.Options{Compression: compressor.Snappy}}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return &BlockStore[R]{
		path:   path,
		codec:  codec,
		opts:   c.opts,
		logger: c.logger.With("store", filepath.Base(path)),
		now:    time.Now,
	}
}

// Path returns the data file path.
func (s *BlockStore[R]) Path() string {
	return s.path
}

// Save writes snapshot in order and atomically replaces the data file.
func (s *BlockStore[R]) Save(ctx context.Context, snapshot []R) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := s.writeFile(tmp, snapshot); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	s.logger.DebugContext(ctx, "snapshot saved", "records", len(snapshot), "compression", s.opts.Compression)
	return nil
}

func (s *BlockStore[R]) writeFile(path string, snapshot []R) error {
	meta, err := msgpack.Marshal(Metadata{
		Kind:          s.codec.Kind(),
		FormatVersion: FormatVersion,
		SavedAt:       s.now().UTC(),
		Records:       len(snapshot),
	})
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	w, err := chronicler.Create(path, s.opts)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WriteEntry(chronicler.Entry{Operation: chronicler.OpMetadata, Key: chronicler.MetadataKey, Data: meta}); err != nil {
		return err
	}
	for _, r := range snapshot {
		data, err := s.codec.Encode(r)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		if err := w.WriteEntry(chronicler.Entry{Operation: chronicler.OpInsert, Key: r.Key(), Data: data}); err != nil {
			return err
		}
	}
	if err := w.Sync(); err != nil {
		return err
	}
	return w.Close()
}

// Load replays the data file. Entries keep the position of their first
// insert; a later insert of the same key replaces the payload and a delete
// removes it.
func (s *BlockStore[R]) Load(ctx context.Context) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := chronicler.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, book.ErrStoreAbsent
	}
	if err != nil {
		if chronicler.IsCorruption(err) {
			return nil, s.quarantine(ctx, err)
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer reader.Close()

	var (
		meta     *Metadata
		order    []string
		payloads = make(map[string][]byte)
		metaErr  error
	)
	_, err = reader.ReadAllEntries(func(e chronicler.Entry) bool {
		switch e.Operation {
		case chronicler.OpMetadata:
			meta = &Metadata{}
			if metaErr = msgpack.Unmarshal(e.Data, meta); metaErr != nil {
				return false
			}
		case chronicler.OpInsert:
			if _, ok := payloads[e.Key]; !ok {
				order = append(order, e.Key)
			}
			payloads[e.Key] = e.Data
		case chronicler.OpDelete:
			delete(payloads, e.Key)
		}
		return true
	})
	if err != nil {
		if chronicler.IsCorruption(err) {
			return nil, s.quarantine(ctx, err)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if metaErr != nil {
		return nil, s.quarantine(ctx, fmt.Errorf("decode metadata: %w", metaErr))
	}
	if err := s.checkMetadata(meta); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrKindMismatch) {
			return nil, err
		}
		return nil, s.quarantine(ctx, err)
	}

	out := make([]R, 0, len(payloads))
	for _, key := range order {
		data, ok := payloads[key]
		if !ok {
			continue
		}
		r, err := s.codec.Decode(key, data)
		if err != nil {
			return nil, s.quarantine(ctx, fmt.Errorf("decode %q: %w", key, err))
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *BlockStore[R]) checkMetadata(meta *Metadata) error {
	if meta == nil {
		return errors.New("metadata entry missing")
	}
	v, err := semver.NewVersion(meta.FormatVersion)
	if err != nil {
		return fmt.Errorf("format version %q: %w", meta.FormatVersion, err)
	}
	if v.Major() > currentFormat.Major() {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedFormat, v, currentFormat)
	}
	if meta.Kind != s.codec.Kind() {
		return fmt.Errorf("%w: %q, expected %q", ErrKindMismatch, meta.Kind, s.codec.Kind())
	}
	return nil
}

// quarantine moves the damaged file aside so the next Save does not destroy
// it, and returns the error for book.Restore.
func (s *BlockStore[R]) quarantine(ctx context.Context, cause error) error {
	cErr := &book.CorruptError{Path: s.path, Err: cause}
	target := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
	if err := os.Rename(s.path, target); err != nil {
		s.logger.ErrorContext(ctx, "failed to quarantine corrupt file", "error", err)
		return cErr
	}
	cErr.Quarantined = target
	s.logger.WarnContext(ctx, "corrupt file quarantined", "path", s.path, "moved_to", target, "error", cause)
	return cErr
}

// Stats reports the layout of the data file.
func (s *BlockStore[R]) Stats(ctx context.Context) (chronicler.Stats, error) {
	if err := ctx.Err(); err != nil {
		return chronicler.Stats{}, err
	}
	reader, err := chronicler.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return chronicler.Stats{Path: s.path}, book.ErrStoreAbsent
	}
	if err != nil {
		return chronicler.Stats{}, err
	}
	defer reader.Close()
	return reader.Stats()
}
