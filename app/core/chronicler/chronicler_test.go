package chronicler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pocketbook/pocketbook/app/core/compressor"
)

func writeTestFile(t *testing.T, opts Options, entries []Entry) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "test.pbk")

	writer, err := Create(filePath, opts)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	if err := writer.WriteEntries(entries); err != nil {
		t.Fatalf("failed to write entries: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return filePath
}

func readAll(t *testing.T, filePath string) []Entry {
	t.Helper()
	reader, err := Open(filePath)
	if err != nil {
		t.Fatalf("failed to open reader: %v", err)
	}
	defer reader.Close()

	var out []Entry
	if _, err := reader.ReadAllEntries(func(e Entry) bool {
		out = append(out, e)
		return true
	}); err != nil {
		t.Fatalf("failed to read entries: %v", err)
	}
	return out
}

func TestEntry_SerializeRoundTrip(t *testing.T) {
	e := Entry{Operation: OpInsert, Key: "John", Data: []byte{1, 2, 3}}
	buf := e.Serialize()
	if len(buf) != e.Size() {
		t.Fatalf("expected %d bytes, got %d", e.Size(), len(buf))
	}

	var got Entry
	n, err := got.Deserialize(buf)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if n != len(buf) {
		t.Errorf("expected %d bytes consumed, got %d", len(buf), n)
	}
	if diff := cmp.Diff(e, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestEntry_DeserializeRejects(t *testing.T) {
	valid := (&Entry{Operation: OpInsert, Key: "k", Data: []byte("v")}).Serialize()

	emptyKey := (&Entry{Operation: OpInsert, Key: "", Data: nil}).Serialize()

	badOp := bytes.Clone(valid)
	badOp[0] = 99

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{name: "too short", buf: valid[:3], want: ErrCorruptedEntry},
		{name: "data cut off", buf: valid[:len(valid)-1], want: ErrCorruptedEntry},
		{name: "empty key", buf: emptyKey, want: ErrEmptyKey},
		{name: "unknown op", buf: badOp, want: ErrUnknownOp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Entry
			if _, err := e.Deserialize(tt.buf); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFileHeader_RoundTrip(t *testing.T) {
	h := NewFileHeader(compressor.Zstd, 4096)
	h.EntryCount = 12
	h.BlockCount = 3

	var got FileHeader
	if err := got.Deserialize(h.Serialize()); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if diff := cmp.Diff(*h, got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterReader_AllCodecs(t *testing.T) {
	entries := []Entry{
		{Operation: OpMetadata, Key: MetadataKey, Data: []byte(`{"kind":"contacts"}`)},
		{Operation: OpInsert, Key: "Mary", Data: []byte("mary")},
		{Operation: OpInsert, Key: "Alice", Data: []byte("alice")},
		{Operation: OpDelete, Key: "Mary"},
		{Operation: OpInsert, Key: "Bob", Data: bytes.Repeat([]byte("b"), 1000)},
	}

	for _, typ := range []compressor.Type{compressor.None, compressor.Snappy, compressor.LZ4, compressor.Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			filePath := writeTestFile(t, Options{Compression: typ}, entries)

			got := readAll(t, filePath)
			if diff := cmp.Diff(entries, got); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}

			reader, err := Open(filePath)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer reader.Close()
			if reader.Header().Compression != typ {
				t.Errorf("expected header compression %s, got %s", typ, reader.Header().Compression)
			}
			if reader.Header().EntryCount != uint64(len(entries)) {
				t.Errorf("expected %d entries in header, got %d", len(entries), reader.Header().EntryCount)
			}
		})
	}
}

func TestWriter_SplitsBlocks(t *testing.T) {
	var entries []Entry
	for i := 0; i < 100; i++ {
		entries = append(entries, Entry{
			Operation: OpInsert,
			Key:       fmt.Sprintf("key-%03d", i),
			Data:      bytes.Repeat([]byte{byte(i)}, 100),
		})
	}
	filePath := writeTestFile(t, Options{MaxBlockSize: 1024, Compression: compressor.Snappy}, entries)

	reader, err := Open(filePath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reader.Close()

	st, err := reader.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Blocks < 10 {
		t.Errorf("expected at least 10 blocks, got %d", st.Blocks)
	}
	if st.Entries != 100 {
		t.Errorf("expected 100 entries, got %d", st.Entries)
	}
	if st.Compression[compressor.Snappy] != st.Blocks {
		t.Errorf("expected every block to be snappy, got %v", st.Compression)
	}
	if uint64(st.Blocks) != reader.Header().BlockCount {
		t.Errorf("header block count %d does not match %d", reader.Header().BlockCount, st.Blocks)
	}
	if st.Ratio() <= 0 || st.Ratio() >= 1 {
		t.Errorf("unexpected ratio %f", st.Ratio())
	}

	// order survives block boundaries
	got := readAll(t, filePath)
	for i, e := range got {
		if e.Key != entries[i].Key {
			t.Fatalf("entry %d: expected %s, got %s", i, entries[i].Key, e.Key)
		}
	}
}

func TestReader_StopsEarly(t *testing.T) {
	filePath := writeTestFile(t, Options{}, []Entry{
		{Operation: OpInsert, Key: "a", Data: []byte("1")},
		{Operation: OpInsert, Key: "b", Data: []byte("2")},
		{Operation: OpInsert, Key: "c", Data: []byte("3")},
	})
	reader, err := Open(filePath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reader.Close()

	n, err := reader.ReadAllEntries(func(e Entry) bool {
		return e.Key != "b"
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 2 {
		t.Errorf("expected to stop after 2 entries, got %d", n)
	}
}

func TestReader_DetectsCorruption(t *testing.T) {
	entries := []Entry{{Operation: OpInsert, Key: "John", Data: []byte("0501234567")}}

	t.Run("bad magic", func(t *testing.T) {
		filePath := writeTestFile(t, Options{}, entries)
		data, _ := os.ReadFile(filePath)
		copy(data, "NOPE")
		if err := os.WriteFile(filePath, data, 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := Open(filePath)
		if !errors.Is(err, ErrInvalidMagic) || !IsCorruption(err) {
			t.Errorf("expected invalid magic, got %v", err)
		}
	})

	t.Run("short header", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "short.pbk")
		if err := os.WriteFile(filePath, []byte("PBK1"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := Open(filePath)
		if !IsCorruption(err) {
			t.Errorf("expected corruption, got %v", err)
		}
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		filePath := writeTestFile(t, Options{}, entries)
		data, _ := os.ReadFile(filePath)
		data[len(data)-1] ^= 0xFF
		if err := os.WriteFile(filePath, data, 0o600); err != nil {
			t.Fatal(err)
		}
		reader, err := Open(filePath)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer reader.Close()
		_, err = reader.ReadAllEntries(func(Entry) bool { return true })
		if !errors.Is(err, ErrCorruptedBlock) {
			t.Errorf("expected checksum mismatch, got %v", err)
		}
	})

	t.Run("truncated block", func(t *testing.T) {
		filePath := writeTestFile(t, Options{}, entries)
		data, _ := os.ReadFile(filePath)
		if err := os.WriteFile(filePath, data[:len(data)-3], 0o600); err != nil {
			t.Fatal(err)
		}
		reader, err := Open(filePath)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer reader.Close()
		_, err = reader.ReadAllEntries(func(Entry) bool { return true })
		if !errors.Is(err, ErrTruncated) || !IsCorruption(err) {
			t.Errorf("expected truncation, got %v", err)
		}
	})
}

func TestWriter_RejectsInvalidEntries(t *testing.T) {
	writer, err := Create(filepath.Join(t.TempDir(), "x.pbk"), Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer writer.Close()

	if err := writer.WriteEntry(Entry{Operation: OpInsert}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected empty key error, got %v", err)
	}
	if err := writer.WriteEntry(Entry{Operation: 7, Key: "k"}); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("expected unknown op error, got %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := writer.WriteEntry(Entry{Operation: OpInsert, Key: "k"}); !errors.Is(err, ErrFileClosed) {
		t.Errorf("expected closed error, got %v", err)
	}
}
