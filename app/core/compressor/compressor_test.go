package compressor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":      {},
		"short":      []byte("Contact name: John, phones: 0501234567"),
		"repetitive": bytes.Repeat([]byte("pocketbook "), 2048),
	}

	for _, typ := range []Type{None, Snappy, LZ4, Zstd} {
		c := New(typ)
		assert.Equal(t, typ, c.Type())

		for name, data := range payloads {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				compressed, err := c.Compress(data)
				require.NoError(t, err)

				got, err := c.Decompress(compressed)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))
			})
		}
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 4096)
	for _, typ := range []Type{Snappy, LZ4, Zstd} {
		compressed, err := New(typ).Compress(data)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(data)/4, typ.String())
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Type
		wantErr bool
	}{
		{name: "snappy", input: "snappy", want: Snappy},
		{name: "empty defaults to snappy", input: "", want: Snappy},
		{name: "upper case", input: "LZ4", want: LZ4},
		{name: "zstd with spaces", input: " zstd ", want: Zstd},
		{name: "none", input: "none", want: None},
		{name: "off", input: "off", want: None},
		{name: "unknown", input: "gzip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForType(t *testing.T) {
	_, err := ForType(Type(42))
	assert.ErrorIs(t, err, ErrUnknownType)

	c, err := ForType(Zstd)
	require.NoError(t, err)
	assert.Equal(t, Zstd, c.Type())
}

func TestSnappyRejectsGarbage(t *testing.T) {
	_, err := New(Snappy).Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Error(t, err)
}
