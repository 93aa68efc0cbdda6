package settings

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pocketbook/pocketbook/app/core/compressor"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvRootPath, EnvPageSize, EnvCompression, EnvMaxBlockSize, EnvLogLevel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeDotenv(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	v := validator.New()

	t.Run("should load defaults", func(t *testing.T) {
		clearEnv(t)
		root := t.TempDir()
		t.Setenv(EnvRootPath, root)

		s, err := Load(ctx, v, Overrides{})
		require.NoError(t, err)

		assert.Equal(t, root, s.RootPath)
		assert.Equal(t, 3, s.PageSize)
		assert.Equal(t, compressor.Snappy, s.Compression)
		assert.Equal(t, 16384, s.MaxBlockSize)
		assert.Equal(t, "info", s.LogLevel)
		assert.Equal(t, slog.LevelInfo, s.SlogLevel())
		assert.Equal(t, filepath.Join(root, "contacts.pbk"), s.ContactsPath())
		assert.Equal(t, filepath.Join(root, "logs"), s.LogDir())
	})

	t.Run("should fall back to the home directory", func(t *testing.T) {
		clearEnv(t)
		home := t.TempDir()
		t.Setenv("HOME", home)

		s, err := Load(ctx, v, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".pocketbook"), s.RootPath)
	})

	t.Run("should read the dotenv file in the root", func(t *testing.T) {
		clearEnv(t)
		root := t.TempDir()
		writeDotenv(t, root, "POCKETBOOK_PAGE_SIZE=10\nPOCKETBOOK_COMPRESSION=zstd\nPOCKETBOOK_MAX_BLOCK_SIZE=64KB\nLOG_LEVEL=debug\n")

		s, err := Load(ctx, v, Overrides{RootPath: root})
		require.NoError(t, err)
		assert.Equal(t, 10, s.PageSize)
		assert.Equal(t, compressor.Zstd, s.Compression)
		assert.Equal(t, 64*1024, s.MaxBlockSize)
		assert.Equal(t, slog.LevelDebug, s.SlogLevel())
	})

	t.Run("process environment beats the dotenv file", func(t *testing.T) {
		clearEnv(t)
		root := t.TempDir()
		writeDotenv(t, root, "POCKETBOOK_PAGE_SIZE=10\nPOCKETBOOK_COMPRESSION=zstd\n")
		t.Setenv(EnvCompression, "lz4")

		s, err := Load(ctx, v, Overrides{RootPath: root})
		require.NoError(t, err)
		assert.Equal(t, compressor.LZ4, s.Compression)
		assert.Equal(t, 10, s.PageSize)
	})

	t.Run("flags beat everything", func(t *testing.T) {
		clearEnv(t)
		root := t.TempDir()
		t.Setenv(EnvRootPath, filepath.Join(root, "ignored"))
		t.Setenv(EnvPageSize, "10")

		s, err := Load(ctx, v, Overrides{RootPath: root, PageSize: 4})
		require.NoError(t, err)
		assert.Equal(t, root, s.RootPath)
		assert.Equal(t, 4, s.PageSize)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		tests := []struct {
			name string
			key  string
			val  string
		}{
			{name: "page size", key: EnvPageSize, val: "0"},
			{name: "compression", key: EnvCompression, val: "gzip"},
			{name: "block size", key: EnvMaxBlockSize, val: "10"},
			{name: "log level", key: EnvLogLevel, val: "loud"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				clearEnv(t)
				t.Setenv(tt.key, tt.val)
				_, err := Load(ctx, v, Overrides{RootPath: t.TempDir()})
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.key)
			})
		}

		clearEnv(t)
		_, err := Load(ctx, v, Overrides{RootPath: t.TempDir(), PageSize: 500})
		assert.ErrorContains(t, err, "--page-size")
	})
}
