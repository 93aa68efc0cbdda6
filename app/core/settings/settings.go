// Package settings resolves pocketbook configuration from the process
// environment and an optional .env file in the data directory.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pocketbook/pocketbook/app/core/compressor"
)

const (
	EnvRootPath     = "POCKETBOOK_ROOT_PATH"
	EnvPageSize     = "POCKETBOOK_PAGE_SIZE"
	EnvCompression  = "POCKETBOOK_COMPRESSION"
	EnvMaxBlockSize = "POCKETBOOK_MAX_BLOCK_SIZE"
	EnvLogLevel     = "LOG_LEVEL"

	defaultDirName = ".pocketbook"
	envFileName    = ".env"
)

// Validator checks raw configuration values.
type Validator interface {
	ValidatePageSize(ctx context.Context, input string) (int, error)
	ValidateLoglevel(ctx context.Context, logLevel string) (string, error)
	ValidateCompression(ctx context.Context, name string) (compressor.Type, error)
	ParseBlockSize(ctx context.Context, input string) (int64, error)
}

// Settings is the resolved configuration.
type Settings struct {
	RootPath     string
	PageSize     int
	Compression  compressor.Type
	MaxBlockSize int
	LogLevel     string
}

// Overrides come from command line flags and beat every other source.
type Overrides struct {
	RootPath string
	PageSize int
}

// Load resolves the settings. The root path is taken from the overrides, then
// the environment, then $HOME/.pocketbook. Other values are read from the
// process environment first and <root>/.env second.
func Load(ctx context.Context, v Validator, o Overrides) (*Settings, error) {
	root, err := ResolveRoot(o.RootPath)
	if err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(filepath.Join(root, envFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFileName, err)
	}
	lookup := func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return dotenv[key]
	}

	s := &Settings{RootPath: root}

	if s.PageSize, err = v.ValidatePageSize(ctx, lookup(EnvPageSize)); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvPageSize, err)
	}
	if o.PageSize != 0 {
		if s.PageSize, err = v.ValidatePageSize(ctx, fmt.Sprint(o.PageSize)); err != nil {
			return nil, fmt.Errorf("--page-size: %w", err)
		}
	}
	if s.Compression, err = v.ValidateCompression(ctx, lookup(EnvCompression)); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvCompression, err)
	}
	blockSize, err := v.ParseBlockSize(ctx, lookup(EnvMaxBlockSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvMaxBlockSize, err)
	}
	s.MaxBlockSize = int(blockSize)
	if s.LogLevel, err = v.ValidateLoglevel(ctx, lookup(EnvLogLevel)); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	return s, nil
}

// ResolveRoot returns the absolute data directory: override, then
// POCKETBOOK_ROOT_PATH, then $HOME/.pocketbook.
func ResolveRoot(override string) (string, error) {
	root := override
	if root == "" {
		root = os.Getenv(EnvRootPath)
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory, set %s: %w", EnvRootPath, err)
		}
		root = filepath.Join(home, defaultDirName)
	}
	return filepath.Abs(root)
}

// ContactsPath is the address book data file.
func (s *Settings) ContactsPath() string {
	return filepath.Join(s.RootPath, "contacts.pbk")
}

// NotesPath is the notebook data file.
func (s *Settings) NotesPath() string {
	return filepath.Join(s.RootPath, "notes.pbk")
}

// LogDir holds the application and panic logs.
func (s *Settings) LogDir() string {
	return filepath.Join(s.RootPath, "logs")
}

// LockPath is the file locked while a session is open.
func (s *Settings) LockPath() string {
	return filepath.Join(s.RootPath, "pocketbook.lock")
}

// SlogLevel converts LogLevel for slog handlers.
func (s *Settings) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
