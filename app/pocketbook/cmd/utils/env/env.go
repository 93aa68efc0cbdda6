package env

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/pocketbook/pocketbook/app/core/settings"
)

// ErrUnknownKey is returned by Set for keys pocketbook does not read.
var ErrUnknownKey = errors.New("unknown setting")

// Keys lists the settings that may be stored in the .env file.
var Keys = []string{
	settings.EnvPageSize,
	settings.EnvCompression,
	settings.EnvMaxBlockSize,
	settings.EnvLogLevel,
}

type Env interface {
	// IsExists checks if the .env file exists in the data directory.
	IsExists(ctx context.Context) bool
	// GetEnvPath returns the path to the .env file.
	GetEnvPath() string
	// Set merges values into the .env file. Empty values remove the key.
	Set(ctx context.Context, values map[string]string) error
	// Load reads the .env file. A missing file yields an empty map.
	Load(ctx context.Context) (map[string]string, error)
}

type env struct {
	envPath string
}

func New(rootPath string) Env {
	return &env{
		envPath: filepath.Join(rootPath, ".env"),
	}
}

// GetEnvPath returns the path to the .env file.
func (e *env) GetEnvPath() string {
	return e.envPath
}

// IsExists checks if the .env file exists in the data directory.
func (e *env) IsExists(ctx context.Context) bool {
	info, err := os.Stat(e.envPath)
	return err == nil && !info.IsDir()
}

func (e *env) Load(ctx context.Context) (map[string]string, error) {
	values, err := godotenv.Read(e.envPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.envPath, err)
	}
	return values, nil
}

func (e *env) Set(ctx context.Context, values map[string]string) error {
	for key := range values {
		if !known(key) {
			return fmt.Errorf("%w %q, expected one of %v", ErrUnknownKey, key, Keys)
		}
	}

	current, err := e.Load(ctx)
	if err != nil {
		return err
	}
	for key, val := range values {
		if val == "" {
			delete(current, key)
			continue
		}
		current[key] = val
	}

	if err := os.MkdirAll(filepath.Dir(e.envPath), 0o755); err != nil {
		return err
	}
	return godotenv.Write(current, e.envPath)
}

func known(key string) bool {
	i := sort.SearchStrings(sortedKeys, key)
	return i < len(sortedKeys) && sortedKeys[i] == key
}

var sortedKeys = func() []string {
	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	return keys
}()
