package panichandler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pocketbook/pocketbook/app/paniclogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initPanicLog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, paniclogger.Init(dir))
	t.Cleanup(func() { _ = paniclogger.Close() })
	return filepath.Join(dir, "panic.log")
}

func TestRecoverWithCallback(t *testing.T) {
	logPath := initPanicLog(t)
	called := false

	func() {
		defer RecoverWithCallback("shell", func() { called = true })
		panic("boom")
	}()

	assert.True(t, called)
	require.NoError(t, paniclogger.Close())
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "boom"))
}

func TestRecoverWithoutPanic(t *testing.T) {
	initPanicLog(t)
	called := false
	func() {
		defer RecoverWithCallback("quiet", func() { called = true })
	}()
	assert.False(t, called)
}

func TestGuard(t *testing.T) {
	initPanicLog(t)

	err := Guard("contact add", func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	var pErr *PanicError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "contact add", pErr.Context)
	assert.Contains(t, err.Error(), "panic.log")

	sentinel := errors.New("plain")
	assert.Equal(t, sentinel, Guard("ok", func() error { return sentinel }))
	assert.NoError(t, Guard("ok", func() error { return nil }))
}
