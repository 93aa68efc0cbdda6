package cmd

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pocketbook/pocketbook/app/core/settings"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/env"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/locker"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/validator"
	"github.com/pocketbook/pocketbook/app/pocketbook/router"
	"github.com/pocketbook/pocketbook/app/pocketbook/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withSession opens a session on a fresh data directory, the way
// PersistentPreRunE does.
func withSession(t *testing.T) string {
	t.Helper()
	for _, key := range []string{settings.EnvPageSize, settings.EnvCompression, settings.EnvMaxBlockSize, settings.EnvLogLevel} {
		t.Setenv(key, "")
	}
	root := t.TempDir()
	rootPath, pageSize = root, 2
	t.Cleanup(func() {
		closeSession()
		rootPath, pageSize = "", 0
	})
	require.NoError(t, openSession(context.Background()))
	return root
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestVersionCommand(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() {
		Version, Commit = origVersion, origCommit
		versionJSON = false
	}()
	Version = "v1.2.0"
	Commit = "abc123"

	out := captureStdout(t, func() {
		require.NoError(t, versionCmd.RunE(versionCmd, nil))
	})
	assert.Contains(t, out, "pocketbook v1.2.0")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "Data format: 1.0.0")

	versionJSON = true
	out = captureStdout(t, func() {
		require.NoError(t, versionCmd.RunE(versionCmd, nil))
	})
	assert.Contains(t, out, `"version": "v1.2.0"`)
}

func TestShell(t *testing.T) {
	withSession(t)

	c := &cobra.Command{}
	c.SetContext(context.Background())
	input := strings.NewReader("add John 0501234567\nadd \"Mary Ann\"\nshow all 1\nnext\nfly\nclose\nhello\n")
	var out bytes.Buffer

	require.NoError(t, runShell(c, router.New(sess, nil), input, &out))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Hi, what can I help you?"), text)
	assert.Contains(t, text, "A contact John was successfully added!")
	assert.Contains(t, text, "Page 1 of 2")
	assert.Contains(t, text, "Contact name: Mary Ann")
	assert.Contains(t, text, "I didn't catch you!")
	assert.True(t, strings.HasSuffix(text, router.ExitMessage+"\n"), text)
	// nothing after "close" is executed
	assert.Equal(t, 1, strings.Count(text, "Hi, what can I help you?"))
}

func TestShellEndOfInput(t *testing.T) {
	withSession(t)

	c := &cobra.Command{}
	c.SetContext(context.Background())
	var out bytes.Buffer
	require.NoError(t, runShell(c, router.New(sess, nil), strings.NewReader("hello"), &out))
	assert.True(t, strings.HasSuffix(out.String(), router.ExitMessage+"\n"))
}

func TestSessionIsExclusive(t *testing.T) {
	root := withSession(t)

	lock, err := locker.New(filepath.Join(root, "pocketbook.lock"))
	require.NoError(t, err)
	assert.ErrorIs(t, lock.TryLock(), locker.ErrLocked)
	assert.Equal(t, "Another pocketbook is running on this data directory.", describe(locker.ErrLocked))
}

func TestExportImport(t *testing.T) {
	withSession(t)
	ctx := context.Background()

	_, err := sess.AddContact(ctx, session.ContactInput{Name: "John", Phones: []string{"0501234567"}, Birthday: "12.03.1985"})
	require.NoError(t, err)
	_, err = sess.AddNote(ctx, "buy milk", []string{"home"})
	require.NoError(t, err)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, encodeData(&buf, format, sess.Export()))

			data, err := decodeData(buf.Bytes(), format)
			require.NoError(t, err)
			require.Len(t, data.Contacts, 1)
			assert.Equal(t, "12.03.1985", data.Contacts[0].Birthday)
			require.Len(t, data.Notes, 1)
			assert.True(t, data.Notes[0].CreatedAt.Equal(sess.Export().Notes[0].CreatedAt))

			res, err := sess.Import(ctx, data, nil)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Added)
			assert.Equal(t, 2, res.Skipped)
		})
	}

	assert.Error(t, encodeData(io.Discard, "xml", session.Data{}))
	_, err = decodeData([]byte("{}"), "toml")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"backup.yaml", "yaml"},
		{"backup.YML", "yaml"},
		{"backup.json", "json"},
		{"backup", "json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFromPath(tt.path), tt.path)
	}
}

func TestBackup(t *testing.T) {
	root := withSession(t)
	ctx := context.Background()
	_, err := sess.AddContact(ctx, session.ContactInput{Name: "John"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "contacts.pbk.corrupt-1"), []byte("x"), 0o600))

	target := filepath.Join(t.TempDir(), "out", "backup.tar.gz")
	_, count, err := createBackupTarGz(root, target)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		h, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		names = append(names, h.Name)
	}
	base := filepath.Base(root)
	assert.ElementsMatch(t, []string{base, base + "/contacts.pbk"}, names)
}

func TestConfigSet(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	rootPath = root
	defer func() { rootPath = "" }()

	_, err := parseAssignments(ctx, validator.New(), []string{"POCKETBOOK_PAGE_SIZE=0"})
	assert.ErrorContains(t, err, settings.EnvPageSize)
	_, err = parseAssignments(ctx, validator.New(), []string{"LOG_LEVEL"})
	assert.Error(t, err)

	c := &cobra.Command{}
	c.SetContext(ctx)
	out := captureStdout(t, func() {
		require.NoError(t, configSetCmd.RunE(c, []string{"pocketbook_page_size=5", "LOG_LEVEL=DEBUG"}))
	})
	assert.Contains(t, out, "Saved 2 setting(s)")

	stored, err := env.New(root).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{settings.EnvPageSize: "5", settings.EnvLogLevel: "debug"}, stored)

	assert.ErrorIs(t, configSetCmd.RunE(c, []string{"GRPC_PORT=4900"}), env.ErrUnknownKey)
}

func TestRestore(t *testing.T) {
	root := withSession(t)
	ctx := context.Background()
	_, err := sess.AddContact(ctx, session.ContactInput{Name: "John"})
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	_, _, err = createBackupTarGz(root, archive)
	require.NoError(t, err)

	_, err = sess.AddContact(ctx, session.ContactInput{Name: "Mary"})
	require.NoError(t, err)
	_, err = sess.AddNote(ctx, "written after the backup", nil)
	require.NoError(t, err)

	_, count, err := restoreTarGz(archive, root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoFileExists(t, cfg.NotesPath())
	assert.FileExists(t, cfg.LockPath())
	assert.DirExists(t, cfg.LogDir())

	closeSession()
	require.NoError(t, openSession(ctx))
	assert.Equal(t, 1, sess.Contacts().Len())
	_, ok := sess.Contacts().Get("John")
	assert.True(t, ok)
	assert.Equal(t, 0, sess.Notes().Len())
}

func TestRestoreRejectsBrokenArchive(t *testing.T) {
	root := withSession(t)
	ctx := context.Background()
	_, err := sess.AddContact(ctx, session.ContactInput{Name: "John"})
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "broken.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("not gzip"), 0o600))

	_, _, err = restoreTarGz(archive, root)
	require.Error(t, err)
	assert.FileExists(t, cfg.ContactsPath())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".restore-"), e.Name())
	}
}
