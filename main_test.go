package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinizap/notes-api/config"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "export", "import"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestMissingDatabaseURLIsFatal(t *testing.T) {
	t.Setenv("NOTES_DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("NOTES_DATABASE_URL"))

	rootCmd.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "none.env")})
	rootCmd.SetOut(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, config.ErrMissingDatabaseURL)
}

func TestExportImportCommands(t *testing.T) {
	t.Setenv("NOTES_DATABASE_URL", "memory://")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	exportDir := t.TempDir()
	rootCmd.SetArgs([]string{"export", "--env-file", "", "--dir", exportDir})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "exported 0 notes")
	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	importDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "seed.md"), []byte("---\ntitle: Seeded\n---\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "broken.md"), []byte("no frontmatter"), 0o644))

	out.Reset()
	rootCmd.SetArgs([]string{"import", "--env-file", "", "--dir", importDir})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "imported 1 notes from "+importDir)
}

type closeFunc func(context.Context) error

func (f closeFunc) Close(ctx context.Context) error { return f(ctx) }

func TestCloseStoreLogsFailure(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)

	closeStore(closeFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "close runs without a deadline")
		return errors.New("connection reset")
	}), log)
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "connection reset")
	assert.Contains(t, logs.String(), "closing store")

	logs.Reset()
	closeStore(closeFunc(func(context.Context) error { return nil }), log)
	assert.Empty(t, logs.String())
}

func TestClientURL(t *testing.T) {
	tests := []struct {
		addr net.Addr
		want string
	}{
		{addr: &net.TCPAddr{Port: 3000}, want: "http://localhost:3000/index.html"},
		{addr: &net.TCPAddr{IP: net.IPv6unspecified, Port: 3000}, want: "http://localhost:3000/index.html"},
		{addr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}, want: "http://127.0.0.1:8080/index.html"},
		{addr: &net.TCPAddr{IP: net.IPv6loopback, Port: 8080}, want: "http://[::1]:8080/index.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clientURL(tt.addr), tt.addr.String())
	}
}
