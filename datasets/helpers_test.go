package datasets

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeFiles creates empty files (and their folders) in fs.
func writeFiles(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0644))
	}
}

// writeCSV writes a CSV file with the given header and rows to path.
func writeCSV(t *testing.T, fs afero.Fs, path, header string, rows []string) {
	t.Helper()
	var b strings.Builder
	if header != "" {
		b.WriteString(header + "\n")
	}
	for _, r := range rows {
		b.WriteString(r + "\n")
	}
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(b.String()), 0644))
}

// folderFixture is the train/valid image layout most tests share.
func folderFixture(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/data/train/cat/1.png",
		"/data/train/dog/2.png",
		"/data/valid/cat/3.png",
	)
	return fs
}

// observeLogs routes the package logger to an observer for the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}
