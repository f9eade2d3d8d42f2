package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchlab/benchreport/pkg/errors"
)

// makeZip writes a zip archive with the given entries (name -> content).
// A trailing slash marks a directory entry.
func makeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		if name[len(name)-1] == '/' {
			_, err := w.Create(name)
			require.NoError(t, err)
			continue
		}
		ew, err := w.Create(name)
		require.NoError(t, err)
		_, err = ew.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("results.zip"))
	assert.True(t, IsArchive("results.7z"))
	assert.True(t, IsArchive("RESULTS.ZIP"))
	assert.False(t, IsArchive("results.tar.gz"))
	assert.False(t, IsArchive("results"))
}

func TestExtract_Zip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "results.zip")
	makeZip(t, src, map[string]string{
		"run/":                 "",
		"run/gain.png":         "png-data",
		"run/sub/psd-full.png": "more-data",
	})

	dest := t.TempDir()
	require.NoError(t, Extract(src, dest, nil))

	data, err := os.ReadFile(filepath.Join(dest, "run", "gain.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-data", string(data))
	assert.FileExists(t, filepath.Join(dest, "run", "sub", "psd-full.png"))
}

func TestExtract_CorruptZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.zip")
	require.NoError(t, os.WriteFile(src, []byte("definitely not a zip"), 0o644))

	err := Extract(src, t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "ARCHIVE_CORRUPT"))
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "results.rar")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	err := Extract(src, t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "ARCHIVE_UNSUPPORTED"))
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	makeZip(t, src, map[string]string{
		"../escape.txt": "nope",
	})

	err := Extract(src, t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "ARCHIVE_ENTRY_ESCAPE"))
}

func TestSecurePath(t *testing.T) {
	dest := t.TempDir()

	p, err := securePath(dest, "a/b.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "a", "b.png"), p)

	_, err = securePath(dest, "../../outside")
	require.Error(t, err)
}
