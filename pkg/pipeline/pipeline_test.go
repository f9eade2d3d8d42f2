package pipeline

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchlab/benchreport/pkg/config"
	"github.com/benchlab/benchreport/pkg/errors"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// sourceTree builds a minimal but complete bench dump.
func sourceTree(t *testing.T) string {
	root := t.TempDir()
	img := pngBytes(t)
	meta := filepath.Join(root, "saline-results", "00_0E_15-N2D-260209-215048")
	writeFile(t, filepath.Join(meta, "saline-psd-ec0-full.png"), img)
	writeFile(t, filepath.Join(meta, "saline-psd-noise-ec0.png"), img)
	writeFile(t, filepath.Join(meta, "gain-sweep.png"), img)
	writeFile(t, filepath.Join(meta, "data.csv"), []byte("ch,level\n1,0.5\n"))
	return root
}

func TestRun_DirectorySourcePDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	artifact, err := Run(sourceTree(t), out, config.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "report.pdf"), artifact)
	assert.FileExists(t, artifact)
	assert.FileExists(t, filepath.Join(out, "plots", "gain", "gain-sweep.png"))
	assert.FileExists(t, filepath.Join(out, "plots", "psd_signal", "saline-psd-ec0-full.png"))
	assert.FileExists(t, filepath.Join(out, "plots", "psd_noise", "saline-psd-noise-ec0.png"))
}

func TestRun_MarkdownFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	cfg := config.Default()
	cfg.Report.Format = config.FormatMarkdown

	artifact, err := Run(sourceTree(t), out, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "report.md"), artifact)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| Part ID | 00:0E:15 |")
	assert.Contains(t, string(data), "![gain-sweep.png](plots/gain/gain-sweep.png)")
}

func TestRun_ZipSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "results.zip")

	f, err := os.Create(src)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	add := func(name string, data []byte) {
		ew, err := w.Create(name)
		require.NoError(t, err)
		_, err = ew.Write(data)
		require.NoError(t, err)
	}
	add("00_0E_15-N2D-260209-215048/gain-sweep.png", pngBytes(t))
	add("00_0E_15-N2D-260209-215048/data.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	out := filepath.Join(t.TempDir(), "out")
	cfg := config.Default()
	cfg.Report.Format = config.FormatMarkdown

	artifact, err := Run(src, out, cfg, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	// Metadata from the archive's single top-level folder.
	assert.Contains(t, string(data), "| Part ID | 00:0E:15 |")
}

func TestRun_MissingSourceIsFatal(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "nope"), t.TempDir(), config.Default(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "SOURCE_NOT_FOUND"))
}

func TestRun_UnsupportedSourceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "results.tar")
	writeFile(t, src, []byte("x"))

	_, err := Run(src, t.TempDir(), config.Default(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "SOURCE_UNSUPPORTED"))
}

func TestRun_CorruptArchiveIsFatal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.zip")
	writeFile(t, src, []byte("not a zip"))

	_, err := Run(src, t.TempDir(), config.Default(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "ARCHIVE_CORRUPT"))
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Report.Format = "docx"

	_, err := Run(sourceTree(t), t.TempDir(), cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, "BAD_FORMAT"))
}

func TestRun_DefaultOutputDir(t *testing.T) {
	// Run from a temp working directory so the conventional output
	// name lands somewhere disposable.
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := config.Default()
	cfg.Report.Format = config.FormatMarkdown

	artifact, err := Run(sourceTree(t), "", cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(DefaultOutputDir, "report.md"), artifact)
}

func TestRun_Idempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	cfg := config.Default()
	cfg.Report.Format = config.FormatMarkdown
	src := sourceTree(t)

	first, err := Run(src, out, cfg, nil)
	require.NoError(t, err)
	a, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := Run(src, out, cfg, nil)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
