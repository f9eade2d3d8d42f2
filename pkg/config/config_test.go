package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchlab/benchreport/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, FormatPDF, cfg.Report.Format)
	assert.Equal(t, "Data Analysis Report", cfg.Report.Title)
	assert.Equal(t, []string{".png", ".jpg", ".jpeg"}, cfg.Organize.ImageExtensions)
	assert.Equal(t, []string{"saline-results", "impedance-results"}, cfg.Organize.MetadataDirs)
	assert.Equal(t, 250.0, cfg.Report.Geometry.PageBreakY)
	assert.Len(t, cfg.Report.Geometry.Tiers, 3)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("bad format", func(t *testing.T) {
		cfg := Default()
		cfg.Report.Format = "docx"
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, "BAD_FORMAT"))
	})

	t.Run("markdown ok", func(t *testing.T) {
		cfg := Default()
		cfg.Report.Format = FormatMarkdown
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty extension set", func(t *testing.T) {
		cfg := Default()
		cfg.Organize.ImageExtensions = nil
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, "NO_IMAGE_EXTS"))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "benchreport.yaml")
	content := `
report:
  format: markdown
  title: Bench Run 42
  invert_order: [psd_noise]
  show_local_time: true
  local_time_offset_hours: -8
organize:
  image_extensions: [".png", ".svg"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FormatMarkdown, cfg.Report.Format)
	assert.Equal(t, "Bench Run 42", cfg.Report.Title)
	assert.Equal(t, []string{"psd_noise"}, cfg.Report.InvertOrder)
	assert.True(t, cfg.Report.ShowLocalTime)
	assert.Equal(t, -8, cfg.Report.LocalTimeOffsetHours)
	assert.Equal(t, []string{".png", ".svg"}, cfg.Organize.ImageExtensions)
	// Unspecified fields keep their defaults.
	assert.Equal(t, 250.0, cfg.Report.Geometry.PageBreakY)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, FormatPDF, cfg.Report.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, FormatPDF, cfg.Report.Format)
	})
}

func TestSaveAndInitConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "benchreport.yaml")

	require.NoError(t, InitConfig(path))
	assert.FileExists(t, path)

	// Round-trips.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, cfg.Report.Format)

	// InitConfig does not clobber an existing file.
	cfg.Report.Title = "Edited"
	require.NoError(t, cfg.Save(path))
	require.NoError(t, InitConfig(path))
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Edited", reloaded.Report.Title)
}
