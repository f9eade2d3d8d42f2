// Package pipeline sequences a benchreport run: resolve the source,
// extract if archived, classify and mirror the plots, then render the
// report artifact. Fully sequential; the only state crossing stage
// boundaries is the scan result handed to the renderer.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benchlab/benchreport/pkg/archive"
	"github.com/benchlab/benchreport/pkg/config"
	"github.com/benchlab/benchreport/pkg/errors"
	"github.com/benchlab/benchreport/pkg/organize"
	"github.com/benchlab/benchreport/pkg/report"
)

// DefaultOutputDir is the conventional output directory name.
const DefaultOutputDir = "report_output"

// Run executes the full pipeline and returns the report artifact path.
// Temporary extraction directories are removed on all exit paths.
func Run(source, outDir string, cfg *config.Config, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if outDir == "" {
		outDir = DefaultOutputDir
	}

	root, cleanup, err := resolveSource(source, log)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.WrapIO(err, "OUTPUT_CREATE_FAILED", "cannot create output directory").
			WithContext("path", outDir)
	}

	scan, err := organize.Scan(root, organize.Options{
		ImageExtensions: cfg.Organize.ImageExtensions,
		MetadataDirs:    cfg.Organize.MetadataDirs,
	}, log)
	if err != nil {
		return "", err
	}

	organized, err := organize.Copy(scan.Buckets, outDir, log)
	if err != nil {
		return "", err
	}

	sections := report.Sections(organized, cfg.Report.InvertOrder)
	opts := report.Options{
		Title:                cfg.Report.Title,
		Geometry:             cfg.Report.Geometry,
		ShowLocalTime:        cfg.Report.ShowLocalTime,
		LocalTimeOffsetHours: cfg.Report.LocalTimeOffsetHours,
	}

	var artifact string
	switch cfg.Report.Format {
	case config.FormatMarkdown:
		artifact, err = report.RenderMarkdown(outDir, scan.Metadata, scan.CSVs, sections, opts, log)
	default:
		artifact, err = report.RenderPDF(outDir, scan.Metadata, scan.CSVs, sections, opts, log)
	}
	if err != nil {
		return "", err
	}

	log.Info("report generated",
		zap.String("artifact", artifact),
		zap.Int("sections", len(sections)))
	return artifact, nil
}

// resolveSource maps the source argument to a scan root. Archives are
// extracted into a run-scoped temp directory whose cleanup function the
// caller must defer; plain directories get a no-op cleanup.
func resolveSource(source string, log *zap.Logger) (string, func(), error) {
	noop := func() {}

	info, err := os.Stat(source)
	if err != nil {
		return "", noop, errors.WrapIO(err, "SOURCE_NOT_FOUND", "source path is missing or unreadable").
			WithContext("path", source)
	}

	if info.IsDir() {
		return source, noop, nil
	}

	if !archive.IsArchive(source) {
		return "", noop, errors.ValidationError("SOURCE_UNSUPPORTED",
			"source must be a directory or a zip/7z archive").
			WithContext("path", source)
	}

	tmp, err := os.MkdirTemp("", "benchreport-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return "", noop, errors.WrapIO(err, "TMP_CREATE_FAILED", "cannot create extraction directory")
	}
	cleanup := func() {
		if err := os.RemoveAll(tmp); err != nil {
			log.Warn("cannot remove extraction directory",
				zap.String("path", tmp), zap.Error(err))
		}
	}

	log.Info("extracting archive",
		zap.String("archive", source),
		zap.String("dest", filepath.Base(tmp)))
	if err := archive.Extract(source, tmp, log); err != nil {
		cleanup()
		return "", noop, err
	}
	return tmp, cleanup, nil
}
