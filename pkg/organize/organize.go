// Package organize walks a bench results tree, classifies plot images
// into buckets, summarizes CSV files, and mirrors the classified images
// into a plots/<bucket>/ destination tree.
package organize

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/benchlab/benchreport/pkg/classify"
	"github.com/benchlab/benchreport/pkg/errors"
	"github.com/benchlab/benchreport/pkg/metadata"
)

// CSVSummary is one entry per CSV file encountered during the walk:
// only shape, never contents. Files that fail to parse are omitted.
type CSVSummary struct {
	File    string
	Rows    int
	Columns []string
}

// ScanResult carries everything the report engine needs from a walk.
type ScanResult struct {
	Metadata metadata.Record
	Buckets  map[classify.Bucket][]string
	CSVs     []CSVSummary
}

// Options controls a scan.
type Options struct {
	// ImageExtensions is the admitted image extension set.
	// Empty means classify.DefaultImageExtensions().
	ImageExtensions []string

	// MetadataDirs are the well-known subtree names searched for the
	// metadata folder. Empty means DefaultMetadataDirs().
	MetadataDirs []string
}

// DefaultMetadataDirs returns the well-known result subtree names.
func DefaultMetadataDirs() []string {
	return []string{"saline-results", "impedance-results"}
}

// Scan walks root and returns the bucket mapping (paths sorted
// lexicographically per bucket), the CSV summaries, and the metadata
// record. A missing root is fatal; per-file CSV errors are logged and
// skipped.
func Scan(root string, opts Options, log *zap.Logger) (*ScanResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapIO(err, "SOURCE_NOT_FOUND", "source directory is missing or unreadable").
			WithContext("path", root)
	}
	if !info.IsDir() {
		return nil, errors.IOError("SOURCE_NOT_DIR", "source path is not a directory").
			WithContext("path", root)
	}

	exts := opts.ImageExtensions
	if len(exts) == 0 {
		exts = classify.DefaultImageExtensions()
	}
	metaDirs := opts.MetadataDirs
	if len(metaDirs) == 0 {
		metaDirs = DefaultMetadataDirs()
	}

	result := &ScanResult{
		Metadata: findMetadata(root, metaDirs, log),
		Buckets:  make(map[classify.Bucket][]string),
	}

	walkErr := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		name := fi.Name()
		switch {
		case classify.IsCSV(name):
			if summary, ok := summarizeCSV(path, log); ok {
				result.CSVs = append(result.CSVs, summary)
			}
		case classify.IsImage(name, exts):
			bucket := classify.Classify(name)
			result.Buckets[bucket] = append(result.Buckets[bucket], path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.WrapIO(walkErr, "WALK_FAILED", "directory walk failed").
			WithContext("path", root)
	}

	for bucket := range result.Buckets {
		sort.Strings(result.Buckets[bucket])
	}
	sort.Slice(result.CSVs, func(i, j int) bool {
		return result.CSVs[i].File < result.CSVs[j].File
	})

	log.Info("scan complete",
		zap.Int("buckets", len(result.Buckets)),
		zap.Int("csv_files", len(result.CSVs)),
		zap.Bool("metadata_found", !result.Metadata.IsUnknown()))

	return result, nil
}

// findMetadata looks for the first child directory under the well-known
// subtrees and parses its name. The archive case falls back to a single
// top-level folder. Missing candidates degrade to the all-unknown
// record; this never fails.
func findMetadata(root string, metaDirs []string, log *zap.Logger) metadata.Record {
	for _, sub := range metaDirs {
		if rec, ok := firstChildRecord(filepath.Join(root, sub)); ok {
			return rec
		}
	}
	// Archive layouts wrap everything in a single top-level folder.
	entries, err := os.ReadDir(root)
	if err == nil {
		var dirs []os.DirEntry
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e)
			}
		}
		if len(dirs) == 1 {
			rec := metadata.Parse(dirs[0].Name())
			if !rec.IsUnknown() {
				return rec
			}
		}
	}
	log.Warn("no metadata folder found, using unknown record", zap.String("root", root))
	return metadata.UnknownRecord()
}

func firstChildRecord(dir string) (metadata.Record, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return metadata.Record{}, false
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return metadata.Record{}, false
	}
	sort.Strings(names)
	return metadata.Parse(names[0]), true
}

// summarizeCSV reads shape only: row count and the header column names.
// Malformed or unreadable files are logged and omitted.
func summarizeCSV(path string, log *zap.Logger) (CSVSummary, bool) {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("cannot open csv, skipping", zap.String("path", path), zap.Error(err))
		return CSVSummary{}, false
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows still count

	header, err := reader.Read()
	if err != nil {
		log.Warn("cannot parse csv, skipping", zap.String("path", path), zap.Error(err))
		return CSVSummary{}, false
	}

	rows := 0
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("cannot parse csv, skipping", zap.String("path", path), zap.Error(err))
			return CSVSummary{}, false
		}
		rows++
	}

	columns := make([]string, len(header))
	copy(columns, header)

	return CSVSummary{
		File:    filepath.Base(path),
		Rows:    rows,
		Columns: columns,
	}, true
}

// Copy mirrors the non-empty buckets into destRoot/plots/<bucket>/,
// keeping only basenames, overwriting existing files, and preserving
// source mod times. Returns the organized-paths mapping. Running Copy
// twice against the same source and destination is idempotent.
func Copy(buckets map[classify.Bucket][]string, destRoot string, log *zap.Logger) (map[classify.Bucket][]string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	plotsDir := filepath.Join(destRoot, "plots")
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		return nil, errors.WrapIO(err, "DEST_CREATE_FAILED", "cannot create plots directory").
			WithContext("path", plotsDir)
	}

	organized := make(map[classify.Bucket][]string)
	for _, bucket := range classify.Order {
		files := buckets[bucket]
		if len(files) == 0 {
			continue
		}
		bucketDir := filepath.Join(plotsDir, string(bucket))
		if err := os.MkdirAll(bucketDir, 0o755); err != nil {
			return nil, errors.WrapIO(err, "DEST_CREATE_FAILED", "cannot create bucket directory").
				WithContext("path", bucketDir)
		}

		sorted := make([]string, len(files))
		copy(sorted, files)
		sort.Strings(sorted)

		for _, src := range sorted {
			dst := filepath.Join(bucketDir, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				return nil, errors.WrapIO(err, "COPY_FAILED", "cannot copy classified file").
					WithContext("src", src).
					WithContext("dst", dst)
			}
			organized[bucket] = append(organized[bucket], dst)
		}
		log.Debug("bucket copied",
			zap.String("bucket", string(bucket)),
			zap.Int("files", len(sorted)))
	}

	return organized, nil
}

// copyFile copies content and preserves the source mod time, matching
// the copy semantics of the bench's previous tooling.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}
