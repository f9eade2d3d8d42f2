// Package archive extracts bench result archives (zip and 7z) into a
// destination directory before classification. Extraction errors are
// fatal for the run.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"go.uber.org/zap"

	"github.com/benchlab/benchreport/pkg/errors"
)

// IsArchive reports whether the path has a supported archive extension.
func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".7z":
		return true
	}
	return false
}

// Extract fully extracts src into dest, dispatching on extension.
func Extract(src, dest string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".zip":
		return extractZip(src, dest, log)
	case ".7z":
		return extract7z(src, dest, log)
	}
	return errors.ArchiveError("ARCHIVE_UNSUPPORTED", "unsupported archive type").
		WithContext("path", src)
}

func extractZip(src, dest string, log *zap.Logger) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return errors.WrapArchive(err, "ARCHIVE_CORRUPT", "cannot open zip archive").
			WithContext("path", src)
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		target, err := securePath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.WrapIO(err, "EXTRACT_FAILED", "cannot create directory").
					WithContext("path", target)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return errors.WrapArchive(err, "ARCHIVE_CORRUPT", "cannot read archive entry").
				WithContext("entry", f.Name)
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
		count++
	}
	log.Debug("zip extracted", zap.String("path", src), zap.Int("files", count))
	return nil
}

func extract7z(src, dest string, log *zap.Logger) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return errors.WrapArchive(err, "ARCHIVE_CORRUPT", "cannot open 7z archive").
			WithContext("path", src)
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		target, err := securePath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.WrapIO(err, "EXTRACT_FAILED", "cannot create directory").
					WithContext("path", target)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return errors.WrapArchive(err, "ARCHIVE_CORRUPT", "cannot read archive entry").
				WithContext("entry", f.Name)
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
		count++
	}
	log.Debug("7z extracted", zap.String("path", src), zap.Int("files", count))
	return nil
}

// securePath joins an archive entry name onto dest and rejects entries
// that would escape it.
func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.Clean(name))
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", errors.ArchiveError("ARCHIVE_ENTRY_ESCAPE", "archive entry escapes destination").
			WithContext("entry", name)
	}
	return target, nil
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapIO(err, "EXTRACT_FAILED", "cannot create directory").
			WithContext("path", filepath.Dir(target))
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.WrapIO(err, "EXTRACT_FAILED", "cannot create file").
			WithContext("path", target)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.WrapIO(err, "EXTRACT_FAILED", "cannot write file").
			WithContext("path", target)
	}
	return out.Close()
}
