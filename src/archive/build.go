// Package archive writes, reads and verifies backup zip archives.
package archive

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"pybackup/src/scan"
)

// ErrCorrupt marks archives that cannot be opened or fail verification.
var ErrCorrupt = errors.New("archive unreadable or corrupt")

// ErrDestination marks extraction targets that cannot be created or
// written.
var ErrDestination = errors.New("destination not writable")

// Progress observes per-file build or restore steps. Observers never
// affect control flow.
type Progress interface {
	Step(name string)
}

// NopProgress is the default observer.
type NopProgress struct{}

// Step implements Progress.
func (NopProgress) Step(string) {}

// Summary reports what a build run did (or, in dry-run mode, would do).
type Summary struct {
	// FileCount is the number of entries written to the archive.
	FileCount int
	// TotalBytes is the uncompressed size of those entries.
	TotalBytes int64
	// Skipped counts selected files that could not be read and were left
	// out of the archive.
	Skipped int
}

// Build writes the selected files into a zip archive at dest. Level is the
// deflate level 0-9; at 0 entries are stored uncompressed. In dry-run mode
// nothing is written and the summary counts match what a real run with the
// same selection would produce.
//
// Per-file read failures are logged, counted in Skipped and do not abort
// the build; failures on the archive itself do.
func Build(files []scan.File, dest string, level int, dryRun bool, obs Progress) (Summary, error) {
	var sum Summary
	if level < 0 || level > 9 {
		return sum, fmt.Errorf("compression level must be 0-9, got %d", level)
	}
	if obs == nil {
		obs = NopProgress{}
	}

	if dryRun {
		for _, f := range files {
			obs.Step(f.ArchivePath)
			sum.FileCount++
			sum.TotalBytes += f.Size
		}
		return sum, nil
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sum, fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return sum, fmt.Errorf("create archive %s: %w", dest, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	method := zip.Deflate
	if level == 0 {
		method = zip.Store
	} else {
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
	}

	for _, f := range files {
		obs.Step(f.ArchivePath)
		if err := addFile(zw, f, method); err != nil {
			logrus.Errorf("adding %s: %v", f.ArchivePath, err)
			sum.Skipped++
			continue
		}
		sum.FileCount++
		sum.TotalBytes += f.Size
	}

	if err := zw.Close(); err != nil {
		return sum, fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return sum, fmt.Errorf("finalize archive: %w", err)
	}
	return sum, nil
}

func addFile(zw *zip.Writer, f scan.File, method uint16) error {
	in, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = f.ArchivePath
	hdr.Method = method

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
