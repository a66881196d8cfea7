package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteChecksum writes a <archive>.sha256 sidecar next to the archive in
// "sum  name" form.
func WriteChecksum(archivePath string) (string, error) {
	sum, err := sha256File(archivePath)
	if err != nil {
		return "", err
	}
	sidecar := archivePath + ".sha256"
	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(archivePath))
	if err := os.WriteFile(sidecar, []byte(line), 0o644); err != nil {
		return "", err
	}
	return sidecar, nil
}

// Verify checks that the archive opens cleanly, that every entry's CRC is
// intact, and that the sha256 sidecar matches when one exists. Returns the
// number of entries checked.
func Verify(archivePath string) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %v", ErrCorrupt, archivePath, err)
	}
	defer zr.Close()

	checked := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return checked, fmt.Errorf("%w: entry %s: %v", ErrCorrupt, f.Name, err)
		}
		// Reading to EOF triggers the CRC check.
		if _, err := io.Copy(io.Discard, rc); err != nil {
			rc.Close()
			return checked, fmt.Errorf("%w: entry %s: %v", ErrCorrupt, f.Name, err)
		}
		rc.Close()
		checked++
	}

	sidecar := archivePath + ".sha256"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return checked, nil
		}
		return checked, err
	}
	want := strings.Fields(string(data))
	if len(want) == 0 {
		return checked, fmt.Errorf("%w: empty checksum file %s", ErrCorrupt, sidecar)
	}
	got, err := sha256File(archivePath)
	if err != nil {
		return checked, err
	}
	if got != want[0] {
		return checked, fmt.Errorf("%w: checksum mismatch for %s", ErrCorrupt, archivePath)
	}
	return checked, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
