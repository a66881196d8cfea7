package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Restore extracts entries from the archive into extractDir. When projects
// is non-empty only entries whose top-level component matches one of the
// named projects are extracted. Returns the number of files restored.
func Restore(archivePath, extractDir string, projects []string) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %v", ErrCorrupt, archivePath, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrDestination, extractDir, err)
	}

	if len(projects) > 0 {
		available := projectSet(zr.File)
		found := false
		for _, p := range projects {
			if _, ok := available[p]; ok {
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("none of the selected projects exist in %s", archivePath)
		}
	}

	restored := 0
	for _, f := range zr.File {
		name := filepath.ToSlash(f.Name)
		if len(projects) > 0 && !containsString(projects, topLevel(name)) {
			continue
		}
		if err := extractEntry(f, extractDir); err != nil {
			logrus.Errorf("extracting %s: %v", name, err)
			continue
		}
		if !f.FileInfo().IsDir() {
			restored++
			logrus.Debugf("restored: %s", name)
		}
	}
	return restored, nil
}

func extractEntry(f *zip.File, extractDir string) error {
	// Reject entries that would escape the extraction directory.
	dest := filepath.Join(extractDir, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(dest, filepath.Clean(extractDir)+string(os.PathSeparator)) {
		return fmt.Errorf("entry path escapes extraction dir: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrDestination, err)
	}

	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestination, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ProjectInfo summarizes one project's contents inside an archive.
type ProjectInfo struct {
	Name  string
	Files int
	Bytes int64
}

// List returns per-project entry counts and uncompressed sizes, sorted by
// project name.
func List(archivePath string) ([]ProjectInfo, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCorrupt, archivePath, err)
	}
	defer zr.Close()

	byProject := map[string]*ProjectInfo{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := topLevel(filepath.ToSlash(f.Name))
		info, ok := byProject[name]
		if !ok {
			info = &ProjectInfo{Name: name}
			byProject[name] = info
		}
		info.Files++
		info.Bytes += int64(f.UncompressedSize64)
	}

	infos := make([]ProjectInfo, 0, len(byProject))
	for _, info := range byProject {
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func projectSet(files []*zip.File) map[string]struct{} {
	set := map[string]struct{}{}
	for _, f := range files {
		set[topLevel(filepath.ToSlash(f.Name))] = struct{}{}
	}
	return set
}

func topLevel(name string) string {
	name = strings.TrimPrefix(name, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
