// Package scan enumerates projects and selects the files to back up.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"pybackup/src/rules"
)

// File is one selected file: where it lives and where it goes in the
// archive.
type File struct {
	// Path is the absolute filesystem path.
	Path string
	// ArchivePath is the slash-separated path relative to the projects
	// root, starting with the project name.
	ArchivePath string
	Size        int64
}

// Selection is the ordered result of a walk. The order is deterministic:
// projects sorted by name, files in lexical walk order within each.
type Selection struct {
	Files []File

	// SkippedLarge counts files excluded by the size cap, with the bytes
	// saved by leaving them out.
	SkippedLarge      int
	SkippedLargeBytes int64
	// Unreadable counts files and directories skipped after I/O errors.
	Unreadable int
	// Modules counts detected module directories across all projects.
	Modules int
}

// Projects returns the project subdirectories of root that survive the
// include/exclude project lists, sorted by name. Hidden directories are
// not projects.
func Projects(root string, rs *rules.RuleSet) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read projects dir %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := e.Name()
		if len(rs.IncludeProjects) > 0 && !containsString(rs.IncludeProjects, name) {
			logrus.Infof("skipping project %q: not in include list", name)
			continue
		}
		if containsString(rs.ExcludeProjects, name) {
			logrus.Infof("skipping project %q: in exclude list", name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Walk classifies every file under every selected project and returns the
// resulting selection. Unreadable files and directories are skipped with a
// warning; one bad project never aborts the others.
func Walk(root string, rs *rules.RuleSet) (*Selection, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	projects, err := Projects(root, rs)
	if err != nil {
		return nil, err
	}

	sel := &Selection{}
	for _, project := range projects {
		if err := walkProject(root, project, rs, sel); err != nil {
			logrus.Warnf("project %q: %v", project, err)
			sel.Unreadable++
		}
	}
	return sel, nil
}

func walkProject(root, project string, rs *rules.RuleSet, sel *Selection) error {
	projectDir := filepath.Join(root, project)

	modules := moduleDirs(projectDir, rs)
	sel.Modules += len(modules)

	return filepath.WalkDir(projectDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logrus.Warnf("skipping %s: %v", p, err)
			sel.Unreadable++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p == projectDir {
				return nil
			}
			// Keep descending into pruned directories when an explicit
			// include path or a detected module lives below them.
			if rs.IsExcludedDir(d.Name()) && !reachesInto(rel, rs.IncludePaths) && !reachesInto(rel, modules) {
				return fs.SkipDir
			}
			return nil
		}

		info, ierr := d.Info()
		if ierr != nil {
			logrus.Warnf("skipping %s: %v", p, ierr)
			sel.Unreadable++
			return nil
		}

		meta := rules.FileMeta{
			RelPath:     rel,
			Size:        info.Size(),
			InModuleDir: inModuleDir(rel, modules),
		}
		dec := rs.Classify(meta)
		if dec.Include {
			sel.Files = append(sel.Files, File{Path: p, ArchivePath: rel, Size: info.Size()})
			logrus.Debugf("added (%s): %s", dec.Reason, rel)
			return nil
		}
		if dec.Reason == rules.ReasonTooLarge {
			sel.SkippedLarge++
			sel.SkippedLargeBytes += info.Size()
			logrus.Infof("skipped (too large): %s (%s)", rel, rules.FormatSize(info.Size()))
		}
		return nil
	})
}

// moduleDirs finds directories carrying a package marker (__init__.py)
// under the project, as slash paths relative to the projects root. Pruned
// directories are not scanned.
func moduleDirs(projectDir string, rs *rules.RuleSet) []string {
	if !rs.AutoModules {
		return nil
	}
	root := filepath.Dir(projectDir)
	var dirs []string
	_ = filepath.WalkDir(projectDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != projectDir && rs.IsExcludedDir(d.Name()) {
			return fs.SkipDir
		}
		if _, serr := os.Stat(filepath.Join(p, "__init__.py")); serr == nil {
			rel, rerr := filepath.Rel(root, p)
			if rerr == nil {
				dirs = append(dirs, filepath.ToSlash(rel))
				logrus.Infof("auto-detected module: %s", filepath.ToSlash(rel))
			}
		}
		return nil
	})
	return dirs
}

// reachesInto reports whether rel is a prefix of, equal to, or contained in
// any listed path. Used to keep walking through otherwise pruned
// directories that an include path points into.
func reachesInto(rel string, list []string) bool {
	for _, entry := range list {
		entry = strings.Trim(strings.ReplaceAll(entry, `\`, "/"), "/")
		if entry == "" {
			continue
		}
		if rel == entry || strings.HasPrefix(entry, rel+"/") || strings.HasPrefix(rel, entry+"/") {
			return true
		}
	}
	return false
}

// inModuleDir reports whether rel lies anywhere under a detected module
// directory. Module paths act as prefixes, so subdirectories of a package
// are covered even without their own marker.
func inModuleDir(rel string, modules []string) bool {
	for _, m := range modules {
		if strings.HasPrefix(rel, m+"/") {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
