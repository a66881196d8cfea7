package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pybackup/src/rules"
)

// newTree builds a two-project layout:
//
//	A/main.py        5 KB
//	A/data.bin       30 KB
//	A/pkg/__init__.py
//	A/pkg/resource.dat
//	A/logs/app.log
//	B/readme.txt
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A", "main.py"), 5*1024)
	writeFile(t, filepath.Join(root, "A", "data.bin"), 30*1024)
	writeFile(t, filepath.Join(root, "A", "pkg", "__init__.py"), 10)
	writeFile(t, filepath.Join(root, "A", "pkg", "resource.dat"), 64)
	writeFile(t, filepath.Join(root, "A", "logs", "app.log"), 10)
	writeFile(t, filepath.Join(root, "B", "readme.txt"), 100)
	return root
}

// testRules caps file size at 10 KB so data.bin falls over the limit.
func testRules() rules.RuleSet {
	rs := rules.Default()
	rs.MaxSize = 10 * 1024
	return rs
}

func TestWalk_DefaultSelection(t *testing.T) {
	root := newTree(t)
	rs := testRules()

	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	want := []string{
		"A/main.py",
		"A/pkg/__init__.py",
		"A/pkg/resource.dat",
		"B/readme.txt",
	}
	if got := archivePaths(sel); !reflect.DeepEqual(got, want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}
	if sel.SkippedLarge != 1 {
		t.Fatalf("SkippedLarge = %d, want 1", sel.SkippedLarge)
	}
	if sel.SkippedLargeBytes != 30*1024 {
		t.Fatalf("SkippedLargeBytes = %d, want %d", sel.SkippedLargeBytes, 30*1024)
	}
	if sel.Modules != 1 {
		t.Fatalf("Modules = %d, want 1", sel.Modules)
	}
}

func TestWalk_IncludeProjects(t *testing.T) {
	root := newTree(t)
	rs := testRules()
	rs.IncludeProjects = []string{"A"}

	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	for _, f := range sel.Files {
		if got := f.ArchivePath[:2]; got != "A/" {
			t.Fatalf("file outside project A: %s", f.ArchivePath)
		}
	}
	if len(sel.Files) == 0 {
		t.Fatal("no files selected from project A")
	}
}

func TestWalk_ExplicitIncludeBeatsSizeCap(t *testing.T) {
	root := newTree(t)
	rs := testRules()
	rs.IncludePaths = []string{"A/data.bin"}

	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !containsString(archivePaths(sel), "A/data.bin") {
		t.Fatalf("A/data.bin missing from selection: %v", archivePaths(sel))
	}
	if sel.SkippedLarge != 0 {
		t.Fatalf("SkippedLarge = %d, want 0", sel.SkippedLarge)
	}
}

func TestWalk_IncludePathReachesIntoPrunedDir(t *testing.T) {
	root := newTree(t)
	writeFile(t, filepath.Join(root, "A", "logs", "keep", "sample.log"), 10)
	rs := testRules()
	rs.IncludePaths = []string{"A/logs/keep"}

	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !containsString(archivePaths(sel), "A/logs/keep/sample.log") {
		t.Fatalf("include path not honored inside pruned dir: %v", archivePaths(sel))
	}
	if containsString(archivePaths(sel), "A/logs/app.log") {
		t.Fatal("pruned dir leaked files outside the include path")
	}
}

func TestWalk_NoAutoModules(t *testing.T) {
	root := newTree(t)
	rs := testRules()
	rs.AutoModules = false

	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if containsString(archivePaths(sel), "A/pkg/resource.dat") {
		t.Fatal("module resource selected despite --no-auto-modules")
	}
	// __init__.py stays: .py is an essential extension on its own.
	if !containsString(archivePaths(sel), "A/pkg/__init__.py") {
		t.Fatal("__init__.py missing")
	}
}

func TestWalk_ModuleSubdirectoriesIncluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A", "pkg", "__init__.py"), 10)
	writeFile(t, filepath.Join(root, "A", "pkg", "assets", "x.dat"), 64)

	rs := testRules()
	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// The marker sits on A/pkg; files anywhere below it count as module
	// content, not just direct children.
	if !containsString(archivePaths(sel), "A/pkg/assets/x.dat") {
		t.Fatalf("module subdirectory file missing: %v", archivePaths(sel))
	}
}

func TestWalk_Deterministic(t *testing.T) {
	root := newTree(t)
	rs := testRules()

	a, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	b, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !reflect.DeepEqual(archivePaths(a), archivePaths(b)) {
		t.Fatalf("walks differ: %v vs %v", archivePaths(a), archivePaths(b))
	}
}

func TestWalk_UnreadableProjectDoesNotBlockOthers(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := newTree(t)
	locked := filepath.Join(root, "C")
	mustMkdirAll(t, locked)
	writeFile(t, filepath.Join(locked, "secret.py"), 10)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	rs := testRules()
	sel, err := Walk(root, &rs)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if sel.Unreadable == 0 {
		t.Fatal("expected unreadable entries to be counted")
	}
	if !containsString(archivePaths(sel), "B/readme.txt") {
		t.Fatal("unreadable project blocked the others")
	}
}

func TestProjects_FiltersAndSorts(t *testing.T) {
	root := newTree(t)
	mustMkdirAll(t, filepath.Join(root, ".hidden"))

	rs := testRules()
	got, err := Projects(root, &rs)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("projects = %v, want %v", got, want)
	}

	rs.ExcludeProjects = []string{"A"}
	got, err = Projects(root, &rs)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if want := []string{"B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("projects = %v, want %v", got, want)
	}
}

func archivePaths(sel *Selection) []string {
	paths := make([]string, 0, len(sel.Files))
	for _, f := range sel.Files {
		paths = append(paths, f.ArchivePath)
	}
	return paths
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	mustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir -p %s: %v", path, err)
	}
}
