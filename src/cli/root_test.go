package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pybackup/src/archive"
)

// execRoot runs the root command with isolated writers and quiet logging.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd(&buf, &buf)
	cmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	err := cmd.Execute()
	return buf.String(), err
}

// newTree builds projects A (1 KB and 30 KB python files) and B (a text
// doc).
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A", "main.py"), 1024)
	writeFile(t, filepath.Join(root, "A", "big.py"), 30*1024)
	writeFile(t, filepath.Join(root, "B", "readme.txt"), 100)
	return root
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// projectFiles returns per-project file counts from an archive.
func projectFiles(t *testing.T, dest string) map[string]int {
	t.Helper()
	infos, err := archive.List(dest)
	if err != nil {
		t.Fatalf("list %s: %v", dest, err)
	}
	counts := map[string]int{}
	for _, info := range infos {
		counts[info.Name] = info.Files
	}
	return counts
}

func TestBackupRestore_EndToEnd(t *testing.T) {
	root := newTree(t)
	dest := filepath.Join(t.TempDir(), "backup.zip")

	out, err := execRoot(t, "-p", root, "-o", dest, "--config-dir", t.TempDir())
	if err != nil {
		t.Fatalf("backup: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Backup file created") {
		t.Fatalf("missing success line:\n%s", out)
	}
	if _, err := os.Stat(dest + ".sha256"); err != nil {
		t.Fatalf("checksum sidecar missing: %v", err)
	}

	extract := t.TempDir()
	out, err = execRoot(t, "--restore", dest, "--extract-dir", extract)
	if err != nil {
		t.Fatalf("restore: %v\n%s", err, out)
	}
	for _, rel := range []string{"A/main.py", "A/big.py", "B/readme.txt"} {
		if _, err := os.Stat(filepath.Join(extract, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("restored file missing: %v", err)
		}
	}
}

func TestRestore_ProjectFilter(t *testing.T) {
	root := newTree(t)
	dest := filepath.Join(t.TempDir(), "backup.zip")
	if out, err := execRoot(t, "-p", root, "-o", dest, "--config-dir", t.TempDir()); err != nil {
		t.Fatalf("backup: %v\n%s", err, out)
	}

	extract := t.TempDir()
	if out, err := execRoot(t, "--restore", dest, "--extract-dir", extract, "--restore-projects", "B"); err != nil {
		t.Fatalf("restore: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(extract, "A")); !os.IsNotExist(err) {
		t.Fatal("project A restored despite filter")
	}
	if _, err := os.Stat(filepath.Join(extract, "B", "readme.txt")); err != nil {
		t.Fatalf("project B incomplete: %v", err)
	}
}

func TestRestore_RequiresExtractDir(t *testing.T) {
	if _, err := execRoot(t, "--restore", "whatever.zip"); err == nil {
		t.Fatal("expected error without --extract-dir")
	}
}

func TestDryRun_WritesNothing(t *testing.T) {
	root := newTree(t)
	dest := filepath.Join(t.TempDir(), "backup.zip")

	out, err := execRoot(t, "-p", root, "-o", dest, "--dry-run", "--config-dir", t.TempDir())
	if err != nil {
		t.Fatalf("dry run: %v\n%s", err, out)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("dry run created the archive")
	}
	if !strings.Contains(out, "Dry run completed") {
		t.Fatalf("missing dry run notice:\n%s", out)
	}
}

func TestProfilePrecedence_FlagsOverrideProfile(t *testing.T) {
	root := newTree(t)
	cfg := t.TempDir()
	scratch := t.TempDir()

	// Save a profile capping files at 8 KB; big.py (30 KB) falls out.
	dest1 := filepath.Join(scratch, "b1.zip")
	if out, err := execRoot(t, "-p", root, "-o", dest1, "-m", "8KB",
		"--create-profile", "small", "--config-dir", cfg); err != nil {
		t.Fatalf("create profile: %v\n%s", err, out)
	}
	if got := projectFiles(t, dest1); got["A"] != 1 {
		t.Fatalf("project A files = %d, want 1", got["A"])
	}

	// The profile alone keeps the cap.
	dest2 := filepath.Join(scratch, "b2.zip")
	if out, err := execRoot(t, "--use-profile", "small", "-o", dest2, "--config-dir", cfg); err != nil {
		t.Fatalf("use profile: %v\n%s", err, out)
	}
	if got := projectFiles(t, dest2); got["A"] != 1 {
		t.Fatalf("project A files = %d, want 1", got["A"])
	}

	// An explicit flag overrides the profile value.
	dest3 := filepath.Join(scratch, "b3.zip")
	if out, err := execRoot(t, "--use-profile", "small", "-o", dest3, "-m", "50KB", "--config-dir", cfg); err != nil {
		t.Fatalf("override: %v\n%s", err, out)
	}
	if got := projectFiles(t, dest3); got["A"] != 2 {
		t.Fatalf("project A files = %d, want 2", got["A"])
	}
}

func TestUseProfile_Unknown(t *testing.T) {
	if _, err := execRoot(t, "--use-profile", "ghost", "--config-dir", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestListProfiles(t *testing.T) {
	root := newTree(t)
	cfg := t.TempDir()
	dest := filepath.Join(t.TempDir(), "b.zip")
	if out, err := execRoot(t, "-p", root, "-o", dest, "--create-profile", "daily", "--config-dir", cfg); err != nil {
		t.Fatalf("create profile: %v\n%s", err, out)
	}

	out, err := execRoot(t, "--list-profiles", "--config-dir", cfg)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if !strings.Contains(out, "daily") {
		t.Fatalf("profile missing from listing:\n%s", out)
	}
}

func TestCreateDefaultProfile(t *testing.T) {
	root := newTree(t)
	cfg := t.TempDir()

	out, err := execRoot(t, "-p", root, "--create-default-profile", "--config-dir", cfg)
	if err != nil {
		t.Fatalf("create default profile: %v\n%s", err, out)
	}

	out, err = execRoot(t, "--list-profiles", "--config-dir", cfg)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	// The marker renders as an asterisk next to the default profile.
	if !strings.Contains(out, "default *") {
		t.Fatalf("default marker missing:\n%s", out)
	}
}

func TestListArchive(t *testing.T) {
	root := newTree(t)
	dest := filepath.Join(t.TempDir(), "b.zip")
	if out, err := execRoot(t, "-p", root, "-o", dest, "--config-dir", t.TempDir()); err != nil {
		t.Fatalf("backup: %v\n%s", err, out)
	}

	out, err := execRoot(t, "--list-archive", dest)
	if err != nil {
		t.Fatalf("list archive: %v", err)
	}
	if !strings.Contains(out, "A") || !strings.Contains(out, "B") {
		t.Fatalf("projects missing from listing:\n%s", out)
	}
}

func TestVerifyArchive(t *testing.T) {
	root := newTree(t)
	dest := filepath.Join(t.TempDir(), "b.zip")
	if out, err := execRoot(t, "-p", root, "-o", dest, "--config-dir", t.TempDir()); err != nil {
		t.Fatalf("backup: %v\n%s", err, out)
	}

	out, err := execRoot(t, "--verify", dest)
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "OK") {
		t.Fatalf("missing OK line:\n%s", out)
	}
}

func TestBackup_MissingProjectsDir(t *testing.T) {
	if _, err := execRoot(t, "-p", "/does/not/exist", "--config-dir", t.TempDir()); err == nil {
		t.Fatal("expected error for missing projects dir")
	}
}

func TestHelpDetailed(t *testing.T) {
	out, err := execRoot(t, "--help-detailed")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out, "PyCharm Projects Backup Utility") {
		t.Fatalf("unexpected help output:\n%s", out)
	}
}
