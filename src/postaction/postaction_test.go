package postaction

import (
	"strings"
	"testing"
	"time"
)

func TestExpand(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	got := Expand("cp {backup_file} /nas/{date}_{time}.zip", "/tmp/b.zip", now)
	want := "cp /tmp/b.zip /nas/2024-03-15_14-30-45.zip"
	if got != want {
		t.Fatalf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_NoPlaceholders(t *testing.T) {
	if got := Expand("echo done", "/tmp/b.zip", time.Now()); got != "echo done" {
		t.Fatalf("Expand = %q", got)
	}
}

func TestRun_ReportsFailuresWithoutAborting(t *testing.T) {
	results := Run([]string{"echo first {backup_file}", "false", "echo last"}, "/tmp/b.zip", time.Now())
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("first action failed: %v", results[0].Err)
	}
	if !strings.Contains(results[0].Output, "/tmp/b.zip") {
		t.Fatalf("placeholder not expanded: %q", results[0].Output)
	}
	if results[1].Err == nil {
		t.Fatal("failing action reported no error")
	}
	// A failure must not stop the remaining actions.
	if results[2].Err != nil {
		t.Fatalf("last action failed: %v", results[2].Err)
	}
}
