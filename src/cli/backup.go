package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pybackup/src/archive"
	"pybackup/src/postaction"
	"pybackup/src/profile"
	"pybackup/src/pycharm"
	"pybackup/src/rules"
	"pybackup/src/scan"
	"pybackup/src/ui"
)

// resolveRuleSet builds the effective rule set by overlaying, in order:
// hard-coded defaults, the named profile, then every flag the user
// explicitly set.
func resolveRuleSet(cmd *cobra.Command, opts *options, store *profile.Store) (rules.RuleSet, error) {
	rs := rules.Default()

	if opts.useProfile != "" {
		loaded, err := store.Load(opts.useProfile)
		if err != nil {
			return rs, err
		}
		rs = loaded
		if rs.MaxSize == 0 {
			rs.MaxSize = rules.DefaultMaxSize
		}
	}

	f := cmd.Flags()
	if f.Changed("projects-dir") {
		rs.ProjectsDir = opts.projectsDir
	}
	if f.Changed("output") {
		rs.Output = opts.output
	}
	if f.Changed("include-venv") {
		rs.IncludeVenv = opts.includeVenv
	}
	if f.Changed("exclude") {
		rs.ExcludePatterns = opts.excludes
	}
	if f.Changed("include") {
		rs.IncludePaths = opts.includes
	}
	if f.Changed("include-projects") {
		rs.IncludeProjects = opts.includeProjects
	}
	if f.Changed("exclude-projects") {
		rs.ExcludeProjects = opts.excludeProjects
	}
	if f.Changed("max-size") {
		n, err := rules.ParseSize(opts.maxSize)
		if err != nil {
			return rs, err
		}
		rs.MaxSize = n
	}
	if f.Changed("compression") {
		rs.Compression = opts.compression
	}
	if f.Changed("no-auto-modules") {
		rs.AutoModules = !opts.noAutoModules
	}
	if f.Changed("post-action") {
		rs.PostActions = opts.postActions
	}

	if rs.Compression < 0 || rs.Compression > 9 {
		return rs, fmt.Errorf("compression level must be 0-9, got %d", rs.Compression)
	}
	if rs.ProjectsDir == "" {
		rs.ProjectsDir = pycharm.DefaultProjectsDir()
	}
	if rs.Output == "" {
		rs.Output = defaultOutputPath(time.Now())
	}
	return rs, nil
}

// defaultOutputPath places a timestamped archive in the working directory,
// or under PYBACKUP_BACKUP_DIR when that is set.
func defaultOutputPath(now time.Time) string {
	name := fmt.Sprintf("pycharm_backup_%s.zip", now.Format("20060102_150405"))
	if dir := os.Getenv("PYBACKUP_BACKUP_DIR"); dir != "" {
		return filepath.Join(dir, name)
	}
	return name
}

func runBackup(cmd *cobra.Command, opts *options, store *profile.Store, printer *ui.Printer, stdout io.Writer) error {
	rs, err := resolveRuleSet(cmd, opts, store)
	if err != nil {
		return err
	}

	if info, err := os.Stat(rs.ProjectsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("projects directory not found: %s", rs.ProjectsDir)
	}

	if opts.createProfile != "" {
		if err := store.Save(opts.createProfile, rs); err != nil {
			return fmt.Errorf("save profile %q: %w", opts.createProfile, err)
		}
		printer.Success("Profile %q created", opts.createProfile)
	}

	printBackupPlan(printer, &rs, opts)

	sel, err := scan.Walk(rs.ProjectsDir, &rs)
	if err != nil {
		return err
	}

	counter := ui.NewCounter(stdout, "backup", len(sel.Files))
	summary, err := archive.Build(sel.Files, rs.Output, rs.Compression, opts.dryRun, counter)
	counter.Done()
	if err != nil {
		return err
	}

	printSummary(printer, sel, summary)

	if opts.dryRun {
		printer.Warn("Dry run completed. No backup file was created.")
		return nil
	}

	if _, err := archive.WriteChecksum(rs.Output); err != nil {
		printer.Warn("Could not write checksum sidecar: %v", err)
	}
	printer.Success("Backup file created: %s", rs.Output)

	if len(rs.PostActions) > 0 {
		printer.Header("Executing post-backup actions:")
		for _, res := range postaction.Run(rs.PostActions, rs.Output, time.Now()) {
			if res.Err != nil {
				printer.Error("- %s: failed (%v)", res.Command, res.Err)
				continue
			}
			printer.Success("- %s: ok", res.Command)
		}
	}
	return nil
}

func printBackupPlan(printer *ui.Printer, rs *rules.RuleSet, opts *options) {
	printer.Header("PyCharm Projects Backup")
	printer.Info("Projects directory: %s", rs.ProjectsDir)
	printer.Info("Output: %s", rs.Output)
	printer.Info("Max file size: %s", rules.FormatSize(rs.MaxSize))
	printer.Info("Compression level: %d", rs.Compression)
	printer.Info("Include venv files: %t", rs.IncludeVenv)
	printer.Info("Auto-detect modules: %t", rs.AutoModules)
	if len(rs.ExcludePatterns) > 0 {
		printer.Dim("Exclusions: %s", strings.Join(rs.ExcludePatterns, ", "))
	}
	if len(rs.IncludePaths) > 0 {
		printer.Dim("Forced inclusions: %s", strings.Join(rs.IncludePaths, ", "))
	}
	if len(rs.IncludeProjects) > 0 {
		printer.Dim("Included projects: %s", strings.Join(rs.IncludeProjects, ", "))
	}
	if len(rs.ExcludeProjects) > 0 {
		printer.Dim("Excluded projects: %s", strings.Join(rs.ExcludeProjects, ", "))
	}
	if opts.dryRun {
		printer.Warn("--- DRY RUN MODE - No backup will be created ---")
	}
}

func printSummary(printer *ui.Printer, sel *scan.Selection, summary archive.Summary) {
	printer.Header("Backup Summary:")
	printer.Info("- Files included: %d (%s)", summary.FileCount, rules.FormatSize(summary.TotalBytes))
	printer.Info("- Auto-detected modules: %d", sel.Modules)
	printer.Info("- Files excluded by size: %d", sel.SkippedLarge)
	printer.Info("- Data saved by size exclusion: %s", rules.FormatSize(sel.SkippedLargeBytes))
	if sel.Unreadable > 0 {
		printer.Warn("- Unreadable entries skipped: %d", sel.Unreadable)
	}
	if summary.Skipped > 0 {
		printer.Warn("- Files that could not be archived: %d", summary.Skipped)
	}
}
