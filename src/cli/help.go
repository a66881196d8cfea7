package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	helpParamStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpCmdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// printDetailedHelp writes the long-form help with usage examples.
func printDetailedHelp(w io.Writer, color bool) {
	render := func(style lipgloss.Style, s string) string {
		if color {
			return style.Render(s)
		}
		return s
	}
	title := func(s string) { fmt.Fprintf(w, "\n%s\n", render(helpTitleStyle, s)) }
	section := func(s string) { fmt.Fprintf(w, "\n%s\n", render(helpSectionStyle, "## "+s)) }
	param := func(s string) { fmt.Fprintf(w, "\n%s\n", render(helpParamStyle, s)) }
	cmd := func(s string) { fmt.Fprintf(w, "  %s\n", render(helpCmdStyle, s)) }
	text := func(s string) { fmt.Fprintln(w, s) }

	title("PyCharm Projects Backup Utility")
	text("Creates compact backups of PyCharm projects by selectively including")
	text("essential development files while excluding unnecessary or large files,")
	text("and restores them later.")

	section("Usage")
	cmd("pybackup -p /path/to/projects -o backup.zip")

	section("Selection")
	param("Projects directory (auto-detected when omitted)")
	cmd("pybackup --projects-dir /path/to/projects")
	param("Exclude directories or path patterns")
	cmd("pybackup -e logs -e temp -e user_data")
	param("Force-include paths, even past the size cap")
	cmd("pybackup -i venv/Lib/site-packages/mypackage -i project1/data/sample_configs")
	param("Limit to, or leave out, whole projects")
	cmd("pybackup --include-projects project1,project2")
	cmd("pybackup --exclude-projects old_project,test_project")
	param("Maximum size of individual files (B, KB, MB, GB, TB)")
	cmd("pybackup -m 50MB")
	param("Virtualenv essentials (activation files only)")
	cmd("pybackup --include-venv")
	param("Compression level 0-9 (0 stores uncompressed)")
	cmd("pybackup -c 6")

	section("Profiles")
	text("Save the current settings under a name, reuse them later:")
	cmd("pybackup --create-profile daily -p ~/PycharmProjects -e logs -e temp")
	cmd("pybackup --use-profile daily")
	cmd("pybackup --create-default-profile")
	cmd("pybackup --list-profiles")
	cmd("pybackup --delete-profile daily")

	section("Restore")
	cmd("pybackup --restore backup.zip --extract-dir ~/restored")
	cmd("pybackup --restore backup.zip --extract-dir ~/restored --restore-projects project1,project2")
	param("Inspect or verify an archive")
	cmd("pybackup --list-archive backup.zip")
	cmd("pybackup --verify backup.zip")

	section("Other")
	param("Simulate without writing anything")
	cmd("pybackup --dry-run")
	param("Logging")
	cmd("pybackup --log-file backup.log --log-level debug")
	param("Post-backup actions ({backup_file}, {date}, {time} substituted)")
	cmd(`pybackup --post-action "cp {backup_file} /mnt/nas/" --post-action "echo done at {date} {time}"`)

	section("Example")
	cmd("pybackup -p ~/code -o ~/backups/code.zip -v -m 30MB -e logs --include-projects app,lib --log-file backup.log")
	fmt.Fprintln(w)
}
