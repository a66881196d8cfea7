// Package cli wires the pybackup command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pybackup/src/logging"
	"pybackup/src/profile"
	"pybackup/src/ui"
)

// options holds every flag value. The zero value plus cobra defaults is a
// plain backup run.
type options struct {
	projectsDir     string
	output          string
	includeVenv     bool
	excludes        []string
	includes        []string
	includeProjects []string
	excludeProjects []string
	maxSize         string
	compression     int
	noAutoModules   bool

	createProfile        string
	useProfile           string
	createDefaultProfile bool
	listProfiles         bool
	deleteProfile        string

	restoreArchive  string
	extractDir      string
	restoreProjects []string
	listArchive     string
	verifyArchive   string

	dryRun      bool
	logFile     string
	logLevel    string
	postActions []string
	noColor     bool
	configDir   string
	detailed    bool
}

// NewRootCmd returns the root cobra command.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "pybackup",
		Short:         "Back up and restore PyCharm project directories",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.projectsDir, "projects-dir", "p", "", "Path to the PyCharm projects directory (auto-detected when omitted)")
	f.StringVarP(&opts.output, "output", "o", "", "Output zip file path (default: timestamped file in the working directory)")
	f.BoolVarP(&opts.includeVenv, "include-venv", "v", false, "Include essential virtualenv files in the backup")
	f.StringArrayVarP(&opts.excludes, "exclude", "e", nil, "Directory or path pattern to exclude (repeatable, substring match)")
	f.StringArrayVarP(&opts.includes, "include", "i", nil, "Path to always include, relative to the projects directory (repeatable)")
	f.StringSliceVar(&opts.includeProjects, "include-projects", nil, "Only back up these projects")
	f.StringSliceVar(&opts.excludeProjects, "exclude-projects", nil, "Projects to leave out of the backup")
	f.StringVarP(&opts.maxSize, "max-size", "m", "20MB", "Maximum file size to include (supports KB/MB/GB/TB suffixes)")
	f.IntVarP(&opts.compression, "compression", "c", 9, "Zip compression level 0-9 (0 stores without compression)")
	f.BoolVar(&opts.noAutoModules, "no-auto-modules", false, "Disable automatic module directory detection")

	f.StringVar(&opts.createProfile, "create-profile", "", "Save the effective settings as a named profile, then run the backup")
	f.StringVar(&opts.useProfile, "use-profile", "", "Load settings from a saved profile")
	f.BoolVar(&opts.createDefaultProfile, "create-default-profile", false, "Create the default profile covering all current projects")
	f.BoolVar(&opts.listProfiles, "list-profiles", false, "List saved profiles")
	f.StringVar(&opts.deleteProfile, "delete-profile", "", "Delete a saved profile")

	f.StringVar(&opts.restoreArchive, "restore", "", "Restore from a backup archive")
	f.StringVar(&opts.extractDir, "extract-dir", "", "Directory to extract a restored backup into")
	f.StringSliceVar(&opts.restoreProjects, "restore-projects", nil, "Only restore these projects from the archive")
	f.StringVar(&opts.listArchive, "list-archive", "", "List the projects inside a backup archive")
	f.StringVar(&opts.verifyArchive, "verify", "", "Verify a backup archive and its checksum sidecar")

	f.BoolVar(&opts.dryRun, "dry-run", false, "Walk and classify without writing the archive")
	f.StringVar(&opts.logFile, "log-file", "", "Write the full log to this file")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warning|error")
	f.StringArrayVar(&opts.postActions, "post-action", nil, "Command to run after a successful backup; {backup_file}, {date} and {time} are substituted (repeatable)")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.StringVar(&opts.configDir, "config-dir", "", "Configuration directory (default: ~/.pycharm_backup)")
	f.BoolVar(&opts.detailed, "help-detailed", false, "Show the detailed help with examples")

	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// run dispatches between the mutually exclusive operation modes.
func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	if opts.detailed {
		printDetailedHelp(stdout, !opts.noColor)
		return nil
	}

	closer, err := logging.Setup(opts.logFile, opts.logLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	printer := ui.NewPrinter(stdout, !opts.noColor)
	store := profile.NewStore(opts.configDir)

	switch {
	case opts.listProfiles:
		return runListProfiles(store, stdout)
	case opts.deleteProfile != "":
		return runDeleteProfile(store, opts.deleteProfile, printer)
	case opts.createDefaultProfile:
		return runCreateDefaultProfile(cmd, opts, store, printer)
	case opts.listArchive != "":
		return runListArchive(opts.listArchive, stdout)
	case opts.verifyArchive != "":
		return runVerify(opts.verifyArchive, printer)
	case opts.restoreArchive != "":
		return runRestore(opts, printer)
	case opts.extractDir != "" || len(opts.restoreProjects) > 0:
		return errors.New("--extract-dir and --restore-projects require --restore")
	default:
		return runBackup(cmd, opts, store, printer, stdout)
	}
}

// Execute runs the CLI with the process stdio and returns the exit code.
// A bare invocation shows the detailed help instead of silently running a
// backup with all defaults.
func Execute() int {
	if len(os.Args) <= 1 {
		printDetailedHelp(os.Stdout, true)
		return 0
	}
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
