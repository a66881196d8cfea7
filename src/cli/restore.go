package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pybackup/src/archive"
	"pybackup/src/rules"
	"pybackup/src/ui"
)

func runRestore(opts *options, printer *ui.Printer) error {
	if opts.extractDir == "" {
		return errors.New("--extract-dir is required with --restore")
	}
	if len(opts.restoreProjects) > 0 {
		printer.Info("Restoring projects: %s", strings.Join(opts.restoreProjects, ", "))
	}
	n, err := archive.Restore(opts.restoreArchive, opts.extractDir, opts.restoreProjects)
	if err != nil {
		return err
	}
	printer.Success("Restored %d files to %s", n, opts.extractDir)
	return nil
}

func runListArchive(archivePath string, stdout io.Writer) error {
	infos, err := archive.List(archivePath)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROJECT\tFILES\tSIZE")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Files, rules.FormatSize(info.Bytes))
	}
	return tw.Flush()
}

func runVerify(archivePath string, printer *ui.Printer) error {
	n, err := archive.Verify(archivePath)
	if err != nil {
		return err
	}
	printer.Success("%s: OK (%d entries verified)", archivePath, n)
	return nil
}
