package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pybackup/src/profile"
	"pybackup/src/rules"
	"pybackup/src/scan"
	"pybackup/src/ui"
)

func runListProfiles(store *profile.Store, stdout io.Writer) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, "No backup profiles found.")
		return nil
	}
	def, _ := store.DefaultProfile()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tPROJECTS\tMAX SIZE\tCOMPRESSION")
	for _, name := range names {
		rs, err := store.Load(name)
		if err != nil {
			return err
		}
		label := name
		if name == def {
			label += " *"
		}
		projects := "all"
		if len(rs.IncludeProjects) > 0 {
			projects = strings.Join(rs.IncludeProjects, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", label, projects, rules.FormatSize(rs.MaxSize), rs.Compression)
	}
	return tw.Flush()
}

func runDeleteProfile(store *profile.Store, name string, printer *ui.Printer) error {
	if err := store.Delete(name); err != nil {
		return err
	}
	printer.Success("Profile %q deleted", name)
	return nil
}

// runCreateDefaultProfile saves the effective settings as the "default"
// profile with every current project on the include list, and marks it as
// the default.
func runCreateDefaultProfile(cmd *cobra.Command, opts *options, store *profile.Store, printer *ui.Printer) error {
	rs, err := resolveRuleSet(cmd, opts, store)
	if err != nil {
		return err
	}
	all := rules.Default()
	projects, err := scan.Projects(rs.ProjectsDir, &all)
	if err != nil {
		return fmt.Errorf("projects directory not found: %s", rs.ProjectsDir)
	}
	rs.IncludeProjects = projects

	if err := store.Save(profile.DefaultName, rs); err != nil {
		return err
	}
	if err := store.SetDefaultProfile(profile.DefaultName); err != nil {
		return err
	}
	printer.Success("Default profile created with %d projects", len(projects))
	printer.Dim("Profile saved under: %s", store.Dir)
	return nil
}
