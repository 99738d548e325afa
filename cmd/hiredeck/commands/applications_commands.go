package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hiredeck/hiredeck-go/applications"
)

func (a *app) applicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Review applications",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			apps, err := a.applications.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tJOB\tCOMPANY\tSTATUS")
			for _, app := range apps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.ID, app.JobTitle, app.CompanyName, app.Status)
			}
			return w.Flush()
		},
	}

	decide := &cobra.Command{
		Use:   "decide <application-id> <accepted|rejected>",
		Short: "Accept or reject an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			app, err := a.applications.UpdateStatus(cmd.Context(), args[0], applications.Status(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s is now %s\n", app.ID, app.Status)
			return nil
		},
	}

	cmd.AddCommand(list, decide)
	return cmd
}
