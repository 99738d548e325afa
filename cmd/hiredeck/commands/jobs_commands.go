package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hiredeck/hiredeck-go/jobs"
)

func (a *app) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse and manage jobs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the matched job feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			feed, err := a.jobs.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tMATCH\tLOCATION")
			for _, job := range feed {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\n", job.ID, job.Title, job.Company, job.MatchPercentage, job.Location)
			}
			return w.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			job, err := a.jobs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at %s (%s)\n\n%s\n", job.Title, job.Company, job.Location, job.Description)
			return nil
		},
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your own postings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			postings, err := a.jobs.Mine(cmd.Context())
			if err != nil {
				return err
			}
			for _, job := range postings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", job.ID, job.Title)
			}
			return nil
		},
	}

	apply := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply to a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			result, err := a.jobs.Apply(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied: %s (%s)\n", result.ApplicationID, result.Status)
			return nil
		},
	}

	var params jobs.CreateParams
	create := &cobra.Command{
		Use:   "create",
		Short: "Post a new job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			job, err := a.jobs.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created job %s\n", job.ID)
			return nil
		},
	}
	create.Flags().StringVar(&params.Title, "title", "", "job title")
	create.Flags().StringVar(&params.Company, "company", "", "company name")
	create.Flags().StringVar(&params.Location, "location", "", "location")
	create.Flags().StringVar(&params.Salary, "salary", "", "salary range")
	create.Flags().StringVar(&params.Description, "description", "", "description")

	cmd.AddCommand(list, show, mine, apply, create)
	return cmd
}
