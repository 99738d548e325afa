package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hiredeck/hiredeck-go/profiles"
)

func (a *app) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage your seeker profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			all, err := a.profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, profile := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", profile.ID, profile.JobTitle, strings.Join(profile.Skills, ", "))
			}
			return nil
		},
	}

	var params profiles.CreateParams
	var skills string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a profile and trigger matching",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if skills != "" {
				params.Skills = strings.Split(skills, ",")
			}
			result, err := a.profiles.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s\n", result.ProfileID)
			return nil
		},
	}
	create.Flags().StringVar(&params.JobTitle, "title", "", "desired job title")
	create.Flags().StringVar(&params.Summary, "summary", "", "short summary")
	create.Flags().StringVar(&skills, "skills", "", "comma-separated skills")
	create.Flags().IntVar(&params.ExperienceYears, "years", 0, "years of experience")
	create.Flags().StringVar(&params.Location, "location", "", "location")
	create.Flags().StringVar(&params.SalaryExpectations, "salary", "", "salary expectations")
	create.Flags().BoolVar(&params.RemoteWorkPreference, "remote", false, "prefer remote work")

	interview := &cobra.Command{
		Use:   "interview <transcript-text...>",
		Short: "Extract a profile draft from an interview transcript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			extracted, err := a.profiles.ProcessInterview(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			p := extracted.Profile
			fmt.Fprintf(cmd.OutOrStdout(), "Draft: %s, %d years, skills: %s\n", p.JobTitle, p.ExperienceYears, strings.Join(p.Skills, ", "))
			return nil
		},
	}

	cmd.AddCommand(list, create, interview)
	return cmd
}
