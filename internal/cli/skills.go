package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"zoe/internal/config"
	"zoe/internal/skills"
)

func newSkillsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Inspect local skill descriptors",
	}
	cmd.AddCommand(newSkillsListCmd(app))
	cmd.AddCommand(newSkillsLintCmd(app))
	return cmd
}

func skillsDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return skills.Dir(dir), nil
}

func newSkillsListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List skill descriptors, highest priority first",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := skillsDir()
			if err != nil {
				return err
			}
			loaded, errs := skills.LoadDir(dir)
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
			}
			if asJSON {
				return writeJSON(cmd, app, loaded)
			}
			if len(loaded) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no skills in %s\n", dir)
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRIORITY\tTRIGGERS\tENDPOINTS")
			for _, s := range loaded {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", s.Name, s.Priority, len(s.Triggers), len(s.AllowedEndpoints))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newSkillsLintCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate every skill descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := skillsDir()
			if err != nil {
				return err
			}
			loaded, errs := skills.LoadDir(dir)

			bad := len(errs)
			for _, e := range errs {
				fmt.Fprintf(cmd.OutOrStdout(), "parse error: %v\n", e)
			}
			for _, s := range loaded {
				problems := s.Lint()
				if len(problems) == 0 {
					continue
				}
				bad++
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", s.Path)
				for _, p := range problems {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", p)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d skill(s) failed lint", bad)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d skill(s) ok\n", len(loaded))
			return nil
		},
	}
}
