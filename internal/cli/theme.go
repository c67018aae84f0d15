package cli

import (
	"github.com/spf13/cobra"
)

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect and toggle theme groups",
	}

	cmd.AddCommand(newThemeListCmd())
	cmd.AddCommand(newThemeToggleCmd())

	return cmd
}

func newThemeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the theme catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ThemeCatalog
			if err := client.Get("/api/v1/themes", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newThemeToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <code> <theme>",
		Short: "Toggle a theme group for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"theme": args[1]}

			var result Session
			if err := client.Post("/api/v1/sessions/"+args[0]+"/themes/toggle", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
