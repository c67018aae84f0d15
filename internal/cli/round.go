package cli

import (
	"github.com/spf13/cobra"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Run rounds",
	}

	cmd.AddCommand(newRoundStartCmd())
	cmd.AddCommand(newRoundGuessCmd())
	cmd.AddCommand(newRoundRetryCmd())
	cmd.AddCommand(newRoundAbandonCmd())

	return cmd
}

func newRoundStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the next round",
		Long: `Request a new round. Content generation is asynchronous: watch the
session with 'palabra session get' or 'palabra events' to see the
category arrive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post("/api/v1/sessions/"+args[0]+"/round", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code> <guess>",
		Short: "Submit the current turn player's guess",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"guess": args[1]}

			var result Session
			if err := client.Post("/api/v1/sessions/"+args[0]+"/round/guess", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <code>",
		Short: "Retry a failed round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post("/api/v1/sessions/"+args[0]+"/round/retry", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <code>",
		Short: "Abandon the round and return to the title screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Delete("/api/v1/sessions/"+args[0]+"/round", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
