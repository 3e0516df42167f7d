package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rewatch/internal/app"
	"go.trai.ch/rewatch/internal/core/domain"
)

func (c *CLI) newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a scripted raw event sequence on a fake clock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return c.app.Replay(cmd.Context(), args[0], app.ReplayOptions{
				Format: domain.Format(format),
			})
		},
	}
	cmd.Flags().StringP("format", "f", string(domain.FormatAuto), "Output format: auto, pretty, or json")
	return cmd
}
