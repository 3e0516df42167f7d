package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rewatch/internal/app"
	"go.trai.ch/rewatch/internal/core/domain"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and print created, deleted and moved events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.WatchOptions{}
			if len(args) == 1 {
				opts.Dir = args[0]
			}

			format, _ := cmd.Flags().GetString("format")
			debounce, _ := cmd.Flags().GetDuration("debounce")
			tieBreak, _ := cmd.Flags().GetString("tie-break")
			noJournal, _ := cmd.Flags().GetBool("no-journal")
			jsonOut, _ := cmd.Flags().GetBool("json")

			// --json is shorthand for --format=json
			if jsonOut {
				format = string(domain.FormatJSON)
			}

			opts.Format = domain.Format(format)
			opts.Debounce = debounce
			opts.TieBreak = domain.TieBreak(tieBreak)
			opts.NoJournal = noJournal

			return c.app.Watch(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("format", "f", "", "Output format: auto, pretty, or json (default from config)")
	cmd.Flags().Bool("json", false, "Print JSON lines (shorthand for --format=json)")
	cmd.Flags().DurationP("debounce", "d", 0, "Pairing window for deletes and creates (default from config)")
	cmd.Flags().String("tie-break", "", "Candidate selection: nearest, first, or reject (default from config)")
	cmd.Flags().Bool("no-journal", false, "Do not write the configured journal")
	return cmd
}
