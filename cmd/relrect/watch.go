package main

import (
	"os/signal"
	"syscall"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/grindlemire/go-relrect"
	"github.com/grindlemire/go-relrect/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <sheet.yaml>",
	Short: "Re-resolve a sheet file on every edit and print what changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		sheet, err := relrect.LoadSheetFile(path)
		if err != nil {
			return err
		}
		printBounds(cmd, sheet)
		previous := boundsByName(sheet)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := watch.New(path, cfg.Watch.Debounce, func() error {
			reloaded, err := relrect.LoadSheetFile(path)
			if err != nil {
				return err
			}
			current := boundsByName(reloaded)
			if diff := cmp.Diff(previous, current); diff != "" {
				cmd.Printf("--- %s changed:\n%s", path, diff)
			}
			previous = current
			return nil
		})

		err = w.Run(ctx)
		if ctx.Err() != nil {
			return nil // clean shutdown on signal
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
