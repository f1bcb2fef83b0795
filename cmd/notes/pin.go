package main

import (
	"os"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/view"
)

var pinCmd = &cobra.Command{
	Use:     "pin [number|id]",
	Aliases: []string{"unpin"},
	Short:   "Pin a note, or unpin it if it is pinned",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		note, err := resolve(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		if err := view.TogglePin(cmd.Context(), app, view.NewWriterNotifier(os.Stderr), note); err != nil {
			return errShown
		}
		return printList(cmd.Context(), app)
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
}
