package main

import (
	"os"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/view"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [number|id]",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
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

		if err := view.Delete(cmd.Context(), app, view.NewWriterNotifier(os.Stderr), note.ID); err != nil {
			return errShown
		}
		return printList(cmd.Context(), app)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
