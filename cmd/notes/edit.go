package main

import (
	"os"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/view"
)

var (
	editTitle   string
	editContent string
)

var editCmd = &cobra.Command{
	Use:   "edit [number|id]",
	Short: "Edit the title or content of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		note, err := resolve(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		form := view.NewEditForm(note)
		if cmd.Flags().Changed("title") {
			form.Title = editTitle
		}
		if cmd.Flags().Changed("content") {
			form.Content = editContent
		}

		if err := form.Submit(cmd.Context(), app, view.NewWriterNotifier(os.Stderr)); err != nil {
			return errShown
		}
		return printList(cmd.Context(), app)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New content")
}
