package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/view"
)

var (
	addTitle   string
	addContent string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		var form view.AddForm
		form.SetTitle(addTitle)
		form.SetContent(addContent)

		_, err = form.Submit(cmd.Context(), app, view.NewWriterNotifier(os.Stderr))
		var ve *view.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintln(os.Stderr, form.Inline())
			return errShown
		}
		if err != nil {
			return errShown
		}
		return printList(cmd.Context(), app)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Note title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note content")
}
