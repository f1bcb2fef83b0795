package view

import (
	"fmt"
	"io"
	"strings"

	"example.com/pinnotes/internal/client"
	"example.com/pinnotes/internal/notesync"
	"example.com/pinnotes/internal/stringsx"
)

// previewWidth is how many runes of a note's content the list shows.
const previewWidth = 72

// List renders the notes list from cache snapshots. Rows are numbered from
// 1 in display order so that commands can refer to a note by its number.
type List struct {
	rows []client.Note
}

// Rows returns the notes of the last render in display order.
func (l *List) Rows() []client.Note {
	return append([]client.Note(nil), l.rows...)
}

// At returns the note shown with number n.
func (l *List) At(n int) (client.Note, bool) {
	if n < 1 || n > len(l.rows) {
		return client.Note{}, false
	}
	return l.rows[n-1], true
}

// Render writes ev to w. A failed fetch replaces the list with the error
// message; before the first load only a loading line is written.
func (l *List) Render(w io.Writer, ev notesync.Event) error {
	var b strings.Builder

	switch {
	case ev.Err != nil:
		l.rows = nil
		fmt.Fprintf(&b, "An error has occurred: %s\n", ev.Err)
	case !ev.Loaded:
		l.rows = nil
		b.WriteString("Loading...\n")
	default:
		l.rows = ev.Display()
		if ev.Fetching {
			b.WriteString("Updating...\n")
		}
		if len(l.rows) == 0 {
			b.WriteString("No notes yet.\n")
		}
		for i, n := range l.rows {
			writeNote(&b, i+1, n)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeNote(b *strings.Builder, num int, n client.Note) {
	mark := " "
	if n.IsPinned {
		mark = "*"
	}
	title := stringsx.OneLine(n.Title)
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(b, "%3d %s %s\n", num, mark, title)
	if content := stringsx.OneLine(n.Content); content != "" {
		fmt.Fprintf(b, "      %s\n", stringsx.Clip(content, previewWidth))
	}
}
