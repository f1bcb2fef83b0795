package notesync

import "example.com/pinnotes/internal/client"

// Display orders notes for the list view: newest first, with pinned notes
// ahead of unpinned ones. The service appends new notes, so newest first is
// the reverse of service order. Within the pinned and unpinned groups the
// reversed order is kept. The input is not modified.
func Display(notes []client.Note) []client.Note {
	out := make([]client.Note, 0, len(notes))
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].IsPinned {
			out = append(out, notes[i])
		}
	}
	for i := len(notes) - 1; i >= 0; i-- {
		if !notes[i].IsPinned {
			out = append(out, notes[i])
		}
	}
	return out
}
