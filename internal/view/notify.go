package view

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notification texts shown after a mutation settles.
const (
	MsgDeleted     = "Note successfully deleted"
	MsgDeleteError = "There was an error deleting the note"
	MsgSaved       = "Note successfully saved"
	MsgSaveError   = "There was an error saving the note"
	MsgPinError    = "There was an error pinning the note"
	MsgUnpinError  = "There was an error unpinning the note"
)

type Level int

const (
	Success Level = iota
	Failure
)

func (l Level) String() string {
	if l == Failure {
		return "error"
	}
	return "ok"
}

// Notifier shows transient notifications. They are kept apart from the
// inline validation message of a form.
type Notifier interface {
	Notify(level Level, msg string)
}

// WriterNotifier prints notifications as single lines, e.g. to stderr.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(level Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, msg)
	slog.Debug("notification", "level", level.String(), "msg", msg)
}
