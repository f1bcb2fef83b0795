package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/client"
	"example.com/pinnotes/internal/notesync"
	"example.com/pinnotes/internal/stringsx"
	"example.com/pinnotes/internal/view"
)

const shellHelp = `commands:
  ls                 show the notes
  title TEXT         set the title of the new note
  content TEXT       set the content of the new note
  form               show the new note form
  add                save the new note
  edit N             edit note N (blank input keeps a field)
  pin N              pin or unpin note N
  rm N               delete note N
  help               show this help
  quit               leave the shell
`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive notes session that refreshes as notes change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		return runShell(cmd.Context(), app, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// shell is a line-oriented front end. Pin and delete run in the background
// so the prompt stays usable while they are in flight; the list is redrawn
// from cache events.
type shell struct {
	app *notesync.Sync
	in  *bufio.Scanner

	mu   sync.Mutex // guards out and list
	out  io.Writer
	list view.List

	form    view.AddForm
	pending sync.WaitGroup
}

func runShell(ctx context.Context, app *notesync.Sync, in io.Reader, out io.Writer) error {
	sh := &shell{app: app, in: bufio.NewScanner(in), out: out}

	cancel := app.Subscribe(sh.onChange)
	defer cancel()
	defer sh.pending.Wait()

	// The first render comes from the subscription.
	_, _ = app.FetchNotes(ctx)
	sh.printf("type \"help\" for commands\n")

	for {
		sh.printf("notes> ")
		line, ok := sh.readLine()
		if !ok {
			return nil
		}
		if err := sh.exec(ctx, line); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			sh.printf("%v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (sh *shell) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch stringsx.Normalize(cmd) {
	case "":
		return nil
	case "help", "?":
		sh.printf("%s", shellHelp)
	case "quit", "exit":
		return io.EOF
	case "ls", "list":
		if ev := sh.app.Snapshot(); ev.Loaded && !ev.Stale {
			sh.render(ev)
			return nil
		}
		_, _ = sh.app.FetchNotes(ctx)
	case "title":
		sh.form.SetTitle(arg)
	case "content":
		sh.form.SetContent(arg)
	case "form":
		title, content := sh.form.Values()
		sh.printf("Title:   %s\nContent: %s\n", title, content)
		if msg := sh.form.Inline(); msg != "" {
			sh.printf("%s\n", msg)
		}
		sh.printf("[%s]\n", sh.form.ButtonLabel())
	case "add":
		var ve *view.ValidationError
		if _, err := sh.form.Submit(ctx, sh.app, sh); errors.As(err, &ve) {
			sh.printf("%s\n", sh.form.Inline())
		}
	case "edit":
		note, err := sh.pick(arg)
		if err != nil {
			return err
		}
		return sh.edit(ctx, note)
	case "pin", "unpin":
		note, err := sh.pick(arg)
		if err != nil {
			return err
		}
		sh.background(func() { _ = view.TogglePin(ctx, sh.app, sh, note) })
	case "rm", "delete":
		note, err := sh.pick(arg)
		if err != nil {
			return err
		}
		sh.background(func() { _ = view.Delete(ctx, sh.app, sh, note.ID) })
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (sh *shell) edit(ctx context.Context, note client.Note) error {
	form := view.NewEditForm(note)

	sh.printf("Title [%s]: ", note.Title)
	title, ok := sh.readLine()
	if !ok {
		return io.EOF
	}
	sh.printf("Content [%s]: ", stringsx.Clip(stringsx.OneLine(note.Content), 40))
	content, ok := sh.readLine()
	if !ok {
		return io.EOF
	}
	if !stringsx.IsEmpty(title) {
		form.Title = title
	}
	if !stringsx.IsEmpty(content) {
		form.Content = content
	}
	_ = form.Submit(ctx, sh.app, sh)
	return nil
}

// pick resolves a listing number against the last rendered list.
func (sh *shell) pick(arg string) (client.Note, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return client.Note{}, fmt.Errorf("expected a note number, got %q", arg)
	}
	sh.mu.Lock()
	note, ok := sh.list.At(n)
	sh.mu.Unlock()
	if !ok {
		return client.Note{}, fmt.Errorf("no note %d", n)
	}
	return note, nil
}

func (sh *shell) background(fn func()) {
	sh.pending.Add(1)
	go func() {
		defer sh.pending.Done()
		fn()
	}()
}

// onChange redraws the list whenever the cache settles into a new state.
func (sh *shell) onChange(ev notesync.Event) {
	if ev.Fetching {
		return
	}
	sh.render(ev)
}

func (sh *shell) render(ev notesync.Event) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_ = sh.list.Render(sh.out, ev)
}

// Notify implements view.Notifier.
func (sh *shell) Notify(level view.Level, msg string) {
	sh.printf("[%s] %s\n", level, msg)
}

func (sh *shell) printf(format string, args ...any) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *shell) readLine() (string, bool) {
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}
