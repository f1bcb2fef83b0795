package view

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/pinnotes/internal/client"
	"example.com/pinnotes/internal/notes"
	"example.com/pinnotes/internal/notesync"
)

type note struct {
	level Level
	msg   string
}

type recorder struct {
	mu  sync.Mutex
	got []note
}

func (r *recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, note{level, msg})
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.got...)
}

type stubActions struct {
	createFn func(context.Context, string, string) (client.Note, error)
	updateFn func(context.Context, client.Note) error
	deleteFn func(context.Context, client.ID) error
	pinFn    func(context.Context, client.ID, bool) error
}

func (s stubActions) CreateNote(ctx context.Context, title, content string) (client.Note, error) {
	return s.createFn(ctx, title, content)
}
func (s stubActions) UpdateNote(ctx context.Context, n client.Note) error { return s.updateFn(ctx, n) }
func (s stubActions) DeleteNote(ctx context.Context, id client.ID) error  { return s.deleteFn(ctx, id) }
func (s stubActions) TogglePin(ctx context.Context, id client.ID, pinned bool) error {
	return s.pinFn(ctx, id, pinned)
}

var boom = errors.New("boom")

// newApp wires a Sync to the in-memory notes service. When failCreate is
// set, POST /notes answers 500 with an empty body.
func newApp(t *testing.T, failCreate bool, seed ...notes.Note) *notesync.Sync {
	t.Helper()
	routes := notes.NewHandlers(notes.NewMemStore(seed...)).Routes()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failCreate && r.Method == http.MethodPost {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		routes.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return notesync.New(client.New(srv.URL))
}

func TestAddForm_RejectsEmptyNote(t *testing.T) {
	called := false
	c := stubActions{createFn: func(context.Context, string, string) (client.Note, error) {
		called = true
		return client.Note{}, nil
	}}
	rec := &recorder{}

	tests := []struct {
		name           string
		title, content string
		missing        []string
	}{
		{"both", "", "", []string{"title", "content"}},
		{"title", "  ", "body", []string{"title"}},
		{"content", "Testing", "\n", []string{"content"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f AddForm
			f.SetTitle(tt.title)
			f.SetContent(tt.content)

			_, err := f.Submit(context.Background(), c, rec)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.missing, ve.Fields)
			require.Equal(t, MsgEmptyNote, f.Inline())

			title, content := f.Values()
			require.Equal(t, tt.title, title)
			require.Equal(t, tt.content, content)
		})
	}

	require.False(t, called)
	require.Empty(t, rec.all(), "validation is inline, not a notification")
}

func TestAddForm_Success(t *testing.T) {
	ctx := context.Background()
	app := newApp(t, false, notes.Note{Title: "Starter note", Content: "Let's always have one note"})
	_, err := app.FetchNotes(ctx)
	require.NoError(t, err)

	var f AddForm
	f.SetContent("Don't forget to check the tests")
	_, err = f.Submit(ctx, app, &recorder{})
	require.Error(t, err)

	f.SetTitle("Testing")
	rec := &recorder{}
	created, err := f.Submit(ctx, app, rec)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Empty(t, rec.all())

	title, content := f.Values()
	require.Empty(t, title)
	require.Empty(t, content)
	require.Empty(t, f.Inline())

	items, err := app.Query(ctx)
	require.NoError(t, err)
	shown := notesync.Display(items)
	require.Len(t, shown, 2)
	require.Equal(t, "Testing", shown[0].Title)
	require.Equal(t, "Don't forget to check the tests", shown[0].Content)
}

func TestAddForm_FailureKeepsInput(t *testing.T) {
	ctx := context.Background()
	app := newApp(t, true, notes.Note{Title: "Starter note", Content: "Let's always have one note"})
	_, err := app.FetchNotes(ctx)
	require.NoError(t, err)

	var f AddForm
	f.SetTitle("Testing")
	f.SetContent("Don't forget to check the tests")
	rec := &recorder{}

	_, err = f.Submit(ctx, app, rec)
	require.Error(t, err)
	require.Equal(t, []note{{Failure, "Internal Server Error"}}, rec.all())
	require.Empty(t, f.Inline())

	title, content := f.Values()
	require.Equal(t, "Testing", title)
	require.Equal(t, "Don't forget to check the tests", content)

	items, err := app.Query(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddForm_BusyLabel(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := stubActions{createFn: func(context.Context, string, string) (client.Note, error) {
		close(entered)
		<-release
		return client.Note{ID: "1"}, nil
	}}

	var f AddForm
	f.SetTitle("t")
	f.SetContent("c")
	require.Equal(t, "Add note", f.ButtonLabel())

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), c, &recorder{})
		done <- err
	}()
	<-entered
	require.Equal(t, "Adding note", f.ButtonLabel())

	_, err := f.Submit(context.Background(), c, &recorder{})
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, "Add note", f.ButtonLabel())
}

func TestEditForm(t *testing.T) {
	orig := client.Note{ID: "1", Title: "old", Content: "body", IsPinned: true}

	t.Run("success", func(t *testing.T) {
		var sent client.Note
		u := stubActions{updateFn: func(_ context.Context, n client.Note) error {
			sent = n
			return nil
		}}
		rec := &recorder{}

		f := NewEditForm(orig)
		require.Equal(t, "old", f.Title)
		f.Title = "new"

		require.NoError(t, f.Submit(context.Background(), u, rec))
		require.Equal(t, client.Note{ID: "1", Title: "new", Content: "body", IsPinned: true}, sent)
		require.Equal(t, []note{{Success, MsgSaved}}, rec.all())
		require.Equal(t, "new", f.Note.Title)
	})

	t.Run("failure", func(t *testing.T) {
		u := stubActions{updateFn: func(context.Context, client.Note) error { return boom }}
		rec := &recorder{}

		f := NewEditForm(orig)
		f.Content = "edited"
		require.ErrorIs(t, f.Submit(context.Background(), u, rec), boom)
		require.Equal(t, []note{{Failure, MsgSaveError}}, rec.all())
		require.Equal(t, "edited", f.Content)
		require.Equal(t, orig, f.Note)
	})
}

func TestDelete(t *testing.T) {
	rec := &recorder{}
	ok := stubActions{deleteFn: func(context.Context, client.ID) error { return nil }}
	require.NoError(t, Delete(context.Background(), ok, rec, "1"))

	bad := stubActions{deleteFn: func(context.Context, client.ID) error { return boom }}
	require.ErrorIs(t, Delete(context.Background(), bad, rec, "1"), boom)

	require.Equal(t, []note{{Success, MsgDeleted}, {Failure, MsgDeleteError}}, rec.all())
}

func TestTogglePin(t *testing.T) {
	var got []bool
	p := stubActions{pinFn: func(_ context.Context, _ client.ID, pinned bool) error {
		got = append(got, pinned)
		if len(got) == 2 {
			return boom
		}
		return nil
	}}
	rec := &recorder{}
	unpinned := client.Note{ID: "1"}
	pinned := client.Note{ID: "1", IsPinned: true}

	require.Equal(t, "Pin note", PinLabel(unpinned))
	require.Equal(t, "Unpin note", PinLabel(pinned))

	require.NoError(t, TogglePin(context.Background(), p, rec, unpinned))
	require.Error(t, TogglePin(context.Background(), p, rec, pinned))
	require.Equal(t, []bool{true, false}, got)
	require.Equal(t, []note{{Failure, MsgUnpinError}}, rec.all())
}

func TestList_Render(t *testing.T) {
	var l List
	var buf bytes.Buffer

	require.NoError(t, l.Render(&buf, notesync.Event{}))
	require.Equal(t, "Loading...\n", buf.String())

	buf.Reset()
	require.NoError(t, l.Render(&buf, notesync.Event{Loaded: true, Err: errors.New("Internal Server Error")}))
	require.Equal(t, "An error has occurred: Internal Server Error\n", buf.String())
	require.Empty(t, l.Rows())

	buf.Reset()
	ev := notesync.Event{
		Loaded:   true,
		Fetching: true,
		Notes: []client.Note{
			{ID: "a", Title: "First", Content: "first"},
			{ID: "b", Title: "Second", Content: "second\nline", IsPinned: true},
			{ID: "c", Content: strings.Repeat("x", 100)},
		},
	}
	require.NoError(t, l.Render(&buf, ev))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, "Updating...", lines[0])
	require.Equal(t, "  1 * Second", lines[1])
	require.Equal(t, "      second line", lines[2])
	require.Equal(t, "  2   (untitled)", lines[3])
	require.Equal(t, "      "+strings.Repeat("x", 71)+"…", lines[4])
	require.Equal(t, "  3   First", lines[5])

	n, ok := l.At(1)
	require.True(t, ok)
	require.Equal(t, client.ID("b"), n.ID)
	_, ok = l.At(4)
	require.False(t, ok)

	buf.Reset()
	require.NoError(t, l.Render(&buf, notesync.Event{Loaded: true}))
	require.Equal(t, "No notes yet.\n", buf.String())
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)
	n.Notify(Success, MsgDeleted)
	n.Notify(Failure, MsgDeleteError)
	require.Equal(t, "[ok] Note successfully deleted\n[error] There was an error deleting the note\n", buf.String())
}
