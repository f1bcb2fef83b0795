package notes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	db *sql.DB

	stmtGet    *sql.Stmt
	stmtUpdate *sql.Stmt
	stmtDelete *sql.Stmt
	stmtList   *sql.Stmt
}

func NewRepository(ctx context.Context, db *sql.DB) (*Repository, error) {
	r := &Repository{db: db}

	var err error
	r.stmtGet, err = db.PrepareContext(ctx, `
		SELECT id, title, content, is_pinned, created_at
		FROM notes
		WHERE id = $1
	`)
	if err != nil {
		return nil, err
	}

	r.stmtUpdate, err = db.PrepareContext(ctx, `
		UPDATE notes
		SET title = $1, content = $2, is_pinned = $3
		WHERE id = $4
		RETURNING id, title, content, is_pinned, created_at
	`)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtDelete, err = db.PrepareContext(ctx, `DELETE FROM notes WHERE id = $1`)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	// Oldest first: clients expect new notes appended to the list.
	r.stmtList, err = db.PrepareContext(ctx, `
		SELECT id, title, content, is_pinned, created_at
		FROM notes
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *Repository) Close() error {
	for _, s := range []*sql.Stmt{r.stmtGet, r.stmtUpdate, r.stmtDelete, r.stmtList} {
		if s != nil {
			_ = s.Close()
		}
	}
	return nil
}

// Create uses explicit transaction: INSERT notes + INSERT audit.
func (r *Repository) Create(ctx context.Context, title, content string) (Note, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Note{}, err
	}
	defer tx.Rollback()

	var n Note
	err = tx.QueryRowContext(ctx, `
		INSERT INTO notes (id, title, content) VALUES ($1, $2, $3)
		RETURNING id, title, content, is_pinned, created_at
	`, uuid.NewString(), title, content).Scan(&n.ID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt)
	if err != nil {
		return Note{}, err
	}

	if err := audit(ctx, tx, n.ID, "create"); err != nil {
		return Note{}, err
	}

	if err := tx.Commit(); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Note, error) {
	var n Note
	err := r.stmtGet.QueryRowContext(ctx, id).Scan(&n.ID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func (r *Repository) Update(ctx context.Context, id string, req UpdateNoteRequest) (Note, error) {
	var n Note
	err := r.stmtUpdate.QueryRowContext(ctx, req.Title, req.Content, req.IsPinned, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

// Patch reads and rewrites the row inside one transaction so concurrent
// patches touching different fields do not lose each other's writes.
func (r *Repository) Patch(ctx context.Context, id string, req PatchNoteRequest) (Note, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Note{}, err
	}
	defer tx.Rollback()

	var n Note
	err = tx.QueryRowContext(ctx, `
		SELECT id, title, content, is_pinned, created_at
		FROM notes
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&n.ID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, err
	}

	n = req.Apply(n)
	_, err = tx.ExecContext(ctx, `
		UPDATE notes SET title = $1, content = $2, is_pinned = $3 WHERE id = $4
	`, n.Title, n.Content, n.IsPinned, id)
	if err != nil {
		return Note{}, err
	}

	if req.IsPinned != nil {
		action := "unpin"
		if *req.IsPinned {
			action = "pin"
		}
		if err := audit(ctx, tx, id, action); err != nil {
			return Note{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.stmtDelete.ExecContext(ctx, id)
	if err != nil {
		return err
	}
	a, _ := res.RowsAffected()
	if a == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Note, error) {
	rows, err := r.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func audit(ctx context.Context, tx *sql.Tx, id, action string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notes_audit (note_id, action) VALUES ($1, $2)`, id, action)
	return err
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	out := make([]Note, 0, 32)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
