// store/postgres.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinizap/notes-api/domain"
)

const (
	listNotesSQL = `SELECT id::text AS id, title, content, completed, created_at
		FROM notes ORDER BY created_at DESC, id DESC`
	getNoteSQL = `SELECT id::text AS id, title, content, completed, created_at
		FROM notes WHERE id = $1`
	insertNoteSQL = `INSERT INTO notes (id, title, content, completed, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	updateNoteSQL = `UPDATE notes SET
		title = COALESCE($2, title),
		content = COALESCE($3, content),
		completed = COALESCE($4, completed)
		WHERE id = $1`
	deleteNoteSQL = `DELETE FROM notes WHERE id = $1`
)

// Postgres stores notes in a single table on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

type noteRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Completed bool      `db:"completed"`
	CreatedAt time.Time `db:"created_at"`
}

func (r noteRow) note() domain.Note {
	return domain.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
	}
}

func OpenPostgres(ctx context.Context, connStr string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) List(ctx context.Context) ([]domain.Note, error) {
	rows, err := p.pool.Query(ctx, listNotesSQL)
	if err != nil {
		return nil, classifyPgError(err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[noteRow])
	if err != nil {
		return nil, classifyPgError(err)
	}
	notes := make([]domain.Note, 0, len(recs))
	for _, r := range recs {
		notes = append(notes, r.note())
	}
	return notes, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (domain.Note, error) {
	key, err := rowKey(id)
	if err != nil {
		return domain.Note{}, err
	}
	rows, err := p.pool.Query(ctx, getNoteSQL, key)
	if err != nil {
		return domain.Note{}, classifyPgError(err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[noteRow])
	if err != nil {
		return domain.Note{}, classifyPgError(err)
	}
	return rec.note(), nil
}

func (p *Postgres) Create(ctx context.Context, note domain.Note) (string, error) {
	id := uuid.New()
	_, err := p.pool.Exec(ctx, insertNoteSQL, id, note.Title, note.Content, note.Completed, note.CreatedAt)
	if err != nil {
		return "", classifyPgError(err)
	}
	return id.String(), nil
}

func (p *Postgres) Update(ctx context.Context, id string, patch domain.NotePatch) error {
	key, err := rowKey(id)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, updateNoteSQL, key, patch.Title, patch.Content, patch.Completed)
	if err != nil {
		return classifyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	key, err := rowKey(id)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, deleteNoteSQL, key)
	if err != nil {
		return classifyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

func rowKey(id string) (uuid.UUID, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q: %w", domain.ErrMalformedID, id, err)
	}
	return key, nil
}

// classifyPgError maps driver errors onto domain sentinels, keeping the
// original error in the chain for logging.
func classifyPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%w: %w", domain.ErrMalformedID, err)
		case pgErr.Code == pgerrcode.UndefinedTable:
			return fmt.Errorf("notes table missing, run migrations: %w", err)
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}
	return err
}
