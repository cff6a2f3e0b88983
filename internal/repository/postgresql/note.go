package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/note"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

type noteRepository struct {
	db *database.DB
}

// NewNoteRepository creates a new manager note repository
func NewNoteRepository(db *database.DB) note.Repository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, n note.ManagerNote) (note.ManagerNote, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO manager_notes (id, author_id, employee_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query, n.ID, n.AuthorID, n.EmployeeID, n.Body, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return note.ManagerNote{}, fmt.Errorf("failed to create manager note: %w", err)
	}

	return n, nil
}

func (r *noteRepository) GetByID(ctx context.Context, id string, authorID string) (note.ManagerNote, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, author_id, employee_id, body, created_at, updated_at
		FROM manager_notes
		WHERE id = $1 AND author_id = $2
	`

	var n note.ManagerNote
	err := q.QueryRow(ctx, query, id, authorID).Scan(
		&n.ID, &n.AuthorID, &n.EmployeeID, &n.Body, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note.ManagerNote{}, note.ErrNoteNotFound
		}
		return note.ManagerNote{}, fmt.Errorf("failed to get manager note: %w", err)
	}

	return n, nil
}

func (r *noteRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]note.ManagerNote, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, author_id, employee_id, body, created_at, updated_at
		FROM manager_notes
		WHERE %s
		ORDER BY created_at DESC
	`, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list manager notes: %w", err)
	}
	defer rows.Close()

	var notes []note.ManagerNote
	for rows.Next() {
		var n note.ManagerNote
		if err := rows.Scan(&n.ID, &n.AuthorID, &n.EmployeeID, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manager note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (r *noteRepository) ListByAuthor(ctx context.Context, authorID string) ([]note.ManagerNote, error) {
	return r.listWhere(ctx, "author_id = $1", authorID)
}

func (r *noteRepository) ListByAuthorAndEmployee(ctx context.Context, authorID, employeeID string) ([]note.ManagerNote, error) {
	return r.listWhere(ctx, "author_id = $1 AND employee_id = $2", authorID, employeeID)
}

func (r *noteRepository) Update(ctx context.Context, n note.ManagerNote) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE manager_notes
		SET body = $3, updated_at = $4
		WHERE id = $1 AND author_id = $2
	`

	tag, err := q.Exec(ctx, query, n.ID, n.AuthorID, n.Body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update manager note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return note.ErrNoteNotFound
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id string, authorID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM manager_notes WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete manager note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return note.ErrNoteNotFound
	}

	return nil
}
