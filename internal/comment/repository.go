package comment

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository stores comments in a SQL database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const selectColumns = `id, content, created_at`

// Insert creates a new comment and reads it back with its generated ID and
// timestamp.
func (r *Repository) Insert(ctx context.Context, content string) (*Comment, error) {
	result, err := r.db.ExecContext(ctx, "INSERT INTO comments (content) VALUES (?)", content)
	if err != nil {
		return nil, persistErr("inserting comment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, persistErr("getting insert id", err)
	}

	var c Comment
	err = r.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM comments WHERE id = ?", id,
	).Scan(&c.ID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("reading back comment %d", id), err)
	}

	return &c, nil
}

// ListAll returns all comments, newest first. Comments created within the
// same second are ordered by ID, highest first.
func (r *Repository) ListAll(ctx context.Context) (comments []*Comment, err error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM comments ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, persistErr("listing comments", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			comments, err = nil, persistErr("closing rows", closeErr)
		}
	}()

	comments = make([]*Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt); err != nil {
			return nil, persistErr("scanning comment", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, persistErr("iterating comments", err)
	}

	return comments, nil
}
