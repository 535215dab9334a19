package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"issueTracking/models"
)

// TagRepository handles CRUD for tags. Deleting a tag drops its issue
// associations through the issue_tags foreign keys.
type TagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a tag and returns it with its generated ID.
func (r *TagRepository) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	if t == nil {
		return nil, errors.New("tag is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO tags (name, description) VALUES (?,?)`, t.Name, t.Description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("created tag not found: id=%d", id)
	}
	return out, nil
}

// GetByID fetches a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var t models.Tag
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Update replaces name and description. Returns sql.ErrNoRows if the tag does not exist.
func (r *TagRepository) Update(ctx context.Context, t *models.Tag) error {
	if t == nil {
		return errors.New("tag is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET name = ?, description = ? WHERE id = ?`, t.Name, t.Description, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a tag. Returns sql.ErrNoRows if the tag does not exist.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all tags ordered by id.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM tags ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
