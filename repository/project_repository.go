package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"issueTracking/models"
)

// ProjectRepository handles CRUD for projects. Projects are never deleted.
type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and returns it with its generated ID.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if p == nil {
		return nil, errors.New("project is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO projects (name, description, assignee) VALUES (?,?,?)`,
		p.Name, p.Description, p.Assignee)
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
		return nil, fmt.Errorf("created project not found: id=%d", id)
	}
	return out, nil
}

// GetByID fetches a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var p models.Project
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description, assignee FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Assignee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a project with the given ID exists.
func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update replaces name, description and assignee. Returns sql.ErrNoRows if the
// project does not exist.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	if p == nil {
		return errors.New("project is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, assignee = ? WHERE id = ?`,
		p.Name, p.Description, p.Assignee, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all projects ordered by id.
func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, assignee FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Assignee); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
