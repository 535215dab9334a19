package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"issueTracking/models"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrDuplicateUsername is returned when the username is already registered.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrRegistrationClosed is returned by CreateBootstrapAdmin once any user exists.
var ErrRegistrationClosed = errors.New("bootstrap registration closed")

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithBootstrapRole inserts a user whose role is decided by the same
// statement: Admin when the table is empty, User otherwise. Because the check
// and the insert are one statement, and users_single_admin allows only one
// Admin row, concurrent registrations on an empty table yield one Admin.
// A racer that loses the Admin slot is retried once and becomes a User.
func (r *UserRepository) CreateWithBootstrapRole(ctx context.Context, username, passwordHash string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const q = `INSERT INTO users (username, password_hash, role)
SELECT ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'User' ELSE 'Admin' END`

	var (
		res sql.Result
		err error
	)
	for attempt := 0; attempt < 2; attempt++ {
		res, err = r.db.ExecContext(ctx, q, username, passwordHash)
		if err == nil || !isUniqueViolation(err, "users.role") {
			break
		}
	}
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("created user not found: id=%d", id)
	}
	return u, nil
}

// CreateBootstrapAdmin inserts username as Admin only while the table is
// empty. The emptiness check and the insert are one statement, so of several
// concurrent callers at most one succeeds; the rest get ErrRegistrationClosed.
func (r *UserRepository) CreateBootstrapAdmin(ctx context.Context, username, passwordHash string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, password_hash, role)
SELECT ?, ?, 'Admin' WHERE NOT EXISTS (SELECT 1 FROM users)`, username, passwordHash)
	if err != nil {
		if isUniqueViolation(err, "users.role") {
			return nil, ErrRegistrationClosed
		}
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrRegistrationClosed
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("created user not found: id=%d", id)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at FROM users WHERE id = ?`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`, username))
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// isUniqueViolation matches SQLite unique and primary-key violations whose
// "UNIQUE constraint failed: <table.col>" message names column.
func isUniqueViolation(err error, column string) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.ExtendedCode != sqlite3.ErrConstraintUnique && se.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return false
	}
	return strings.Contains(se.Error(), column)
}
