package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/Adithecoder/SocialM-sub001/internal/models"
)

// ErrUserNotFound is returned when no user row matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when an insert hits the unique username
// constraint.
var ErrUsernameTaken = errors.New("username already taken")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// Store handles all database operations. Queries are written with ?
// placeholders and rebound for the postgres driver.
type Store struct {
	db     *sql.DB
	driver string
}

// New creates a store over the shared connection pool.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// DB exposes the underlying handle for lifecycle management (Close, Ping).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateUser inserts a new user row. The password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()

	if s.driver == "postgres" {
		user := &models.User{Username: username, PasswordHash: passwordHash, CreatedAt: now}
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id",
			username, passwordHash, now,
		).Scan(&user.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrUsernameTaken
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return user, nil
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, passwordHash, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// GetUserByUsername retrieves a user by exact username match.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, username, password_hash, created_at, last_login FROM users WHERE username = ?"),
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.LastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, username, password_hash, created_at, last_login FROM users WHERE id = ?"),
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.LastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// RecordLogin updates the user's last-login timestamp and appends a login
// entry to the activity log in a single transaction. Both mutations commit or
// both roll back.
func (s *Store) RecordLogin(ctx context.Context, userID int64, username string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin login tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(
		"UPDATE users SET last_login = ? WHERE id = ?"),
		at, userID,
	); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(
		"INSERT INTO activity_log (event_type, username, created_at) VALUES (?, ?, ?)"),
		models.EventLogin, username, at,
	); err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit login tx: %w", err)
	}
	return nil
}

// ActivityByUsername returns activity entries for a user, newest first.
func (s *Store) ActivityByUsername(ctx context.Context, username string, limit int) ([]models.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT id, event_type, username, created_at FROM activity_log WHERE username = ? ORDER BY created_at DESC LIMIT ?"),
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()
	return scanActivity(rows)
}

// ActivityBefore returns activity entries older than the cutoff, oldest first,
// for archival.
func (s *Store) ActivityBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT id, event_type, username, created_at FROM activity_log WHERE created_at < ? ORDER BY id ASC LIMIT ?"),
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query aged activity: %w", err)
	}
	defer rows.Close()
	return scanActivity(rows)
}

// DeleteActivityByIDs removes exactly the given entries. Pruning by explicit
// id keeps entries that were never exported safe regardless of how ids and
// timestamps interleave.
func (s *Store) DeleteActivityByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	result, err := s.db.ExecContext(ctx, s.rebind(
		"DELETE FROM activity_log WHERE id IN ("+strings.Join(placeholders, ", ")+")"), args...)
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return result.RowsAffected()
}

func scanActivity(rows *sql.Rows) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.EventType, &e.Username, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
