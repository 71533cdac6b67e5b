// Package repository provides persistence for user accounts.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidRole = errors.New("invalid role")

// Roles assignable to users.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID           int64
	Name         string
	Email        *string
	Phone        string
	Role         string
	PasswordHash string
	FCMToken     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the id+name projection used for rosters.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const userColumns = `id, name, email, phone, role, password_hash, fcm_token, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.PasswordHash,
		&user.FCMToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) CreateUser(ctx context.Context, name, email, phone, role, passwordHash string) (User, error) {
	if role != RoleAdmin && role != RoleUser {
		return User{}, ErrInvalidRole
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, role, password_hash)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		RETURNING `+userColumns+`
	`, name, email, phone, role, passwordHash)
	return scanUser(row)
}

func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE phone = $1
	`, phone)
	return scanUser(row)
}

func (r *Repository) GetUserByID(ctx context.Context, userID int64) (User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID)
	return scanUser(row)
}

// UpdateFCMToken registers the user's push-delivery address.
func (r *Repository) UpdateFCMToken(ctx context.Context, userID int64, fcmToken string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET fcm_token = $2, updated_at = now() WHERE id = $1
	`, userID, fcmToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const listUserRosterQuery = `
	SELECT id, name FROM users WHERE role = 'user' ORDER BY name
`

// ListUserRoster returns the id+name projection of all non-admin users.
func (r *Repository) ListUserRoster(ctx context.Context) ([]UserSummary, error) {
	rows, err := r.pool.Query(ctx, listUserRosterQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]UserSummary, 0)
	for rows.Next() {
		var entry UserSummary
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, err
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}

const listPushTokensQuery = `
	SELECT fcm_token FROM users
	WHERE fcm_token IS NOT NULL AND fcm_token != ''
`

// ListPushTokens returns every registered push-delivery address.
func (r *Repository) ListPushTokens(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listPushTokensQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

const listPushTokensForUsersQuery = `
	SELECT fcm_token FROM users
	WHERE fcm_token IS NOT NULL AND fcm_token != ''
	  AND (id = ANY($1) OR role = 'admin')
`

// ListPushTokensForUsers returns push addresses for the given users plus all
// admins. Used by the visit reminder pipeline.
func (r *Repository) ListPushTokensForUsers(ctx context.Context, userIDs []int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, listPushTokensForUsersQuery, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
