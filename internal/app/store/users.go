package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Unique constraint names from the users table, used to map conflicts to
// specific business errors.
const (
	ConstraintUsersEmail    = "users_email_key"
	ConstraintUsersCustomID = "users_custom_id_key"
)

// MaxUserListSize caps how many accounts a single listing query returns.
const MaxUserListSize = 500

// User represents a registered account row.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CustomID     string     `json:"customId"`
	DisplayName  string     `json:"displayName"`
	Bio          string     `json:"bio"`
	Gender       string     `json:"gender"`
	BirthDate    string     `json:"birthDate"`
	PhotoURL     string     `json:"photoURL"`
	HeaderURL    string     `json:"headerURL"`
	Level        int        `json:"level"`
	Coins        int64      `json:"coins"`
	Role         string     `json:"role"`
	BanUntil     *time.Time `json:"banUntil,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// IsBanned reports whether the account is banned at the given instant.
func (u *User) IsBanned(now time.Time) bool {
	return u.BanUntil != nil && u.BanUntil.After(now)
}

// UserStore provides access to the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a UserStore backed by the given connection pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, email, password_hash, custom_id, display_name, bio, gender,
	birth_date, photo_url, header_url, level, coins, role, ban_until, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.CustomID, &u.DisplayName, &u.Bio,
		&u.Gender, &u.BirthDate, &u.PhotoURL, &u.HeaderURL, &u.Level, &u.Coins,
		&u.Role, &u.BanUntil, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account row. The caller supplies the generated ID,
// display ID, and password hash.
func (s *UserStore) Create(ctx context.Context, u *User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, custom_id, display_name, level, coins, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.PasswordHash, u.CustomID, u.DisplayName, u.Level, u.Coins, u.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID fetches an account by its primary identifier.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches an account by its email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByCustomID fetches an account by its 8-digit display ID.
func (s *UserStore) GetByCustomID(ctx context.Context, customID string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE custom_id = $1`, customID)
	return scanUser(row)
}

// List returns accounts ordered by creation time, newest first.
// The limit is clamped to MaxUserListSize.
func (s *UserStore) List(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 || limit > MaxUserListSize {
		limit = MaxUserListSize
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName string
	Bio         string
	Gender      string
	BirthDate   string
	PhotoURL    string
	HeaderURL   string
}

// UpdateProfile overwrites the editable profile fields of an account.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET display_name = $2, bio = $3, gender = $4, birth_date = $5,
		    photo_url = $6, header_url = $7
		WHERE id = $1`,
		id, p.DisplayName, p.Bio, p.Gender, p.BirthDate, p.PhotoURL, p.HeaderURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCustomID changes the 8-digit display ID of an account.
func (s *UserStore) SetCustomID(ctx context.Context, id string, customID string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET custom_id = $2 WHERE id = $1`, id, customID)
	if err != nil {
		return fmt.Errorf("failed to set display ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCoins credits an account and returns the new balance.
func (s *UserStore) AddCoins(ctx context.Context, id string, amount int64) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `
		UPDATE users SET coins = coins + $2 WHERE id = $1 RETURNING coins`,
		id, amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to credit coins: %w", err)
	}
	return balance, nil
}

// DebitCoins atomically debits an account if the balance covers the amount,
// returning the new balance. It returns ErrInsufficientCoins otherwise.
func (s *UserStore) DebitCoins(ctx context.Context, id string, amount int64) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `
		UPDATE users SET coins = coins - $2
		WHERE id = $1 AND coins >= $2
		RETURNING coins`,
		id, amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the account is missing or the balance is short.
			if _, getErr := s.GetByID(ctx, id); getErr != nil {
				return 0, getErr
			}
			return 0, ErrInsufficientCoins
		}
		return 0, fmt.Errorf("failed to debit coins: %w", err)
	}
	return balance, nil
}

// SetBan sets or clears the ban expiry of an account. A nil until lifts the ban.
func (s *UserStore) SetBan(ctx context.Context, id string, until *time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET ban_until = $2 WHERE id = $1`, id, until)
	if err != nil {
		return fmt.Errorf("failed to set ban: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
