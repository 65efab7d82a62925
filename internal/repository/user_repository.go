package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/utils"
)

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,provider,avatar_id,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u      model.User
		avatar sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Provider, &avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if avatar.Valid {
		id := uint64(avatar.Int64)
		u.AvatarID = &id
	}
	return u, nil
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, provider bool, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, provider) VALUES (?,?,?,?)",
		name, email, hash, provider)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// Update persists profile changes. The password hash is replaced only
// when newHash is non-empty; avatarID may be nil to clear the avatar.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, email, newHash string, avatarID *uint64) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var err error
	if newHash != "" {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, email=?, password_hash=?, avatar_id=?, updated_at=NOW() WHERE id=?",
			name, email, newHash, avatarID, id)
	} else {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, email=?, avatar_id=?, updated_at=NOW() WHERE id=?",
			name, email, avatarID, id)
	}
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrEmailExists
	}
	return err
}

// ProviderRow is a provider joined with its avatar file, as listed by
// GET /providers.
type ProviderRow struct {
	ID         uint64
	Name       string
	Email      string
	AvatarID   sql.NullInt64
	AvatarName sql.NullString
	AvatarPath sql.NullString
}

// ListProviders returns every user with the provider flag set,
// ordered by name, with avatar metadata attached where present.
func (r *UserRepo) ListProviders(ctx context.Context) ([]ProviderRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, f.id, f.name, f.path
		FROM users u
		LEFT JOIN files f ON f.id = u.avatar_id
		WHERE u.provider = TRUE
		ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProviderRow
	for rows.Next() {
		var p ProviderRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarID, &p.AvatarName, &p.AvatarPath); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
