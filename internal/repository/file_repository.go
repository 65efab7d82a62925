package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// FileRepo persists rows of the 'files' table.
type FileRepo struct{ DB *sql.DB }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{DB: db} }

// Create inserts a file record and returns its ID. name is the
// original upload name, path the unique stored name.
func (r *FileRepo) Create(ctx context.Context, name, path string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO files (name, path) VALUES (?,?)", name, path)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a file record by id.
func (r *FileRepo) GetByID(ctx context.Context, id uint64) (model.File, error) {
	var f model.File
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, path, created_at FROM files WHERE id=? LIMIT 1",
		id).Scan(&f.ID, &f.Name, &f.Path, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.File{}, ErrFileNotFound
		}
		return model.File{}, err
	}
	return f, nil
}
