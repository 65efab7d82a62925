package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/config"
	"github.com/iliyamo/appointment-booking/internal/repository"
)

// FileHandler stores avatar uploads on disk and records them in the
// files table.
type FileHandler struct {
	Cfg   config.Config
	Files *repository.FileRepo
}

func NewFileHandler(cfg config.Config, f *repository.FileRepo) *FileHandler {
	if f == nil {
		panic("nil repository passed to NewFileHandler")
	}
	return &FileHandler{Cfg: cfg, Files: f}
}

// Upload handles POST /files (multipart field "file"). The bytes are
// written under a uuid name so concurrent uploads of files with the
// same original name cannot clobber each other.
func (h *FileHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read file"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	stored := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, stored))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Files.Create(ctx, fh.Filename, stored)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, filePart{
		ID:   id,
		Name: fh.Filename,
		Path: stored,
		URL:  fileURL(h.Cfg.AppURL, stored),
	})
}
