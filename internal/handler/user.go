package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/config"
	"github.com/iliyamo/appointment-booking/internal/repository"
	"github.com/iliyamo/appointment-booking/internal/utils"
)

// UserHandler serves profile updates for the authenticated user.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Files *repository.FileRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, f *repository.FileRepo) *UserHandler {
	if u == nil || f == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Cfg: cfg, Users: u, Files: f}
}

type updateUserReq struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	OldPassword string  `json:"old_password"`
	Password    string  `json:"password"`
	AvatarID    *uint64 `json:"avatar_id"`
}

// Update handles PUT /users. Fields left empty keep their current
// value; changing the password requires the old one to match.
func (h *UserHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation fails"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = u.Name
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		email = u.Email
	} else if !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation fails"})
	}

	newHash := ""
	if req.Password != "" {
		if len(req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation fails"})
		}
		if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password does not match"})
		}
		newHash, err = utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
	}

	avatarID := u.AvatarID
	if req.AvatarID != nil {
		if *req.AvatarID == 0 {
			avatarID = nil
		} else {
			if _, err := h.Files.GetByID(ctx, *req.AvatarID); err != nil {
				if errors.Is(err, repository.ErrFileNotFound) {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar file not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			avatarID = req.AvatarID
		}
	}

	if err := h.Users.Update(ctx, uid, name, email, newHash, avatarID); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := userPart{ID: uid, Name: name, Email: email, Provider: u.Provider}
	if avatarID != nil {
		if f, err := h.Files.GetByID(ctx, *avatarID); err == nil {
			resp.Avatar = &filePart{ID: f.ID, Name: f.Name, Path: f.Path, URL: fileURL(h.Cfg.AppURL, f.Path)}
		}
	}
	return c.JSON(http.StatusOK, resp)
}
