package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/repository"
)

// notificationPageCap bounds GET /notifications.
const notificationPageCap = 20

// NotificationHandler serves a provider's notification feed. The
// provider check goes against the users table, not the JWT claim, so
// a stale token cannot read notifications after the flag is removed.
type NotificationHandler struct {
	Users         *repository.UserRepo
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(u *repository.UserRepo, n *repository.NotificationRepo) *NotificationHandler {
	if u == nil || n == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Users: u, Notifications: n}
}

type notificationResp struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	UserID    uint64    `json:"user_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// List handles GET /notifications.
func (h *NotificationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !u.Provider {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "only providers can load notifications"})
	}

	rows, err := h.Notifications.ListForProvider(ctx, uid, notificationPageCap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]notificationResp, 0, len(rows))
	for _, n := range rows {
		out = append(out, notificationResp{
			ID: n.ID, Content: n.Content, UserID: n.UserID, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// MarkRead handles PUT /notifications/:id. Marking an already-read
// notification again is a no-op success.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notifications.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, notificationResp{
		ID: n.ID, Content: n.Content, UserID: n.UserID, Read: n.Read, CreatedAt: n.CreatedAt,
	})
}
