package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/booking"
	"github.com/iliyamo/appointment-booking/internal/repository"
)

// appointmentPageSize is the fixed page size of GET /appointments.
const appointmentPageSize = 20

// AppointmentHandler exposes booking, listing and cancellation. The
// rules live in the booking engine; the handler only parses requests
// and maps rule violations to status codes.
type AppointmentHandler struct {
	Engine       *booking.Engine
	Appointments *repository.AppointmentRepo
	AppURL       string
}

func NewAppointmentHandler(e *booking.Engine, a *repository.AppointmentRepo, appURL string) *AppointmentHandler {
	if e == nil || a == nil {
		panic("nil dependency passed to NewAppointmentHandler")
	}
	return &AppointmentHandler{Engine: e, Appointments: a, AppURL: appURL}
}

type createAppointmentReq struct {
	ProviderID uint64 `json:"provider_id"`
	Date       string `json:"date"` // RFC3339
}

type appointmentResp struct {
	ID         uint64     `json:"id"`
	Date       time.Time  `json:"date"`
	UserID     uint64     `json:"user_id"`
	ProviderID uint64     `json:"provider_id"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
	Past       bool       `json:"past"`
	Cancelable bool       `json:"cancelable"`
	Provider   *userPart  `json:"provider,omitempty"`
}

// Create handles POST /appointments.
func (h *AppointmentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createAppointmentReq
	if err := c.Bind(&req); err != nil || req.ProviderID == 0 || req.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation fails"})
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation fails"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	appt, err := h.Engine.Book(ctx, uid, req.ProviderID, date)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidTarget):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrPastDate), errors.Is(err, booking.ErrSlotTaken):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrSelfBooking):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	now := time.Now().UTC()
	return c.JSON(http.StatusOK, appointmentResp{
		ID:         appt.ID,
		Date:       appt.Date,
		UserID:     appt.UserID,
		ProviderID: appt.ProviderID,
		Past:       appt.Past(now),
		Cancelable: appt.Cancelable(now),
	})
}

// List handles GET /appointments?page=N: the requester's active
// appointments, 20 per page, soonest first, provider identity and
// avatar joined in.
func (h *AppointmentHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page := 1
	if p := c.QueryParam("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Appointments.ListActive(ctx, uid, page, appointmentPageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	now := time.Now().UTC()
	out := make([]appointmentResp, 0, len(rows))
	for _, a := range rows {
		out = append(out, appointmentResp{
			ID:         a.ID,
			Date:       a.Date,
			UserID:     a.UserID,
			ProviderID: a.ProviderID,
			Past:       a.Past(now),
			Cancelable: a.Cancelable(now),
			Provider: &userPart{
				ID:       a.ProviderID,
				Name:     a.ProviderName,
				Email:    a.ProviderEmail,
				Provider: true,
				Avatar:   avatarPart(h.AppURL, a.AvatarID, a.AvatarName, a.AvatarPath),
			},
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Cancel handles DELETE /appointments/:id.
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Engine.Cancel(ctx, uid, id)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrForbidden), errors.Is(err, booking.ErrTooLate):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	now := time.Now().UTC()
	return c.JSON(http.StatusOK, appointmentResp{
		ID:         a.ID,
		Date:       a.Date,
		UserID:     a.UserID,
		ProviderID: a.ProviderID,
		CanceledAt: a.CanceledAt,
		Past:       a.Past(now),
		Cancelable: a.Cancelable(now),
	})
}
