package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/repository"
)

// Hour grid offered by every provider. Slots outside this window are
// never listed as available even though nothing stops a direct
// booking at, say, 22:00.
const (
	scheduleStartHour = 8
	scheduleEndHour   = 19
)

// ProviderHandler serves the provider directory, per-day availability
// and the provider's own schedule.
type ProviderHandler struct {
	Users        *repository.UserRepo
	Appointments *repository.AppointmentRepo
	AppURL       string
}

func NewProviderHandler(u *repository.UserRepo, a *repository.AppointmentRepo, appURL string) *ProviderHandler {
	if u == nil || a == nil {
		panic("nil repository passed to NewProviderHandler")
	}
	return &ProviderHandler{Users: u, Appointments: a, AppURL: appURL}
}

// List handles GET /providers: every bookable user with avatar
// metadata. The response is cached by the Redis middleware.
func (h *ProviderHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Users.ListProviders(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]userPart, 0, len(rows))
	for _, p := range rows {
		out = append(out, userPart{
			ID:       p.ID,
			Name:     p.Name,
			Email:    p.Email,
			Provider: true,
			Avatar:   avatarPart(h.AppURL, p.AvatarID, p.AvatarName, p.AvatarPath),
		})
	}
	return c.JSON(http.StatusOK, out)
}

type slotPart struct {
	Time      string `json:"time"`
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// availableSlots builds the hour grid for the day containing dayStart
// and flags each slot free when it is in the future and not booked.
func availableSlots(dayStart time.Time, booked []time.Time, now time.Time) []slotPart {
	taken := make(map[time.Time]bool, len(booked))
	for _, b := range booked {
		taken[b.UTC()] = true
	}
	out := make([]slotPart, 0, scheduleEndHour-scheduleStartHour+1)
	for hour := scheduleStartHour; hour <= scheduleEndHour; hour++ {
		slot := dayStart.Add(time.Duration(hour) * time.Hour)
		out = append(out, slotPart{
			Time:      slot.Format("15:04"),
			Value:     slot.Format(time.RFC3339),
			Available: slot.After(now) && !taken[slot],
		})
	}
	return out
}

// Available handles GET /providers/:id/available?date=<unix-ms>. It
// returns the provider's hour grid for that day with availability
// flags.
func (h *ProviderHandler) Available(c echo.Context) error {
	providerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || providerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid provider id"})
	}
	ms, err := strconv.ParseInt(c.QueryParam("date"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	dayStart := time.UnixMilli(ms).UTC().Truncate(24 * time.Hour)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booked, err := h.Appointments.ListSlots(ctx, providerID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, availableSlots(dayStart, booked, time.Now().UTC()))
}

type scheduleItem struct {
	ID   uint64    `json:"id"`
	Date time.Time `json:"date"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

// Schedule handles GET /schedule?date=<unix-ms>: the authenticated
// provider's active appointments for that day, requester names
// attached. Non-providers get 401.
func (h *ProviderHandler) Schedule(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ms, err := strconv.ParseInt(c.QueryParam("date"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	dayStart := time.UnixMilli(ms).UTC().Truncate(24 * time.Hour)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !u.Provider {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user is not a provider"})
	}

	rows, err := h.Appointments.ListForProviderDay(ctx, uid, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]scheduleItem, 0, len(rows))
	for _, a := range rows {
		item := scheduleItem{ID: a.ID, Date: a.Date}
		item.User.Name = a.RequesterName
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}
