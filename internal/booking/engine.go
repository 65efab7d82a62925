// Package booking implements the appointment booking rules: who may
// book whom, which hour slots are free, and when a booking may still
// be cancelled. The engine is storage-agnostic; it talks to the
// database through small per-entity interfaces implemented by the
// repository package, which keeps the rules testable without MySQL.
package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/queue"
	"github.com/iliyamo/appointment-booking/internal/repository"
)

// Rule violations surfaced to handlers. The messages double as the
// API error strings.
var (
	ErrInvalidTarget = errors.New("you can only create appointments with providers")
	ErrPastDate      = errors.New("past dates are not permitted")
	ErrSlotTaken     = errors.New("date is not available")
	ErrSelfBooking   = errors.New("you cannot create an appointment with yourself")
	ErrNotFound      = errors.New("appointment not found")
	ErrForbidden     = errors.New("you cannot cancel this appointment")
	ErrTooLate       = errors.New("appointments can only be canceled at least two hours in advance")
)

// UserStore is the slice of the user repository the engine needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AppointmentStore persists bookings. CreateIfFree must re-check the
// (provider, slot) pair inside its own transaction and return
// repository.ErrSlotTaken when a concurrent booking won the slot.
type AppointmentStore interface {
	SlotTaken(ctx context.Context, providerID uint64, slot time.Time) (bool, error)
	CreateIfFree(ctx context.Context, a *model.Appointment) error
	GetDetail(ctx context.Context, id uint64) (model.AppointmentDetail, error)
	Cancel(ctx context.Context, id uint64, at time.Time) error
}

// NotificationStore records the "you have a new booking" message for
// a provider.
type NotificationStore interface {
	Create(ctx context.Context, providerID uint64, content string) error
}

// MailDispatcher hands a cancellation mail job to the out-of-process
// queue. Implementations must be safe to call from request handlers.
type MailDispatcher interface {
	PublishCancellationMail(ctx context.Context, ev queue.CancellationMailEvent) error
}

// Engine evaluates booking and cancellation requests.
type Engine struct {
	users         UserStore
	appointments  AppointmentStore
	notifications NotificationStore
	mail          MailDispatcher
	locale        string
	now           func() time.Time
}

// NewEngine constructs an Engine. mail may be nil, in which case
// cancellation mails are skipped entirely.
func NewEngine(users UserStore, appointments AppointmentStore, notifications NotificationStore, mail MailDispatcher, locale string) *Engine {
	if users == nil || appointments == nil || notifications == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{
		users:         users,
		appointments:  appointments,
		notifications: notifications,
		mail:          mail,
		locale:        locale,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Book validates and persists a new appointment for requesterID with
// providerID at the requested date. The stored slot is the date
// truncated down to the start of its hour in UTC; the raw date is
// kept alongside it. On success the provider gets a notification with
// a locale-formatted message.
func (e *Engine) Book(ctx context.Context, requesterID, providerID uint64, date time.Time) (model.Appointment, error) {
	provider, err := e.users.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Appointment{}, ErrInvalidTarget
		}
		return model.Appointment{}, err
	}
	if !provider.Provider {
		return model.Appointment{}, ErrInvalidTarget
	}

	// Slot must be strictly in the future: booking inside the current
	// hour is rejected.
	slot := date.UTC().Truncate(time.Hour)
	if !slot.After(e.now()) {
		return model.Appointment{}, ErrPastDate
	}

	taken, err := e.appointments.SlotTaken(ctx, providerID, slot)
	if err != nil {
		return model.Appointment{}, err
	}
	if taken {
		return model.Appointment{}, ErrSlotTaken
	}

	if requesterID == providerID {
		return model.Appointment{}, ErrSelfBooking
	}

	requester, err := e.users.GetByID(ctx, requesterID)
	if err != nil {
		return model.Appointment{}, err
	}

	appt := model.Appointment{
		UserID:     requesterID,
		ProviderID: providerID,
		Date:       date.UTC(),
		Slot:       slot,
	}
	if err := e.appointments.CreateIfFree(ctx, &appt); err != nil {
		// A concurrent request may have won the slot between the probe
		// above and the insert; the store reports that as ErrSlotTaken.
		if errors.Is(err, repository.ErrSlotTaken) {
			return model.Appointment{}, ErrSlotTaken
		}
		return model.Appointment{}, err
	}

	// The booking itself succeeded; a failed notification write is
	// logged rather than surfaced to the requester.
	content := NotificationContent(requester.Name, slot, e.locale)
	if err := e.notifications.Create(ctx, providerID, content); err != nil {
		log.Printf("booking: notification create failed for provider %d: %v", providerID, err)
	}
	return appt, nil
}

// Cancel marks an appointment as canceled on behalf of requesterID.
// Only the original requester may cancel, and only while the
// appointment is strictly more than two hours away. On success a
// cancellation mail job is enqueued best-effort.
func (e *Engine) Cancel(ctx context.Context, requesterID, appointmentID uint64) (model.AppointmentDetail, error) {
	a, err := e.appointments.GetDetail(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return model.AppointmentDetail{}, ErrNotFound
		}
		return model.AppointmentDetail{}, err
	}
	if a.UserID != requesterID {
		return model.AppointmentDetail{}, ErrForbidden
	}

	now := e.now()
	// Strict window: exactly two hours before the appointment is
	// already too late.
	if !a.Date.Add(-2 * time.Hour).After(now) {
		return model.AppointmentDetail{}, ErrTooLate
	}

	if err := e.appointments.Cancel(ctx, appointmentID, now); err != nil {
		return model.AppointmentDetail{}, err
	}
	a.CanceledAt = &now

	if e.mail != nil {
		ev := queue.CancellationMailEvent{
			AppointmentID:  a.ID,
			Date:           a.Date.Format(time.RFC3339),
			CanceledAt:     now.Format(time.RFC3339),
			RequesterName:  a.RequesterName,
			RequesterEmail: a.RequesterEmail,
			ProviderName:   a.ProviderName,
			ProviderEmail:  a.ProviderEmail,
		}
		// Best effort: an unreachable broker must not fail the
		// cancellation that already happened.
		if err := e.mail.PublishCancellationMail(ctx, ev); err != nil {
			log.Printf("booking: cancellation mail enqueue failed for appointment %d: %v", a.ID, err)
		}
	}
	return a, nil
}

// SetClock overrides the engine's time source. Tests use this to pin
// "now".
func (e *Engine) SetClock(now func() time.Time) { e.now = now }
