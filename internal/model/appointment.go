package model

import "time"

// Appointment records a booking made by a requester against a
// provider. Date keeps the raw requested time; Slot is that time
// truncated down to the start of its hour and is the key used for
// availability checks. An appointment is never deleted: cancelling
// sets CanceledAt and leaves the row in place.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – requester who booked the appointment.
//  ProviderID – provider being booked.
//  Date       – raw requested time as sent by the client.
//  Slot       – Date truncated to the start of its hour (UTC).
//  CanceledAt – cancellation time (nil while the booking is active).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Appointment struct {
	ID         uint64     // appointments.id
	UserID     uint64     // appointments.user_id
	ProviderID uint64     // appointments.provider_id
	Date       time.Time  // appointments.date
	Slot       time.Time  // appointments.slot
	CanceledAt *time.Time // appointments.canceled_at (nullable)
	CreatedAt  time.Time  // appointments.created_at
	UpdatedAt  time.Time  // appointments.updated_at
}

// Past reports whether the booked slot is already behind the given
// reference time.
func (a Appointment) Past(now time.Time) bool {
	return a.Slot.Before(now)
}

// Cancelable reports whether the appointment is still active and far
// enough in the future to be cancelled. The window is strict: exactly
// two hours before the appointment is already too late.
func (a Appointment) Cancelable(now time.Time) bool {
	return a.CanceledAt == nil && a.Date.Add(-2*time.Hour).After(now)
}

// AppointmentDetail is an Appointment joined with the names and
// emails of both parties. It feeds the cancellation mail payload and
// ownership checks without a second round trip to the users table.
type AppointmentDetail struct {
	Appointment
	RequesterName  string
	RequesterEmail string
	ProviderName   string
	ProviderEmail  string
}
