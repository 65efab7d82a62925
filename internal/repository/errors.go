// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as the booking engine and handlers to distinguish between
// different failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrAppointmentNotFound is returned when no appointment row matches
// the lookup.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ErrNotificationNotFound is returned when no notification row
// matches the lookup.
var ErrNotificationNotFound = errors.New("notification not found")

// ErrFileNotFound is returned when a referenced file row is absent,
// e.g. an avatar_id pointing nowhere.
var ErrFileNotFound = errors.New("file not found")

// ErrEmailExists is returned when an insert or update would violate
// the unique email constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrSlotTaken is returned by the appointment store when an active
// appointment already occupies the requested (provider, slot) pair.
var ErrSlotTaken = errors.New("slot already taken")
