package model

import (
	"testing"
	"time"
)

func TestAppointmentPast(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	a := Appointment{Slot: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)}
	if !a.Past(now) {
		t.Error("8:00 slot should be past at 9:00")
	}
	a.Slot = now
	if a.Past(now) {
		t.Error("slot equal to now is not past")
	}
	a.Slot = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	if a.Past(now) {
		t.Error("future slot reported past")
	}
}

func TestAppointmentCancelable(t *testing.T) {
	date := time.Date(2024, 1, 10, 10, 45, 0, 0, time.UTC)
	canceled := time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		now        time.Time
		canceledAt *time.Time
		want       bool
	}{
		{"well before window", time.Date(2024, 1, 10, 7, 59, 0, 0, time.UTC), nil, true},
		{"exactly two hours before", time.Date(2024, 1, 10, 8, 45, 0, 0, time.UTC), nil, false},
		{"inside two hours", time.Date(2024, 1, 10, 8, 59, 0, 0, time.UTC), nil, false},
		{"already canceled", time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC), &canceled, false},
	}
	for _, tc := range cases {
		a := Appointment{Date: date, CanceledAt: tc.canceledAt}
		if got := a.Cancelable(tc.now); got != tc.want {
			t.Errorf("%s: Cancelable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
