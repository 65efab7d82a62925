package handler

import (
	"testing"
	"time"
)

func TestAvailableSlots(t *testing.T) {
	dayStart := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	booked := []time.Time{
		time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
	}

	slots := availableSlots(dayStart, booked, now)

	if len(slots) != scheduleEndHour-scheduleStartHour+1 {
		t.Fatalf("slot count = %d, want %d", len(slots), scheduleEndHour-scheduleStartHour+1)
	}
	if slots[0].Time != "08:00" || slots[len(slots)-1].Time != "19:00" {
		t.Errorf("grid runs %s..%s, want 08:00..19:00", slots[0].Time, slots[len(slots)-1].Time)
	}

	byTime := map[string]slotPart{}
	for _, s := range slots {
		byTime[s.Time] = s
	}

	// 08:00 and 09:00 are already behind 09:30.
	for _, past := range []string{"08:00", "09:00"} {
		if byTime[past].Available {
			t.Errorf("%s should be unavailable (past)", past)
		}
	}
	// Booked hours stay unavailable even though they are in the future.
	for _, taken := range []string{"10:00", "14:00"} {
		if byTime[taken].Available {
			t.Errorf("%s should be unavailable (booked)", taken)
		}
	}
	// A free future hour is offered.
	if !byTime["11:00"].Available {
		t.Error("11:00 should be available")
	}

	v, err := time.Parse(time.RFC3339, byTime["11:00"].Value)
	if err != nil {
		t.Fatalf("value not RFC3339: %v", err)
	}
	if !v.Equal(time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("value = %v, want 2024-01-10T11:00:00Z", v)
	}
}

func TestAvailableSlotsAllPastDay(t *testing.T) {
	dayStart := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

	for _, s := range availableSlots(dayStart, nil, now) {
		if s.Available {
			t.Errorf("%s available on a fully past day", s.Time)
		}
	}
}
