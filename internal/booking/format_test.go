package booking

import (
	"testing"
	"time"
)

func TestFormatSlot(t *testing.T) {
	slot := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	if got, want := FormatSlot(slot, "pt"), "dia 10 de jan, às 10:00h"; got != want {
		t.Errorf("pt: got %q, want %q", got, want)
	}
	if got, want := FormatSlot(slot, "en"), "Jan 10 at 10:00"; got != want {
		t.Errorf("en: got %q, want %q", got, want)
	}
	// Unknown locales fall back to English.
	if got, want := FormatSlot(slot, "de"), "Jan 10 at 10:00"; got != want {
		t.Errorf("fallback: got %q, want %q", got, want)
	}

	// Single-digit hours carry no leading zero in pt.
	early := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	if got, want := FormatSlot(early, "pt"), "dia 05 de mar, às 8:00h"; got != want {
		t.Errorf("pt early: got %q, want %q", got, want)
	}
}

func TestNotificationContent(t *testing.T) {
	slot := time.Date(2024, 12, 24, 15, 0, 0, 0, time.UTC)

	got := NotificationContent("Maria", slot, "pt")
	want := "Novo agendamento de Maria para o dia 24 de dez, às 15:00h"
	if got != want {
		t.Errorf("pt: got %q, want %q", got, want)
	}

	got = NotificationContent("Maria", slot, "en")
	want = "New appointment from Maria for Dec 24 at 15:00"
	if got != want {
		t.Errorf("en: got %q, want %q", got, want)
	}
}
