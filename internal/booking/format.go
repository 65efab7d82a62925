package booking

import (
	"fmt"
	"time"
)

// Presentation-layer formatting for notification texts. Kept out of
// the rule logic so the engine only decides what happened and the
// locale only decides how it reads.

var ptMonths = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// FormatSlot renders a slot time for human consumption in the given
// locale. "pt" produces "dia 10 de jan, às 10:00h"; anything else
// falls back to English.
func FormatSlot(t time.Time, locale string) string {
	if locale == "pt" {
		return fmt.Sprintf("dia %02d de %s, às %d:%02dh",
			t.Day(), ptMonths[t.Month()-1], t.Hour(), t.Minute())
	}
	return t.Format("Jan 2 at 15:04")
}

// NotificationContent builds the message stored for a provider when
// requesterName books the given slot.
func NotificationContent(requesterName string, slot time.Time, locale string) string {
	if locale == "pt" {
		return fmt.Sprintf("Novo agendamento de %s para o %s", requesterName, FormatSlot(slot, locale))
	}
	return fmt.Sprintf("New appointment from %s for %s", requesterName, FormatSlot(slot, locale))
}
