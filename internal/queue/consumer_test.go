package queue

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCancellationMailEventJSON(t *testing.T) {
	ev := CancellationMailEvent{
		AppointmentID:  12,
		Date:           "2024-01-10T10:45:00Z",
		CanceledAt:     "2024-01-10T07:59:00Z",
		RequesterName:  "João",
		RequesterEmail: "joao@example.com",
		ProviderName:   "Dr. Silva",
		ProviderEmail:  "silva@example.com",
	}

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Field names are part of the wire contract with the worker.
	for _, key := range []string{
		`"appointment_id":12`, `"date"`, `"canceled_at"`,
		`"requester_name"`, `"requester_email"`, `"provider_name"`, `"provider_email"`,
	} {
		if !strings.Contains(string(b), key) {
			t.Errorf("payload missing %s: %s", key, b)
		}
	}

	var back CancellationMailEvent
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != ev {
		t.Errorf("roundtrip mismatch: %+v", back)
	}
}

func TestRenderCancellationMail(t *testing.T) {
	ev := CancellationMailEvent{
		AppointmentID:  12,
		Date:           "2024-01-10T10:45:00Z",
		CanceledAt:     "2024-01-10T07:59:00Z",
		RequesterName:  "João",
		RequesterEmail: "joao@example.com",
		ProviderName:   "Dr. Silva",
		ProviderEmail:  "silva@example.com",
	}

	subject, body := RenderCancellationMail(ev)

	if want := "Appointment canceled by João"; subject != want {
		t.Errorf("subject = %q, want %q", subject, want)
	}
	for _, frag := range []string{"Hello Dr. Silva", "João (joao@example.com)", "2024-01-10T10:45:00Z", "2024-01-10T07:59:00Z"} {
		if !strings.Contains(body, frag) {
			t.Errorf("body missing %q:\n%s", frag, body)
		}
	}
}
