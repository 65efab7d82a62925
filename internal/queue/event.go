// Package queue defines message payloads exchanged over the message
// broker and the background consumer that delivers cancellation
// mails.
package queue

// CancellationMailEvent is published when a requester cancels an
// appointment. It carries everything the mail worker needs to render
// and address the message without querying the primary database.
type CancellationMailEvent struct {
	AppointmentID  uint64 `json:"appointment_id"`
	Date           string `json:"date"`
	CanceledAt     string `json:"canceled_at"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	ProviderName   string `json:"provider_name"`
	ProviderEmail  string `json:"provider_email"`
}
