// internal/models/reminder.go
package models

import "time"

// Reminder is a scheduled follow-up for a citizen's plan, stored in
// Postgres and delivered by the send-reminder worker once due.
type Reminder struct {
	ID        string     `json:"id"`
	Channel   string     `json:"channel"` // "email" or "sms"
	Target    string     `json:"target"`  // email address or E.164 phone number
	Subject   string     `json:"subject,omitempty"`
	Message   string     `json:"message"`
	DueAt     time.Time  `json:"dueAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

const (
	ReminderChannelEmail = "email"
	ReminderChannelSMS   = "sms"
)
