// internal/workers/notification/send-reminder/models.go
package sendreminder

type Input struct {
	ReminderID string `json:"reminderId"`
}

type Output struct {
	DeliveryID string `json:"deliveryId"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	SentAt     string `json:"sentAt,omitempty"`
}

const (
	StatusSent        = "sent"
	StatusAlreadySent = "already_sent"
	StatusDisabled    = "disabled"
)
