package domain

import "time"

type NotificationType string

const (
	NotificationTypeCustomerReminder NotificationType = "CUSTOMER_REMINDER"
	NotificationTypeEndUserReminder  NotificationType = "END_USER_REMINDER"
)

type Notification struct {
	ID       string           `json:"id"`
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	UserID   string           `json:"user_id"`
	SendDate time.Time        `json:"send_date"`
	IsRead   bool             `json:"is_read"`
	// DedupKey, when set, is unique across notifications.
	DedupKey string `json:"-"`
}
