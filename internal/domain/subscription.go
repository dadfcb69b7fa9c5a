package domain

import "time"

// PushSubscription is a stored Web Push subscription. Push delivery fails
// for users without one.
type PushSubscription struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Endpoint  string    `json:"endpoint" dynamodbav:"endpoint"`
	P256dh    string    `json:"p256dh" dynamodbav:"p256dh"`
	Auth      string    `json:"auth" dynamodbav:"auth"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}
