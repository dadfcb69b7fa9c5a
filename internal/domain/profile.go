package domain

// UserProfile is the slice of the external profile record the dispatcher
// needs: where to reach the user on each out-of-app channel.
type UserProfile struct {
	UserID        string `json:"user_id" dynamodbav:"user_id"`
	Email         string `json:"email" dynamodbav:"email"`
	PhoneNumber   string `json:"phone_number" dynamodbav:"phone_number"`
	PhoneVerified bool   `json:"phone_verified" dynamodbav:"phone_verified"`
}
