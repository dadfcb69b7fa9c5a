package domain

import "time"

// SpendingPattern is the online statistical model of one user's spending in
// one category. AverageAmount and StandardDeviation are maintained with a
// single-pass update, so the transaction history is never re-read.
//
// Invariants: StandardDeviation >= 0 (clamped after floating-point math) and
// TransactionCount never decreases for a given (user, category) key.
type SpendingPattern struct {
	UserID            string    `json:"user_id" dynamodbav:"user_id"`
	CategoryID        string    `json:"category_id" dynamodbav:"category_id"`
	AverageAmount     float64   `json:"average_amount" dynamodbav:"average_amount"`
	StandardDeviation float64   `json:"standard_deviation" dynamodbav:"standard_deviation"`
	TransactionCount  int64     `json:"transaction_count" dynamodbav:"transaction_count"`
	Version           int64     `json:"-" dynamodbav:"version"`
	LastUpdated       time.Time `json:"last_updated" dynamodbav:"last_updated"`
}
