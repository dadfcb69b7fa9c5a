package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldStatus            = "status"
	fieldSentAt            = "sent_at"
	fieldRetryCount        = "retry_count"
	fieldAverageAmount     = "average_amount"
	fieldStandardDeviation = "standard_deviation"
	fieldTransactionCount  = "transaction_count"
	fieldVersion           = "version"
	fieldLastUpdated       = "last_updated"
)
