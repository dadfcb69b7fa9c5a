package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPublicKeyPath string

	// Processor drives the scheduled-notification loop.
	ProcessorInterval time.Duration
	ProcessorLeaseTTL time.Duration

	Email EmailConfig
	SMS   SMSConfig
	Push  PushConfig

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each record set.
type DynamoTables struct {
	SpendingPatterns  string
	Notifications     string
	Preferences       string
	PushSubscriptions string
	Users             string
}

// EmailConfig selects and configures the email provider.
// Recognized providers: sendgrid, resend, smtp, console.
type EmailConfig struct {
	Provider string
	From     string
	FromName string
	APIKey   string // sendgrid / resend
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// SMSConfig selects and configures the SMS provider.
// Recognized providers: twilio, sns, console.
type SMSConfig struct {
	Provider         string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	SNSRegion        string
}

// PushConfig selects and configures the push provider.
// Recognized providers: web-push, console.
type PushConfig struct {
	Provider        string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string // mailto: contact for the push service
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			SpendingPatterns:  getEnv("DYNAMO_TABLE_SPENDING_PATTERNS", "spending_patterns"),
			Notifications:     getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Preferences:       getEnv("DYNAMO_TABLE_PREFERENCES", "notification_preferences"),
			PushSubscriptions: getEnv("DYNAMO_TABLE_PUSH_SUBSCRIPTIONS", "push_subscriptions"),
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
		},

		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),

		ProcessorInterval: getEnvDuration("PROCESSOR_INTERVAL", time.Minute),
		ProcessorLeaseTTL: getEnvDuration("PROCESSOR_LEASE_TTL", 5*time.Minute),

		Email: EmailConfig{
			Provider: getEnv("EMAIL_PROVIDER", "console"),
			From:     getEnv("EMAIL_FROM", "noreply@example.com"),
			FromName: getEnv("EMAIL_FROM_NAME", "PocketLedger"),
			APIKey:   getEnv("EMAIL_API_KEY", ""),
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			SMTPUser: getEnv("SMTP_USERNAME", ""),
			SMTPPass: getEnv("SMTP_PASSWORD", ""),
		},
		SMS: SMSConfig{
			Provider:         getEnv("SMS_PROVIDER", "console"),
			TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioFrom:       getEnv("TWILIO_FROM_NUMBER", ""),
			SNSRegion:        getEnv("SNS_REGION", "us-east-1"),
		},
		Push: PushConfig{
			Provider:        getEnv("PUSH_PROVIDER", "console"),
			VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
			VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
			VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:ops@example.com"),
		},

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
