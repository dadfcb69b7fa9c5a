package http

import (
	"github.com/pocketledger/alerts/internal/application/processor"
	"github.com/pocketledger/alerts/internal/infrastructure/dynamo"
	jwtinfra "github.com/pocketledger/alerts/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router. Application
// services are wired inside NewRouter; the scheduled processor is built in
// main because its lifecycle outlives any one request.
type Deps struct {
	PatternRepo      *dynamo.PatternRepo
	NotificationRepo *dynamo.NotificationRepo
	PreferenceRepo   *dynamo.PreferenceRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	Verifier         *jwtinfra.Verifier
	Processor        *processor.Processor
}
