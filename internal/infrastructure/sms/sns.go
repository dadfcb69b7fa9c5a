package sms

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/pocketledger/alerts/internal/config"
)

// SNS sends SMS through AWS SNS direct publish.
type SNS struct {
	client *sns.Client
}

func NewSNS(cfg config.SMSConfig) (*SNS, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &SNS{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *SNS) Send(ctx context.Context, to, body string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &body,
	})
	return err
}
