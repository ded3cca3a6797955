package sns

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/consultly/verification-api/internal/config"
	"github.com/consultly/verification-api/internal/domain"
)

// publishTimeout bounds the provider call so a hung provider resolves to a
// delivery error instead of an indefinitely pending request.
const publishTimeout = 10 * time.Second

// Receipt is the provider acknowledgement for a sent message. The message id
// is surfaced for diagnostics only and is never persisted.
type Receipt struct {
	MessageID string
}

// SMSSender sends SMS messages via AWS SNS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) (*Receipt, error)
}

type sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (SMSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg)}, nil
}

// SendSMS publishes the message to the destination phone number. Empty
// destination or body is rejected before the provider is contacted. Provider
// failures of any kind come back wrapped in ErrDeliveryFailed; the provider's
// own message stays inside the wrap for logging and never reaches the client.
func (s *sender) SendSMS(ctx context.Context, to, message string) (*Receipt, error) {
	if to == "" || message == "" {
		return nil, fmt.Errorf("missing field: %w", domain.ErrDeliveryFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	if err != nil {
		return nil, fmt.Errorf("sns publish: %v: %w", err, domain.ErrDeliveryFailed)
	}
	receipt := &Receipt{}
	if out.MessageId != nil {
		receipt.MessageID = *out.MessageId
	}
	return receipt, nil
}
