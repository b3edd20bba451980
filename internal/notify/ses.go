package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
)

const charsetUTF8 = "UTF-8"

// SESAPI is the subset of the SES v2 client used for delivery.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends through Amazon SES.
type SESMailer struct {
	client SESAPI
	from   string
	logger *zap.Logger
}

// NewSESMailer builds an SES client from static credentials.
func NewSESMailer(ctx context.Context, cfg config.NotificationConfig, logger *zap.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESMailerWithClient(sesv2.NewFromConfig(awsCfg), cfg.SESSenderEmail, logger), nil
}

// NewSESMailerWithClient wires a prebuilt client.
func NewSESMailerWithClient(client SESAPI, from string, logger *zap.Logger) *SESMailer {
	return &SESMailer{client: client, from: from, logger: logger}
}

func (m *SESMailer) Name() string { return "ses" }

func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	to, err := msg.recipients()
	if err != nil {
		return err
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charsetUTF8)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String(charsetUTF8)},
					Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String(charsetUTF8)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	m.logger.Info("email sent", zap.String("provider", "ses"), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
