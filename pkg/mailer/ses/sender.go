// Package ses implements mailer.Sender on top of Amazon SES v2.
package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/mailsender/pkg/mailer"
)

// SendEmailAPI is the subset of the SES v2 client used by Sender.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender delivers mail through the SES SendEmail API.
type Sender struct {
	client SendEmailAPI
	config Config
}

// New loads AWS configuration and creates a sender.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		// Sends are never repeated, not even on 5xx or throttling.
		o.Retryer = aws.NopRetryer{}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a sender with a custom client, used for testing.
func NewWithClient(client SendEmailAPI, cfg Config) *Sender {
	return &Sender{client: client, config: cfg}
}

// Send implements mailer.Sender. Each call is a single SendEmail request.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}

	if _, err := s.client.SendEmail(ctx, s.input(email)); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return errors.Join(mailer.ErrSendFailed,
				fmt.Errorf("ses: %s: %s: %w", apiErr.ErrorCode(), apiErr.ErrorMessage(), err))
		}
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("ses: send email: %w", err))
	}

	return nil
}

func (s *Sender) input(email *mailer.Email) *sesv2.SendEmailInput {
	from := email.From
	var replyTo []string
	if s.config.SenderEmail != "" {
		from = s.config.SenderEmail
		replyTo = []string{email.From}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		ReplyToAddresses: replyTo,
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(email.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(email.Body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}
}
