// Package notify sends the post-submission confirmation to the applicant.
// Sends are best-effort: a failed confirmation never fails or delays the
// submission that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/logger"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Service delivers submission confirmations over email and SMS.
type Service struct {
	config    config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

// NewService builds a confirmation sender from the AWS default credential
// chain.
func NewService(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Service{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

// NewServiceWithClients injects the SES/SNS clients. Used by tests.
func NewServiceWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Service {
	return &Service{
		config:    cfg,
		logger:    log,
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// SubmissionReceived confirms an accepted application to the applicant.
// Each channel is attempted independently; failures are logged and
// swallowed.
func (s *Service) SubmissionReceived(ctx context.Context, fullName, email, mobile string) {
	subject := "Application received"
	body := fmt.Sprintf("Dear %s, your job application has been received and is under review.", fullName)

	if s.config.Email.Enabled && email != "" {
		if err := s.sendEmail(ctx, email, subject, body); err != nil {
			s.logger.Error("confirmation email failed", map[string]interface{}{
				"email": email,
				"error": err.Error(),
			})
		}
	}

	if s.config.SMS.Enabled && mobile != "" {
		if err := s.sendSMS(ctx, mobile, body); err != nil {
			s.logger.Error("confirmation SMS failed", map[string]interface{}{
				"mobile": mobile,
				"error":  err.Error(),
			})
		}
	}
}

func (s *Service) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := s.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.config.Email.FromEmail),
	})
	return err
}

func (s *Service) sendSMS(ctx context.Context, to, message string) error {
	_, err := s.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
