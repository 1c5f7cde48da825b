// internal/notify/service_test.go
package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"

	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/logger"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         int
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls++
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       int
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls++
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "noreply@recruitment.example"
	cfg.SMS.Enabled = true
	cfg.AWS.Region = "ap-south-1"
	return cfg
}

// ==========================
// SubmissionReceived
// ==========================

func TestService_SubmissionReceived(t *testing.T) {
	var gotEmailTo, gotSubject, gotPhone string
	sesMock := &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			gotEmailTo = params.Destination.ToAddresses[0]
			gotSubject = *params.Message.Subject.Data
			return &ses.SendEmailOutput{}, nil
		},
	}
	snsMock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			gotPhone = *params.PhoneNumber
			return &sns.PublishOutput{}, nil
		},
	}

	svc := NewServiceWithClients(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))
	svc.SubmissionReceived(context.Background(), "Asha Verma", "asha@example.com", "9876543210")

	assert.Equal(t, 1, sesMock.calls)
	assert.Equal(t, 1, snsMock.calls)
	assert.Equal(t, "asha@example.com", gotEmailTo)
	assert.Equal(t, "Application received", gotSubject)
	assert.Equal(t, "9876543210", gotPhone)
}

func TestService_SubmissionReceivedChannelsDisabled(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	snsMock := &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}

	cfg := createTestConfig()
	cfg.Email.Enabled = false
	cfg.SMS.Enabled = false

	svc := NewServiceWithClients(cfg, sesMock, snsMock, logger.NewTestLogger(t))
	svc.SubmissionReceived(context.Background(), "Asha Verma", "asha@example.com", "9876543210")

	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)
}

func TestService_SubmissionReceivedMissingContact(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	snsMock := &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}

	svc := NewServiceWithClients(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))
	svc.SubmissionReceived(context.Background(), "Asha Verma", "", "")

	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)
}

func TestService_SubmissionReceivedSwallowsFailures(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	snsMock := &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("invalid number")
		},
	}

	svc := NewServiceWithClients(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	// Must not panic or surface the failures.
	svc.SubmissionReceived(context.Background(), "Asha Verma", "asha@example.com", "9876543210")

	assert.Equal(t, 1, sesMock.calls)
	assert.Equal(t, 1, snsMock.calls, "SMS is still attempted after the email fails")
}
