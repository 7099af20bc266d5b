package ses_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/pkg/mailer"
	"github.com/dmitrymomot/mailsender/pkg/mailer/ses"
)

var _ mailer.Sender = (*ses.Sender)(nil)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "a@x.com" &&
			len(in.Destination.ToAddresses) == 1 &&
			in.Destination.ToAddresses[0] == "b@x.com" &&
			aws.ToString(in.Content.Simple.Subject.Data) == "S" &&
			aws.ToString(in.Content.Simple.Body.Text.Data) == "B" &&
			len(in.ReplyToAddresses) == 0
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil).Once()

	sender := ses.NewWithClient(client, ses.Config{})
	err := sender.Send(context.Background(), &mailer.Email{From: "a@x.com", To: "b@x.com", Subject: "S", Body: "B"})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSender_Send_ConfiguredSender(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "noreply@example.com" &&
			len(in.ReplyToAddresses) == 1 && in.ReplyToAddresses[0] == "a@x.com"
	})).Return(&sesv2.SendEmailOutput{}, nil).Once()

	sender := ses.NewWithClient(client, ses.Config{SenderEmail: "noreply@example.com"})
	require.NoError(t, sender.Send(context.Background(), &mailer.Email{From: "a@x.com", To: "b@x.com"}))
	client.AssertExpectations(t)
}

func TestSender_Send_APIError(t *testing.T) {
	t.Parallel()

	apiErr := &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified."}

	client := &mockClient{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	sender := ses.NewWithClient(client, ses.Config{})
	err := sender.Send(context.Background(), &mailer.Email{From: "a@x.com", To: "b@x.com"})

	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.Contains(t, err.Error(), "MessageRejected")

	var got smithy.APIError
	require.ErrorAs(t, err, &got)
	client.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestSender_Send_TransportError(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: i/o timeout")).Once()

	sender := ses.NewWithClient(client, ses.Config{})
	err := sender.Send(context.Background(), &mailer.Email{From: "a@x.com", To: "b@x.com"})

	require.ErrorIs(t, err, mailer.ErrSendFailed)
	client.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestSender_Send_InvalidEmail(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	sender := ses.NewWithClient(client, ses.Config{})

	err := sender.Send(context.Background(), &mailer.Email{From: "a@x.com", To: " "})
	require.ErrorIs(t, err, mailer.ErrNoRecipient)
	client.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestNew_DoesNotRetryServerErrors(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-ErrorType", "InternalFailure")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal failure"}`))
	}))
	t.Cleanup(srv.Close)

	sender, err := ses.New(context.Background(), ses.Config{
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)

	err = sender.Send(context.Background(), &mailer.Email{From: "a@x.com", To: "b@x.com", Subject: "S", Body: "B"})
	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.Equal(t, int32(1), requests.Load())
}
