package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*ses.SendEmailOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSESClient_SendText(t *testing.T) {
	api := new(mockSES)
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "intros@example.com" &&
			in.Destination.ToAddresses[0] == "jordan@sage.com" &&
			aws.ToString(in.Message.Body.Text.Data) == "Hey Jordan"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil)

	client := NewSESClientWithAPI(api, "intros@example.com")
	id, err := client.SendText(context.Background(), "jordan@sage.com", "Quick intro", "Hey Jordan")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	api.AssertExpectations(t)
}

func TestSESClient_SendTextError(t *testing.T) {
	api := new(mockSES)
	api.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewSESClientWithAPI(api, "intros@example.com").SendText(context.Background(), "a@b.co", "s", "b")
	assert.EqualError(t, err, "throttled")
}

func TestSNSClient_PublishJSON(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.TopicArn) == "arn:aws:sns:us-east-1:1:intros" &&
			aws.ToString(in.Message) == `{"composed":2}`
	})).Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	id, err := NewSNSClientWithAPI(api).PublishJSON(context.Background(), "arn:aws:sns:us-east-1:1:intros", "batch", map[string]int{"composed": 2})
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
}
