package sinks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSSinkDeliverSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      logger.NopLogger{},
	}

	evt := NewArticleEvent("climate", domain.ProviderGuardian, domain.Article{
		ID:    "g1",
		Title: "Headline",
		URL:   "https://example.com/g1",
	})
	if err := sink.Deliver(context.Background(), evt); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["provider_id"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "guardian" {
		t.Fatalf("provider_id attribute missing or wrong: %#v", attr)
	}
	if attr.DataType == nil || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	body := aws.ToString(client.input.MessageBody)
	if !strings.Contains(body, `"provider_id":"guardian"`) || !strings.Contains(body, `"watch_query":"climate"`) {
		t.Fatalf("MessageBody missing event fields: %s", body)
	}
}

func TestSQSSinkDeliverError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	sink := &sqsSink{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      logger.NopLogger{},
	}

	if err := sink.Deliver(context.Background(), ArticleEvent{}); err == nil {
		t.Fatalf("expected error from Deliver")
	}
}
