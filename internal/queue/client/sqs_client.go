package client

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
)

var _ QueueClient = (*SQSClient)(nil)

// SQSClient publishes onto an SQS queue addressed by its url. Credentials come
// from the default AWS provider chain.
type SQSClient struct {
	client    *sqs.SQS
	queueURL  string
	queueName string
}

func NewSQSClient(queueURL, region, queueName string) (*SQSClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &SQSClient{
		client:    sqs.New(sess),
		queueURL:  queueURL,
		queueName: queueName,
	}, nil
}

func (c *SQSClient) SendMessage(ctx context.Context, messageBody string) error {
	_, err := c.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(messageBody),
	})
	return err
}

func (c *SQSClient) GetQueueName() string {
	return c.queueName
}

// Ping reads a queue attribute, which fails when the queue is gone or the
// credentials no longer allow access to it.
func (c *SQSClient) Ping() error {
	_, err := c.client.GetQueueAttributes(&sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(c.queueURL),
		AttributeNames: []*string{aws.String(sqs.QueueAttributeNameApproximateNumberOfMessages)},
	})
	return err
}

func (c *SQSClient) Stop() error {
	return nil
}
