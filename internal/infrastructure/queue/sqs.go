// Package queue delivers processing jobs over SQS.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

// SQSJobQueue sends jobs to named queues. Queue URLs are resolved once and
// cached; SQS delivery is at-least-once, which is why every consumer-side
// index mutation is idempotent.
type SQSJobQueue struct {
	client *sqs.Client

	mu        sync.Mutex
	queueURLs map[string]string
}

func NewSQSJobQueue(cfg aws.Config) *SQSJobQueue {
	return &SQSJobQueue{
		client:    sqs.NewFromConfig(cfg),
		queueURLs: make(map[string]string),
	}
}

const sendTimeout = 10 * time.Second

func (q *SQSJobQueue) Send(ctx context.Context, queueName string, job domain.ProcessingJob) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	queueURL, err := q.queueURL(ctx, queueName)
	if err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job for batch %s: %w", job.BatchID, err)
	}

	if _, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	}); err != nil {
		return fmt.Errorf("send to %s: %w", queueName, err)
	}
	return nil
}

func (q *SQSJobQueue) queueURL(ctx context.Context, queueName string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if url, ok := q.queueURLs[queueName]; ok {
		return url, nil
	}

	result, err := q.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		return "", fmt.Errorf("resolve queue url for %s: %w", queueName, err)
	}

	q.queueURLs[queueName] = *result.QueueUrl
	return *result.QueueUrl, nil
}
