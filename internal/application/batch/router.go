package batch

import (
	"context"
	"fmt"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

// QueueRouter maps a job's priority flag to exactly one of two named
// queues. The compute tier drains both; routing is the only lever this
// service has over its concurrency.
type QueueRouter struct {
	queue         domain.JobQueue
	priorityQueue string
	normalQueue   string
}

func NewQueueRouter(queue domain.JobQueue, priorityQueue, normalQueue string) *QueueRouter {
	return &QueueRouter{
		queue:         queue,
		priorityQueue: priorityQueue,
		normalQueue:   normalQueue,
	}
}

func (r *QueueRouter) Route(ctx context.Context, job domain.ProcessingJob) error {
	queueName := r.normalQueue
	if job.Priority == domain.PriorityImmediate {
		queueName = r.priorityQueue
	}

	if err := r.queue.Send(ctx, queueName, job); err != nil {
		return fmt.Errorf("send job for batch %s to %s: %w", job.BatchID, queueName, err)
	}
	return nil
}
