// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskType is the asynq task type carrying one Event.
const TaskType = "notify:event"

// DefaultQueue is used when no queue name is configured.
const DefaultQueue = "notifications"

// QueueSink enqueues events on Redis for Worker to deliver.
type QueueSink struct {
	client *asynq.Client
	queue  string
}

func NewQueueSink(redisURL, queue string) (*QueueSink, error) {
	if redisURL == "" {
		return nil, errors.New("asynq: redis url is not set")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}
	if queue == "" {
		queue = DefaultQueue
	}
	return &QueueSink{client: asynq.NewClient(opt), queue: queue}, nil
}

// NewTask encodes ev as an asynq task.
func NewTask(ev Event) (*asynq.Task, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return asynq.NewTask(TaskType, payload), nil
}

func (q *QueueSink) Publish(ctx context.Context, ev Event) error {
	task, err := NewTask(ev)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task, asynq.Queue(q.queue), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", ev.Type, err)
	}
	return nil
}

func (q *QueueSink) Close() error {
	return q.client.Close()
}
