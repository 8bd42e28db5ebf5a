// Package forward moves accepted checkout payloads from the API to the
// upstream LMS backend through a durable task queue. The HTTP request that
// created the order never blocks on the backend being reachable.
package forward

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeCheckoutForward is the task type for checkout forwarding.
const TypeCheckoutForward = "checkout:forward"

// Job is the queued unit of work: one order's payload plus the routing
// information the worker needs to deliver it.
type Job struct {
	OrderID string          `json:"orderId"`
	Tenant  string          `json:"tenant"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// NewTask serializes a job into an asynq task.
func NewTask(j Job) (*asynq.Task, error) {
	if j.OrderID == "" {
		return nil, errors.New("forward: job missing order id")
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("forward: encode job: %w", err)
	}
	return asynq.NewTask(TypeCheckoutForward, b), nil
}

// Enqueuer submits forward jobs through an asynq client.
type Enqueuer struct {
	Client   *asynq.Client
	Queue    string
	MaxRetry int
	Timeout  time.Duration
}

// Enqueue queues the job for delivery.
func (e *Enqueuer) Enqueue(ctx context.Context, j Job) error {
	if e == nil || e.Client == nil {
		return errors.New("forward: enqueuer not configured")
	}
	task, err := NewTask(j)
	if err != nil {
		return err
	}
	opts := make([]asynq.Option, 0, 3)
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	if e.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(e.MaxRetry))
	}
	if e.Timeout > 0 {
		opts = append(opts, asynq.Timeout(e.Timeout))
	}
	_, err = e.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("forward: enqueue: %w", err)
	}
	return nil
}
