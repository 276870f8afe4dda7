package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobHandler processes a payload received from a queue.
type JobHandler func(ctx context.Context, data []byte) error

// QueueAdapter defines the interface for queue interactions.
type QueueAdapter interface {
	// Publish sends a payload to the named queue.
	Publish(ctx context.Context, queueName string, jobData []byte) error
	// StartConsuming starts consuming from the named queue in the
	// background, calling the handler for each message received.
	StartConsuming(ctx context.Context, queueName string, handler JobHandler) error
	// StopConsuming stops the consumer for the named queue.
	StopConsuming(ctx context.Context, queueName string) error
}

// InMemoryQueueAdapter is a channel-backed QueueAdapter for single-process
// deployments and tests.
type InMemoryQueueAdapter struct {
	queues      map[string]chan []byte
	stopChans   map[string]chan struct{}
	mu          sync.RWMutex
	logger      *zap.Logger
	wg          sync.WaitGroup
	consumerCtx context.Context
	cancelFunc  context.CancelFunc
}

// NewInMemoryQueueAdapter creates a new InMemoryQueueAdapter.
func NewInMemoryQueueAdapter(logger *zap.Logger) *InMemoryQueueAdapter {
	consumerCtx, cancelFunc := context.WithCancel(context.Background())
	return &InMemoryQueueAdapter{
		queues:      make(map[string]chan []byte),
		stopChans:   make(map[string]chan struct{}),
		logger:      logger,
		consumerCtx: consumerCtx,
		cancelFunc:  cancelFunc,
	}
}

func (q *InMemoryQueueAdapter) getOrCreateQueue(queueName string) chan []byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.queues[queueName]; !ok {
		q.queues[queueName] = make(chan []byte, 100)
		q.stopChans[queueName] = make(chan struct{})
		q.logger.Info("in-memory queue created", zap.String("queue", queueName))
	}
	return q.queues[queueName]
}

// Publish sends a payload to the in-memory queue. Blocks up to two seconds
// when the queue is full.
func (q *InMemoryQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	queue := q.getOrCreateQueue(queueName)
	select {
	case queue <- jobData:
		q.logger.Debug("message published", zap.String("queue", queueName))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		q.logger.Warn("publish timed out, queue full", zap.String("queue", queueName))
		return errors.New("timeout publishing to queue: " + queueName)
	}
}

// StartConsuming runs a consumer goroutine for the named queue.
func (q *InMemoryQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler JobHandler) error {
	queue := q.getOrCreateQueue(queueName)

	q.mu.RLock()
	stopChan := q.stopChans[queueName]
	q.mu.RUnlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.logger.Info("consumer started", zap.String("queue", queueName))
		for {
			select {
			case data, ok := <-queue:
				if !ok {
					q.logger.Info("queue channel closed, consumer exiting", zap.String("queue", queueName))
					return
				}
				if err := handler(q.consumerCtx, data); err != nil {
					q.logger.Error("failed to process message",
						zap.String("queue", queueName), zap.Error(err))
				}
			case <-stopChan:
				q.logger.Info("consumer stopped", zap.String("queue", queueName))
				return
			case <-q.consumerCtx.Done():
				q.logger.Info("adapter shutting down, consumer exiting", zap.String("queue", queueName))
				return
			}
		}
	}()
	return nil
}

// StopConsuming signals the consumer for the named queue to exit.
func (q *InMemoryQueueAdapter) StopConsuming(ctx context.Context, queueName string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if stopChan, ok := q.stopChans[queueName]; ok {
		close(stopChan)
		delete(q.stopChans, queueName)
	}
	return nil
}

// Shutdown cancels every consumer and waits for them to exit.
func (q *InMemoryQueueAdapter) Shutdown() {
	q.cancelFunc()
	q.wg.Wait()
}
