package browse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	redisrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/redis"
)

const defaultBatchSize = 32

type Queue interface {
	PopDue(ctx context.Context, now time.Time, limit int) ([]redisrepo.QueuedTask, error)
}

// Handler delivers one claimed follow-up. Delivery failures are the
// handler's to report; the worker never re-queues a claimed task.
type Handler func(ctx context.Context, task redisrepo.QueuedTask)

// Worker drains the delayed browse queue on a fixed interval and hands
// each due task to the handler.
type Worker struct {
	queue     Queue
	handler   Handler
	interval  time.Duration
	batchSize int
	now       func() time.Time
	logger    *zap.Logger
}

func NewWorker(queue Queue, handler Handler, interval time.Duration, logger *zap.Logger) *Worker {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Worker{
		queue:     queue,
		handler:   handler,
		interval:  interval,
		batchSize: defaultBatchSize,
		now:       time.Now,
		logger:    logger,
	}
}

// Start blocks until ctx is cancelled, polling the queue every
// interval. Poll errors are logged and the loop keeps going; a dead
// redis should not take the worker down with it.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Warn("browse queue poll failed", zap.Error(err))
			}
		}
	}
}

// RunOnce claims one batch of due tasks and dispatches them in order.
func (w *Worker) RunOnce(ctx context.Context) error {
	tasks, err := w.queue.PopDue(ctx, w.now(), w.batchSize)
	if err != nil {
		return fmt.Errorf("pop due browse tasks: %w", err)
	}

	for _, task := range tasks {
		w.handler(ctx, task)
	}
	return nil
}
