package browse

import (
	"context"
	"errors"
	"testing"
	"time"

	redisrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/redis"
)

type queueStub struct {
	tasks     []redisrepo.QueuedTask
	err       error
	lastLimit int
}

func (q *queueStub) PopDue(_ context.Context, _ time.Time, limit int) ([]redisrepo.QueuedTask, error) {
	q.lastLimit = limit
	if q.err != nil {
		return nil, q.err
	}
	out := q.tasks
	q.tasks = nil
	return out, nil
}

func TestRunOnceDispatchesDueTasks(t *testing.T) {
	queue := &queueStub{tasks: []redisrepo.QueuedTask{
		{ID: "a", UserID: 1, ChatID: 11},
		{ID: "b", UserID: 2, ChatID: 22},
	}}

	var handled []redisrepo.QueuedTask
	worker := NewWorker(queue, func(_ context.Context, task redisrepo.QueuedTask) {
		handled = append(handled, task)
	}, time.Second, nil)

	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(handled) != 2 || handled[0].ID != "a" || handled[1].ID != "b" {
		t.Fatalf("unexpected dispatch order: %+v", handled)
	}
	if queue.lastLimit != defaultBatchSize {
		t.Fatalf("unexpected batch size: %d", queue.lastLimit)
	}
}

func TestRunOnceEmptyQueue(t *testing.T) {
	calls := 0
	worker := NewWorker(&queueStub{}, func(context.Context, redisrepo.QueuedTask) {
		calls++
	}, time.Second, nil)

	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("handler must not run with an empty queue")
	}
}

func TestRunOncePropagatesPopError(t *testing.T) {
	popErr := errors.New("redis down")
	worker := NewWorker(&queueStub{err: popErr}, func(context.Context, redisrepo.QueuedTask) {}, time.Second, nil)

	if err := worker.RunOnce(context.Background()); !errors.Is(err, popErr) {
		t.Fatalf("expected pop error, got %v", err)
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	queue := &queueStub{tasks: []redisrepo.QueuedTask{{ID: "a", UserID: 1, ChatID: 11}}}
	handled := make(chan redisrepo.QueuedTask, 1)

	worker := NewWorker(queue, func(_ context.Context, task redisrepo.QueuedTask) {
		select {
		case handled <- task:
		default:
		}
	}, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case task := <-handled:
		if task.ID != "a" {
			t.Fatalf("unexpected task: %+v", task)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker never dispatched the due task")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop after cancel")
	}
}
