package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	dueKey       = "browse:due"
	userTasksKey = "browse:user_tasks"
)

// BrowseQueueRepo is a small delayed-task queue on a redis sorted set:
// members are task payloads, scores the due time in unix millis. At
// most one pending task exists per user; re-enqueueing replaces it.
type BrowseQueueRepo struct {
	client *goredis.Client
}

type QueuedTask struct {
	ID     string
	UserID int64
	ChatID int64
}

func NewBrowseQueueRepo(client *goredis.Client) *BrowseQueueRepo {
	return &BrowseQueueRepo{client: client}
}

func (r *BrowseQueueRepo) Enqueue(ctx context.Context, userID, chatID int64, due time.Time) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	if userID <= 0 || chatID == 0 {
		return "", fmt.Errorf("invalid browse task payload")
	}

	taskID := uuid.NewString()
	member := encodeTask(QueuedTask{ID: taskID, UserID: userID, ChatID: chatID})
	userField := strconv.FormatInt(userID, 10)

	previous, err := r.client.HGet(ctx, userTasksKey, userField).Result()
	if err != nil && err != goredis.Nil {
		return "", fmt.Errorf("lookup pending browse task: %w", err)
	}

	pipe := r.client.TxPipeline()
	if previous != "" {
		pipe.ZRem(ctx, dueKey, previous)
	}
	pipe.ZAdd(ctx, dueKey, goredis.Z{Score: float64(due.UnixMilli()), Member: member})
	pipe.HSet(ctx, userTasksKey, userField, member)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("enqueue browse task: %w", err)
	}

	return taskID, nil
}

// PopDue claims up to limit tasks whose due time has passed. A task is
// owned by the caller only when its ZREM removed the member, so
// concurrent workers never double-claim.
func (r *BrowseQueueRepo) PopDue(ctx context.Context, now time.Time, limit int) ([]QueuedTask, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if limit <= 0 {
		limit = 10
	}

	members, err := r.client.ZRangeByScore(ctx, dueKey, &goredis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range due browse tasks: %w", err)
	}

	tasks := make([]QueuedTask, 0, len(members))
	for _, member := range members {
		removed, err := r.client.ZRem(ctx, dueKey, member).Result()
		if err != nil {
			return nil, fmt.Errorf("claim browse task: %w", err)
		}
		if removed == 0 {
			continue
		}

		task, err := decodeTask(member)
		if err != nil {
			continue
		}

		if err := r.client.HDel(ctx, userTasksKey, strconv.FormatInt(task.UserID, 10)).Err(); err != nil {
			return nil, fmt.Errorf("clear pending browse task pointer: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func encodeTask(task QueuedTask) string {
	return task.ID + "|" + strconv.FormatInt(task.UserID, 10) + "|" + strconv.FormatInt(task.ChatID, 10)
}

func decodeTask(member string) (QueuedTask, error) {
	parts := strings.Split(member, "|")
	if len(parts) != 3 {
		return QueuedTask{}, fmt.Errorf("malformed browse task member %q", member)
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || userID <= 0 {
		return QueuedTask{}, fmt.Errorf("malformed browse task user id %q", parts[1])
	}
	chatID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || chatID == 0 {
		return QueuedTask{}, fmt.Errorf("malformed browse task chat id %q", parts[2])
	}

	return QueuedTask{ID: parts[0], UserID: userID, ChatID: chatID}, nil
}
