package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"portfolio/internal/metrics"
)

// Dispatcher 在后台写入成功后投递站点重新生成任务。
type Dispatcher interface {
	Revalidate(ctx context.Context, entity, action, correlationID string) error
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher 通过 asynq 入队。
type AsynqDispatcher struct {
	client enqueuer
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{client: client}
}

func (d *AsynqDispatcher) Revalidate(ctx context.Context, entity, action, correlationID string) error {
	task, err := NewRevalidateTask(entity, action, correlationID)
	if err != nil {
		return fmt.Errorf("build revalidate task: %w", err)
	}
	_, err = d.client.EnqueueContext(ctx, task)
	metrics.RecordEnqueue(TypeSiteRevalidate, err)
	if err != nil {
		return fmt.Errorf("enqueue revalidate task: %w", err)
	}
	return nil
}

// NoopDispatcher 在未配置 Redis 或 webhook 时使用。
type NoopDispatcher struct{}

func (NoopDispatcher) Revalidate(context.Context, string, string, string) error { return nil }
