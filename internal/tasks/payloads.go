package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeSiteRevalidate = "site:revalidate"
)

// RevalidatePayload 描述触发站点重新生成所需的信息。
type RevalidatePayload struct {
	Entity        string `json:"entity"`
	Action        string `json:"action"`
	CorrelationID string `json:"correlation_id"`
}

// NewRevalidateTask 构造一个站点重新生成任务。
func NewRevalidateTask(entity, action, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RevalidatePayload{
		Entity:        entity,
		Action:        action,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSiteRevalidate, payload,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}
