package queue

import (
	"encoding/json"
	"time"

	"github.com/laundry-pos/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderEvent 订单审计事件任务
	TaskOrderEvent = constants.TaskOrderEvent
)

// OrderEventPayload 订单审计事件任务载荷
type OrderEventPayload struct {
	EventID    string                 `json:"event_id"`
	OrderID    uint                   `json:"order_id"`
	OrderCode  string                 `json:"order_code"`
	EventType  string                 `json:"event_type"`
	FromStatus string                 `json:"from_status,omitempty"`
	ToStatus   string                 `json:"to_status,omitempty"`
	Amount     string                 `json:"amount,omitempty"`
	Actor      string                 `json:"actor,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewOrderEventTask 创建订单事件任务，以 event_id 作为任务 ID 避免重复入队
func NewOrderEventTask(payload OrderEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderEvent, body, asynq.TaskID(payload.EventID), asynq.MaxRetry(10)), nil
}

// ParseOrderEventPayload 解析任务载荷
func ParseOrderEventPayload(task *asynq.Task) (OrderEventPayload, error) {
	var payload OrderEventPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
