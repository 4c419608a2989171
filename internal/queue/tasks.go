package queue

import (
	"encoding/json"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAllocationAudit 货物分配对账任务
	TaskAllocationAudit = constants.TaskAllocationAudit
)

// AllocationAuditPayload 分配对账任务载荷（货物明细对外标识）
type AllocationAuditPayload struct {
	CargoItemIDs []string `json:"cargo_item_ids"`
	Source       string   `json:"source"`
}

// NewAllocationAuditTask 创建分配对账任务
func NewAllocationAuditTask(payload AllocationAuditPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAllocationAudit, body), nil
}

// ParseAllocationAuditPayload 解析分配对账任务载荷，去除空值与重复项
func ParseAllocationAuditPayload(body []byte) (AllocationAuditPayload, error) {
	var payload AllocationAuditPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	seen := make(map[string]struct{}, len(payload.CargoItemIDs))
	ids := make([]string, 0, len(payload.CargoItemIDs))
	for _, id := range payload.CargoItemIDs {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		ids = append(ids, trimmed)
	}
	payload.CargoItemIDs = ids
	return payload, nil
}
