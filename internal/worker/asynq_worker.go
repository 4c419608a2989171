package worker

import (
	"context"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAllocationAudit, c.handleAllocationAudit)
}

// handleAllocationAudit 提交后对涉及的货物明细对账，违规只记录不重试
func (c *Consumer) handleAllocationAudit(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil {
		logger.Debugw("worker_allocation_audit_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseAllocationAuditPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_allocation_audit_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.CargoItemIDs) == 0 {
		logger.Debugw("worker_allocation_audit_skip_empty_payload", "source", payload.Source)
		return nil
	}
	if c.AllocationAuditService == nil {
		logger.Warnw("worker_allocation_audit_skip_service_nil", "source", payload.Source)
		return nil
	}
	report, err := c.AllocationAuditService.AuditCargoItems(ctx, payload.CargoItemIDs)
	if err != nil {
		logger.Warnw("worker_allocation_audit_failed", "source", payload.Source, "error", err)
		return err
	}
	logger.Debugw("worker_allocation_audit_done",
		"source", payload.Source,
		"checked", report.Checked,
		"violations", len(report.Violations),
	)
	return nil
}

// SweepAllocations 全量对账一次
func (c *Consumer) SweepAllocations(ctx context.Context) {
	if c == nil || c.Container == nil || c.AllocationAuditService == nil {
		return
	}
	report, err := c.AllocationAuditService.Sweep(ctx, 0)
	if err != nil {
		logger.Warnw("worker_allocation_sweep_failed", "error", err)
		return
	}
	if len(report.Violations) > 0 {
		logger.Errorw("worker_allocation_sweep_violations",
			"checked", report.Checked,
			"violations", len(report.Violations),
		)
		return
	}
	logger.Infow("worker_allocation_sweep_done", "checked", report.Checked)
}
