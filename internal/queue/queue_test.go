package queue

import (
	"testing"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
)

func TestAllocationAuditTaskRoundTrip(t *testing.T) {
	task, err := NewAllocationAuditTask(AllocationAuditPayload{
		CargoItemIDs: []string{"a", " a ", "", "b"},
		Source:       "assignment_create",
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskAllocationAudit {
		t.Fatalf("task type mismatch: %s", task.Type())
	}
	payload, err := ParseAllocationAuditPayload(task.Payload())
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if len(payload.CargoItemIDs) != 2 || payload.CargoItemIDs[0] != "a" || payload.CargoItemIDs[1] != "b" {
		t.Fatalf("payload ids should be trimmed and deduplicated, got %v", payload.CargoItemIDs)
	}
	if payload.Source != "assignment_create" {
		t.Fatalf("source mismatch: %s", payload.Source)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueAllocationAudit(AllocationAuditPayload{CargoItemIDs: []string{"x"}}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] != 2 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected queues: %v", cfg.Queues)
	}
}
