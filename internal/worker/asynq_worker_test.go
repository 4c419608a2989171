package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/queue"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cargoRepo := repository.NewCargoRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	container := &provider.Container{
		CargoRepo:              cargoRepo,
		AssignmentRepo:         assignmentRepo,
		AllocationAuditService: service.NewAllocationAuditService(cargoRepo, assignmentRepo),
	}
	return NewConsumer(container), db
}

func TestHandleAllocationAuditSkipsEmptyPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task, err := queue.NewAllocationAuditTask(queue.AllocationAuditPayload{CargoItemIDs: []string{" ", ""}})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleAllocationAudit(context.Background(), task); err != nil {
		t.Fatalf("empty payload should be skipped, got: %v", err)
	}
}

func TestHandleAllocationAuditRejectsMalformedPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task := asynq.NewTask(queue.TaskAllocationAudit, []byte("{not-json"))
	if err := consumer.handleAllocationAudit(context.Background(), task); err == nil {
		t.Fatalf("malformed payload should return error")
	}
}

func TestHandleAllocationAuditChecksItems(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	product := &models.Product{Name: "Sorghum", Quantity: 10}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	item := &models.CargoItem{CargoID: 1, ProductID: product.ID, Quantity: 10}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create cargo item failed: %v", err)
	}
	task, err := queue.NewAllocationAuditTask(queue.AllocationAuditPayload{
		CargoItemIDs: []string{item.UniqueID, "unknown"},
		Source:       "assignment_create",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleAllocationAudit(context.Background(), task); err != nil {
		t.Fatalf("audit task failed: %v", err)
	}
	consumer.SweepAllocations(context.Background())
}

func TestNilConsumerIsSafe(t *testing.T) {
	var consumer *Consumer
	if err := consumer.handleAllocationAudit(context.Background(), nil); err != nil {
		t.Fatalf("nil consumer should be no-op, got: %v", err)
	}
	consumer.SweepAllocations(context.Background())
	consumer.Register(nil)
}

func TestResolveSweepInterval(t *testing.T) {
	if got := resolveSweepInterval(config.AllocationConfig{AuditIntervalSeconds: 0}); got != 0 {
		t.Fatalf("expected disabled sweep, got: %v", got)
	}
	if got := resolveSweepInterval(config.AllocationConfig{AuditIntervalSeconds: 30}); got != 30*time.Second {
		t.Fatalf("expected 30s sweep, got: %v", got)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, config.AllocationConfig{}, &Consumer{}); err == nil {
		t.Fatalf("disabled queue should fail")
	}
}
