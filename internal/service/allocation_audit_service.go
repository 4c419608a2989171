package service

import (
	"context"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

const defaultAuditBatchSize = 200

// AllocationAuditService 分配不变量对账：已分配总量不得超过明细数量
// 只记录违规，不做任何自动修正
type AllocationAuditService struct {
	cargoRepo      repository.CargoRepository
	assignmentRepo repository.AssignmentRepository
}

// NewAllocationAuditService 创建对账服务
func NewAllocationAuditService(cargoRepo repository.CargoRepository, assignmentRepo repository.AssignmentRepository) *AllocationAuditService {
	return &AllocationAuditService{
		cargoRepo:      cargoRepo,
		assignmentRepo: assignmentRepo,
	}
}

// AllocationViolation 单个明细的违规记录
type AllocationViolation struct {
	CargoItemID       uint   `json:"-"`
	CargoItemUniqueID string `json:"cargo_item_id"`
	Quantity          int    `json:"quantity"`
	Allocated         int64  `json:"allocated"`
}

// AllocationAuditReport 对账结果
type AllocationAuditReport struct {
	Checked    int                   `json:"checked"`
	Violations []AllocationViolation `json:"violations"`
}

// AuditCargoItems 对指定明细（对外标识）对账，不存在的明细跳过
func (s *AllocationAuditService) AuditCargoItems(ctx context.Context, cargoItemUniqueIDs []string) (*AllocationAuditReport, error) {
	ids := make([]uint, 0, len(cargoItemUniqueIDs))
	for _, uniqueID := range cargoItemUniqueIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := s.cargoRepo.GetItemByUniqueID(uniqueID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		ids = append(ids, item.ID)
	}
	report := &AllocationAuditReport{Violations: []AllocationViolation{}}
	if err := s.auditBatch(ids, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Sweep 分批对全部明细对账
func (s *AllocationAuditService) Sweep(ctx context.Context, batchSize int) (*AllocationAuditReport, error) {
	if batchSize <= 0 {
		batchSize = defaultAuditBatchSize
	}
	report := &AllocationAuditReport{Violations: []AllocationViolation{}}
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ids, err := s.cargoRepo.ListItemIDs(batchSize, afterID)
		if err != nil {
			return report, err
		}
		if len(ids) == 0 {
			return report, nil
		}
		if err := s.auditBatch(ids, report); err != nil {
			return report, err
		}
		afterID = ids[len(ids)-1]
		if len(ids) < batchSize {
			return report, nil
		}
	}
}

func (s *AllocationAuditService) auditBatch(ids []uint, report *AllocationAuditReport) error {
	if len(ids) == 0 {
		return nil
	}
	totals, err := s.assignmentRepo.AllocationTotals(ids)
	if err != nil {
		return err
	}
	for _, row := range totals {
		report.Checked++
		if row.Allocated <= int64(row.Quantity) {
			continue
		}
		logger.Errorw("allocation_invariant_violation",
			"cargo_item_id", row.CargoItemUniqueID,
			"quantity", row.Quantity,
			"allocated", row.Allocated,
			"source", "audit",
		)
		report.Violations = append(report.Violations, AllocationViolation{
			CargoItemID:       row.CargoItemID,
			CargoItemUniqueID: row.CargoItemUniqueID,
			Quantity:          row.Quantity,
			Allocated:         row.Allocated,
		})
	}
	return nil
}
