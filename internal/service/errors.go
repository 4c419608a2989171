package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 通用资源错误
var (
	ErrVendorNotFound          = errors.New("供应商不存在")
	ErrProductNotFound         = errors.New("物资不存在")
	ErrDriverNotFound          = errors.New("司机不存在")
	ErrMissionNotFound         = errors.New("任务不存在")
	ErrVendorMissionNotFound   = errors.New("供应商任务关系不存在")
	ErrCargoNotFound           = errors.New("货物不存在")
	ErrTruckNotFound           = errors.New("车辆不存在")
	ErrAssignmentNotFound      = errors.New("承运记录不存在")
	ErrContactNotFound         = errors.New("联系人不存在")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrRegionNotFound          = errors.New("区域不存在")
	ErrOperationRegionNotFound = errors.New("作业区域不存在")
	ErrDocumentNotFound        = errors.New("文件不存在")

	ErrInvalidInput          = errors.New("参数错误")
	ErrInvalidDateRange      = errors.New("结束日期不能早于开始日期")
	ErrInvalidCapacity       = errors.New("车辆容量不能为负数")
	ErrVendorRegNoExists     = errors.New("供应商注册编号已存在")
	ErrVendorMissionExists   = errors.New("供应商已承接该任务")
	ErrCargoExists           = errors.New("任务已存在货物")
	ErrContactExists         = errors.New("用户已关联供应商")
	ErrAssignmentExists      = errors.New("该车辆已承运此任务")
	ErrVendorNotResolved     = errors.New("当前用户未关联供应商")
	ErrDuplicateCargoItem    = errors.New("货物明细重复提交")
	ErrEmailExists           = errors.New("邮箱已存在")
	ErrInvalidEmail          = errors.New("邮箱格式不正确")
	ErrWeakPassword          = errors.New("密码强度不足")
	ErrInvalidCredentials    = errors.New("邮箱或密码错误")
	ErrUserDisabled          = errors.New("用户已被禁用")
	ErrInvalidToken          = errors.New("无效的 token")
	ErrUnsupportedRole       = errors.New("不支持的用户角色")
	ErrDriverExists          = errors.New("司机邮箱或手机号已存在")
	ErrRegionExists          = errors.New("区域名称已存在")
	ErrOperationRegionExists = errors.New("供应商已在该区域作业")
	ErrDocumentRequired      = errors.New("请选择上传文件")
	ErrDocumentTooLarge      = errors.New("文件大小超过限制")
	ErrDocumentExtension     = errors.New("文件类型不被允许")
)

// 货物分配错误
var (
	ErrAuthorization      = errors.New("无权操作该车辆或任务")
	ErrNoCargo            = errors.New("任务尚未配置货物")
	ErrCargoItemNotFound  = errors.New("货物明细不存在或不属于该任务")
	ErrOverAllocation     = errors.New("分配数量超过剩余数量")
	ErrCapacityExceeded   = errors.New("装载数量超过车辆容量")
	ErrInvariantViolation = errors.New("货物分配数据不一致")
	ErrInvalidQuantity    = errors.New("分配数量必须为正整数")
)

// OverAllocationError 超额分配，Available 为实际可用数量
type OverAllocationError struct {
	CargoItemID string
	Requested   int
	Available   int
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("cargo item %s: exceeds available quantity, only %d units available (requested %d)",
		e.CargoItemID, e.Available, e.Requested)
}

// Is 支持 errors.Is(err, ErrOverAllocation)
func (e *OverAllocationError) Is(target error) bool {
	return target == ErrOverAllocation
}

// CapacityExceededError 装载总量超过车辆容量
type CapacityExceededError struct {
	Capacity  decimal.Decimal
	Requested int64
}

// Excess 超出容量的数量
func (e *CapacityExceededError) Excess() decimal.Decimal {
	return decimal.NewFromInt(e.Requested).Sub(e.Capacity)
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("total quantity %d exceeds truck capacity %s by %s",
		e.Requested, e.Capacity.StringFixed(2), e.Excess().StringFixed(2))
}

// Is 支持 errors.Is(err, ErrCapacityExceeded)
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// cargoItemError 单个货物明细的校验错误
type cargoItemError struct {
	cargoItemID string
	err         error
}

func (e *cargoItemError) Error() string {
	return fmt.Sprintf("cargo item %s: %s", e.cargoItemID, itemErrorMessage(e.err))
}

func (e *cargoItemError) Unwrap() error {
	return e.err
}

func newCargoItemError(cargoItemID string, err error) error {
	return &cargoItemError{cargoItemID: cargoItemID, err: err}
}

func itemErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrCargoItemNotFound):
		return "not found in this mission's cargo"
	case errors.Is(err, ErrInvalidQuantity):
		return "quantity must be a positive integer"
	case errors.Is(err, ErrDuplicateCargoItem):
		return "listed more than once"
	default:
		return err.Error()
	}
}

// AllocationValidationError 一次请求内全部校验失败的汇总
type AllocationValidationError struct {
	errs []error
}

func newAllocationValidationError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AllocationValidationError{errs: errs}
}

// Messages 返回全部校验信息
func (e *AllocationValidationError) Messages() []string {
	messages := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		messages = append(messages, err.Error())
	}
	return messages
}

func (e *AllocationValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Unwrap 支持 errors.Is / errors.As 穿透到单项错误
func (e *AllocationValidationError) Unwrap() []error {
	return e.errs
}

// isUniqueViolation 判断是否为唯一索引冲突（兼容 sqlite 与 postgres 的原始错误）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
