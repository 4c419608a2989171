package admin

import (
	"strings"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required"`
	VendorID  string `json:"vendor_id"`
}

// CreateContactRequest 关联用户与供应商请求
type CreateContactRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	VendorID string `json:"vendor_id" binding:"required"`
}

// CreateUser 创建用户（超级管理员或供应商联系人）
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserService.Create(service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
		VendorID:  req.VendorID,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_user_created", "user_id", user.UniqueID, "role", user.Role)
	response.Success(c, user)
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// UpdateUserStatus 启用或禁用用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.UpdateStatus(id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_user_status_updated", "user_id", user.UniqueID, "status", user.Status)
	response.Success(c, user)
}

// CreateContact 关联用户与供应商
func (h *Handler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	contact, err := h.UserService.CreateContact(req.UserID, req.VendorID)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, contact)
}

// ListContacts 供应商联系人列表
func (h *Handler) ListContacts(c *gin.Context) {
	vendorID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	contacts, err := h.UserService.ListContacts(vendorID)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, contacts)
}

// DeleteContact 解除用户与供应商关联
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.UserService.DeleteContact(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}
