package admin

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/authz"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// GetAuthzMe 获取当前用户权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	snapshot, err := h.AuthzService.Snapshot(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, snapshot)
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondAuthzError(c, err, "error.role_invalid")
		return
	}
	logger.Infow("admin_authz_role_created",
		"request_id", currentRequestID(c),
		"role", role,
	)
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole 删除角色，预置角色不可删除
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondAuthzError(c, err, "error.role_invalid")
		return
	}
	logger.Infow("admin_authz_role_deleted",
		"request_id", currentRequestID(c),
		"role", role,
	)
	response.Success(c, nil)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.role_invalid", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err, "error.policy_invalid")
		return
	}
	logger.Infow("admin_authz_policy_granted",
		"request_id", currentRequestID(c),
		"role", req.Role,
		"object", req.Object,
		"action", strings.ToUpper(strings.TrimSpace(req.Action)),
	)
	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err, "error.policy_invalid")
		return
	}
	logger.Infow("admin_authz_policy_revoked",
		"request_id", currentRequestID(c),
		"role", req.Role,
		"object", req.Object,
		"action", strings.ToUpper(strings.TrimSpace(req.Action)),
	)
	response.Success(c, nil)
}

// GetAuthzUserRoles 获取用户角色
func (h *Handler) GetAuthzUserRoles(c *gin.Context) {
	user, ok := h.loadUserParam(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(user)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzUserRoles 设置用户角色
func (h *Handler) SetAuthzUserRoles(c *gin.Context) {
	userID, ok := h.loadUserParam(c)
	if !ok {
		return
	}
	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.SetUserRoles(userID, req.Roles); err != nil {
		respondAuthzError(c, err, "error.role_invalid")
		return
	}
	logger.Infow("admin_authz_user_roles_updated",
		"request_id", currentRequestID(c),
		"target_user_id", userID,
		"roles", req.Roles,
	)
	response.Success(c, nil)
}

// respondAuthzError 授权服务不可用时返回 500，其余视为请求参数错误
func respondAuthzError(c *gin.Context, err error, key string) {
	switch {
	case errors.Is(err, authz.ErrUnavailable):
		respondError(c, response.CodeInternal, "error.internal_error", err)
	case errors.Is(err, authz.ErrRoleImmutable):
		respondError(c, response.CodeBadRequest, "error.role_immutable", nil)
	default:
		respondError(c, response.CodeBadRequest, key, err)
	}
}

// loadUserParam 按对外标识解析路径中的用户，返回内部 ID
func (h *Handler) loadUserParam(c *gin.Context) (uint, bool) {
	id, ok := requireParam(c, "id")
	if !ok {
		return 0, false
	}
	user, err := h.UserRepo.GetByUniqueID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return 0, false
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return 0, false
	}
	return user.ID, true
}
