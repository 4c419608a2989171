package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

var (
	ErrPrincipalDisabled = errors.New("user disabled")
	ErrTokenRevoked      = errors.New("token revoked")
)

// UserAuthState 用户鉴权快照，账号状态或 token 版本变化时失效
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	UserUID      string `json:"user_uid"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Verify 校验账号可用且 token 版本与签发时一致
func (s *UserAuthState) Verify(tokenVersion uint64) error {
	if s == nil || strings.ToLower(strings.TrimSpace(s.Status)) != constants.UserStatusActive {
		return ErrPrincipalDisabled
	}
	if s.TokenVersion != tokenVersion {
		return ErrTokenRevoked
	}
	return nil
}

func userAuthStateKey(userUID string) string {
	return "auth:user:" + userUID
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		UserUID:      user.UniqueID,
		Role:         user.Role,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetUserAuthState 读取快照，未启用 Redis 时视为未命中
func GetUserAuthState(ctx context.Context, userUID string) (*UserAuthState, bool, error) {
	userUID = strings.TrimSpace(userUID)
	if userUID == "" {
		return nil, false, nil
	}
	store := current()
	if store == nil {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := store.getJSON(ctx, userAuthStateKey(userUID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	store := current()
	if store == nil || state == nil || state.UserUID == "" {
		return nil
	}
	return store.setJSON(ctx, userAuthStateKey(state.UserUID), state, authStateCacheTTL)
}

// DelUserAuthState 账号停用、改密后删除快照
func DelUserAuthState(ctx context.Context, userUID string) error {
	store := current()
	if store == nil || userUID == "" {
		return nil
	}
	return store.del(ctx, userAuthStateKey(userUID))
}
