package service

import (
	"context"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/cache"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// RoleBinder 用户角色同步（由授权模块实现）
type RoleBinder interface {
	SetUserRoles(userID uint, roles []string) error
}

// UserService 用户与联系人管理
type UserService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	vendorRepo  repository.VendorRepository
	contactRepo repository.ContactRepository
	roleBinder  RoleBinder
}

// NewUserService 创建用户管理服务
func NewUserService(cfg *config.Config, userRepo repository.UserRepository, vendorRepo repository.VendorRepository, contactRepo repository.ContactRepository, roleBinder RoleBinder) *UserService {
	return &UserService{
		cfg:         cfg,
		userRepo:    userRepo,
		vendorRepo:  vendorRepo,
		contactRepo: contactRepo,
		roleBinder:  roleBinder,
	}
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      string
	VendorID  string // 供应商角色必填，创建后自动建立联系人关联
}

// Create 创建用户
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	role := strings.TrimSpace(input.Role)
	if role != constants.RoleSuperAdmin && role != constants.RoleVendor {
		return nil, ErrUnsupportedRole
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	var vendor *models.Vendor
	if role == constants.RoleVendor {
		vendor, err = s.vendorRepo.GetByUniqueID(input.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, ErrVendorNotFound
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if vendor != nil {
		if err := s.contactRepo.Create(&models.Contact{UserID: user.ID, VendorID: vendor.ID}); err != nil {
			return nil, err
		}
	}
	s.bindRole(user)
	return user, nil
}

// List 用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// UpdateStatus 启用或禁用用户
func (s *UserService) UpdateStatus(uniqueID, status string) (*models.User, error) {
	status = strings.TrimSpace(status)
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.userRepo.UpdateStatus(user.ID, status); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(context.Background(), user.UniqueID)
	return s.userRepo.GetByID(user.ID)
}

// CreateContact 关联已有用户与供应商
func (s *UserService) CreateContact(userUniqueID, vendorUniqueID string) (*models.Contact, error) {
	user, err := s.userRepo.GetByUniqueID(userUniqueID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	existing, err := s.contactRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrContactExists
	}
	contact := &models.Contact{UserID: user.ID, VendorID: vendor.ID}
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, err
	}
	contact.User = user
	contact.Vendor = vendor
	return contact, nil
}

// ListContacts 获取供应商联系人
func (s *UserService) ListContacts(vendorUniqueID string) ([]models.Contact, error) {
	vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return s.contactRepo.ListByVendor(vendor.ID)
}

// DeleteContact 删除联系人
func (s *UserService) DeleteContact(uniqueID string) error {
	contact, err := s.contactRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrContactNotFound
	}
	return s.contactRepo.Delete(contact.ID)
}

// SyncRoles 按用户角色字段同步授权角色
func (s *UserService) SyncRoles(user *models.User) {
	s.bindRole(user)
}

func (s *UserService) bindRole(user *models.User) {
	if s.roleBinder == nil || user == nil {
		return
	}
	if err := s.roleBinder.SetUserRoles(user.ID, []string{user.Role}); err != nil {
		logger.Warnw("user_role_bind_failed", "user_id", user.ID, "role", user.Role, "error", err)
	}
}
