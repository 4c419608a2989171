package models

import (
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSuperAdminEmail    = "admin@wfp.local"
	defaultSuperAdminPassword = "Admin12345"
)

// InitDefaultSuperAdmin 初始化默认超级管理员账号（已存在超级管理员时跳过）
func InitDefaultSuperAdmin(email, password string) (*User, error) {
	var existing User
	err := DB.Where("role = ?", constants.RoleSuperAdmin).Order("id asc").First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultSuperAdminEmail
	}
	if password == "" {
		password = defaultSuperAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Super",
		LastName:     "Admin",
		Role:         constants.RoleSuperAdmin,
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if password == defaultSuperAdminPassword {
		logger.Warnw("default_super_admin_created_with_default_password", "email", email)
		logger.Warnw("default_super_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_super_admin_created", "email", email, "password_hidden", true)
	}
	return &user, nil
}
