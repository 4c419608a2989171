package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type recordingRoleBinder struct {
	calls map[uint][]string
}

func (b *recordingRoleBinder) SetUserRoles(userID uint, roles []string) error {
	if b.calls == nil {
		b.calls = map[uint][]string{}
	}
	b.calls[userID] = roles
	return nil
}

func testUserConfig() *config.Config {
	return &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 2},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
}

func setupUserServiceTest(t *testing.T) (*UserService, *UserAuthService, *recordingRoleBinder, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := testUserConfig()
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	binder := &recordingRoleBinder{}
	userSvc := NewUserService(cfg, userRepo, repository.NewVendorRepository(db), contactRepo, binder)
	authSvc := NewUserAuthService(cfg, userRepo, contactRepo)
	return userSvc, authSvc, binder, db
}

func createServiceTestVendor(t *testing.T, db *gorm.DB) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{Name: "Haulers Ltd", VendorType: constants.VendorTypeLogisticProvider}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := testUserConfig().Security.PasswordPolicy
	cases := map[string]string{
		"Ab1":       "error.password_min_length",
		"abcdefgh1": "error.password_require_upper",
		"ABCDEFGH1": "error.password_require_lower",
		"Abcdefghi": "error.password_require_number",
	}
	for password, key := range cases {
		err := validatePassword(policy, password)
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q should be weak, got: %v", password, err)
		}
		var policyErr passwordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != key {
			t.Fatalf("password %q expected key %s, got: %v", password, key, err)
		}
	}
	if err := validatePassword(policy, "Abcdefg1"); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything: %v", err)
	}
	long := strings.Repeat("Ab1", 25)
	var policyErr passwordPolicyError
	if err := validatePassword(config.PasswordPolicyConfig{}, long); !errors.As(err, &policyErr) || policyErr.Key() != "error.password_max_length" {
		t.Fatalf("password over 72 bytes should be rejected, got: %v", err)
	}
}

func TestCreateVendorUserLinksContactAndRole(t *testing.T) {
	userSvc, authSvc, binder, db := setupUserServiceTest(t)
	vendor := createServiceTestVendor(t, db)

	user, err := userSvc.Create(CreateUserInput{
		Email:    " Dispatch@Example.com ",
		Password: "Dispatch1",
		Role:     constants.RoleVendor,
		VendorID: vendor.UniqueID,
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if user.Email != "dispatch@example.com" {
		t.Fatalf("email should be normalized, got: %s", user.Email)
	}
	if roles := binder.calls[user.ID]; len(roles) != 1 || roles[0] != constants.RoleVendor {
		t.Fatalf("expected vendor role bound, got: %v", roles)
	}
	resolved, err := authSvc.ResolveVendor(user.ID)
	if err != nil {
		t.Fatalf("resolve vendor failed: %v", err)
	}
	if resolved.ID != vendor.ID {
		t.Fatalf("resolved wrong vendor: %d", resolved.ID)
	}

	if _, err := userSvc.Create(CreateUserInput{
		Email:    "dispatch@example.com",
		Password: "Dispatch1",
		Role:     constants.RoleVendor,
		VendorID: vendor.UniqueID,
	}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got: %v", err)
	}
	if _, err := userSvc.Create(CreateUserInput{
		Email:    "nobody@example.com",
		Password: "Dispatch1",
		Role:     constants.RoleVendor,
		VendorID: "missing",
	}); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected vendor not found, got: %v", err)
	}
	if _, err := userSvc.Create(CreateUserInput{
		Email:    "root@example.com",
		Password: "Dispatch1",
		Role:     "operator",
	}); !errors.Is(err, ErrUnsupportedRole) {
		t.Fatalf("expected unsupported role, got: %v", err)
	}
}

func TestResolveVendorWithoutContact(t *testing.T) {
	userSvc, authSvc, _, _ := setupUserServiceTest(t)
	admin, err := userSvc.Create(CreateUserInput{Email: "ops@example.com", Password: "Operator1", Role: constants.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if _, err := authSvc.ResolveVendor(admin.ID); !errors.Is(err, ErrVendorNotResolved) {
		t.Fatalf("expected vendor not resolved, got: %v", err)
	}
}

func TestLoginIssuesParsableToken(t *testing.T) {
	userSvc, authSvc, _, _ := setupUserServiceTest(t)
	created, err := userSvc.Create(CreateUserInput{Email: "ops@example.com", Password: "Operator1", Role: constants.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	if _, _, _, err := authSvc.Login("ops@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	user, token, expiresAt, err := authSvc.Login("OPS@example.com", "Operator1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.LastLoginAt == nil || expiresAt.Before(time.Now()) {
		t.Fatalf("unexpected login result: last_login=%v expires=%v", user.LastLoginAt, expiresAt)
	}
	claims, err := authSvc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.Subject != created.UniqueID || claims.Role != constants.RoleSuperAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	other := NewUserAuthService(&config.Config{UserJWT: config.JWTConfig{SecretKey: "other"}}, nil, nil)
	if _, err := other.ParseUserJWT(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	userSvc, authSvc, _, _ := setupUserServiceTest(t)
	user, err := userSvc.Create(CreateUserInput{Email: "ops@example.com", Password: "Operator1", Role: constants.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	updated, err := userSvc.UpdateStatus(user.UniqueID, constants.UserStatusDisabled)
	if err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if updated.TokenVersion <= user.TokenVersion {
		t.Fatalf("disabling should bump token version")
	}
	if _, _, _, err := authSvc.Login("ops@example.com", "Operator1"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got: %v", err)
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	userSvc, authSvc, _, _ := setupUserServiceTest(t)
	user, err := userSvc.Create(CreateUserInput{Email: "ops@example.com", Password: "Operator1", Role: constants.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := authSvc.ChangePassword(user.ID, "bad", "Operator2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if err := authSvc.ChangePassword(user.ID, "Operator1", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}
	if err := authSvc.ChangePassword(user.ID, "Operator1", "Operator2"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	reloaded, err := authSvc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got: %d", reloaded.TokenVersion)
	}
	if _, _, _, err := authSvc.Login("ops@example.com", "Operator2"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestContactLifecycle(t *testing.T) {
	userSvc, _, _, db := setupUserServiceTest(t)
	vendor := createServiceTestVendor(t, db)
	user, err := userSvc.Create(CreateUserInput{Email: "ops@example.com", Password: "Operator1", Role: constants.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	contact, err := userSvc.CreateContact(user.UniqueID, vendor.UniqueID)
	if err != nil {
		t.Fatalf("create contact failed: %v", err)
	}
	if _, err := userSvc.CreateContact(user.UniqueID, vendor.UniqueID); !errors.Is(err, ErrContactExists) {
		t.Fatalf("expected contact exists, got: %v", err)
	}
	contacts, err := userSvc.ListContacts(vendor.UniqueID)
	if err != nil || len(contacts) != 1 {
		t.Fatalf("expected one contact, got %d err=%v", len(contacts), err)
	}
	if err := userSvc.DeleteContact(contact.UniqueID); err != nil {
		t.Fatalf("delete contact failed: %v", err)
	}
	if err := userSvc.DeleteContact(contact.UniqueID); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected contact not found, got: %v", err)
	}
}
