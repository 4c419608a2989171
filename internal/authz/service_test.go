package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("dispatcher", "/vendor/assignments/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{"dispatcher"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/vendor/assignments/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/vendor/assignments/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/missions", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("fleet", "/admin/trucks", "GET"); err != nil {
		t.Fatalf("grant fleet policy failed: %v", err)
	}

	if err := svc.SetUserRoles(2, []string{"ops"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:ops" {
		t.Fatalf("roles want [role:ops], got=%v", roles)
	}

	if err := svc.SetUserRoles(2, []string{"fleet"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	allow, err := svc.EnforceUser(2, "/admin/missions", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}
	allow, err = svc.EnforceUser(2, "/admin/trucks", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}

	snapshot, err := svc.Snapshot(2)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snapshot.Policies) != 1 || snapshot.Policies[0].Object != "/admin/trucks" {
		t.Fatalf("unexpected policies: %+v", snapshot.Policies)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/vendor/assignments/:id", want: "/vendor/assignments/:id"},
		{in: "/admin/missions/:id", want: "/admin/missions/:id"},
		{in: "admin/missions", want: "/admin/missions"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:" + constants.RoleVendor:     true,
		"role:" + constants.RoleSuperAdmin: true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetUserRoles(3, []string{constants.RoleVendor}); err != nil {
		t.Fatalf("set vendor role failed: %v", err)
	}
	allow, err := svc.EnforceUser(3, "/api/v1/vendor/assignments", "POST")
	if err != nil {
		t.Fatalf("enforce vendor failed: %v", err)
	}
	if !allow {
		t.Fatalf("vendor should be allowed on vendor routes")
	}
	allow, err = svc.EnforceUser(3, "/api/v1/admin/vendors", "GET")
	if err != nil {
		t.Fatalf("enforce vendor admin failed: %v", err)
	}
	if allow {
		t.Fatalf("vendor should be denied on admin routes")
	}

	if err := svc.SetUserRoles(4, []string{constants.RoleSuperAdmin}); err != nil {
		t.Fatalf("set super admin role failed: %v", err)
	}
	for _, obj := range []string{"/api/v1/admin/vendors", "/api/v1/vendor/assignments"} {
		allow, err := svc.EnforceUser(4, obj, "POST")
		if err != nil {
			t.Fatalf("enforce super admin failed: %v", err)
		}
		if !allow {
			t.Fatalf("super admin should be allowed on %s", obj)
		}
	}
}

func TestImmutableRoles(t *testing.T) {
	if !IsImmutableRole(constants.RoleSuperAdmin) || !IsImmutableRole("role:vendor") {
		t.Fatalf("builtin roles should be immutable")
	}
	if IsImmutableRole("dispatcher") {
		t.Fatalf("custom role should not be immutable")
	}
}

func TestSnapshotIncludesInheritedPolicies(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRoles(5, []string{constants.RoleSuperAdmin}); err != nil {
		t.Fatalf("set super admin role failed: %v", err)
	}
	snapshot, err := svc.Snapshot(5)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snapshot.Roles) != 2 {
		t.Fatalf("roles want super_admin + vendor, got=%v", snapshot.Roles)
	}
	objects := map[string]bool{}
	for _, item := range snapshot.Policies {
		objects[item.Object] = true
	}
	if !objects["/admin/*"] || !objects["/vendor/*"] {
		t.Fatalf("inherited policies missing: %+v", snapshot.Policies)
	}
}

func TestDeleteRoleGuards(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.DeleteRole(constants.RoleVendor); !errors.Is(err, ErrRoleImmutable) {
		t.Fatalf("want ErrRoleImmutable, got %v", err)
	}
	if err := svc.DeleteRole("__anchor__"); !errors.Is(err, ErrRoleReserved) {
		t.Fatalf("want ErrRoleReserved, got %v", err)
	}
	if err := svc.GrantRolePolicy("auditor", "/admin/allocation/audit", "POST"); err != nil {
		t.Fatalf("grant auditor failed: %v", err)
	}
	if err := svc.DeleteRole("auditor"); err != nil {
		t.Fatalf("delete custom role failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	for _, role := range roles {
		if role == "role:auditor" {
			t.Fatalf("custom role should be removed")
		}
	}
	var nilSvc *Service
	if _, err := nilSvc.EnforceUser(1, "/me", "GET"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
