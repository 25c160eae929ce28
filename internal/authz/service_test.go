package authz

import (
	"fmt"
	"strings"
	"testing"

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

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "get")
	if err != nil || !allow {
		t.Fatalf("expected allow, got allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "DELETE")
	if err != nil || allow {
		t.Fatalf("expected deny, got allow=%v err=%v", allow, err)
	}
}

func TestAuthorizeSuperAdminBypass(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	allow, err := svc.Authorize(9, true, "/api/v1/admin/discounts", "POST")
	if err != nil || !allow {
		t.Fatalf("super admin must bypass policies, got allow=%v err=%v", allow, err)
	}
	allow, err = svc.Authorize(9, false, "/api/v1/admin/discounts", "POST")
	if err != nil || allow {
		t.Fatalf("admin without roles must be denied, got allow=%v err=%v", allow, err)
	}

	var nilSvc *Service
	if _, err := nilSvc.Authorize(1, false, "/admin/orders", "GET"); err != ErrUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("promo", "/admin/discounts", "GET"); err != nil {
		t.Fatalf("grant promo policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"ops"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil || len(roles) != 1 || roles[0] != "role:ops" {
		t.Fatalf("roles want [role:ops], got=%v err=%v", roles, err)
	}

	if err := svc.SetAdminRoles(2, []string{"promo"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/orders", "GET"); allow {
		t.Fatalf("expected old role permission removed")
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/discounts", "GET"); !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/api/v1/orders/admin/offline", want: "/orders/admin/offline"},
		{in: "admin/discounts", want: "/admin/discounts"},
		{in: "/api/v1", want: "/"},
		{in: "/api/v1x", want: "/api/v1x"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		if got := NormalizeObject(item.in); got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapBuiltinRoles(); err != nil {
			t.Fatalf("bootstrap builtin roles failed: %v", err)
		}
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := map[string]bool{
		"role:readonly_auditor": true,
		"role:order_operator":   true,
		"role:marketing":        true,
	}
	for _, role := range roles {
		delete(want, role)
	}
	if len(want) != 0 {
		t.Fatalf("builtin roles missing: %v", want)
	}

	if err := svc.SetAdminRoles(3, []string{"order_operator"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	checks := []struct {
		obj, act string
		want     bool
	}{
		{"/api/v1/admin/orders", "GET", true},
		{"/api/v1/admin/orders/12/status", "PATCH", true},
		{"/api/v1/orders/admin/offline", "POST", true},
		{"/api/v1/admin/discounts", "POST", false},
		{"/api/v1/admin/discounts/4", "DELETE", false},
	}
	for _, check := range checks {
		allow, err := svc.EnforceAdmin(3, check.obj, check.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", check.act, check.obj, err)
		}
		if allow != check.want {
			t.Fatalf("%s %s: want %v got %v", check.act, check.obj, check.want, allow)
		}
	}

	policies, err := svc.GetAdminPolicies(3)
	if err != nil || len(policies) != 3 {
		t.Fatalf("expected inherited policies, got %v err=%v", policies, err)
	}
}
