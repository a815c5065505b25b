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

func TestEnforceRolesWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("packer", "/orders/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRoles([]string{"packer"}, "/api/v1/orders/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRoles([]string{"packer"}, "/api/v1/orders/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}

	allow, err = svc.EnforceRoles([]string{"", "__anchor__"}, "/api/v1/orders/42", "GET")
	if err != nil || allow {
		t.Fatalf("empty or reserved roles must be denied, allow=%v err=%v", allow, err)
	}
}

func TestBuiltinRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap should be idempotent: %v", err)
	}

	cases := []struct {
		role   string
		method string
		path   string
		want   bool
	}{
		{"auditor", "GET", "/api/v1/orders", true},
		{"auditor", "GET", "/api/v1/reports/daily", true},
		{"auditor", "POST", "/api/v1/orders", false},
		{"driver", "PUT", "/api/v1/orders/:id/status", true},
		{"driver", "POST", "/api/v1/orders/payments", false},
		{"driver", "GET", "/api/v1/reports/payments", false},
		{"cashier", "POST", "/api/v1/orders/payments", true},
		{"cashier", "GET", "/api/v1/reports/items", true},
		{"cashier", "PUT", "/api/v1/orders/:id/cancel", false},
		{"cashier", "DELETE", "/api/v1/orders/:id", false},
		{"admin", "DELETE", "/api/v1/orders/:id", true},
		{"admin", "PUT", "/api/v1/orders/:id/restore", true},
	}
	for _, tc := range cases {
		got, err := svc.EnforceRoles([]string{tc.role}, tc.path, tc.method)
		if err != nil {
			t.Fatalf("%s %s %s enforce failed: %v", tc.role, tc.method, tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("%s %s %s want %v got %v", tc.role, tc.method, tc.path, tc.want, got)
		}
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:admin", "role:auditor", "role:cashier", "role:driver"}
	if fmt.Sprint(roles) != fmt.Sprint(want) {
		t.Fatalf("roles want %v got %v", want, roles)
	}
}

func TestRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("role:night_shift", "/orders", "post"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("night shift")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Action != "POST" || policies[0].Object != "/orders" {
		t.Fatalf("unexpected policies: %+v", policies)
	}

	if err := svc.RevokeRolePolicy("night_shift", "/api/v1/orders", "POST"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	policies, err = svc.GetRolePolicies("night_shift")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 0 {
		t.Fatalf("expected no policies after revoke, got %+v", policies)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/api/v1":                 "/",
		"/api/v1/orders/:id":      "/orders/:id",
		"orders":                  "/orders",
		" /reports/daily ":        "/reports/daily",
		"/api/v1/orders/payments": "/orders/payments",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("NormalizeObject(%q) want %q got %q", input, want, got)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("blank role should fail")
	}
	if _, err := NormalizeRole("role:"); err == nil {
		t.Fatalf("prefix only role should fail")
	}
	got, err := NormalizeRole("front desk")
	if err != nil || got != "role:front_desk" {
		t.Fatalf("unexpected normalized role %q err=%v", got, err)
	}
}
