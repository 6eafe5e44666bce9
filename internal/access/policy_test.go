package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate-console/internal/model"
	"paygate-console/internal/rbac"
)

func newTestPolicy() *Policy {
	return NewPolicy(DefaultConfig(), rbac.NewTable(rbac.DefaultRoles()))
}

func adminSession(roles ...string) *model.Session {
	return &model.Session{UserID: "1", Token: "t", Roles: roles, UserType: model.UserTypeAdmin}
}

func merchantSession(roles ...string) *model.Session {
	return &model.Session{UserID: "2", Token: "t", Roles: roles, UserType: model.UserTypeMerchant}
}

func TestClassify(t *testing.T) {
	p := newTestPolicy()

	assert.Equal(t, Public, p.Classify("/login"))
	assert.Equal(t, Public, p.Classify("/login/"))
	assert.Equal(t, Public, p.Classify("/assets/app.js"))
	assert.Equal(t, AuthOnly, p.Classify("/change-password"))
	assert.Equal(t, AuthOnly, p.Classify("/profile?tab=security"))
	assert.Equal(t, PortalProtected, p.Classify("/admin/merchants"))
	assert.Equal(t, PortalProtected, p.Classify("/"))
	assert.Equal(t, PortalProtected, p.Classify("/loginx"))
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/admin/merchants":                                      "/admin/merchants",
		"/admin/merchants/":                                     "/admin/merchants",
		"/admin/merchants/3f2504e0-4f89-11d3-9a0c-0305e82c3301": "/admin/merchants",
		"/admin/transactions/12345":                             "/admin/transactions",
		"/admin/disbursements/DSB9f8e7d6c5b4a3210":              "/admin/disbursements",
		"/admin/merchants/new":                                  "/admin/merchants/new",
		"/admin/payment-gateways":                               "/admin/payment-gateways",
		"/admin/payment-gateways/7/channels":                    "/admin/payment-gateways/7/channels",
		"/admin/payment-gateways/7/channels/99":                 "/admin/payment-gateways/7/channels",
		"/admin/transactions/12/34":                             "/admin/transactions",
		"/1234":                                                 "/1234",
		"/admin/merchants/abcdefghijklmnopqrstu":                "/admin/merchants/abcdefghijklmnopqrstu",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}

func TestRequirementPrefixFallback(t *testing.T) {
	p := newTestPolicy()

	req, ok := p.Requirement("/admin/merchants/3f2504e0-4f89-11d3-9a0c-0305e82c3301/edit")
	require.True(t, ok)
	require.Equal(t, rbac.Any(rbac.PermissionMerchantsRead), req)

	req, ok = p.Requirement("/admin/merchants/new")
	require.True(t, ok)
	require.Equal(t, rbac.Any(rbac.PermissionMerchantsWrite), req)

	_, ok = p.Requirement("/admin/settings")
	require.False(t, ok)
}

func TestDecide(t *testing.T) {
	p := newTestPolicy()

	tests := []struct {
		name     string
		path     string
		session  *model.Session
		outcome  Outcome
		location string
	}{
		{"public without session", "/login", nil, Allow, ""},
		{"login with admin session", "/login", adminSession(rbac.RoleAdmin), Redirect, "/admin/dashboard"},
		{"login with merchant session", "/login", merchantSession(rbac.RoleMerchantUser), Redirect, "/merchant/dashboard"},
		{"unauthorized page stays public", "/unauthorized", adminSession(rbac.RoleAdmin), Allow, ""},
		{"auth only without session", "/change-password", nil, Redirect, "/login?from=%2Fchange-password"},
		{"auth only with session", "/profile", merchantSession(), Allow, ""},
		{"protected without session", "/admin/merchants", nil, Redirect, "/login?from=%2Fadmin%2Fmerchants"},
		{"root without session", "/", nil, Redirect, "/login"},
		{"root with session", "/", merchantSession(), Redirect, "/merchant/dashboard"},
		{"admin allowed", "/admin/transactions/991", adminSession(rbac.RoleSupport), Allow, ""},
		{"admin missing permission", "/admin/logs", adminSession(rbac.RoleSupport), Redirect, "/unauthorized"},
		{"merchant in admin portal", "/admin/merchants", merchantSession(rbac.RoleMerchantAdmin), Redirect, "/merchant/dashboard"},
		{"admin in merchant portal", "/merchant/transactions", adminSession(rbac.RoleSuperAdmin), Redirect, "/admin/dashboard"},
		{"untyped session is staff", "/admin/dashboard", &model.Session{UserID: "1", Token: "t", Roles: []string{rbac.RoleAuditor}}, Allow, ""},
		{"unknown user type", "/admin/dashboard", &model.Session{UserID: "1", Token: "t", UserType: "PARTNER"}, Redirect, "/unauthorized"},
		{"portal root", "/admin", adminSession(rbac.RoleAdmin), Redirect, "/admin/dashboard"},
		{"outside any portal", "/settings", adminSession(rbac.RoleAdmin), Redirect, "/admin/dashboard"},
		{"require all satisfied", "/merchant/developers", merchantSession(rbac.RoleMerchantAdmin), Allow, ""},
		{"require all partial", "/merchant/developers", merchantSession(rbac.RoleMerchantUser), Redirect, "/unauthorized"},
		{"reports any of", "/admin/reports", adminSession(rbac.RoleFinance), Allow, ""},
		{"unconfigured page allowed", "/admin/settings", adminSession(rbac.RoleSupport), Allow, ""},
		{"password change pending", "/admin/dashboard", &model.Session{UserID: "1", Token: "t", Roles: []string{rbac.RoleAdmin}, RequirePasswordChange: true}, Redirect, "/change-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Decide(tt.path, tt.session)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.location, d.Location)
		})
	}
}

func TestDecideWrongPortalGoesToOwnLanding(t *testing.T) {
	p := newTestPolicy()

	for _, path := range []string{"/admin/dashboard", "/admin/payment-gateways/4", "/admin/users"} {
		d := p.Decide(path, merchantSession(rbac.RoleMerchantAdmin))
		require.Equal(t, Redirect, d.Outcome, path)
		require.Equal(t, "/merchant/dashboard", d.Location, path)
	}
}
