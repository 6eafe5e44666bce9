package rbac

import (
	"sort"
	"strings"
)

// Permission is a "resource:action" capability string.
type Permission string

const (
	PermissionAll Permission = "*"

	PermissionDashboardRead Permission = "dashboard:read"

	PermissionMerchantsRead  Permission = "merchants:read"
	PermissionMerchantsWrite Permission = "merchants:write"

	PermissionTransactionsRead   Permission = "transactions:read"
	PermissionTransactionsWrite  Permission = "transactions:write"
	PermissionTransactionsExport Permission = "transactions:export"

	PermissionDisbursementsRead   Permission = "disbursements:read"
	PermissionDisbursementsWrite  Permission = "disbursements:write"
	PermissionDisbursementsExport Permission = "disbursements:export"

	PermissionGatewaysRead  Permission = "gateways:read"
	PermissionGatewaysWrite Permission = "gateways:write"

	PermissionRolesRead Permission = "roles:read"
	PermissionLogsRead  Permission = "logs:read"

	PermissionUsersRead  Permission = "users:read"
	PermissionUsersWrite Permission = "users:write"
)

const (
	RoleSuperAdmin    = "SUPER_ADMIN"
	RoleAdmin         = "ADMIN"
	RoleOperations    = "OPERATIONS"
	RoleFinance       = "FINANCE"
	RoleSupport       = "SUPPORT"
	RoleAuditor       = "AUDITOR"
	RoleMerchantAdmin = "MERCHANT_ADMIN"
	RoleMerchantUser  = "MERCHANT_USER"
)

// Requirement is the permission check attached to a route or procedure.
// With RequireAll every permission must be granted, otherwise any one is enough.
type Requirement struct {
	Permissions []Permission
	RequireAll  bool
}

func Any(perms ...Permission) Requirement {
	return Requirement{Permissions: perms}
}

func All(perms ...Permission) Requirement {
	return Requirement{Permissions: perms, RequireAll: true}
}

// DefaultRoles is the console's static role table.
func DefaultRoles() map[string][]Permission {
	return map[string][]Permission{
		RoleSuperAdmin: {PermissionAll},
		RoleAdmin: {
			PermissionDashboardRead,
			"merchants:*",
			"transactions:*",
			"disbursements:*",
			"gateways:*",
			PermissionRolesRead,
			PermissionLogsRead,
			"users:*",
		},
		RoleOperations: {
			PermissionDashboardRead,
			PermissionMerchantsRead, PermissionMerchantsWrite,
			PermissionTransactionsRead, PermissionTransactionsWrite,
			PermissionDisbursementsRead, PermissionDisbursementsWrite,
			PermissionGatewaysRead,
		},
		RoleFinance: {
			PermissionDashboardRead,
			PermissionMerchantsRead,
			PermissionTransactionsRead, PermissionTransactionsExport,
			PermissionDisbursementsRead, PermissionDisbursementsWrite, PermissionDisbursementsExport,
		},
		RoleSupport: {
			PermissionDashboardRead,
			PermissionMerchantsRead,
			PermissionTransactionsRead,
			PermissionDisbursementsRead,
		},
		RoleAuditor: {
			PermissionDashboardRead,
			PermissionMerchantsRead,
			PermissionTransactionsRead,
			PermissionDisbursementsRead,
			PermissionGatewaysRead,
			PermissionRolesRead,
			PermissionLogsRead,
			PermissionUsersRead,
		},
		RoleMerchantAdmin: {
			PermissionDashboardRead,
			PermissionMerchantsRead, PermissionMerchantsWrite,
			PermissionTransactionsRead, PermissionTransactionsExport,
			PermissionDisbursementsRead, PermissionDisbursementsExport,
		},
		RoleMerchantUser: {
			PermissionDashboardRead,
			PermissionTransactionsRead,
			PermissionDisbursementsRead,
		},
	}
}

// Table resolves role names to permission sets. It is built once and only
// read afterwards, so it is safe for concurrent use.
type Table struct {
	roles map[string]map[Permission]struct{}
}

func NewTable(roles map[string][]Permission) *Table {
	t := &Table{roles: make(map[string]map[Permission]struct{}, len(roles))}
	for name, perms := range roles {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[Permission(strings.ToLower(strings.TrimSpace(string(p))))] = struct{}{}
		}
		t.roles[canonicalRole(name)] = set
	}
	return t
}

// HasPermission reports whether any of roles grants perm, directly or through
// "*" or "resource:*".
func (t *Table) HasPermission(roles []string, perm Permission) bool {
	perm = Permission(strings.ToLower(strings.TrimSpace(string(perm))))
	if perm == "" {
		return false
	}

	wildcard := Permission("")
	if resource, _, ok := strings.Cut(string(perm), ":"); ok {
		wildcard = Permission(resource + ":*")
	}

	for _, role := range roles {
		set, ok := t.roles[canonicalRole(role)]
		if !ok {
			continue
		}
		if _, ok := set[PermissionAll]; ok {
			return true
		}
		if _, ok := set[perm]; ok {
			return true
		}
		if wildcard != "" {
			if _, ok := set[wildcard]; ok {
				return true
			}
		}
	}

	return false
}

func (t *Table) HasAnyPermission(roles []string, perm Permission) bool {
	return t.HasPermission(roles, perm)
}

func (t *Table) HasAny(roles []string, perms ...Permission) bool {
	for _, p := range perms {
		if t.HasPermission(roles, p) {
			return true
		}
	}
	return false
}

func (t *Table) HasAll(roles []string, perms ...Permission) bool {
	if len(perms) == 0 {
		return false
	}
	for _, p := range perms {
		if !t.HasPermission(roles, p) {
			return false
		}
	}
	return true
}

// Check evaluates req. An empty requirement always passes.
func (t *Table) Check(roles []string, req Requirement) bool {
	if len(req.Permissions) == 0 {
		return true
	}
	if req.RequireAll {
		return t.HasAll(roles, req.Permissions...)
	}
	return t.HasAny(roles, req.Permissions...)
}

// Effective lists the concrete permissions granted to roles, expanding
// wildcards against known. The result is sorted.
func (t *Table) Effective(roles []string, known []Permission) []string {
	out := make([]string, 0, len(known))
	for _, p := range known {
		if t.HasPermission(roles, p) {
			out = append(out, string(p))
		}
	}
	sort.Strings(out)
	return out
}

// Known lists every concrete permission the console checks.
func Known() []Permission {
	return []Permission{
		PermissionDashboardRead,
		PermissionMerchantsRead, PermissionMerchantsWrite,
		PermissionTransactionsRead, PermissionTransactionsWrite, PermissionTransactionsExport,
		PermissionDisbursementsRead, PermissionDisbursementsWrite, PermissionDisbursementsExport,
		PermissionGatewaysRead, PermissionGatewaysWrite,
		PermissionRolesRead, PermissionLogsRead,
		PermissionUsersRead, PermissionUsersWrite,
	}
}

func canonicalRole(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "ROLE_")
}
