package upstream

import (
	"net/url"
	"strings"
)

// Upstream path templates. Placeholders are filled in order by Path.
const (
	PathLogin          = "/auth/login"
	PathLogout         = "/auth/logout"
	PathChangePassword = "/auth/change-password"
	PathDashboardStats = "/dashboard/stats"

	PathMerchants            = "/merchants"
	PathMerchantLookup       = "/merchants/lookup"
	PathMerchant             = "/merchants/{uid}"
	PathMerchantBankAccounts = "/merchants/{uid}/bank-accounts"
	PathMerchantAPIKeys      = "/merchants/{uid}/api-keys"
	PathMerchantAPIKey       = "/merchants/{uid}/api-keys/{key}"
	PathMerchantSubMerchants = "/merchants/{uid}/sub-merchants"
	PathMerchantParent       = "/merchants/{uid}/parent"
	PathMerchantActivity     = "/merchants/{uid}/activities"

	PathTransactions         = "/transactions"
	PathTransactionSearch    = "/transactions/search"
	PathTransaction          = "/transactions/{id}"
	PathTransactionAction    = "/transactions/{id}/{action}"
	PathTransactionHistory   = "/transactions/{id}/processing-history"
	PathTransactionCanUpdate = "/transactions/{id}/can-update"
	PathTransactionExport    = "/transactions/export"

	PathDisbursements      = "/disbursements"
	PathDisbursementSearch = "/disbursements/search"
	PathDisbursement       = "/disbursements/{id}"
	PathDisbursementAction = "/disbursements/{id}/{action}"
	PathDisbursementExport = "/disbursements/export"
	PathDisbursementVolume = "/disbursements/stats/volume"

	PathGateways        = "/payment-gateways"
	PathGateway         = "/payment-gateways/{id}"
	PathGatewayStatus   = "/payment-gateways/{id}/status"
	PathGatewayChannels = "/payment-gateways/{id}/channels"
	PathGatewayChannel  = "/payment-gateways/{id}/channels/{channelId}"

	PathRoles     = "/roles"
	PathRole      = "/roles/{id}"
	PathAuditLogs = "/audit-logs"
	PathUsers     = "/users"
)

// Path expands the {placeholders} of tpl with args, escaping each one as a
// single path segment. Surplus placeholders are left empty.
func Path(tpl string, args ...string) string {
	var b strings.Builder
	b.Grow(len(tpl))

	next := 0
	for {
		open := strings.IndexByte(tpl, '{')
		if open < 0 {
			b.WriteString(tpl)
			break
		}
		closing := strings.IndexByte(tpl[open:], '}')
		if closing < 0 {
			b.WriteString(tpl)
			break
		}

		b.WriteString(tpl[:open])
		if next < len(args) {
			b.WriteString(url.PathEscape(args[next]))
		}
		next++
		tpl = tpl[open+closing+1:]
	}

	return b.String()
}
