package service

import (
	n "paygate-console/internal/normalize"
)

// Field maps from upstream payloads to the browser DTOs in internal/model.
// Each rule lists every upstream spelling the console accepts for a field.

func merchantFields(currency string) n.FieldMap {
	return n.FieldMap{Resource: "merchant", Rules: []n.Rule{
		n.Field("uid", n.String, "uid", "merchantUid", "merchantId", "id"),
		n.Field("id", n.String, "id", "merchantId"),
		n.Field("business_name", n.String, "businessName", "business_name", "name"),
		n.Field("trading_name", n.String, "tradingName", "trading_name"),
		n.Field("email", n.String, "email", "contactEmail"),
		n.Field("phone", n.String, "phone", "phoneNumber"),
		n.Field("country", n.String, "country", "countryCode"),
		n.Field("currency", n.String, "currency", "settlementCurrency").WithDefault(currency),
		n.Field("status", n.String, "status").WithDefault("ACTIVE"),
		n.Field("is_active", n.Bool, "isActive", "is_active", "status"),
		n.Field("parent_uid", n.String, "parentUid", "parentMerchantUid", "parent.uid"),
		n.Field("webhook_url", n.String, "webhookUrl", "callbackUrl"),
		n.Field("created_at", n.Time, "createdAt", "created_at", "dateCreated"),
		n.Field("updated_at", n.Time, "updatedAt", "updated_at", "lastUpdated"),
	}}
}

func merchantLookupFields() n.FieldMap {
	return n.FieldMap{Resource: "merchant lookup", Rules: []n.Rule{
		n.Field("uid", n.String, "uid", "merchantUid", "id"),
		n.Field("business_name", n.String, "businessName", "name", "label"),
	}}
}

func bankAccountFields(currency string) n.FieldMap {
	return n.FieldMap{Resource: "bank account", Rules: []n.Rule{
		n.Field("id", n.String, "id", "uid", "accountId"),
		n.Field("bank_name", n.String, "bankName", "bank.name"),
		n.Field("bank_code", n.String, "bankCode", "bank.code"),
		n.Field("account_number", n.String, "accountNumber", "account_number"),
		n.Field("account_name", n.String, "accountName", "account_name"),
		n.Field("currency", n.String, "currency").WithDefault(currency),
		n.Field("is_default", n.Bool, "isDefault", "primary"),
		n.Field("created_at", n.Time, "createdAt", "dateCreated"),
	}}
}

func apiKeyFields() n.FieldMap {
	return n.FieldMap{Resource: "api key", Rules: []n.Rule{
		n.Field("key", n.String, "key", "apiKey", "publicKey", "id"),
		n.Field("label", n.String, "label", "name"),
		n.Field("environment", n.String, "environment", "mode").WithDefault("TEST"),
		n.Field("is_active", n.Bool, "isActive", "active", "status"),
		n.Field("last_used_at", n.Time, "lastUsedAt", "lastUsed"),
		n.Field("created_at", n.Time, "createdAt", "dateCreated"),
	}}
}

func merchantActivityFields() n.FieldMap {
	return n.FieldMap{Resource: "merchant activity", Rules: []n.Rule{
		n.Field("id", n.String, "id", "uid"),
		n.Field("action", n.String, "action", "activityType", "type"),
		n.Field("description", n.String, "description", "details", "message"),
		n.Field("actor", n.String, "actor", "performedBy", "user.username"),
		n.Field("occurred_at", n.Time, "occurredAt", "createdAt", "timestamp"),
	}}
}

func transactionFields(currency string) n.FieldMap {
	return n.FieldMap{Resource: "transaction", Rules: []n.Rule{
		n.Field("id", n.String, "id", "transactionId"),
		n.Field("reference", n.String, "reference", "transactionReference", "merchantReference"),
		n.Field("merchant_uid", n.String, "merchantUid", "merchant.uid", "merchantId"),
		n.Field("merchant_name", n.String, "merchantName", "merchant.businessName", "merchant.name"),
		n.Field("amount", n.Amount, "amount", "transactionAmount"),
		n.Field("fee", n.Amount, "fee", "feeAmount", "charge"),
		n.Field("currency", n.String, "currency", "currencyCode").WithDefault(currency),
		n.Field("status", n.String, "status", "transactionStatus"),
		n.Field("gateway", n.String, "gateway", "gatewayCode", "paymentGateway.code", "provider"),
		n.Field("channel", n.String, "channel", "paymentChannel", "channelType"),
		n.Field("customer_email", n.String, "customerEmail", "customer.email"),
		n.Field("gateway_reference", n.String, "gatewayReference", "providerReference", "externalReference"),
		n.Field("narration", n.String, "narration", "description"),
		n.Field("created_at", n.Time, "createdAt", "dateCreated", "transactionDate"),
		n.Field("updated_at", n.Time, "updatedAt", "lastUpdated"),
		n.Field("completed_at", n.Time, "completedAt", "dateCompleted"),
	}}
}

func processingHistoryFields() n.FieldMap {
	return n.FieldMap{Resource: "processing history", Rules: []n.Rule{
		n.Field("status", n.String, "status", "newStatus"),
		n.Field("message", n.String, "message", "description", "responseMessage"),
		n.Field("gateway", n.String, "gateway", "gatewayCode", "provider"),
		n.Field("occurred_at", n.Time, "occurredAt", "createdAt", "timestamp"),
	}}
}

func canUpdateFields() n.FieldMap {
	return n.FieldMap{Resource: "can update", Rules: []n.Rule{
		n.Field("can_update", n.Bool, "canUpdate", "updatable", "allowed").WithDefault(false),
		n.Field("reason", n.String, "reason", "message"),
		n.Field("actions", n.Passthrough, "actions", "allowedActions"),
	}}
}

func disbursementFields(currency string) n.FieldMap {
	return n.FieldMap{Resource: "disbursement", Rules: []n.Rule{
		n.Field("id", n.String, "id", "disbursementId"),
		n.Field("reference", n.String, "reference", "disbursementReference", "merchantReference"),
		n.Field("merchant_uid", n.String, "merchantUid", "merchant.uid", "merchantId"),
		n.Field("merchant_name", n.String, "merchantName", "merchant.businessName", "merchant.name"),
		n.Field("amount", n.Amount, "amount"),
		n.Field("fee", n.Amount, "fee", "feeAmount"),
		n.Field("currency", n.String, "currency", "currencyCode").WithDefault(currency),
		n.Field("status", n.String, "status", "disbursementStatus"),
		n.Field("recipient_name", n.String, "recipientName", "beneficiaryName", "recipient.name"),
		n.Field("recipient_account", n.String, "recipientAccount", "beneficiaryAccountNumber", "recipient.accountNumber"),
		n.Field("recipient_bank_code", n.String, "recipientBankCode", "beneficiaryBankCode", "recipient.bankCode"),
		n.Field("gateway", n.String, "gateway", "gatewayCode", "provider"),
		n.Field("failure_reason", n.String, "failureReason", "errorMessage", "responseMessage"),
		n.Field("retry_count", n.Int, "retryCount", "attempts").WithDefault(int64(0)),
		n.Field("created_at", n.Time, "createdAt", "dateCreated"),
		n.Field("updated_at", n.Time, "updatedAt", "lastUpdated"),
	}}
}

func volumePointFields() n.FieldMap {
	return n.FieldMap{Resource: "disbursement volume", Rules: []n.Rule{
		n.Field("period", n.String, "period", "date", "bucket"),
		n.Field("count", n.Int, "count", "totalCount").WithDefault(int64(0)),
		n.Field("amount", n.Amount, "amount", "totalAmount", "volume").WithDefault("0"),
	}}
}

func gatewayFields() n.FieldMap {
	return n.FieldMap{Resource: "payment gateway", Rules: []n.Rule{
		n.Field("id", n.String, "id", "gatewayId"),
		n.Field("code", n.String, "code", "gatewayCode"),
		n.Field("name", n.String, "name", "displayName"),
		n.Field("provider", n.String, "provider", "providerName"),
		n.Field("is_active", n.Bool, "isActive", "active", "status"),
		n.Field("priority", n.Int, "priority", "routingPriority").WithDefault(int64(0)),
		n.Field("currencies", n.Passthrough, "supportedCurrencies", "currencies"),
		n.Field("base_url", n.String, "baseUrl", "apiBaseUrl"),
		n.Field("channel_count", n.Int, "channelCount", "channelsCount").WithDefault(int64(0)),
		n.Field("created_at", n.Time, "createdAt", "dateCreated"),
		n.Field("updated_at", n.Time, "updatedAt", "lastUpdated"),
	}}
}

func channelFields() n.FieldMap {
	return n.FieldMap{Resource: "payment channel", Rules: []n.Rule{
		n.Field("id", n.String, "id", "channelId"),
		n.Field("gateway_id", n.String, "gatewayId", "paymentGateway.id"),
		n.Field("code", n.String, "code", "channelCode"),
		n.Field("name", n.String, "name", "displayName"),
		n.Field("type", n.String, "channelType", "type"),
		n.Field("is_active", n.Bool, "isActive", "active", "status"),
		n.Field("min_amount", n.Amount, "minAmount", "minimumAmount"),
		n.Field("max_amount", n.Amount, "maxAmount", "maximumAmount"),
		n.Field("fee_flat", n.Amount, "feeFlat", "flatFee"),
		n.Field("fee_rate", n.Amount, "feePercentage", "feeRate"),
	}}
}

func roleFields() n.FieldMap {
	return n.FieldMap{Resource: "role", Rules: []n.Rule{
		n.Field("id", n.String, "id", "roleId"),
		n.Field("name", n.String, "name", "roleName"),
		n.Field("description", n.String, "description"),
		n.Field("permissions", n.Passthrough, "permissions", "privileges"),
		n.Field("user_count", n.Int, "userCount", "usersCount").WithDefault(int64(0)),
		n.Field("created_at", n.Time, "createdAt", "dateCreated"),
	}}
}

func auditLogFields() n.FieldMap {
	return n.FieldMap{Resource: "audit log", Rules: []n.Rule{
		n.Field("id", n.String, "id", "logId"),
		n.Field("action", n.String, "action", "eventType"),
		n.Field("actor", n.String, "actor", "username", "performedBy", "user.username"),
		n.Field("actor_email", n.String, "actorEmail", "email", "user.email"),
		n.Field("resource", n.String, "resource", "entityType", "resourceType"),
		n.Field("resource_id", n.String, "resourceId", "entityId"),
		n.Field("ip_address", n.String, "ipAddress", "clientIp"),
		n.Field("details", n.Passthrough, "details", "metadata", "changes"),
		n.Field("occurred_at", n.Time, "occurredAt", "timestamp", "createdAt"),
	}}
}

func dashboardFields(currency string) n.FieldMap {
	return n.FieldMap{Resource: "dashboard", Rules: []n.Rule{
		n.Field("currency", n.String, "currency").WithDefault(currency),
		n.Field("total_volume", n.Amount, "totalVolume", "transactionVolume", "transactions.volume").WithDefault("0"),
		n.Field("transaction_count", n.Int, "transactionCount", "totalTransactions", "transactions.count").WithDefault(int64(0)),
		n.Field("successful_count", n.Int, "successfulCount", "successfulTransactions", "transactions.successful").WithDefault(int64(0)),
		n.Field("failed_count", n.Int, "failedCount", "failedTransactions", "transactions.failed").WithDefault(int64(0)),
		n.Field("success_rate", n.Amount, "successRate", "transactions.successRate").WithDefault("0"),
		n.Field("disbursement_volume", n.Amount, "disbursementVolume", "disbursements.volume").WithDefault("0"),
		n.Field("pending_disbursements", n.Int, "pendingDisbursements", "disbursements.pending").WithDefault(int64(0)),
		n.Field("active_merchants", n.Int, "activeMerchants", "merchants.active").WithDefault(int64(0)),
	}}
}

func userFields() n.FieldMap {
	return n.FieldMap{Resource: "user", Rules: []n.Rule{
		n.Field("id", n.String, "id", "userId", "uid"),
		n.Field("username", n.String, "username", "userName"),
		n.Field("name", n.String, "fullName", "name", "displayName"),
		n.Field("email", n.String, "email"),
		n.Field("roles", n.Passthrough, "roles", "roleNames"),
		n.Field("user_type", n.String, "userType", "type"),
		n.Field("is_active", n.Bool, "isActive", "enabled", "status"),
		n.Field("created_at", n.Time, "createdAt", "dateCreated"),
	}}
}

// sessionFields reads the upstream login payload, which nests the profile
// under "user" in newer deployments.
func sessionFields() n.FieldMap {
	return n.FieldMap{Resource: "login", Rules: []n.Rule{
		n.Field("token", n.String, "accessToken", "token", "access_token"),
		n.Field("refreshToken", n.String, "refreshToken", "refresh_token"),
		n.Field("userId", n.String, "user.id", "userId", "id"),
		n.Field("uid", n.String, "user.uid", "uid", "user.userUid"),
		n.Field("username", n.String, "user.username", "username"),
		n.Field("name", n.String, "user.fullName", "user.name", "fullName", "name"),
		n.Field("email", n.String, "user.email", "email"),
		n.Field("roles", n.Passthrough, "user.roles", "roles"),
		n.Field("userType", n.String, "user.userType", "userType"),
		n.Field("requirePasswordChange", n.Bool, "user.requirePasswordChange", "requirePasswordChange", "user.mustChangePassword"),
	}}
}
