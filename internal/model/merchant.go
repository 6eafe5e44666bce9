package model

type Merchant struct {
	UID          string `json:"uid" validate:"required"`
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	TradingName  string `json:"trading_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	IsActive     bool   `json:"is_active"`
	ParentUID    string `json:"parent_uid"`
	WebhookURL   string `json:"webhook_url"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type MerchantLookup struct {
	UID          string `json:"uid" validate:"required"`
	BusinessName string `json:"business_name"`
}

type BankAccount struct {
	ID            string `json:"id" validate:"required"`
	BankName      string `json:"bank_name"`
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Currency      string `json:"currency"`
	IsDefault     bool   `json:"is_default"`
	CreatedAt     string `json:"created_at"`
}

type APIKey struct {
	Key         string `json:"key" validate:"required"`
	Label       string `json:"label"`
	Environment string `json:"environment"`
	IsActive    bool   `json:"is_active"`
	LastUsedAt  string `json:"last_used_at"`
	CreatedAt   string `json:"created_at"`
}

type MerchantActivity struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Actor       string `json:"actor"`
	OccurredAt  string `json:"occurred_at"`
}

type CreateMerchantRequest struct {
	BusinessName string `json:"business_name" validate:"required,min=2,max=200"`
	TradingName  string `json:"trading_name" validate:"omitempty,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	Country      string `json:"country" validate:"required,len=2"`
	Currency     string `json:"currency" validate:"omitempty,len=3"`
	ParentUID    string `json:"parent_uid" validate:"omitempty,max=64"`
	WebhookURL   string `json:"webhook_url" validate:"omitempty,url"`
}

func (r CreateMerchantRequest) Upstream() map[string]any {
	body := map[string]any{
		"businessName": r.BusinessName,
		"email":        r.Email,
		"country":      r.Country,
	}
	putIfSet(body, "tradingName", r.TradingName)
	putIfSet(body, "phone", r.Phone)
	putIfSet(body, "currency", r.Currency)
	putIfSet(body, "parentUid", r.ParentUID)
	putIfSet(body, "webhookUrl", r.WebhookURL)
	return body
}

type UpdateMerchantRequest struct {
	BusinessName *string `json:"business_name" validate:"omitempty,min=2,max=200"`
	TradingName  *string `json:"trading_name" validate:"omitempty,max=200"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	WebhookURL   *string `json:"webhook_url" validate:"omitempty,url"`
	IsActive     *bool   `json:"is_active"`
}

func (r UpdateMerchantRequest) Upstream() map[string]any {
	body := map[string]any{}
	putIfNotNil(body, "businessName", r.BusinessName)
	putIfNotNil(body, "tradingName", r.TradingName)
	putIfNotNil(body, "email", r.Email)
	putIfNotNil(body, "phone", r.Phone)
	putIfNotNil(body, "webhookUrl", r.WebhookURL)
	if r.IsActive != nil {
		body["isActive"] = *r.IsActive
	}
	return body
}

type CreateBankAccountRequest struct {
	BankCode      string `json:"bank_code" validate:"required,max=16"`
	BankName      string `json:"bank_name" validate:"omitempty,max=120"`
	AccountNumber string `json:"account_number" validate:"required,numeric,min=6,max=34"`
	AccountName   string `json:"account_name" validate:"required,max=200"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
	IsDefault     bool   `json:"is_default"`
}

func (r CreateBankAccountRequest) Upstream() map[string]any {
	body := map[string]any{
		"bankCode":      r.BankCode,
		"accountNumber": r.AccountNumber,
		"accountName":   r.AccountName,
		"isDefault":     r.IsDefault,
	}
	putIfSet(body, "bankName", r.BankName)
	putIfSet(body, "currency", r.Currency)
	return body
}

type CreateAPIKeyRequest struct {
	Label       string `json:"label" validate:"required,max=100"`
	Environment string `json:"environment" validate:"required,oneof=LIVE TEST"`
}

func (r CreateAPIKeyRequest) Upstream() map[string]any {
	return map[string]any{
		"label":       r.Label,
		"environment": r.Environment,
	}
}

// UpdateParentRequest attaches a merchant to a parent; a null parent detaches it.
type UpdateParentRequest struct {
	ParentUID *string `json:"parent_uid" validate:"omitempty,min=1,max=64"`
}

func (r UpdateParentRequest) Upstream() map[string]any {
	if r.ParentUID == nil {
		return map[string]any{"parentUid": nil}
	}
	return map[string]any{"parentUid": *r.ParentUID}
}

func putIfSet(body map[string]any, key string, value string) {
	if value != "" {
		body[key] = value
	}
}

func putIfNotNil(body map[string]any, key string, value *string) {
	if value != nil {
		body[key] = *value
	}
}

type MerchantFilter struct {
	Search string `json:"search" validate:"omitempty,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE PENDING SUSPENDED"`
}
