package model

type PaymentGateway struct {
	ID           string   `json:"id" validate:"required"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Provider     string   `json:"provider"`
	IsActive     bool     `json:"is_active"`
	Priority     int      `json:"priority"`
	Currencies   []string `json:"currencies"`
	BaseURL      string   `json:"base_url"`
	ChannelCount int      `json:"channel_count"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type PaymentChannel struct {
	ID        string `json:"id" validate:"required"`
	GatewayID string `json:"gateway_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsActive  bool   `json:"is_active"`
	MinAmount string `json:"min_amount" validate:"omitempty,number"`
	MaxAmount string `json:"max_amount" validate:"omitempty,number"`
	FeeFlat   string `json:"fee_flat" validate:"omitempty,number"`
	FeeRate   string `json:"fee_rate" validate:"omitempty,number"`
}

type CreateGatewayRequest struct {
	Code       string   `json:"code" validate:"required,max=50"`
	Name       string   `json:"name" validate:"required,max=120"`
	Provider   string   `json:"provider" validate:"required,max=120"`
	BaseURL    string   `json:"base_url" validate:"required,url"`
	Priority   int      `json:"priority" validate:"gte=0,lte=1000"`
	Currencies []string `json:"currencies" validate:"omitempty,dive,len=3"`
	IsActive   *bool    `json:"is_active"`
}

func (r CreateGatewayRequest) Upstream() map[string]any {
	body := map[string]any{
		"code":     r.Code,
		"name":     r.Name,
		"provider": r.Provider,
		"baseUrl":  r.BaseURL,
		"priority": r.Priority,
		"isActive": true,
	}
	if len(r.Currencies) > 0 {
		body["supportedCurrencies"] = r.Currencies
	}
	if r.IsActive != nil {
		body["isActive"] = *r.IsActive
	}
	return body
}

type UpdateGatewayRequest struct {
	Name       *string  `json:"name" validate:"omitempty,max=120"`
	BaseURL    *string  `json:"base_url" validate:"omitempty,url"`
	Priority   *int     `json:"priority" validate:"omitempty,gte=0,lte=1000"`
	Currencies []string `json:"currencies" validate:"omitempty,dive,len=3"`
}

func (r UpdateGatewayRequest) Upstream() map[string]any {
	body := map[string]any{}
	putIfNotNil(body, "name", r.Name)
	putIfNotNil(body, "baseUrl", r.BaseURL)
	if r.Priority != nil {
		body["priority"] = *r.Priority
	}
	if r.Currencies != nil {
		body["supportedCurrencies"] = r.Currencies
	}
	return body
}

type GatewayStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type CreateChannelRequest struct {
	Code      string `json:"code" validate:"required,max=50"`
	Name      string `json:"name" validate:"required,max=120"`
	Type      string `json:"type" validate:"required,oneof=CARD BANK_TRANSFER USSD MOBILE_MONEY WALLET"`
	MinAmount string `json:"min_amount" validate:"omitempty,number"`
	MaxAmount string `json:"max_amount" validate:"omitempty,number"`
	FeeFlat   string `json:"fee_flat" validate:"omitempty,number"`
	FeeRate   string `json:"fee_rate" validate:"omitempty,number"`
}

func (r CreateChannelRequest) Upstream() map[string]any {
	body := map[string]any{
		"code":        r.Code,
		"name":        r.Name,
		"channelType": r.Type,
		"isActive":    true,
	}
	putIfSet(body, "minAmount", r.MinAmount)
	putIfSet(body, "maxAmount", r.MaxAmount)
	putIfSet(body, "feeFlat", r.FeeFlat)
	putIfSet(body, "feePercentage", r.FeeRate)
	return body
}

type UpdateChannelRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=120"`
	IsActive  *bool   `json:"is_active"`
	MinAmount *string `json:"min_amount" validate:"omitempty,number"`
	MaxAmount *string `json:"max_amount" validate:"omitempty,number"`
	FeeFlat   *string `json:"fee_flat" validate:"omitempty,number"`
	FeeRate   *string `json:"fee_rate" validate:"omitempty,number"`
}

func (r UpdateChannelRequest) Upstream() map[string]any {
	body := map[string]any{}
	putIfNotNil(body, "name", r.Name)
	putIfNotNil(body, "minAmount", r.MinAmount)
	putIfNotNil(body, "maxAmount", r.MaxAmount)
	putIfNotNil(body, "feeFlat", r.FeeFlat)
	putIfNotNil(body, "feePercentage", r.FeeRate)
	if r.IsActive != nil {
		body["isActive"] = *r.IsActive
	}
	return body
}
