package model

import "strings"

type Transaction struct {
	ID               string `json:"id" validate:"required"`
	Reference        string `json:"reference"`
	MerchantUID      string `json:"merchant_uid"`
	MerchantName     string `json:"merchant_name"`
	Amount           string `json:"amount" validate:"omitempty,number"`
	Fee              string `json:"fee" validate:"omitempty,number"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Gateway          string `json:"gateway"`
	Channel          string `json:"channel"`
	CustomerEmail    string `json:"customer_email"`
	GatewayReference string `json:"gateway_reference"`
	Narration        string `json:"narration"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	CompletedAt      string `json:"completed_at"`
}

type ProcessingHistoryEntry struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Gateway    string `json:"gateway"`
	OccurredAt string `json:"occurred_at"`
}

type CanUpdateResult struct {
	CanUpdate bool     `json:"can_update"`
	Reason    string   `json:"reason"`
	Actions   []string `json:"actions"`
}

// TransactionFilter carries the browser's snake_case filter parameters.
type TransactionFilter struct {
	Status     string `json:"status" validate:"omitempty,oneof=PENDING PROCESSING SUCCESSFUL FAILED CANCELLED REFUNDED REVERSED"`
	MerchantID string `json:"merchant_id" validate:"omitempty,max=64"`
	Reference  string `json:"reference" validate:"omitempty,max=100"`
	Gateway    string `json:"gateway" validate:"omitempty,max=64"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (f *TransactionFilter) Normalize() {
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	f.MerchantID = strings.TrimSpace(f.MerchantID)
	f.Reference = strings.TrimSpace(f.Reference)
	f.Gateway = strings.TrimSpace(f.Gateway)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
}

// Dimensions counts active filter dimensions; a date range counts once.
func (f TransactionFilter) Dimensions() int {
	n := 0
	for _, v := range []string{f.Status, f.MerchantID, f.Reference, f.Gateway} {
		if v != "" {
			n++
		}
	}
	if f.StartDate != "" || f.EndDate != "" {
		n++
	}
	return n
}

type RefundRequest struct {
	Amount string `json:"amount" validate:"omitempty,number"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type ActionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ExportRequest struct {
	Format  string            `json:"format" validate:"required,oneof=csv excel"`
	Filters TransactionFilter `json:"filters"`
}

type DisbursementExportRequest struct {
	Format  string             `json:"format" validate:"required,oneof=csv excel"`
	Filters DisbursementFilter `json:"filters"`
}
