package model

import "strings"

type Disbursement struct {
	ID                string `json:"id" validate:"required"`
	Reference         string `json:"reference"`
	MerchantUID       string `json:"merchant_uid"`
	MerchantName      string `json:"merchant_name"`
	Amount            string `json:"amount" validate:"omitempty,number"`
	Fee               string `json:"fee" validate:"omitempty,number"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	RecipientName     string `json:"recipient_name"`
	RecipientAccount  string `json:"recipient_account"`
	RecipientBankCode string `json:"recipient_bank_code"`
	Gateway           string `json:"gateway"`
	FailureReason     string `json:"failure_reason"`
	RetryCount        int    `json:"retry_count"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type DisbursementFilter struct {
	Status     string `json:"status" validate:"omitempty,oneof=PENDING PROCESSING SUCCESSFUL FAILED CANCELLED REVERSED"`
	MerchantID string `json:"merchant_id" validate:"omitempty,max=64"`
	Reference  string `json:"reference" validate:"omitempty,max=100"`
	Recipient  string `json:"recipient" validate:"omitempty,max=100"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (f *DisbursementFilter) Normalize() {
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	f.MerchantID = strings.TrimSpace(f.MerchantID)
	f.Reference = strings.TrimSpace(f.Reference)
	f.Recipient = strings.TrimSpace(f.Recipient)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
}

func (f DisbursementFilter) Dimensions() int {
	n := 0
	for _, v := range []string{f.Status, f.MerchantID, f.Reference, f.Recipient} {
		if v != "" {
			n++
		}
	}
	if f.StartDate != "" || f.EndDate != "" {
		n++
	}
	return n
}

type VolumePoint struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
	Amount string `json:"amount" validate:"omitempty,number"`
}

type VolumeStats struct {
	Currency    string        `json:"currency"`
	TotalCount  int64         `json:"total_count"`
	TotalAmount string        `json:"total_amount"`
	Points      []VolumePoint `json:"points" validate:"dive"`
}
