package model

type Role struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	UserCount   int      `json:"user_count"`
	CreatedAt   string   `json:"created_at"`
}

type AuditLog struct {
	ID         string `json:"id" validate:"required"`
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	ActorEmail string `json:"actor_email"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
	IPAddress  string `json:"ip_address"`
	Details    any    `json:"details,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type AuditLogFilter struct {
	Action   string `json:"action" validate:"omitempty,max=100"`
	Actor    string `json:"actor" validate:"omitempty,max=150"`
	Resource string `json:"resource" validate:"omitempty,max=100"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type DashboardStats struct {
	Currency             string `json:"currency"`
	TotalVolume          string `json:"total_volume" validate:"omitempty,number"`
	TransactionCount     int64  `json:"transaction_count"`
	SuccessfulCount      int64  `json:"successful_count"`
	FailedCount          int64  `json:"failed_count"`
	SuccessRate          string `json:"success_rate"`
	DisbursementVolume   string `json:"disbursement_volume" validate:"omitempty,number"`
	PendingDisbursements int64  `json:"pending_disbursements"`
	ActiveMerchants      int64  `json:"active_merchants"`
}
