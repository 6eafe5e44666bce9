package model

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=256"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

func (r ChangePasswordRequest) Upstream() map[string]any {
	return map[string]any{
		"currentPassword": r.CurrentPassword,
		"newPassword":     r.NewPassword,
	}
}

type ConsoleUser struct {
	ID        string   `json:"id" validate:"required"`
	Username  string   `json:"username"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	UserType  string   `json:"user_type"`
	IsActive  bool     `json:"is_active"`
	CreatedAt string   `json:"created_at"`
}

type CreateUserRequest struct {
	Username    string   `json:"username" validate:"required,min=3,max=150"`
	Email       string   `json:"email" validate:"required,email"`
	FirstName   string   `json:"first_name" validate:"required,max=100"`
	LastName    string   `json:"last_name" validate:"required,max=100"`
	Roles       []string `json:"roles" validate:"required,min=1,dive,required"`
	UserType    string   `json:"user_type" validate:"omitempty,oneof=ADMIN MERCHANT"`
	MerchantUID string   `json:"merchant_uid" validate:"required_if=UserType MERCHANT"`
}

func (r CreateUserRequest) Upstream() map[string]any {
	body := map[string]any{
		"username":  r.Username,
		"email":     r.Email,
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"roles":     r.Roles,
	}
	if r.UserType != "" {
		body["userType"] = r.UserType
	}
	if r.MerchantUID != "" {
		body["merchantUid"] = r.MerchantUID
	}
	return body
}
