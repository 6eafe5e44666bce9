package model

const (
	UserTypeAdmin    = "ADMIN"
	UserTypeMerchant = "MERCHANT"
)

// Session is the payload carried in the signed session cookie.
type Session struct {
	UserID                string   `json:"userId"`
	UID                   string   `json:"uid"`
	Token                 string   `json:"token"`
	RefreshToken          string   `json:"refreshToken,omitempty"`
	Username              string   `json:"username"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Roles                 []string `json:"roles"`
	UserType              string   `json:"userType,omitempty"`
	RequirePasswordChange bool     `json:"requirePasswordChange,omitempty"`
	ExpiresAt             int64    `json:"expiresAt"`
}

// EffectiveUserType treats untyped accounts as staff.
func (s Session) EffectiveUserType() string {
	if s.UserType == "" {
		return UserTypeAdmin
	}
	return s.UserType
}

// SessionUser is the token-free view of a session returned to the browser.
type SessionUser struct {
	UserID                string   `json:"user_id"`
	UID                   string   `json:"uid"`
	Username              string   `json:"username"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Roles                 []string `json:"roles"`
	Permissions           []string `json:"permissions"`
	UserType              string   `json:"user_type"`
	RequirePasswordChange bool     `json:"require_password_change"`
	ExpiresAt             int64    `json:"expires_at"`
	LandingPage           string   `json:"landing_page"`
}
