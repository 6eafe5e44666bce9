package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"paygate-console/internal/access"
	"paygate-console/internal/event"
	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/rbac"
	"paygate-console/internal/upstream"
	"paygate-console/pkg/apierror"
)

type AuthService struct {
	proxy
	policy *access.Policy
	table  *rbac.Table
	fields normalize.FieldMap
}

func NewAuthService(api upstream.Caller, bus event.Bus, policy *access.Policy, table *rbac.Table) *AuthService {
	return &AuthService{
		proxy:  newProxy(api, bus),
		policy: policy,
		table:  table,
		fields: sessionFields(),
	}
}

// Login authenticates against the upstream API and returns the session to
// store in the cookie. ExpiresAt is left for the codec to fill.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	raw, err := s.api.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return model.Session{}, err
	}

	obj, err := normalize.ExtractObject(s.fields.Resource, raw)
	if err != nil {
		return model.Session{}, err
	}
	if user, ok := obj["user"].(map[string]any); ok && user["roles"] != nil {
		user["roles"] = roleNames(user["roles"])
	}
	if obj["roles"] != nil {
		obj["roles"] = roleNames(obj["roles"])
	}

	sess, err := normalize.Decode[model.Session](s.fields, obj)
	if err != nil {
		return model.Session{}, fmt.Errorf("decode login response: %w", err)
	}

	if sess.Token == "" {
		return model.Session{}, apierror.New("UPSTREAM_INVALID_RESPONSE", "Login response did not include an access token", nil, http.StatusBadGateway)
	}
	if sess.UserID == "" {
		sess.UserID = sess.UID
	}
	if sess.UserID == "" {
		sess.UserID = sess.Username
	}
	sess.UserType = strings.ToUpper(sess.UserType)
	sess.ExpiresAt = 0

	slog.Info("login succeeded", "user_id", sess.UserID, "user_type", sess.EffectiveUserType(), "roles", sess.Roles)
	return sess, nil
}

// ChangePassword forwards the change and returns the session with the
// forced-change flag cleared.
func (s *AuthService) ChangePassword(ctx context.Context, sess *model.Session, req model.ChangePasswordRequest) (model.Session, error) {
	if _, err := s.call(ctx, sess, http.MethodPost, upstream.PathChangePassword, nil, req.Upstream()); err != nil {
		return model.Session{}, err
	}

	updated := *sess
	updated.RequirePasswordChange = false

	s.publish(event.New(event.TypePasswordChanged, "users", sess.UserID, sess.UserID).
		RequirePermission(string(rbac.PermissionUsersRead)))
	return updated, nil
}

// Logout notifies the upstream API. Failures are logged only; the cookie
// is cleared regardless.
func (s *AuthService) Logout(ctx context.Context, sess *model.Session) {
	if sess == nil || sess.Token == "" {
		return
	}
	if _, err := s.call(ctx, sess, http.MethodPost, upstream.PathLogout, nil, nil); err != nil {
		slog.Warn("upstream logout failed", "user_id", sess.UserID, "error", err)
	}
}

// User is the token-free session summary returned to the browser.
func (s *AuthService) User(sess model.Session) model.SessionUser {
	roles := sess.Roles
	if roles == nil {
		roles = []string{}
	}

	return model.SessionUser{
		UserID:                sess.UserID,
		UID:                   sess.UID,
		Username:              sess.Username,
		Name:                  sess.Name,
		Email:                 sess.Email,
		Roles:                 roles,
		Permissions:           s.table.Effective(sess.Roles, rbac.Known()),
		UserType:              sess.EffectiveUserType(),
		RequirePasswordChange: sess.RequirePasswordChange,
		ExpiresAt:             sess.ExpiresAt,
		LandingPage:           s.landingPage(sess),
	}
}

func (s *AuthService) landingPage(sess model.Session) string {
	if sess.RequirePasswordChange {
		return access.ChangePasswordPath
	}
	return s.policy.LandingPage(sess.EffectiveUserType())
}

// roleNames accepts ["ADMIN"], [{"name":"ADMIN"}] or a single
// comma-separated string.
func roleNames(v any) []string {
	out := []string{}

	switch value := v.(type) {
	case string:
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case []any:
		for _, item := range value {
			switch role := item.(type) {
			case string:
				if role != "" {
					out = append(out, role)
				}
			case map[string]any:
				for _, key := range []string{"name", "roleName", "authority", "code"} {
					if name, ok := role[key].(string); ok && name != "" {
						out = append(out, name)
						break
					}
				}
			}
		}
	}

	return out
}
