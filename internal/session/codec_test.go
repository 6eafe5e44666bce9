package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate-console/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret, 7*24*time.Hour)
	require.NoError(t, err)
	return codec
}

func sampleSession() model.Session {
	return model.Session{
		UserID:                "42",
		UID:                   "c0a8012e-7f3b-4b1e-9d3c-1f2e3d4c5b6a",
		Token:                 "upstream-access-token",
		RefreshToken:          "upstream-refresh-token",
		Username:              "ops.lead",
		Name:                  "Ops Lead",
		Email:                 "ops@example.com",
		Roles:                 []string{"OPERATIONS", "AUDITOR"},
		UserType:              model.UserTypeAdmin,
		RequirePasswordChange: true,
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	in := sampleSession()
	in.ExpiresAt = time.Now().Add(time.Hour).UnixMilli()

	token, err := codec.Encode(in)
	require.NoError(t, err)

	out, ok := codec.Decode(token)
	require.True(t, ok)
	require.Equal(t, in, *out)
}

func TestCodecFillsExpiry(t *testing.T) {
	codec := newTestCodec(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return fixed }

	_, stored, err := codec.Issue(sampleSession())
	require.NoError(t, err)
	require.Equal(t, fixed.Add(7*24*time.Hour).UnixMilli(), stored.ExpiresAt)
}

func TestCodecRejectsExpired(t *testing.T) {
	codec := newTestCodec(t)
	issued := time.Now().Add(-8 * 24 * time.Hour)
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(sampleSession())
	require.NoError(t, err)

	codec.now = time.Now
	out, ok := codec.Decode(token)
	require.False(t, ok)
	require.Nil(t, out)
}

func TestCodecRejectsTampered(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Encode(sampleSession())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}

	cases := map[string]string{
		"signature": parts[0] + "." + parts[1] + "." + string(sig),
		"payload":   parts[0] + "." + parts[1] + "x." + parts[2],
		"truncated": parts[0] + "." + parts[1],
		"garbage":   "not-a-token",
		"empty":     "",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			out, ok := codec.Decode(raw)
			assert.False(t, ok)
			assert.Nil(t, out)
		})
	}
}

func TestCodecRejectsOtherSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("fedcba9876543210fedcba9876543210", time.Hour)
	require.NoError(t, err)

	token, err := other.Encode(sampleSession())
	require.NoError(t, err)

	_, ok := codec.Decode(token)
	require.False(t, ok)
}

func TestCodecRejectsUnsignedToken(t *testing.T) {
	codec := newTestCodec(t)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId":    "42",
		"token":     "x",
		"expiresAt": time.Now().Add(time.Hour).UnixMilli(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, ok := codec.Decode(raw)
	require.False(t, ok)
}

func TestCodecRejectsMissingFields(t *testing.T) {
	codec := newTestCodec(t)
	s := sampleSession()
	s.Token = ""

	token, err := codec.Encode(s)
	require.NoError(t, err)

	_, ok := codec.Decode(token)
	require.False(t, ok)
}

func TestNewCodecValidatesInput(t *testing.T) {
	_, err := NewCodec("  ", time.Hour)
	require.Error(t, err)

	_, err = NewCodec(testSecret, 0)
	require.Error(t, err)
}

func TestManagerCookieLifecycle(t *testing.T) {
	manager := NewManager(newTestCodec(t), "session", true)

	rec := httptest.NewRecorder()
	stored, err := manager.Create(rec, sampleSession())
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "session", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, stored.ExpiresAt/1000, cookie.Expires.Unix())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	got, ok := manager.Read(req)
	require.True(t, ok)
	assert.Equal(t, "42", got.UserID)
	assert.Equal(t, stored.ExpiresAt, got.ExpiresAt)

	rec = httptest.NewRecorder()
	manager.Clear(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestManagerReadWithoutCookie(t *testing.T) {
	manager := NewManager(newTestCodec(t), "", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := manager.Read(req)
	require.False(t, ok)
	require.Equal(t, "session", manager.CookieName())
}
