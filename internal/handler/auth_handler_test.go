package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-admin/ebd-api/internal/models"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

type authServiceMock struct {
	login        models.LoginRequest
	logoutToken  string
	logoutUserID string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.login = req
	if req.Password != "segredo" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *authServiceMock) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "access-2"}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, refreshToken, userID string) error {
	m.logoutToken, m.logoutUserID = refreshToken, userID
	return nil
}

func (m *authServiceMock) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID, ClassIDs: []string{}}, nil
}

func (m *authServiceMock) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	return nil
}

func TestAuthHandlerLoginCapturesClientInfo(t *testing.T) {
	mock := &authServiceMock{}
	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"prof@igreja.org","password":"segredo"}`))
	c.Request.Header.Set("User-Agent", "tests")
	c.Request.RemoteAddr = "10.1.2.3:5555"

	NewAuthHandler(mock).Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.1.2.3", mock.login.IP)
	assert.Equal(t, "tests", mock.login.UserAgent)
	assert.Contains(t, w.Body.String(), `"access_token":"access"`)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"prof@igreja.org","password":"x"}`))
	NewAuthHandler(&authServiceMock{}).Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLogoutRequiresClaims(t *testing.T) {
	mock := &authServiceMock{}
	h := NewAuthHandler(mock)

	c, w := newGinContext(http.MethodPost, "/auth/logout", []byte(`{"refresh_token":"tok"}`))
	h.Logout(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/auth/logout", []byte(`{"refresh_token":"tok"}`))
	withClaims(c, &models.JWTClaims{UserID: "u-1"})
	h.Logout(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "tok", mock.logoutToken)
	assert.Equal(t, "u-1", mock.logoutUserID)
}

func TestAuthHandlerMe(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	withClaims(c, &models.JWTClaims{UserID: "u-1"})

	NewAuthHandler(&authServiceMock{}).Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-1"`)
}
