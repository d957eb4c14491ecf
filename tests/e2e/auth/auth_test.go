//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"splashboard/internal/domain/user"
	"splashboard/internal/handler/dto/request"
	"splashboard/tests/common/authtest"
	"splashboard/tests/common/dbtest"
	"splashboard/tests/common/httptest"
	"splashboard/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(authSuite))
}

func (s *authSuite) TestRegister() {
	s.Run("新規登録は申請者ロールで作成されること", func() {
		t := s.T()

		reqBody := request.RegisterRequest{
			Email:     "new@example.com",
			Password:  "password123",
			FirstName: "New",
			LastName:  "Swimmer",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var role string
		err := s.DB.QueryRow(t.Context(), "SELECT role FROM users WHERE email = 'new@example.com'").Scan(&role)
		require.NoError(t, err)
		require.Equal(t, string(user.RoleApplicant), role)
	})

	s.Run("重複メールアドレスは拒否されること", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "taken@example.com", string(user.RoleMember))

		reqBody := request.RegisterRequest{
			Email:     "taken@example.com",
			Password:  "password123",
			FirstName: "Dup",
			LastName:  "User",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		setup          func(t *testing.T)
		expectedStatus int
	}{
		{
			name:     "正常なログイン",
			email:    "member@example.com",
			password: authtest.TestPassword,
			setup: func(t *testing.T) {
				dbtest.CreateTestUser(t, s.DB, "member@example.com", string(user.RoleMember))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "存在しないユーザー",
			email:          "nobody@example.com",
			password:       authtest.TestPassword,
			setup:          func(t *testing.T) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "間違ったパスワード",
			email:    "member@example.com",
			password: "wrongpassword",
			setup: func(t *testing.T) {
				dbtest.CreateTestUser(t, s.DB, "member@example.com", string(user.RoleMember))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "非アクティブユーザー",
			email:    "inactive@example.com",
			password: authtest.TestPassword,
			setup: func(t *testing.T) {
				dbtest.CreateTestUser(t, s.DB, "inactive@example.com", string(user.RoleMember))
				_, err := s.DB.Exec(t.Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
				require.NoError(t, err)
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			tt.setup(t)

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, httptest.ExtractCookie(w, "access_token"), "アクセストークンのクッキーがない")
				require.NotNil(t, httptest.ExtractCookie(w, "refresh_token"), "リフレッシュトークンのクッキーがない")

				var lastLogin any
				err := s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_loginが更新されていない")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("リフレッシュトークンで新しいアクセストークンが発行されること", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "member@example.com", Password: authtest.TestPassword}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		refreshCookie := httptest.ExtractCookie(w, "refresh_token")
		require.NotNil(t, refreshCookie)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: refreshCookie.Value}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var refreshRes struct {
			AccessToken string `json:"access_token"`
		}
		httptest.DecodeResponseBody(t, w.Body, &refreshRes)
		require.NotEmpty(t, refreshRes.AccessToken)
	})

	s.Run("アクセストークンではリフレッシュできないこと", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: token}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})

	s.Run("無効なリフレッシュトークン", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: "invalid-refresh-token"}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}

func (s *authSuite) TestMe() {
	s.Run("ログイン中のユーザー情報が返ること", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := w.Body.String()
		require.Contains(t, body, "member@example.com")
		require.Contains(t, body, string(user.RoleMember))
		require.NotContains(t, body, "password", "レスポンスにパスワード情報が含まれている")
	})

	s.Run("トークンなしは拒否", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
