//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"splashboard/internal/handler/dto/request"
	"splashboard/internal/handler/dto/response"
	"splashboard/tests/common/dbtest"
	"splashboard/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const TestPassword = "password123"

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var loginRes response.LoginResponse
	httptest.DecodeResponseBody(t, w.Body, &loginRes)
	require.NotEmpty(t, loginRes.AccessToken, "アクセストークンが空")

	return loginRes.AccessToken
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, role)
	return LoginUser(t, router, email, TestPassword)
}
