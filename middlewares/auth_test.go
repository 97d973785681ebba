package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicpulse-be/models"
	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := c.Get(CtxUserID)
		role, _ := c.Get(CtxUserRole)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
	})
	router.GET("/protected", chain...)
	return router
}

func performAuth(t *testing.T, router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	recorder := performAuth(t, authRouter(Auth()), "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestAuthMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	recorder := performAuth(t, authRouter(Auth()), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performAuth(t, authRouter(Auth()), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.GenerateToken("64f1b2c3d4e5f6a7b8c9d0e1", "OFFICIAL")
	require.NoError(t, err)

	recorder := performAuth(t, authRouter(Auth()), "Bearer "+token)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "64f1b2c3d4e5f6a7b8c9d0e1", body["userId"])
	assert.Equal(t, "OFFICIAL", body["role"])
}

func TestOptionalAuthPassesThrough(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	recorder := performAuth(t, authRouter(OptionalAuth()), "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performAuth(t, authRouter(OptionalAuth()), "Bearer garbage")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Nil(t, body["userId"], "invalid token must not set identity")
}

func TestRequireRoles(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	officialToken, err := utils.GenerateToken("64f1b2c3d4e5f6a7b8c9d0e1", "OFFICIAL")
	require.NoError(t, err)
	residentToken, err := utils.GenerateToken("64f1b2c3d4e5f6a7b8c9d0e2", "RESIDENT")
	require.NoError(t, err)

	router := authRouter(Auth(), RequireRoles(models.RoleOfficial, models.RoleAdmin))

	recorder := performAuth(t, router, "Bearer "+officialToken)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performAuth(t, router, "Bearer "+residentToken)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden", body["message"])
}
