package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performJSON(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return recorder
}

func TestOKEnvelope(t *testing.T) {
	recorder := performJSON(func(c *gin.Context) {
		OK(c, http.StatusOK, gin.H{"value": 42})
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"value": float64(42)}, body["data"])
}

func TestFailEnvelope(t *testing.T) {
	recorder := performJSON(func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "Issue not found")
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Issue not found", body["message"])
	assert.NotContains(t, body, "data")
}

func bindJSON(t *testing.T, body string, dst interface{}) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(dst)
}

func TestBindingErrors(t *testing.T) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Title string `json:"title" binding:"required,min=5"`
	}

	err := bindJSON(t, `{"email":"not-an-email","title":"hi"}`, &input)
	require.Error(t, err)

	fields := BindingErrors(err)
	assert.Equal(t, []string{"must be a valid email address"}, fields["email"])
	assert.Equal(t, []string{"must be at least 5 characters"}, fields["title"])
}

func TestBindingErrorsUseJSONFieldNames(t *testing.T) {
	var input struct {
		IssueID string `json:"issueId" binding:"required"`
		Body    string `json:"body" binding:"required,min=1,max=2000"`
	}

	err := bindJSON(t, `{"body":"hi"}`, &input)
	require.Error(t, err)

	fields := BindingErrors(err)
	assert.Equal(t, []string{"is required"}, fields["issueId"], "key must be the wire name, not the Go field name")
	assert.NotContains(t, fields, "issueID")
	assert.NotContains(t, fields, "IssueID")
}

func TestBindingErrorsFromMalformedJSON(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	err := json.NewDecoder(strings.NewReader("{not json")).Decode(&dst)
	require.Error(t, err)

	fields := BindingErrors(err)
	require.Contains(t, fields, "body")
	assert.NotEmpty(t, fields["body"])
}
