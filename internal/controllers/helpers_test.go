package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/models"
)

var testUser = &models.User{ID: "user-1", Name: "Ayşe", Email: "ayse@example.com", Role: models.RoleUser}

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter returns an engine with the error middleware installed and, when
// user is non-nil, the user already authenticated.
func newRouter(user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(apperrors.Middleware(zap.NewNop()))
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set("user", user)
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func doJSONWithHeader(r http.Handler, method, path string, body interface{}, key, value string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(key, value)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
