package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ebd-admin/ebd-api/internal/middleware"
	"github.com/ebd-admin/ebd-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withClaims(c *gin.Context, claims *models.JWTClaims) {
	c.Set(middleware.ContextUserKey, claims)
}

func TestBoolQuery(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/classes?ativa=false&x=maybe", nil)
	if v := boolQuery(c, "ativa"); v == nil || *v {
		t.Fatalf("expected explicit false, got %v", v)
	}
	if boolQuery(c, "x") != nil || boolQuery(c, "missing") != nil {
		t.Fatal("expected nil for unparsable or missing values")
	}
}
