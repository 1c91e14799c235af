package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "req-1")

	Error(c, CodeNotFound, "pedido não encontrado")
	if w.Code != http.StatusOK {
		t.Fatalf("business errors use HTTP 200, got %d", w.Code)
	}
	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.StatusCode != CodeNotFound || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAbortWithHTTPStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithHTTPStatus(c, http.StatusForbidden, CodeForbidden, "sem permissão")
	if w.Code != http.StatusForbidden || !c.IsAborted() {
		t.Fatalf("expected aborted 403, got %d", w.Code)
	}
}

func TestNewPagination(t *testing.T) {
	if p := NewPagination(2, 20, 41); p.TotalPage != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPage)
	}
	if p := NewPagination(1, 0, 10); p.TotalPage != 0 {
		t.Fatalf("zero page size should not divide, got %d", p.TotalPage)
	}
}
