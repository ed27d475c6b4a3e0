package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/platform/auth"
)

func loginContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogin(t *testing.T) {
	svc := NewService(newMockRepo())
	seedUser(t, svc, "Fabby", "0677532140", "recept123", auth.RoleReceptionist)
	h := NewHandler(svc, []byte("test-signing-key"), time.Hour)

	c, rec := loginContext(`{"mobile":"0677532140","password":"recept123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User == nil || resp.User.Role != auth.RoleReceptionist {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("credential hash leaked in response")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := NewService(newMockRepo())
	seedUser(t, svc, "Fabby", "0677532140", "recept123", auth.RoleReceptionist)
	h := NewHandler(svc, []byte("test-signing-key"), time.Hour)

	c, _ := loginContext(`{"mobile":"0677532140","password":"nope"}`)
	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
