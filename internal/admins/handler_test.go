package admins

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convenz-admin/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _ := newTestService()
	h := NewHandler(svc, validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Get("/admins", h.List)
	r.Get("/admins/{id}", h.Get)
	r.Put("/admins/{id}", h.Update)
	r.Delete("/admins/{id}", h.Delete)
	return r, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandlerRegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, out := do(t, router, http.MethodPost, "/register", `{"name":"Ops","email":"ops@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	admin := out["admin"].(map[string]interface{})
	assert.Equal(t, "ops@example.com", admin["email"])
	assert.NotContains(t, admin, "password")

	rec, out = do(t, router, http.MethodPost, "/register", `{"name":"Ops","email":"ops@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Admin already exists", out["message"])

	rec, out = do(t, router, http.MethodPost, "/login", `{"email":"ops@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login Successful", out["message"])
	assert.NotEmpty(t, out["token"])

	rec, out = do(t, router, http.MethodPost, "/login", `{"email":"ops@example.com","password":"nope-nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid password", out["message"])

	rec, out = do(t, router, http.MethodPost, "/login", `{"email":"ghost@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Admin not found", out["message"])
}

func TestHandlerValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, out := do(t, router, http.MethodPost, "/register", `{"name":"Ops","email":"not-an-email","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := out["details"].(map[string]interface{})
	assert.Equal(t, "email", details["Email"])
	assert.Equal(t, "min", details["Password"])

	rec, out = do(t, router, http.MethodPost, "/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid json", out["message"])
}

func TestHandlerIDs(t *testing.T) {
	router, svc := newTestRouter(t)

	rec, out := do(t, router, http.MethodGet, "/admins/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", out["message"])

	rec, _ = do(t, router, http.MethodDelete, "/admins/64b7f0c2a1b2c3d4e5f60718", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	admin, err := svc.Create(context.Background(), CreateRequest{Name: "x", Email: "x@example.com", Password: "secret1"})
	require.NoError(t, err)

	rec, out = do(t, router, http.MethodPut, "/admins/"+admin.ID.Hex(), `{"status":"disabled"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "disabled", out["admin"].(map[string]interface{})["status"])

	rec, _ = do(t, router, http.MethodPut, "/admins/"+admin.ID.Hex(), `{"status":"paused"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, router, http.MethodGet, "/admins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, out["count"])
}
