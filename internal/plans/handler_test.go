package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convenz-admin/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, _, _ := newTestService(t)
	h := NewHandler(svc, validation.New(), discardLogger(), false)

	r := chi.NewRouter()
	r.Post("/plans/add", h.Create)
	r.Get("/plans/all", h.List)
	r.Get("/plans/{id}", h.Get)
	r.Put("/plans/update/{id}", h.Update)
	r.Delete("/plans/delete/{id}", h.Delete)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandlerPlanLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, out := do(t, router, http.MethodPost, "/plans/add", `{"name":"Gold","price":999,"duration":"6 months","planType":"vendor"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := out["plan"].(map[string]interface{})["id"].(string)

	rec, out = do(t, router, http.MethodGet, "/plans/all?planType=vendor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, out["count"])

	rec, out = do(t, router, http.MethodGet, "/plans/all?planType=customer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, out["count"])

	rec, out = do(t, router, http.MethodPut, "/plans/update/"+id, `{"price":1099}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1099, out["plan"].(map[string]interface{})["price"])

	rec, _ = do(t, router, http.MethodDelete, "/plans/delete/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, out = do(t, router, http.MethodDelete, "/plans/delete/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Plan not found", out["message"])
}

func TestHandlerPlanValidation(t *testing.T) {
	router := newTestRouter(t)

	rec, out := do(t, router, http.MethodPost, "/plans/add", `{"name":"Gold","price":0,"duration":"6 months","planType":"vendor"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "gt", out["details"].(map[string]interface{})["Price"])

	rec, _ = do(t, router, http.MethodPost, "/plans/add", `{"name":"Gold","price":5,"duration":"6 months","planType":"enterprise"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, router, http.MethodGet, "/plans/all?planType=enterprise", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid planType", out["message"])

	rec, _ = do(t, router, http.MethodGet, "/plans/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
