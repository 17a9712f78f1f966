package subscriptions

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convenz-admin/internal/plans"
	"convenz-admin/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestRouter(t *testing.T) (http.Handler, fakePlans) {
	t.Helper()
	svc, _, catalog := newTestService()
	h := NewHandler(svc, validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	r := chi.NewRouter()
	r.Get("/subscriptions/all", h.List)
	r.Get("/subscriptions/user/{userId}", h.ForUser)
	r.Get("/subscriptions/{id}/with-plan", h.GetWithPlan)
	r.Get("/subscriptions/{id}", h.Get)
	r.Post("/subscriptions/add", h.Create)
	r.Patch("/subscriptions/update/{id}", h.Update)
	r.Delete("/subscriptions/{id}", h.Delete)
	return r, catalog
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandlerSubscriptionLifecycle(t *testing.T) {
	router, catalog := newTestRouter(t)
	plan := plans.Plan{ID: primitive.NewObjectID(), Name: "Premium"}
	catalog[plan.ID] = plan

	rec, out := do(t, router, http.MethodPost, "/subscriptions/add", `{"userId":42,"planId":"`+plan.ID.Hex()+`","price":249}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	sub := out["subscription"].(map[string]interface{})
	assert.EqualValues(t, 42, sub["userId"])
	assert.Equal(t, "Active", sub["status"])
	assert.Equal(t, "Standard", sub["currentPack"])
	assert.Nil(t, sub["expiryDate"])
	id := sub["id"].(string)

	rec, out = do(t, router, http.MethodGet, "/subscriptions/"+id+"/with-plan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Premium", out["plan"].(map[string]interface{})["name"])

	rec, out = do(t, router, http.MethodGet, "/subscriptions/user/42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, out["subscription"].(map[string]interface{})["id"])

	rec, out = do(t, router, http.MethodPatch, "/subscriptions/update/"+id, `{"status":"expired"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Expired", out["subscription"].(map[string]interface{})["status"])

	rec, out = do(t, router, http.MethodGet, "/subscriptions/all?status=expired", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, out["total"])

	rec, _ = do(t, router, http.MethodDelete, "/subscriptions/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, out = do(t, router, http.MethodDelete, "/subscriptions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Subscription not found", out["message"])
}

func TestHandlerSubscriptionErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, out := do(t, router, http.MethodGet, "/subscriptions/user/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "userId must be an integer", out["message"])

	rec, _ = do(t, router, http.MethodGet, "/subscriptions/user/77", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = do(t, router, http.MethodPost, "/subscriptions/add", `{"userId":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "userId and planId are required", out["message"])

	rec, _ = do(t, router, http.MethodGet, "/subscriptions/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/subscriptions/all?status=paused", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
