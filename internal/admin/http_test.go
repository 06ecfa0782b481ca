package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
	"github.com/codebyom2309/Zenith-cafe-os/internal/store"
)

func newAPI(t *testing.T, m *store.Memory) http.Handler {
	t.Helper()
	return NewHandler(newController(t, m)).Router()
}

func doJSON(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func listedOrders(t *testing.T, rec *httptest.ResponseRecorder) []domain.Order {
	t.Helper()
	var out struct {
		Orders []domain.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Orders
}

func TestListOrdersEndpoint(t *testing.T) {
	m := store.NewMemory(nil, nil)
	seedStore(t, m, "ORD-1", "ORD-2")
	require.NoError(t, m.UpdateStatus(context.Background(), "ORD-2", domain.StatusPreparing))
	h := newAPI(t, m)

	rec := doJSON(h, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, listedOrders(t, rec), 2)

	rec = doJSON(h, http.MethodGet, "/orders?status=Preparing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	orders := listedOrders(t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-2", orders[0].ID)

	rec = doJSON(h, http.MethodGet, "/orders?status=All", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, listedOrders(t, rec), 2)

	rec = doJSON(h, http.MethodGet, "/orders?status=Cooking", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceEndpoint(t *testing.T) {
	m := store.NewMemory(nil, nil)
	seedStore(t, m, "ORD-1")
	h := newAPI(t, m)

	rec := doJSON(h, http.MethodPost, "/orders/ORD-1/status", `{"status":"Preparing"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Display refreshed: the order now shows as Preparing.
	rec = doJSON(h, http.MethodGet, "/orders?status=Preparing", "")
	assert.Len(t, listedOrders(t, rec), 1)
}

func TestAdvanceEndpointErrors(t *testing.T) {
	m := store.NewMemory(nil, nil)
	seedStore(t, m, "ORD-1")
	h := newAPI(t, m)

	rec := doJSON(h, http.MethodPost, "/orders/ORD-1/status", `{"status":"Served"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "skipping states is rejected")

	rec = doJSON(h, http.MethodPost, "/orders/missing/status", `{"status":"Preparing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(h, http.MethodPost, "/orders/ORD-1/status", `{"status":"Cooking"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h, http.MethodPost, "/orders/ORD-1/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The failed calls changed nothing.
	rec = doJSON(h, http.MethodGet, "/orders?status=New", "")
	assert.Len(t, listedOrders(t, rec), 1)
}
