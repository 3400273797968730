package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listkeeper/backend/internal/codec"
	"github.com/listkeeper/backend/internal/docfile"
	"github.com/listkeeper/backend/internal/service"
	"github.com/listkeeper/backend/internal/state"
)

func newTestServer(t *testing.T) (*httptest.Server, *state.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry, err := docfile.OpenRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })

	store := state.New(logger)
	autosave := service.NewAutosave(store, codec.Encode, logger, time.Hour)
	t.Cleanup(autosave.Close)
	documents := service.NewDocuments(store, autosave, registry, logger)
	t.Cleanup(documents.Close)

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(store, documents, logger))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, body string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestCreateItem(t *testing.T) {
	srv, _ := newTestServer(t)

	var created ItemResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/items",
		`{"name": "Milk", "home_category": "Fridge"}`, &created)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Milk", created.Name)
	assert.Equal(t, "Fridge", created.HomeCategory)
	assert.True(t, created.Selected, "new items start selected")
}

func TestCreateItemValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	resp := doJSON(t, http.MethodPost, srv.URL+"/items",
		`{"name": "   ", "home_category": "Fridge"}`, &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "name")
}

func TestGetItemNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/items/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUnknownItemIsAccepted(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]bool
	resp := doJSON(t, http.MethodPatch, srv.URL+"/items/nope",
		`{"name": "Ghost"}`, &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, body["updated"])
}

func TestHomeViewGroupsAndOrders(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Milk", "home_category": "Fridge"}`, nil)
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Rice", "home_category": "Pantry"}`, nil)
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Butter", "home_category": "Fridge"}`, nil)

	var groups []struct {
		Name  string         `json:"name"`
		Items []ItemResponse `json:"items"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/home", "", &groups)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, groups, 2)
	assert.Equal(t, "Fridge", groups[0].Name)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Pantry", groups[1].Name)

	// Pantry before Fridge after one move up.
	var moved map[string]bool
	doJSON(t, http.MethodPost, srv.URL+"/categories/move",
		`{"name": "Pantry", "direction": "up"}`, &moved)
	require.True(t, moved["moved"])

	doJSON(t, http.MethodGet, srv.URL+"/home", "", &groups)
	assert.Equal(t, "Pantry", groups[0].Name)
	assert.Equal(t, "Fridge", groups[1].Name)
}

func TestShopViewUncategorizedLast(t *testing.T) {
	srv, _ := newTestServer(t)

	var milk, crisps ItemResponse
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Milk", "home_category": "Fridge"}`, &milk)
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Crisps", "home_category": "Pantry"}`, &crisps)

	var shop ShopResponse
	doJSON(t, http.MethodPost, srv.URL+"/shops", `{"name": "Co-op"}`, &shop)

	resp := doJSON(t, http.MethodPut, srv.URL+"/items/"+milk.ID+"/shops/"+shop.ID,
		`{"category": "Dairy"}`, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	doJSON(t, http.MethodPut, srv.URL+"/items/"+crisps.ID+"/shops/"+shop.ID,
		`{"category": ""}`, nil)

	var groups []struct {
		Name string `json:"name"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/shops/"+shop.ID+"/view", "", &groups)
	require.Len(t, groups, 2)
	assert.Equal(t, "Dairy", groups[0].Name)
	assert.Equal(t, "Uncategorized", groups[1].Name)
}

func TestShopViewSelectedOnly(t *testing.T) {
	srv, _ := newTestServer(t)

	var milk, eggs ItemResponse
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Milk", "home_category": "Fridge"}`, &milk)
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Eggs", "home_category": "Fridge"}`, &eggs)

	var shop ShopResponse
	doJSON(t, http.MethodPost, srv.URL+"/shops", `{"name": "Co-op"}`, &shop)
	doJSON(t, http.MethodPut, srv.URL+"/items/"+milk.ID+"/shops/"+shop.ID, `{"category": "Dairy"}`, nil)
	doJSON(t, http.MethodPut, srv.URL+"/items/"+eggs.ID+"/shops/"+shop.ID, `{"category": "Dairy"}`, nil)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/selection/"+eggs.ID, "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var groups []struct {
		Name  string         `json:"name"`
		Items []ItemResponse `json:"items"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/shops/"+shop.ID+"/view?selected=true", "", &groups)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Milk", groups[0].Items[0].Name)
}

func TestToggleSelection(t *testing.T) {
	srv, store := newTestServer(t)

	var milk ItemResponse
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Milk", "home_category": "Fridge"}`, &milk)

	var body map[string]bool
	doJSON(t, http.MethodPost, srv.URL+"/selection/"+milk.ID+"/toggle", "", &body)
	assert.False(t, body["selected"])
	assert.False(t, store.IsSelected(milk.ID))

	doJSON(t, http.MethodPost, srv.URL+"/selection/"+milk.ID+"/toggle", "", &body)
	assert.True(t, body["selected"])
}

func TestDeleteShopCascades(t *testing.T) {
	srv, _ := newTestServer(t)

	var milk ItemResponse
	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Milk", "home_category": "Fridge"}`, &milk)
	var shop ShopResponse
	doJSON(t, http.MethodPost, srv.URL+"/shops", `{"name": "Co-op"}`, &shop)
	doJSON(t, http.MethodPut, srv.URL+"/items/"+milk.ID+"/shops/"+shop.ID, `{"category": "Dairy"}`, nil)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/shops/"+shop.ID, "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var got ItemResponse
	doJSON(t, http.MethodGet, srv.URL+"/items/"+milk.ID, "", &got)
	assert.Empty(t, got.ShopAvailability)
}

func TestMoveCategoryValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	resp := doJSON(t, http.MethodPost, srv.URL+"/categories/move",
		`{"name": "Fridge", "direction": "sideways"}`, &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "direction")
}

func TestDocumentStatusWithoutDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	var status DocumentStatusResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/document", "", &status)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, status.Open)
	assert.Equal(t, string(state.StatusSaved), status.Status)
}

func TestSaveWithoutDocumentConflicts(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/document/save", "", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRecentDocumentsCarryMode(t *testing.T) {
	srv, _ := newTestServer(t)
	path := filepath.Join(t.TempDir(), "list.yaml")

	resp := doJSON(t, http.MethodPost, srv.URL+"/document/new",
		`{"path": "`+path+`"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var recent []RecentDocumentResponse
	doJSON(t, http.MethodGet, srv.URL+"/document/recent", "", &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, path, recent[0].Path)
	assert.Equal(t, docfile.ModeReadWrite, recent[0].Mode)
	assert.False(t, recent[0].LastOpened.IsZero())
}

func TestCreateAndReopenDocument(t *testing.T) {
	srv, _ := newTestServer(t)
	path := filepath.Join(t.TempDir(), "list.yaml")

	doJSON(t, http.MethodPost, srv.URL+"/items", `{"name": "Milk", "home_category": "Fridge"}`, nil)

	var status DocumentStatusResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/document/new",
		`{"path": "`+path+`"}`, &status)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, status.Open)
	assert.Equal(t, path, status.Path)

	// A second server opens the same file and sees the item.
	srv2, store2 := newTestServer(t)
	resp = doJSON(t, http.MethodPost, srv2.URL+"/document/open",
		`{"path": "`+path+`"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, store2.Items(), 1)
	assert.Equal(t, "Milk", store2.Items()[0].Name)
}
