package share

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abduss/imgdrive/internal/config"
	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/abduss/imgdrive/internal/kv"
	"github.com/abduss/imgdrive/internal/objectstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var png = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type fixture struct {
	gallery *gallery.Service
	shares  *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := objectstore.NewMemoryStore()
	for _, key := range []string{
		"docs/a.png", "docs/b.png", "docs/sub/c.png", "docs/sub/deeper/d.png",
		"secret/e.png", "top.png",
	} {
		require.NoError(t, store.Put(context.Background(), key, png, "image/png"))
	}

	galleryService := gallery.NewService(store, config.GalleryConfig{
		BaseURL:         "https://img.example.com",
		DefaultPageSize: 50,
		MaxPageSize:     1000,
		MaxUploadBytes:  1 << 20,
	}, nil)
	return fixture{
		gallery: galleryService,
		shares:  NewService(NewRegistry(kv.NewMemoryStore(), nil), galleryService),
	}
}

func TestSharedRootMatchesScopeListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.shares.Registry().Create(ctx, "docs/")
	require.NoError(t, err)

	shared, err := f.shares.ListSharedPath(ctx, record.ID, "", 1, 50)
	require.NoError(t, err)
	direct, err := f.gallery.ListPath(ctx, "docs/", 1, 50)
	require.NoError(t, err)

	assert.Equal(t, direct, shared)
	assert.Len(t, shared.Files, 2)
}

func TestSharedSubPathMatchesNestedListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.shares.Registry().Create(ctx, "docs/")
	require.NoError(t, err)

	shared, err := f.shares.ListSharedPath(ctx, record.ID, "sub/", 1, 50)
	require.NoError(t, err)
	direct, err := f.gallery.ListPath(ctx, "docs/sub/", 1, 50)
	require.NoError(t, err)

	assert.Equal(t, direct, shared)
	require.Len(t, shared.Directories, 1)
	assert.Equal(t, "docs/sub/deeper/", shared.Directories[0].Path)
}

func TestSharedListingRejectsTraversal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.shares.Registry().Create(ctx, "docs/")
	require.NoError(t, err)

	for _, rel := range []string{"../", "../secret/", "sub/../../secret/", "/secret/"} {
		_, err := f.shares.ListSharedPath(ctx, record.ID, rel, 1, 50)
		assert.ErrorIs(t, err, ErrInvalidInput, rel)
	}
}

func TestSharedListingAfterRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.shares.Registry().Create(ctx, "docs/")
	require.NoError(t, err)
	require.NoError(t, f.shares.Registry().Revoke(ctx, record.ID))

	_, err = f.shares.ListSharedPath(ctx, record.ID, "", 1, 50)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, f.shares.Registry().Revoke(ctx, record.ID))
}

func newShareRouter(f fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	RegisterRoutes(api, f.shares)
	RegisterPublicRoutes(api, f.shares)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestShareHandlersLifecycle(t *testing.T) {
	f := newFixture(t)
	router := newShareRouter(f)

	rec := postJSON(router, "/api/share/create", `{"path":"docs"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Success bool   `json:"success"`
		ShareID string `json:"shareId"`
		Path    string `json:"path"`
		URL     string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "docs/", created.Path)
	assert.Equal(t, "http://example.com/s/"+created.ShareID, created.URL)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/s/"+created.ShareID+"/list?prefix=sub/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed gallery.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, "docs/sub/", listed.CurrentPath)
	require.Len(t, listed.Files, 1)
	assert.Equal(t, "docs/sub/c.png", listed.Files[0].Key)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/share/list", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var shares struct {
		Shares []Record `json:"shares"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shares))
	assert.Equal(t, []Record{{ID: created.ShareID, Path: "docs/"}}, shares.Shares)

	rec = postJSON(router, "/api/share/delete", `{"shareId":"`+created.ShareID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/s/"+created.ShareID+"/list", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSharedListHandlerErrors(t *testing.T) {
	f := newFixture(t)
	router := newShareRouter(f)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/s/not-an-id/list", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	record, err := f.shares.Registry().Create(context.Background(), "docs")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/s/"+record.ID+"/list?prefix=../secret/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(router, "/api/share/create", `{"path":"../secret"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateShareRequiresPath(t *testing.T) {
	f := newFixture(t)
	router := newShareRouter(f)

	for _, body := range []string{`{}`, `{"path":null}`} {
		rec := postJSON(router, "/api/share/create", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	records, err := f.shares.Registry().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	rec := postJSON(router, "/api/share/create", `{"path":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":""`)
}

func TestSharedListHugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	router := newShareRouter(f)

	record, err := f.shares.Registry().Create(context.Background(), "docs")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/s/"+record.ID+"/list?page=9223372036854775807", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var listed gallery.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed.Files)
	assert.Equal(t, 2, listed.Pagination.TotalFiles)
}

func TestSharedListingNormalizesStoredScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	store := kv.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "LegacyShare00001", `{"path":"docs"}`))
	shares := NewService(NewRegistry(store, nil), f.gallery)

	scope, err := shares.Registry().Resolve(ctx, "LegacyShare00001")
	require.NoError(t, err)
	assert.Equal(t, "docs/", scope)

	got, err := shares.ListSharedPath(ctx, "LegacyShare00001", "sub", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, "docs/sub/", got.CurrentPath)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "docs/sub/c.png", got.Files[0].Key)
}
