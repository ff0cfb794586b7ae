package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseboard/internal/apperr"
)

func TestHTTPFetcherAddsCacheBuster(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("t")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/site/", true)
	f.now = func() time.Time { return time.UnixMilli(1700000000123) }

	data, err := f.Fetch(context.Background(), "data/houseproject1/report.json")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
	assert.Equal(t, "/site/data/houseproject1/report.json", gotPath)
	assert.Equal(t, "1700000000123", gotQuery)
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, false)
	_, err := f.Fetch(context.Background(), "data/missing.json")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
	assert.Contains(t, err.Error(), "data/missing.json")
}

func TestFileFetcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "r.json"), []byte("{}"), 0644))

	f := NewFileFetcher(root)
	data, err := f.Fetch(context.Background(), "data/r.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = f.Fetch(context.Background(), "../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestFileFetcherPrefix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "listings")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "houseproject1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "houseproject1", "r.json"), []byte("[]"), 0644))

	f := NewFileFetcher(dir)
	f.Prefix = "data"

	data, err := f.Fetch(context.Background(), "data/houseproject1/r.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// 不带前缀的路径直接在 Root 下查找
	data, err = f.Fetch(context.Background(), "houseproject1/r.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = f.Fetch(context.Background(), "database/houseproject1/r.json")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/leaflet.js" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ctx := context.Background()
	assert.True(t, Probe(ctx, srv.Client(), srv.URL+"/leaflet.js"))
	assert.False(t, Probe(ctx, srv.Client(), srv.URL+"/missing.js"))
}
