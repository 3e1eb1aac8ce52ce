package modelhost

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func modelServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/model.json":
			io.WriteString(w, `{"format": "layers-model"}`)
		case "/metadata.json":
			io.WriteString(w, `{"labels": ["mango_tree", "not_mango_tree"]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPair(t *testing.T) {
	srv := modelServer(t, http.StatusOK)
	src := NewSource(srv.URL, "", 5*time.Second, slog.Default())

	files, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Contains(t, string(files.Topology), "layers-model")
	require.Contains(t, string(files.Metadata), "mango_tree")
}

func TestFetchFallsBack(t *testing.T) {
	primary := modelServer(t, http.StatusBadGateway)
	mirror := modelServer(t, http.StatusOK)
	src := NewSource(primary.URL, mirror.URL, 5*time.Second, slog.Default())

	files, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, files.Topology)
}

func TestFetchFailsWhenBothDown(t *testing.T) {
	primary := modelServer(t, http.StatusBadGateway)
	mirror := modelServer(t, http.StatusInternalServerError)
	src := NewSource(primary.URL, mirror.URL, 5*time.Second, slog.Default())

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
}
