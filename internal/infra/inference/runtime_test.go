package inference

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishivikas/assistant/internal/domain/classifier"
)

const metadata = `{"labels": ["mango_tree", "not_mango_tree"]}`

func loadedRuntime(t *testing.T, handler http.HandlerFunc) *HTTPRuntime {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rt := NewHTTPRuntime(srv.URL, 5*time.Second, slog.Default())
	require.NoError(t, rt.Load(context.Background(), classifier.ModelFiles{Metadata: []byte(metadata)}))
	return rt
}

func TestClassifyPairsScoresWithLabels(t *testing.T) {
	rt := loadedRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"predictions": [[0.91, 0.09]]}`)
	})

	preds, err := rt.Classify(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.Len(t, preds, 2)
	require.Equal(t, "mango_tree", preds[0].ClassName)
	require.InDelta(t, 0.91, preds[0].Probability, 1e-9)
}

func TestClassifyRejectsScoreMismatch(t *testing.T) {
	rt := loadedRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"predictions": [[0.5, 0.3, 0.2]]}`)
	})

	_, err := rt.Classify(context.Background(), []byte("jpeg"))
	require.ErrorContains(t, err, "does not match")
}

func TestClassifySurfacesServerError(t *testing.T) {
	rt := loadedRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "malformed tensor"}`)
	})

	_, err := rt.Classify(context.Background(), []byte("jpeg"))
	require.ErrorContains(t, err, "malformed tensor")
}

func TestClassifyWithoutLoad(t *testing.T) {
	rt := NewHTTPRuntime("http://127.0.0.1:0", time.Second, slog.Default())
	_, err := rt.Classify(context.Background(), []byte("jpeg"))
	require.ErrorContains(t, err, "not loaded")
}

func TestLoadRejectsEmptyLabels(t *testing.T) {
	rt := NewHTTPRuntime("http://127.0.0.1:0", time.Second, slog.Default())
	err := rt.Load(context.Background(), classifier.ModelFiles{Metadata: []byte(`{"labels": []}`)})
	require.Error(t, err)
}
