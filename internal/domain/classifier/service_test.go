package classifier

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	calls int
	err   error
}

func (s *stubSource) Fetch(ctx context.Context) (ModelFiles, error) {
	s.calls++
	if s.err != nil {
		return ModelFiles{}, s.err
	}
	return ModelFiles{Topology: []byte("{}"), Metadata: []byte("{}")}, nil
}

type stubRuntime struct {
	loads int
	preds []Prediction
}

func (r *stubRuntime) Load(ctx context.Context, files ModelFiles) error {
	r.loads++
	return nil
}

func (r *stubRuntime) Classify(ctx context.Context, image []byte) ([]Prediction, error) {
	return r.preds, nil
}

func testConfig() Config {
	return Config{
		Categories:      map[string]string{"mango_tree": "Mango"},
		Complements:     []string{"not_mango_tree"},
		DefaultCategory: "Not Mango",
		Cutoff:          0.5,
		TopN:            3,
	}
}

func TestClassifyLoadsModelOnce(t *testing.T) {
	src := &stubSource{}
	rt := &stubRuntime{preds: []Prediction{{ClassName: "mango_tree", Probability: 0.9}}}
	svc := NewService(src, rt, testConfig(), slog.Default())

	for range 3 {
		_, err := svc.Classify(context.Background(), []byte("img"))
		require.NoError(t, err)
	}
	require.Equal(t, 1, src.calls)
	require.Equal(t, 1, rt.loads)
}

func TestClassifyRetriesFailedLoad(t *testing.T) {
	src := &stubSource{err: errors.New("host down")}
	rt := &stubRuntime{preds: []Prediction{{ClassName: "mango_tree", Probability: 0.9}}}
	svc := NewService(src, rt, testConfig(), slog.Default())

	_, err := svc.Classify(context.Background(), []byte("img"))
	require.Error(t, err)

	src.err = nil
	preds, err := svc.Classify(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.Equal(t, 2, src.calls)
}

func TestCropCategoryCutoff(t *testing.T) {
	svc := NewService(nil, nil, testConfig(), slog.Default())

	cases := []struct {
		name  string
		preds []Prediction
		want  string
	}{
		{"just above cutoff", []Prediction{{ClassName: "mango_tree", Probability: 0.51}}, "Mango"},
		{"just below cutoff", []Prediction{{ClassName: "mango_tree", Probability: 0.49}}, "Not Mango"},
		{"confident other label", []Prediction{{ClassName: "not_mango_tree", Probability: 0.9}}, "Not Mango"},
		{"no predictions", nil, "Not Mango"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, svc.CropCategory(c.preds))
		})
	}
}

func TestTopOrdersAndTruncates(t *testing.T) {
	svc := NewService(nil, nil, testConfig(), slog.Default())
	preds := []Prediction{
		{ClassName: "weed", Probability: 0.95},
		{ClassName: "not_mango_tree", Probability: 0.6},
		{ClassName: "mango_tree", Probability: 0.3},
		{ClassName: "grass", Probability: 0.1},
	}

	got := svc.Top(preds)
	require.Len(t, got, 3)
	require.Equal(t, "mango_tree", got[0].ClassName)
	require.Equal(t, "not_mango_tree", got[1].ClassName)
	require.Equal(t, "weed", got[2].ClassName)

	// Re-sorting the result is a no-op.
	require.Equal(t, got, svc.Top(got))
}

func TestTopComplementOutranksHigherScores(t *testing.T) {
	svc := NewService(nil, nil, testConfig(), slog.Default())
	preds := []Prediction{
		{ClassName: "weed", Probability: 0.95},
		{ClassName: "not_mango_tree", Probability: 0.6},
		{ClassName: "mango_tree", Probability: 0.3},
	}

	got := svc.Top(preds)
	require.Equal(t, []string{"mango_tree", "not_mango_tree", "weed"},
		[]string{got[0].ClassName, got[1].ClassName, got[2].ClassName})
}
