package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgelight/warnmap-etl/internal/domain"
	"github.com/ridgelight/warnmap-etl/internal/observability"
	"github.com/ridgelight/warnmap-etl/internal/pipeline"
	"github.com/ridgelight/warnmap-etl/internal/warn"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.WarningEvent, error) {
	if m.err != nil {
		return domain.WarningEvent{}, m.err
	}
	return domain.WarningEvent{ID: string(raw.Key)}, nil
}

type mockLoader struct {
	loaded []domain.WarningEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.WarningEvent) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

type mockArchiver struct {
	recorded []domain.WarningEvent
	err      error
}

func (m *mockArchiver) Record(_ context.Context, events []domain.WarningEvent) error {
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, events...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeFieldEvent(t, "field-1")

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	arc := &mockArchiver{}

	p := pipeline.New(ext, tfm, ldr, arc, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "field-1", ldr.loaded[0].ID)
	assert.Len(t, arc.recorded, 1)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, will block
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, nil, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	var commits atomic.Int64
	raw := makeFieldEvent(t, "field-2")
	raw.Commit = func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	tfm := &mockTransformer{err: errors.New("bad payload")}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, nil, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	// Bad messages are committed so they are not reprocessed forever.
	assert.Equal(t, int64(1), commits.Load())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var commits atomic.Int64

	raw := makeFieldEvent(t, "field-3")
	raw.Topic = "hazard-fields"
	raw.Commit = func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, nil, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), commits.Load())
}

func TestPipeline_Run_ArchiveFailureDoesNotFailBatch(t *testing.T) {
	var commits atomic.Int64
	raw := makeFieldEvent(t, "field-4")
	raw.Commit = func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	arc := &mockArchiver{err: errors.New("disk full")}

	p := pipeline.New(ext, &mockTransformer{}, ldr, arc, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, ldr.loaded, 1)
	assert.Equal(t, int64(1), commits.Load())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_LoadErrorBacksOff(t *testing.T) {
	raw := makeFieldEvent(t, "field-5")

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}

	p := pipeline.New(ext, &mockTransformer{}, ldr, nil, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestWarnTransformer_Transform(t *testing.T) {
	raw := makeFieldEvent(t, "field-6")

	tfm, err := pipeline.NewTransformer(warn.Params{
		Levels: []float64{0, 20, 40, 60},
	}, 0.01, 0.5, slog.Default(), newTestMetrics())
	require.NoError(t, err)

	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "wind_gust", out.HazardType)
	assert.Equal(t, 2, out.Rows)
	assert.Equal(t, 2, out.Cols)
	// 5 -> level 0, the three 45s -> level 2.
	assert.Equal(t, []int{0, 2, 2, 2}, out.Levels)
	assert.Equal(t, 2, out.MaxLevel())
}

func TestWarnTransformer_Transform_InvalidPayload(t *testing.T) {
	tfm, err := pipeline.NewTransformer(warn.Params{
		Levels: []float64{0, 20, 40, 60},
	}, 0.01, 0.5, slog.Default(), newTestMetrics())
	require.NoError(t, err)

	_, err = tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestNewTransformer_InvalidParams(t *testing.T) {
	_, err := pipeline.NewTransformer(warn.Params{
		Levels: []float64{40, 20},
	}, 0.01, 0.5, slog.Default(), newTestMetrics())
	assert.Error(t, err)
}

// --- helpers ---

func makeFieldEvent(t *testing.T, key string) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(domain.HazardFieldPayload{
		HazardType: "wind_gust",
		Unit:       "m/s",
		Rows:       2,
		Cols:       2,
		Lat:        []float64{47.0, 47.0, 47.5, 47.5},
		Lon:        []float64{8.0, 8.5, 8.0, 8.5},
		Values:     []float64{5, 45, 45, 45},
	})
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(key),
		Value: data,
	}
}
