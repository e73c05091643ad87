package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/ridgelight/warnmap-etl/internal/domain"
	"github.com/ridgelight/warnmap-etl/internal/observability"
	"github.com/ridgelight/warnmap-etl/internal/warn"
)

// WarnTransformer implements Transformer by computing a warn map over each
// incoming hazard field payload.
type WarnTransformer struct {
	params   warn.Params
	relTol   float64
	quantile float64
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a WarnTransformer. The params are validated once
// here rather than per message.
func NewTransformer(params warn.Params, relTol, quantile float64, logger *slog.Logger, metrics *observability.Metrics) (*WarnTransformer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &WarnTransformer{
		params:   params,
		relTol:   relTol,
		quantile: quantile,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

func (t *WarnTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.WarningEvent, error) {
	payload, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.WarningEvent{}, err
	}

	field, coords, err := payload.BuildField(t.relTol, t.quantile)
	if err != nil {
		return domain.WarningEvent{}, err
	}

	start := time.Now()
	w, err := warn.Generate(field, coords, t.params)
	if err != nil {
		return domain.WarningEvent{}, err
	}
	t.metrics.WarnGenerationDuration.Observe(time.Since(start).Seconds())
	t.metrics.WarnCellsTotal.Add(float64(field.Len()))

	event := domain.NewWarningEvent(payload, w, t.params.NumLevels())
	t.observe(event)
	return event, nil
}

// observe records per-warning diagnostics. Clamped cells hint at level
// boundaries that do not cover the hazard's value range.
func (t *WarnTransformer) observe(e domain.WarningEvent) {
	t.metrics.MaxWarnLevel.WithLabelValues(e.HazardType).Set(float64(e.MaxLevel()))
	if e.CellsClampedLow > 0 {
		t.metrics.CellsClamped.WithLabelValues("low").Add(float64(e.CellsClampedLow))
	}
	if e.CellsClampedHigh > 0 {
		t.metrics.CellsClamped.WithLabelValues("high").Add(float64(e.CellsClampedHigh))
	}
	if e.CellsClampedLow > 0 || e.CellsClampedHigh > 0 {
		t.logger.Warn("hazard values outside level boundaries",
			"hazard_type", e.HazardType,
			"clamped_low", e.CellsClampedLow,
			"clamped_high", e.CellsClampedHigh,
		)
	}
}
