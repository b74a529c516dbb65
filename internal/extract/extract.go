// Package extract composes the transcript-to-task pipeline.
//
// An [Extractor] turns one transcript into normalized tasks. Two
// implementations exist — the pattern-bank [HeuristicExtractor] and the
// model-backed [ModelExtractor] — plus a [FallbackExtractor] that prefers
// the model and degrades to heuristics when the completion service fails.
// [Service] wires an extractor to roster loading, assignee resolution, and
// persistence, and is the single entry point callers use.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/taskmill/taskmill/internal/extract/heuristic"
	"github.com/taskmill/taskmill/internal/extract/llmextract"
	"github.com/taskmill/taskmill/internal/extract/normalize"
	"github.com/taskmill/taskmill/internal/observe"
	"github.com/taskmill/taskmill/internal/roster"
	"github.com/taskmill/taskmill/internal/task"
)

// HeuristicModel is the Metadata.Model value reported by the heuristic path.
const HeuristicModel = "heuristic"

// Metadata describes one extraction run.
type Metadata struct {
	// ProcessedAt is when the extraction completed.
	ProcessedAt time.Time `json:"processedAt"`

	// Model identifies what produced the tasks: a model name for the
	// generative path, or [HeuristicModel].
	Model string `json:"model"`
}

// Result is the outcome of one extraction run, before assignee resolution.
type Result struct {
	Tasks    []task.Task `json:"tasks"`
	Metadata Metadata    `json:"metadata"`
}

// Extractor turns a transcript into normalized tasks. members may be empty;
// extractors use it only as context (e.g., roster names in the model
// prompt), never for resolution.
type Extractor interface {
	Extract(ctx context.Context, transcript string, members []roster.Member) (*Result, error)
}

// HeuristicExtractor applies the pattern bank. It never fails.
type HeuristicExtractor struct {
	now func() time.Time
}

// Compile-time interface assertion.
var _ Extractor = (*HeuristicExtractor)(nil)

// NewHeuristic returns a [HeuristicExtractor] anchored to the real clock.
func NewHeuristic() *HeuristicExtractor {
	return &HeuristicExtractor{now: time.Now}
}

// NewHeuristicAt returns a [HeuristicExtractor] with an injected clock, for
// deterministic date resolution in tests.
func NewHeuristicAt(now func() time.Time) *HeuristicExtractor {
	return &HeuristicExtractor{now: now}
}

// Extract implements [Extractor]. The roster is ignored: heuristic
// extraction works purely from the transcript text.
func (h *HeuristicExtractor) Extract(ctx context.Context, transcript string, _ []roster.Member) (*Result, error) {
	now := h.now()
	candidates := heuristic.Extract(transcript, now)
	return &Result{
		Tasks: normalize.All(candidates),
		Metadata: Metadata{
			ProcessedAt: now,
			Model:       HeuristicModel,
		},
	}, nil
}

// ModelExtractor runs the generative extraction adapter and normalizes its
// candidates. Failures from the completion service propagate to the caller.
type ModelExtractor struct {
	adapter *llmextract.Adapter
	metrics *observe.Metrics
	now     func() time.Time
}

// Compile-time interface assertion.
var _ Extractor = (*ModelExtractor)(nil)

// NewModel returns a [ModelExtractor] on the given adapter. metrics may be
// nil to disable instrumentation.
func NewModel(adapter *llmextract.Adapter, metrics *observe.Metrics) *ModelExtractor {
	return &ModelExtractor{
		adapter: adapter,
		metrics: metrics,
		now:     time.Now,
	}
}

// Extract implements [Extractor].
func (m *ModelExtractor) Extract(ctx context.Context, transcript string, members []roster.Member) (*Result, error) {
	now := m.now()
	candidates, err := m.adapter.Extract(ctx, transcript, members, now)

	if m.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
			m.metrics.ProviderErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("model", m.adapter.Model()),
				attribute.String("kind", errorKind(err)),
			))
		}
		m.metrics.ProviderRequests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("model", m.adapter.Model()),
			attribute.String("status", status),
		))
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Tasks: normalize.All(candidates),
		Metadata: Metadata{
			ProcessedAt: now,
			Model:       m.adapter.Model(),
		},
	}, nil
}

// errorKind buckets adapter failures for the provider error counter.
func errorKind(err error) string {
	var malformed *llmextract.MalformedResponseError
	switch {
	case errors.As(err, &malformed):
		return "malformed_response"
	case errors.Is(err, llmextract.ErrServiceUnavailable):
		return "service_unavailable"
	}
	return "other"
}

// FallbackExtractor tries a primary extractor and falls back to a secondary
// when the primary fails. Used for the model-with-heuristic-fallback
// composition: model answers win, but a dead completion service never
// blocks extraction.
type FallbackExtractor struct {
	primary   Extractor
	secondary Extractor
	logger    *slog.Logger
}

// Compile-time interface assertion.
var _ Extractor = (*FallbackExtractor)(nil)

// NewFallback returns a [FallbackExtractor].
func NewFallback(primary, secondary Extractor, logger *slog.Logger) *FallbackExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackExtractor{primary: primary, secondary: secondary, logger: logger}
}

// Extract implements [Extractor]. A primary failure is logged and the
// secondary's result (or error) is returned. Context cancellation is not
// retried: when ctx is done, the secondary is skipped.
func (f *FallbackExtractor) Extract(ctx context.Context, transcript string, members []roster.Member) (*Result, error) {
	res, err := f.primary.Extract(ctx, transcript, members)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	f.logger.Warn("primary extractor failed, falling back",
		"err", err,
	)
	return f.secondary.Extract(ctx, transcript, members)
}
