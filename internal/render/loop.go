// Package render drives one synchronous render cycle per user action:
// collect state, compose the query, resolve it, update pagination, render.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/syntrixbase/salesgrid/internal/data"
	"github.com/syntrixbase/salesgrid/internal/transform"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// Control names the loop reacts to beyond the transforms.
const (
	// RefreshAction reloads the lookup indexes and bypasses the result cache.
	RefreshAction = "refresh"
	// ResetAction clears the sort column along with every other control.
	ResetAction = "reset"
)

// StateCollector produces the current value of every interactive control.
type StateCollector interface {
	CollectState() url.Values
}

// Renderer consumes a page of rows and the pagination metadata.
type Renderer interface {
	Render(rows []model.Row, view transform.PaginationView) error
}

// RecordService resolves queries. *data.Store implements it.
type RecordService interface {
	Indexes(ctx context.Context) (data.Indexes, error)
	Records(ctx context.Context, q model.Query, forceRefresh bool) (*model.Result, error)
	InvalidateIndexes()
}

// FilterOptions are the choices offered by the seller and customer filters.
type FilterOptions struct {
	Sellers   []string
	Customers []string
}

// Loop wires the collector, the transform pipeline, the data layer and the
// renderer. Not safe for concurrent use: one cycle at a time.
type Loop struct {
	collector StateCollector
	renderer  Renderer
	records   RecordService
	pipeline  *transform.Pipeline
	logger    *slog.Logger
}

// New creates a render loop.
func New(collector StateCollector, renderer Renderer, records RecordService, pipeline *transform.Pipeline, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		collector: collector,
		renderer:  renderer,
		records:   records,
		pipeline:  pipeline,
		logger:    logger.With("component", "render"),
	}
}

// Pipeline returns the transform pipeline, whose sort state renderers may show.
func (l *Loop) Pipeline() *transform.Pipeline { return l.pipeline }

// Init loads the lookup indexes and returns the filter options built from them.
func (l *Loop) Init(ctx context.Context) (FilterOptions, error) {
	idx, err := l.records.Indexes(ctx)
	if err != nil {
		l.logger.Error("Failed to load filter options", "error", err)
		return FilterOptions{}, err
	}
	return FilterOptions{
		Sellers:   idx.Sellers.Names(),
		Customers: idx.Customers.Names(),
	}, nil
}

// Render runs one cycle for action a. On failure the renderer is not called,
// so whatever it last showed stays visible, and the error is returned.
func (l *Loop) Render(ctx context.Context, a transform.Action) (transform.PaginationView, error) {
	logger := l.logger.With("cycle", uuid.NewString(), "action", a.String())

	state, err := transform.DecodeState(l.collector.CollectState())
	if err != nil {
		logger.Warn("Invalid form state", "error", err)
		return transform.PaginationView{}, fmt.Errorf("%w: %v", model.ErrInvalidQuery, err)
	}

	force := a.Kind == transform.ActionOther && a.Name == RefreshAction
	if force {
		l.records.InvalidateIndexes()
	}
	if a.Kind == transform.ActionOther && a.Name == ResetAction {
		l.pipeline.Sorting().Reset()
	}
	q := l.pipeline.Compose(state, a)

	res, err := l.records.Records(ctx, q, force)
	if err != nil {
		if model.IsCanceled(err) {
			logger.Warn("Render cycle canceled", "query", q.Encode())
		} else {
			logger.Error("Render cycle failed", "query", q.Encode(), "error", err)
		}
		return transform.PaginationView{}, err
	}

	ps := transform.PageStateOf(q)
	if res.Page > 0 {
		ps.Page = model.Page(res.Page)
	}
	view := l.pipeline.UpdatePagination(res.Total, ps)

	if err := l.renderer.Render(res.Items, view); err != nil {
		logger.Error("Renderer failed", "error", err)
		return view, fmt.Errorf("render: %w", err)
	}

	logger.Debug("Render cycle complete",
		"query", q.Encode(),
		"total", view.Total,
		"page", view.Page,
		"page_count", view.PageCount)
	return view, nil
}
