// Package data resolves composed queries into rows, either through the remote
// records API or by executing them over a local dataset.
package data

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/syntrixbase/salesgrid/internal/dataset"
	"github.com/syntrixbase/salesgrid/internal/lookup"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// Indexes holds the seller and customer lookup indexes.
type Indexes struct {
	Sellers   *lookup.Index
	Customers *lookup.Index
}

// backend resolves reference collections and record pages for one mode.
type backend interface {
	index(ctx context.Context, collection string) (*lookup.Index, error)
	records(ctx context.Context, q model.Query, idx Indexes) (*model.Result, error)
}

// Store is the data access layer. Indexes are loaded once and memoized;
// record results are cached by the serialized query.
//
// Store is meant for one render cycle at a time. Overlapping Records calls
// are safe but may race for the cache slot.
type Store struct {
	mode    Mode
	backend backend
	cache   *lru.Cache[string, *model.Result]
	logger  *slog.Logger

	mu      sync.Mutex
	indexes *Indexes
}

// Option configures a Store.
type Option func(*options)

type options struct {
	cacheSize int
	logger    *slog.Logger
}

// WithCacheSize sets how many distinct query results are kept. Defaults to 1.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewRemote creates a store that delegates queries to the records API.
func NewRemote(client *Client, opts ...Option) (*Store, error) {
	return newStore(ModeRemote, &remoteBackend{client: client}, opts)
}

// NewLocal creates a store that executes queries over ds.
func NewLocal(ds *dataset.Dataset, opts ...Option) (*Store, error) {
	exec, err := NewExecutor(ds.Records)
	if err != nil {
		return nil, err
	}
	return newStore(ModeLocal, &localBackend{dataset: ds, executor: exec}, opts)
}

// New builds a store from configuration.
func New(cfg Config, opts ...Option) (*Store, error) {
	opts = append([]Option{WithCacheSize(cfg.CacheSize)}, opts...)
	switch cfg.Mode {
	case ModeLocal:
		ds, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			return nil, err
		}
		return NewLocal(ds, opts...)
	case ModeRemote, "":
		return NewRemote(NewClient(cfg.BaseURL, cfg.Timeout), opts...)
	default:
		return nil, fmt.Errorf("unknown data mode %q", cfg.Mode)
	}
}

func newStore(mode Mode, b backend, opts []Option) (*Store, error) {
	o := options{cacheSize: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize < 1 {
		o.cacheSize = 1
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	cache, err := lru.New[string, *model.Result](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	return &Store{
		mode:    mode,
		backend: b,
		cache:   cache,
		logger:  o.logger.With("component", "data", "mode", string(mode)),
	}, nil
}

// Mode returns the resolution mode.
func (s *Store) Mode() Mode { return s.mode }

// Indexes returns the lookup indexes, loading both reference collections
// concurrently on first use. A failed load is not memoized.
func (s *Store) Indexes(ctx context.Context) (Indexes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexes != nil {
		return *s.indexes, nil
	}

	var idx Indexes
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idx.Sellers, err = s.loadIndex(gctx, dataset.Sellers)
		return err
	})
	g.Go(func() error {
		var err error
		idx.Customers, err = s.loadIndex(gctx, dataset.Customers)
		return err
	})
	if err := g.Wait(); err != nil {
		return Indexes{}, err
	}

	s.logger.Info("Reference indexes loaded",
		"sellers", idx.Sellers.Len(),
		"customers", idx.Customers.Len())
	s.indexes = &idx
	return idx, nil
}

func (s *Store) loadIndex(ctx context.Context, collection string) (*lookup.Index, error) {
	idx, err := s.backend.index(ctx, collection)
	if err != nil {
		ReferenceLoads.WithLabelValues(collection, "error").Inc()
		s.logger.Error("Failed to load reference collection", "collection", collection, "error", err)
		if _, ok := err.(*model.ReferenceLoadError); ok {
			return nil, err
		}
		return nil, &model.ReferenceLoadError{Collection: collection, Err: err}
	}
	ReferenceLoads.WithLabelValues(collection, "ok").Inc()
	return idx, nil
}

// InvalidateIndexes drops the memoized indexes; the next call reloads them.
func (s *Store) InvalidateIndexes() {
	s.mu.Lock()
	s.indexes = nil
	s.mu.Unlock()
}

// Records resolves q into a page of rows. An identical serialized query is
// answered from the cache unless forceRefresh is set. Failures are never cached.
func (s *Store) Records(ctx context.Context, q model.Query, forceRefresh bool) (*model.Result, error) {
	key := q.Encode()
	if !forceRefresh {
		if res, ok := s.cache.Get(key); ok {
			CacheRequests.WithLabelValues("hit").Inc()
			s.logger.Debug("Result cache hit", "query", key)
			return res, nil
		}
	}
	CacheRequests.WithLabelValues("miss").Inc()

	idx, err := s.Indexes(ctx)
	if err != nil {
		return nil, err
	}

	mode := string(s.mode)
	start := time.Now()
	res, err := s.backend.records(ctx, q, idx)
	ResolutionLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		ResolutionErrors.WithLabelValues(mode).Inc()
		if model.IsCanceled(err) {
			s.logger.Warn("Records request canceled", "query", key)
		} else {
			s.logger.Error("Failed to resolve records", "query", key, "error", err)
		}
		return nil, err
	}
	Resolutions.WithLabelValues(mode).Inc()

	s.cache.Add(key, res)
	s.logger.Debug("Records resolved", "query", key, "total", res.Total, "page", res.Page)
	return res, nil
}

// Rows maps raw records to display rows. Unknown ids are shown as-is.
func Rows(records []model.Record, idx Indexes) []model.Row {
	rows := make([]model.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, model.Row{
			ID:       r.ReceiptID.String(),
			Date:     r.Date,
			Seller:   idx.Sellers.Name(r.SellerID.String()),
			Customer: idx.Customers.Name(r.CustomerID.String()),
			Total:    model.FormatAmount(r.TotalAmount),
		})
	}
	return rows
}

type remoteBackend struct {
	client *Client
}

func (b *remoteBackend) index(ctx context.Context, collection string) (*lookup.Index, error) {
	raw, err := b.client.Reference(ctx, collection)
	if err != nil {
		return nil, err
	}
	return lookup.Decode(raw, collection)
}

// records trusts the server for filtering, sorting and pagination. A request
// for the last page probes page 1 for the total first; a page past the end
// is fetched again at the last page.
func (b *remoteBackend) records(ctx context.Context, q model.Query, idx Indexes) (*model.Result, error) {
	limit := q.Limit()
	req := q.Page()

	page := req.Number
	if req.Last {
		probe, err := b.client.Records(ctx, q.With(model.ParamPage, "1"))
		if err != nil {
			return nil, err
		}
		page = model.PageCount(probe.Total, limit)
		if page == 1 {
			return toResult(probe, 1, limit, idx), nil
		}
	}

	resp, err := b.client.Records(ctx, q.With(model.ParamPage, strconv.Itoa(page)))
	if err != nil {
		return nil, err
	}
	if pageCount := model.PageCount(resp.Total, limit); page > pageCount {
		page = pageCount
		resp, err = b.client.Records(ctx, q.With(model.ParamPage, strconv.Itoa(page)))
		if err != nil {
			return nil, err
		}
	}
	return toResult(resp, page, limit, idx), nil
}

func toResult(p *RecordPage, page, limit int, idx Indexes) *model.Result {
	return &model.Result{
		Total: p.Total,
		Items: Rows(p.Items, idx),
		Page:  page,
		Limit: limit,
	}
}

type localBackend struct {
	dataset  *dataset.Dataset
	executor *Executor
}

func (b *localBackend) index(_ context.Context, collection string) (*lookup.Index, error) {
	return b.dataset.Index(collection)
}

func (b *localBackend) records(ctx context.Context, q model.Query, idx Indexes) (*model.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.RecordLoadError{Err: err}
	}
	sel, err := b.executor.Execute(q, idx.Sellers, idx.Customers)
	if err != nil {
		return nil, &model.RecordLoadError{Err: err}
	}
	return &model.Result{
		Total: sel.Total,
		Items: Rows(sel.Items, idx),
		Page:  sel.Page,
		Limit: sel.Limit,
	}, nil
}
