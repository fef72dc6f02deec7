package render

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/syntrixbase/salesgrid/internal/data"
	"github.com/syntrixbase/salesgrid/internal/lookup"
	"github.com/syntrixbase/salesgrid/internal/transform"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

type MockCollector struct {
	mock.Mock
}

func (m *MockCollector) CollectState() url.Values {
	args := m.Called()
	return args.Get(0).(url.Values)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(rows []model.Row, view transform.PaginationView) error {
	args := m.Called(rows, view)
	return args.Error(0)
}

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Indexes(ctx context.Context) (data.Indexes, error) {
	args := m.Called(ctx)
	return args.Get(0).(data.Indexes), args.Error(1)
}

func (m *MockRecordService) Records(ctx context.Context, q model.Query, forceRefresh bool) (*model.Result, error) {
	args := m.Called(ctx, q, forceRefresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Result), args.Error(1)
}

func (m *MockRecordService) InvalidateIndexes() {
	m.Called()
}

func queryIs(encoded string) interface{} {
	return mock.MatchedBy(func(q model.Query) bool { return q.Encode() == encoded })
}

func newLoop(collector *MockCollector, renderer *MockRenderer, records *MockRecordService) *Loop {
	return New(collector, renderer, records, transform.NewPipeline(transform.DefaultConfig()), nil)
}

func TestLoop_Render(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{
		"totalFrom":   {"100"},
		"totalTo":     {"200"},
		"rowsPerPage": {"5"},
		"page":        {"2"},
	})

	expected := model.NewQuery(
		model.Param{Key: model.ParamSort, Value: "total_amount:asc"},
		model.Param{Key: model.FilterParam(model.FilterTotalFrom), Value: "100"},
		model.Param{Key: model.FilterParam(model.FilterTotalTo), Value: "200"},
		model.Param{Key: model.ParamLimit, Value: "5"},
		model.Param{Key: model.ParamPage, Value: "1"},
	).Encode()
	rows := []model.Row{{ID: "receipt_12", Total: "101"}}
	records.On("Records", mock.Anything, queryIs(expected), false).
		Return(&model.Result{Total: 12, Items: rows, Page: 1, Limit: 5}, nil)
	renderer.On("Render", rows, mock.MatchedBy(func(v transform.PaginationView) bool {
		return v.Page == 1 && v.PageCount == 3 && v.Start == 1 && v.End == 5
	})).Return(nil)

	view, err := loop.Render(context.Background(), transform.SortAction("total"))
	require.NoError(t, err)
	assert.Equal(t, 12, view.Total)
	assert.Equal(t, []int{1, 2, 3}, view.Pages)

	collector.AssertExpectations(t)
	records.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestLoop_RenderErrorSkipsRenderer(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{})
	loadErr := &model.RecordLoadError{StatusCode: 500, Err: errors.New("boom")}
	records.On("Records", mock.Anything, mock.Anything, false).Return(nil, loadErr)

	_, err := loop.Render(context.Background(), transform.Action{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRecordLoad)
	renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "InvalidateIndexes")
}

func TestLoop_RefreshForcesRefetch(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{"page": {"2"}})
	invalidate := records.On("InvalidateIndexes").Return().Once()
	records.On("Records", mock.Anything, mock.Anything, true).
		Return(&model.Result{Total: 0, Items: []model.Row{}, Page: 1, Limit: 10}, nil).
		NotBefore(invalidate)
	renderer.On("Render", []model.Row{}, mock.Anything).Return(nil)

	view, err := loop.Render(context.Background(), transform.OtherAction(RefreshAction))
	require.NoError(t, err)
	assert.Equal(t, 0, view.Start)
	assert.Equal(t, 0, view.End)
	assert.Equal(t, 1, view.PageCount)
	records.AssertExpectations(t)
}

func TestLoop_LastPageUsesServedPage(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{"rowsPerPage": {"5"}})
	records.On("Records", mock.Anything, mock.MatchedBy(func(q model.Query) bool {
		return q.Page() == model.LastPage
	}), false).Return(&model.Result{Total: 12, Items: []model.Row{{ID: "a"}, {ID: "b"}}, Page: 3, Limit: 5}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return(nil)

	view, err := loop.Render(context.Background(), transform.PaginateAction(transform.PageLast, ""))
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 11, view.Start)
	assert.Equal(t, 12, view.End)
}

func TestLoop_SortPersistsAcrossCycles(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{})
	var sorts []string
	records.On("Records", mock.Anything, mock.Anything, false).
		Run(func(args mock.Arguments) {
			sorts = append(sorts, args.Get(1).(model.Query).Value(model.ParamSort))
		}).
		Return(&model.Result{Items: []model.Row{}, Page: 1, Limit: 10}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	for _, a := range []transform.Action{
		transform.SortAction("date"),
		{},
		transform.SortAction("date"),
		transform.SortAction("date"),
	} {
		_, err := loop.Render(ctx, a)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"date:desc", "date:desc", "date:asc", ""}, sorts)
}

func TestLoop_RendererError(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{})
	records.On("Records", mock.Anything, mock.Anything, false).
		Return(&model.Result{Items: []model.Row{}, Page: 1, Limit: 10}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return(errors.New("closed pipe"))

	_, err := loop.Render(context.Background(), transform.Action{})
	assert.ErrorContains(t, err, "closed pipe")
}

func TestLoop_Init(t *testing.T) {
	records := new(MockRecordService)
	loop := newLoop(new(MockCollector), new(MockRenderer), records)

	records.On("Indexes", mock.Anything).Return(data.Indexes{
		Sellers:   lookup.NewIndex(map[string]string{"2": "Ivan Petrov", "1": "Anna Sidorova"}),
		Customers: lookup.NewIndex(map[string]string{"c": "Oleg Ivanov"}),
	}, nil).Once()
	opts, err := loop.Init(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna Sidorova", "Ivan Petrov"}, opts.Sellers)
	assert.Equal(t, []string{"Oleg Ivanov"}, opts.Customers)

	records.On("Indexes", mock.Anything).Return(data.Indexes{}, &model.ReferenceLoadError{Collection: "sellers", Err: errors.New("down")})
	_, err = loop.Init(context.Background())
	assert.ErrorIs(t, err, model.ErrReferenceLoad)
}

func TestLoop_ResetClearsSort(t *testing.T) {
	collector := new(MockCollector)
	renderer := new(MockRenderer)
	records := new(MockRecordService)
	loop := newLoop(collector, renderer, records)

	collector.On("CollectState").Return(url.Values{})
	var sorts []string
	records.On("Records", mock.Anything, mock.Anything, false).
		Run(func(args mock.Arguments) {
			sorts = append(sorts, args.Get(1).(model.Query).Value(model.ParamSort))
		}).
		Return(&model.Result{Items: []model.Row{}, Page: 1, Limit: 10}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	_, err := loop.Render(ctx, transform.SortAction("total"))
	require.NoError(t, err)
	_, err = loop.Render(ctx, transform.OtherAction(ResetAction))
	require.NoError(t, err)

	assert.Equal(t, []string{"total_amount:asc", ""}, sorts)
	assert.False(t, loop.Pipeline().Sorting().State().Active())
	records.AssertNotCalled(t, "InvalidateIndexes")
}

func TestLoop_RefreshReloadsIndexes(t *testing.T) {
	var sellerLoads atomic.Int32
	var sellerName atomic.Value
	sellerName.Store("Ivan Petrov")
	mux := http.NewServeMux()
	mux.HandleFunc("/sellers", func(w http.ResponseWriter, _ *http.Request) {
		sellerLoads.Add(1)
		fmt.Fprintf(w, `{"1": %q}`, sellerName.Load().(string))
	})
	mux.HandleFunc("/customers", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/records", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items":[{"receipt_id":1,"date":"2023-04-01","seller_id":1,"customer_id":1,"total_amount":10}],"total":1}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store, err := data.NewRemote(data.NewClient(ts.URL, time.Second))
	require.NoError(t, err)

	collector := new(MockCollector)
	collector.On("CollectState").Return(url.Values{})
	renderer := new(MockRenderer)
	var sellers []string
	renderer.On("Render", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sellers = append(sellers, args.Get(0).([]model.Row)[0].Seller)
		}).
		Return(nil)
	loop := New(collector, renderer, store, transform.NewPipeline(transform.DefaultConfig()), nil)

	ctx := context.Background()
	_, err = loop.Render(ctx, transform.Action{})
	require.NoError(t, err)
	_, err = loop.Render(ctx, transform.SortAction("total"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), sellerLoads.Load())

	sellerName.Store("Ivan Petrov-Vodkin")
	_, err = loop.Render(ctx, transform.OtherAction(RefreshAction))
	require.NoError(t, err)

	assert.Equal(t, int32(2), sellerLoads.Load())
	assert.Equal(t, []string{"Ivan Petrov", "Ivan Petrov", "Ivan Petrov-Vodkin"}, sellers)
}
