package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syntrixbase/salesgrid/pkg/model"
)

func TestPipeline_ComposeFullQuery(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	state := State{
		Search:         "petrov",
		SearchBySeller: "Ivan Petrov",
		TotalFrom:      "100",
		TotalTo:        "200",
		RowsPerPage:    "5",
		Page:           "3",
	}

	q := p.Compose(state, SortAction("total"))

	assert.Equal(t, []model.Param{
		{Key: model.ParamSort, Value: "total_amount:asc"},
		{Key: model.ParamSearch, Value: "petrov"},
		{Key: model.FilterParam(model.FilterSeller), Value: "Ivan Petrov"},
		{Key: model.FilterParam(model.FilterTotalFrom), Value: "100"},
		{Key: model.FilterParam(model.FilterTotalTo), Value: "200"},
		{Key: model.ParamLimit, Value: "5"},
		{Key: model.ParamPage, Value: "1"},
	}, q.Params())
}

func TestPipeline_ComposeIsRepeatable(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	state := State{Search: "x", Page: "2"}

	p.Compose(state, SortAction("date"))
	a := p.Compose(state, Action{})
	b := p.Compose(state, Action{})

	assert.Equal(t, a.Encode(), b.Encode())
	assert.Equal(t, "date:desc", a.Value(model.ParamSort))
	assert.Equal(t, "2", a.Value(model.ParamPage))
}

func TestPipeline_TransformOrder(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	assert.Len(t, p.Transforms(), 4)

	view := p.UpdatePagination(12, PageState{Page: model.LastPage, Limit: 5})
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 3, p.Pagination().PageCount())
	assert.NotNil(t, p.Sorting())
}

func TestPageStateOf(t *testing.T) {
	q := model.NewQuery().With(model.ParamLimit, "5").With(model.ParamPage, "last")
	assert.Equal(t, PageState{Page: model.LastPage, Limit: 5}, PageStateOf(q))
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())

	cfg.DefaultLimit = 0
	assert.Error(t, cfg.Validate())
}
