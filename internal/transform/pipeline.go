// Package transform composes the records query from UI state and the
// triggering action.
//
// The four transforms run in a fixed order: Sorting, Searching, Filtering,
// Pagination. Pagination runs last because it must see whether the action
// changed the sort, search or filter intent before deciding to reset the page.
package transform

import (
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// Transform composes one piece of query intent. It must not mutate q.
type Transform func(q model.Query, s State, a Action) model.Query

// Pipeline runs the four transforms in order and owns their state.
type Pipeline struct {
	sorting    *Sorting
	pagination *Pagination
}

// NewPipeline creates a pipeline with the default sort field table.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		sorting:    NewSorting(nil),
		pagination: NewPagination(cfg),
	}
}

// Transforms returns the transforms in application order.
func (p *Pipeline) Transforms() []Transform {
	return []Transform{
		p.ApplySorting,
		p.ApplySearching,
		p.ApplyFiltering,
		p.ApplyPagination,
	}
}

// Compose pipes an empty query through every transform.
func (p *Pipeline) Compose(s State, a Action) model.Query {
	q := model.NewQuery()
	for _, t := range p.Transforms() {
		q = t(q, s, a)
	}
	return q
}

// ApplySorting advances the owned sort state and emits the sort parameter.
func (p *Pipeline) ApplySorting(q model.Query, s State, a Action) model.Query {
	return p.sorting.ApplySorting(q, s, a)
}

// ApplySearching emits the free-text search parameter.
func (p *Pipeline) ApplySearching(q model.Query, s State, a Action) model.Query {
	return ApplySearching(q, s, a)
}

// ApplyFiltering emits one filter[<name>] parameter per non-empty filter control.
func (p *Pipeline) ApplyFiltering(q model.Query, s State, a Action) model.Query {
	return ApplyFiltering(q, s, a)
}

// ApplyPagination emits limit and page, resetting to page 1 unless navigating.
func (p *Pipeline) ApplyPagination(q model.Query, s State, a Action) model.Query {
	return p.pagination.ApplyPagination(q, s, a)
}

// UpdatePagination is the post-fetch phase of pagination.
func (p *Pipeline) UpdatePagination(total int, ps PageState) PaginationView {
	return p.pagination.UpdatePagination(total, ps)
}

// Sorting exposes the sort state for rendering column arrows.
func (p *Pipeline) Sorting() *Sorting { return p.sorting }

// Pagination exposes the pagination transform.
func (p *Pipeline) Pagination() *Pagination { return p.pagination }
