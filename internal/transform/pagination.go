package transform

import (
	"strconv"

	"github.com/syntrixbase/salesgrid/pkg/model"
)

// PageState is the page and limit a query asked for.
type PageState struct {
	Page  model.PageRequest
	Limit int
}

// PageStateOf reads the page and limit from a composed query.
func PageStateOf(q model.Query) PageState {
	return PageState{Page: q.Page(), Limit: q.Limit()}
}

// PaginationView is the pagination display state after a fetch.
type PaginationView struct {
	Page      int
	Limit     int
	PageCount int
	Total     int
	// Start and End are the 1-based visible row range; both 0 when Total is 0.
	Start int
	End   int
	// Pages are the page numbers to show as buttons.
	Pages []int
}

// Pagination tracks page and limit. It remembers the page count of the last
// update so that "next" cannot run past the end. Not safe for concurrent use.
type Pagination struct {
	defaultLimit    int
	maxVisiblePages int
	pageCount       int
}

// NewPagination creates a Pagination transform.
func NewPagination(cfg Config) *Pagination {
	cfg.ApplyDefaults()
	return &Pagination{
		defaultLimit:    cfg.DefaultLimit,
		maxVisiblePages: cfg.MaxVisiblePages,
	}
}

// PageCount returns the page count of the last update, or 0 before the first one.
func (p *Pagination) PageCount() int { return p.pageCount }

// ApplyPagination sets limit and page. A passive re-render keeps the
// collected page; any action that is not pagination navigation resets it to 1.
// A request for the last page stays symbolic until UpdatePagination.
func (p *Pagination) ApplyPagination(q model.Query, s State, a Action) model.Query {
	limit := model.ParsePositive(s.RowsPerPage, p.defaultLimit)
	page := model.Page(model.ParsePositive(s.Page, 1))

	switch a.Kind {
	case ActionNone:
	case ActionPaginate:
		switch a.Op {
		case PageFirst:
			page = model.FirstPage
		case PagePrev:
			page = model.Page(page.Number - 1)
		case PageNext:
			page = model.Page(page.Number + 1)
			if p.pageCount > 0 && page.Number > p.pageCount {
				page = model.Page(p.pageCount)
			}
		case PageLast:
			page = model.LastPage
		case PageGoto:
			page = model.Page(model.ParsePositive(a.Value, 1))
		case PageRowsPerPage:
			limit = model.ParsePositive(a.Value, limit)
			page = model.FirstPage
		}
	default:
		page = model.FirstPage
	}

	return q.
		With(model.ParamLimit, strconv.Itoa(limit)).
		With(model.ParamPage, page.String())
}

// UpdatePagination recomputes page metadata once the total is known. It
// resolves a request for the last page and clamps the page to [1, pageCount].
func (p *Pagination) UpdatePagination(total int, ps PageState) PaginationView {
	limit := ps.Limit
	if limit < 1 {
		limit = p.defaultLimit
	}
	if total < 0 {
		total = 0
	}

	pageCount := model.PageCount(total, limit)
	p.pageCount = pageCount
	page := ps.Page.Resolve(pageCount)

	view := PaginationView{
		Page:      page,
		Limit:     limit,
		PageCount: pageCount,
		Total:     total,
		Pages:     VisiblePages(page, pageCount, p.maxVisiblePages),
	}
	if total > 0 {
		view.Start = (page-1)*limit + 1
		view.End = min(total, page*limit)
	}
	return view
}

// VisiblePages returns at most budget consecutive page numbers within
// [1, pageCount], centered as closely as possible on current.
func VisiblePages(current, pageCount, budget int) []int {
	if pageCount < 1 {
		pageCount = 1
	}
	if budget < 1 {
		budget = 1
	}
	budget = min(budget, pageCount)
	current = max(1, min(current, pageCount))

	start := max(1, current-budget/2)
	end := start + budget - 1
	if end > pageCount {
		end = pageCount
		start = max(1, end-budget+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
