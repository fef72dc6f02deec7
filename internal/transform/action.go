package transform

import (
	"strings"
)

// ActionKind identifies which family of control triggered a render cycle.
type ActionKind int

const (
	// ActionNone is a passive re-render with no triggering control.
	ActionNone ActionKind = iota
	ActionSort
	ActionSearch
	ActionFilter
	ActionPaginate
	ActionOther
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionSort:
		return "sort"
	case ActionSearch:
		return "search"
	case ActionFilter:
		return "filter"
	case ActionPaginate:
		return "paginate"
	default:
		return "other"
	}
}

// PageOp is a pagination navigation operation.
type PageOp string

const (
	PageFirst       PageOp = "first"
	PagePrev        PageOp = "prev"
	PageNext        PageOp = "next"
	PageLast        PageOp = "last"
	PageGoto        PageOp = "page"
	PageRowsPerPage PageOp = "rowsPerPage"
)

// Action is the control that caused the current render cycle. The zero value
// is a passive re-render. Build values with the constructors below.
type Action struct {
	Kind ActionKind
	// Name is the sort field, filter name or control name.
	Name string
	// Value carries the search text, filter value, target page or rows per page.
	Value string
	Op    PageOp
}

// SortAction toggles the sort direction of a column.
func SortAction(field string) Action {
	return Action{Kind: ActionSort, Name: field}
}

// SearchAction reports a change of the global search field.
func SearchAction(text string) Action {
	return Action{Kind: ActionSearch, Name: FieldSearch, Value: text}
}

// FilterAction reports a change of a filter control.
func FilterAction(name, value string) Action {
	return Action{Kind: ActionFilter, Name: name, Value: value}
}

// PaginateAction is a navigation control. value is the target page for
// PageGoto and the new page size for PageRowsPerPage.
func PaginateAction(op PageOp, value string) Action {
	return Action{Kind: ActionPaginate, Name: string(op), Op: op, Value: value}
}

// OtherAction is any control that none of the transforms own, such as reset.
func OtherAction(name string) Action {
	return Action{Kind: ActionOther, Name: name}
}

// IsNone reports whether this is a passive re-render.
func (a Action) IsNone() bool { return a.Kind == ActionNone }

func (a Action) String() string {
	if a.Name == "" {
		return a.Kind.String()
	}
	return a.Kind.String() + ":" + a.Name
}

// ParseAction maps a control name and value, as the boundary layer sees them,
// to an Action. Sort controls are named "sort:<field>".
func ParseAction(name, value string) Action {
	switch {
	case name == "":
		return Action{}
	case strings.HasPrefix(name, "sort:"):
		return SortAction(strings.TrimPrefix(name, "sort:"))
	case name == "sort":
		return SortAction(value)
	case name == FieldSearch:
		return SearchAction(value)
	}

	switch PageOp(name) {
	case PageFirst, PagePrev, PageNext, PageLast, PageGoto, PageRowsPerPage:
		return PaginateAction(PageOp(name), value)
	}

	if _, ok := filterFields[name]; ok {
		return FilterAction(name, value)
	}
	return OtherAction(name)
}
