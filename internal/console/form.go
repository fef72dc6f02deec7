// Package console is a terminal front end for the records table: a form that
// plays the state collector, a tabular renderer and an interactive shell.
package console

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/syntrixbase/salesgrid/internal/render"
	"github.com/syntrixbase/salesgrid/internal/transform"
)

// ErrUnknownCommand is returned for input the form cannot interpret.
var ErrUnknownCommand = errors.New("unknown command")

// filterCommands maps command words to the filter controls they set.
var filterCommands = map[string]string{
	"seller":   transform.FieldSearchBySeller,
	"customer": transform.FieldSearchByCustomer,
	"date":     transform.FieldDate,
	"from":     transform.FieldTotalFrom,
	"to":       transform.FieldTotalTo,
}

// Form holds the value of every control and implements render.StateCollector.
type Form struct {
	values url.Values
}

// NewForm creates a form showing the first page at the given page size.
func NewForm(rowsPerPage int) *Form {
	f := &Form{values: url.Values{}}
	f.Set(transform.FieldRowsPerPage, strconv.Itoa(rowsPerPage))
	f.SetPage(1)
	return f
}

// CollectState returns a copy of the current control values.
func (f *Form) CollectState() url.Values {
	out := make(url.Values, len(f.values))
	for k, v := range f.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Get returns the value of a control.
func (f *Form) Get(field string) string { return f.values.Get(field) }

// Set sets a control. An empty value clears it.
func (f *Form) Set(field, value string) {
	if value == "" {
		f.values.Del(field)
		return
	}
	f.values.Set(field, value)
}

// SetPage selects the page control, as done after each render.
func (f *Form) SetPage(page int) {
	f.values.Set(transform.FieldPage, strconv.Itoa(page))
}

// Reset clears all controls except the page size and returns to page 1.
func (f *Form) Reset() {
	rows := f.Get(transform.FieldRowsPerPage)
	f.values = url.Values{}
	f.Set(transform.FieldRowsPerPage, rows)
	f.SetPage(1)
}

// Apply interprets one command line, updates the controls it touches and
// returns the action it represents. An empty line is a passive re-render.
func (f *Form) Apply(line string) (transform.Action, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return transform.Action{}, nil
	case "sort":
		if arg == "" {
			return transform.Action{}, fmt.Errorf("sort needs a column: id, date, seller, customer or total")
		}
		return transform.SortAction(strings.ToLower(arg)), nil
	case "search":
		f.Set(transform.FieldSearch, arg)
		return transform.SearchAction(arg), nil
	case "first", "prev", "next", "last":
		return transform.PaginateAction(transform.PageOp(cmd), ""), nil
	case "page":
		if _, err := strconv.Atoi(arg); err != nil {
			return transform.Action{}, fmt.Errorf("page needs a number, got %q", arg)
		}
		f.Set(transform.FieldPage, arg)
		return transform.PaginateAction(transform.PageGoto, arg), nil
	case "rows":
		if _, err := strconv.Atoi(arg); err != nil {
			return transform.Action{}, fmt.Errorf("rows needs a number, got %q", arg)
		}
		f.Set(transform.FieldRowsPerPage, arg)
		return transform.PaginateAction(transform.PageRowsPerPage, arg), nil
	case render.RefreshAction:
		return transform.OtherAction(render.RefreshAction), nil
	case render.ResetAction:
		f.Reset()
		return transform.OtherAction(render.ResetAction), nil
	}

	if field, ok := filterCommands[cmd]; ok {
		f.Set(field, arg)
		return transform.FilterAction(field, arg), nil
	}
	return transform.Action{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}
