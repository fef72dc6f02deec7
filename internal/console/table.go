package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/syntrixbase/salesgrid/internal/transform"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

var columns = []struct {
	field  string
	header string
}{
	{"id", "ID"},
	{"date", "DATE"},
	{"seller", "SELLER"},
	{"customer", "CUSTOMER"},
	{"total", "TOTAL"},
}

// TableRenderer prints rows and a pagination footer. It implements render.Renderer.
type TableRenderer struct {
	w       io.Writer
	form    *Form
	sorting *transform.Sorting
}

// NewTableRenderer creates a renderer writing to w. After each render the
// served page is written back into form. sorting may be nil.
func NewTableRenderer(w io.Writer, form *Form, sorting *transform.Sorting) *TableRenderer {
	return &TableRenderer{w: w, form: form, sorting: sorting}
}

// Render prints one page.
func (r *TableRenderer) Render(rows []model.Row, view transform.PaginationView) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)

	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, c.header+r.arrow(c.field))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.ID, row.Date, row.Seller, row.Customer, row.Total)
	}
	if len(rows) == 0 {
		fmt.Fprintln(tw, "(no records)")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(r.w, footer(view)); err != nil {
		return err
	}

	if r.form != nil {
		r.form.SetPage(view.Page)
	}
	return nil
}

func (r *TableRenderer) arrow(field string) string {
	if r.sorting == nil {
		return ""
	}
	switch r.sorting.Direction(field) {
	case transform.SortUp:
		return " ^"
	case transform.SortDown:
		return " v"
	default:
		return ""
	}
}

func footer(view transform.PaginationView) string {
	pages := make([]string, 0, len(view.Pages))
	for _, p := range view.Pages {
		if p == view.Page {
			pages = append(pages, "["+strconv.Itoa(p)+"]")
		} else {
			pages = append(pages, strconv.Itoa(p))
		}
	}
	return fmt.Sprintf("%d-%d of %d | page %d/%d | %s",
		view.Start, view.End, view.Total, view.Page, view.PageCount, strings.Join(pages, " "))
}
