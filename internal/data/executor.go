package data

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/syntrixbase/salesgrid/internal/lookup"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// Selection is one page of raw records chosen by a query.
type Selection struct {
	Items []model.Record
	// Total is the number of matching records before pagination.
	Total int
	Page  int
	Limit int
}

// Executor runs queries over an in-memory record set: filter, search, stable
// sort, then paginate. It is the canonical query semantics shared by local
// mode and the records API server. Safe for concurrent use.
type Executor struct {
	records  []model.Record
	compiler *Compiler
}

// NewExecutor creates an executor over records. The slice is not copied and must not be modified.
func NewExecutor(records []model.Record) (*Executor, error) {
	compiler, err := NewCompiler()
	if err != nil {
		return nil, err
	}
	return &Executor{records: records, compiler: compiler}, nil
}

// Execute resolves q. The served page is the requested page clamped to
// [1, pageCount]; a request for the last page resolves to pageCount.
func (e *Executor) Execute(q model.Query, sellers, customers *lookup.Index) (*Selection, error) {
	pred, err := e.compiler.Compile(q, sellers, customers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidQuery, err)
	}

	matched := make([]int, 0, len(e.records))
	for i, rec := range e.records {
		ok, err := pred.Match(document(rec, sellers, customers))
		if err != nil {
			return nil, fmt.Errorf("evaluate record %s: %w", rec.ReceiptID, err)
		}
		if ok {
			matched = append(matched, i)
		}
	}

	total := len(matched)
	limit := q.Limit()
	page := q.Page().Resolve(model.PageCount(total, limit))
	offset := (page - 1) * limit

	sel := &Selection{
		Items: make([]model.Record, 0, min(limit, total)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	if offset >= total {
		return sel, nil
	}

	field, order, sorted := q.Sort()
	key, known := sortKeys[field]
	if !sorted || !known {
		for _, pos := range matched[offset:min(total, offset+limit)] {
			sel.Items = append(sel.Items, e.records[pos])
		}
		return sel, nil
	}

	tree := btree.NewG[sortItem](32, lessFunc(key.numeric, order == model.SortDesc))
	for _, pos := range matched {
		item := key.extract(e.records[pos], sellers, customers)
		item.pos = pos
		tree.ReplaceOrInsert(item)
	}

	skipped := 0
	tree.Ascend(func(item sortItem) bool {
		if skipped < offset {
			skipped++
			return true
		}
		sel.Items = append(sel.Items, e.records[item.pos])
		return len(sel.Items) < limit
	})
	return sel, nil
}

// sortItem is a matched record keyed for ordering. pos is its position in
// the record set and breaks ties so that equal keys keep their input order.
type sortItem struct {
	pos    int
	text   string
	amount decimal.Decimal
}

type sortKey struct {
	extract func(rec model.Record, sellers, customers *lookup.Index) sortItem
	// numeric compares amount instead of text.
	numeric bool
}

// sortKeys are the API sort fields the executor understands. Sorting by any
// other field keeps the input order.
var sortKeys = map[string]sortKey{
	"receipt_id": {extract: func(r model.Record, _, _ *lookup.Index) sortItem {
		return sortItem{text: r.ReceiptID.String()}
	}},
	"date": {extract: func(r model.Record, _, _ *lookup.Index) sortItem {
		return sortItem{text: r.Date}
	}},
	"seller": {extract: func(r model.Record, sellers, _ *lookup.Index) sortItem {
		return sortItem{text: sellers.Name(r.SellerID.String())}
	}},
	"customer": {extract: func(r model.Record, _, customers *lookup.Index) sortItem {
		return sortItem{text: customers.Name(r.CustomerID.String())}
	}},
	"total_amount": {numeric: true, extract: func(r model.Record, _, _ *lookup.Index) sortItem {
		return sortItem{amount: r.TotalAmount}
	}},
}

// lessFunc orders items by key, then by input position in both directions.
func lessFunc(numeric, desc bool) btree.LessFunc[sortItem] {
	return func(a, b sortItem) bool {
		var c int
		if numeric {
			c = a.amount.Cmp(b.amount)
		} else {
			c = compareText(a.text, b.text)
		}
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.pos < b.pos
	}
}

// compareText is a natural order: keys are split into runs of digits and
// runs of anything else, compared run by run. Digit runs compare by value and
// sort before text runs; text runs compare bytewise. So receipt_2 sorts
// before receipt_10 and 2 before 10. Equal values with different leading
// zeros fall back to the raw runs, keeping the order total.
func compareText(a, b string) int {
	for a != "" && b != "" {
		ra, da := nextRun(a)
		rb, db := nextRun(b)
		a, b = a[len(ra):], b[len(rb):]

		var c int
		switch {
		case da && db:
			c = compareDigits(ra, rb)
		case da:
			c = -1
		case db:
			c = 1
		default:
			c = strings.Compare(ra, rb)
		}
		if c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// nextRun returns the leading run of s and whether it is digits.
func nextRun(s string) (string, bool) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], digit
}

func compareDigits(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(ta), len(tb)); c != 0 {
		return c
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
