package transform

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/syntrixbase/salesgrid/pkg/model"
)

// filterFields maps filter controls to the filter names they emit.
var filterFields = map[string]string{
	FieldSearchBySeller:   model.FilterSeller,
	FieldSearchByCustomer: model.FilterCustomer,
	FieldDate:             model.FilterDate,
	FieldTotalFrom:        model.FilterTotalFrom,
	FieldTotalTo:          model.FilterTotalTo,
}

// ApplyFiltering emits one filter[<name>] parameter per non-empty filter
// control. Seller and customer filters carry display names. Amount bounds
// that do not parse as numbers are dropped.
func ApplyFiltering(q model.Query, s State, _ Action) model.Query {
	if v := strings.TrimSpace(s.SearchBySeller); v != "" {
		q = q.With(model.FilterParam(model.FilterSeller), v)
	}
	if v := strings.TrimSpace(s.SearchByCustomer); v != "" {
		q = q.With(model.FilterParam(model.FilterCustomer), v)
	}
	if v := strings.TrimSpace(s.Date); v != "" {
		q = q.With(model.FilterParam(model.FilterDate), v)
	}
	if d, ok := ParseAmount(s.TotalFrom); ok {
		q = q.With(model.FilterParam(model.FilterTotalFrom), d.String())
	}
	if d, ok := ParseAmount(s.TotalTo); ok {
		q = q.With(model.FilterParam(model.FilterTotalTo), d.String())
	}
	return q
}

// ParseAmount parses a user-entered amount. A comma decimal separator is accepted.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
