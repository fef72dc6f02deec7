package model

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names understood by the records endpoint.
const (
	ParamSort   = "sort"
	ParamSearch = "search"
	ParamLimit  = "limit"
	ParamPage   = "page"
)

// Filter names, sent as filter[<name>].
const (
	FilterSeller    = "seller"
	FilterCustomer  = "customer"
	FilterDate      = "date"
	FilterTotalFrom = "totalFrom"
	FilterTotalTo   = "totalTo"
)

// DefaultLimit is the page size used when none is requested.
const DefaultLimit = 10

// FilterParam returns the query key for a named filter.
func FilterParam(name string) string {
	return "filter[" + name + "]"
}

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered set of query parameters. It is immutable: every
// mutator returns a new Query and leaves the receiver untouched.
type Query struct {
	params []Param
}

// NewQuery builds a query from params in the given order. Later duplicates replace earlier ones.
func NewQuery(params ...Param) Query {
	var q Query
	for _, p := range params {
		q = q.With(p.Key, p.Value)
	}
	return q
}

// QueryFromValues builds a query from url.Values, keeping the first value of
// each key. Keys are added in sorted order.
func QueryFromValues(values url.Values) Query {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]Param, 0, len(keys))
	for _, k := range keys {
		if vs := values[k]; len(vs) > 0 {
			params = append(params, Param{Key: k, Value: vs[0]})
		}
	}
	return Query{params: params}
}

// With returns a copy of q with key set to value. An existing key keeps its position.
func (q Query) With(key, value string) Query {
	params := make([]Param, len(q.params), len(q.params)+1)
	copy(params, q.params)
	for i := range params {
		if params[i].Key == key {
			params[i].Value = value
			return Query{params: params}
		}
	}
	return Query{params: append(params, Param{Key: key, Value: value})}
}

// Get returns the value for key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" when absent.
func (q Query) Value(key string) string {
	v, _ := q.Get(key)
	return v
}

// Has reports whether key is present.
func (q Query) Has(key string) bool {
	_, ok := q.Get(key)
	return ok
}

// Len returns the number of parameters.
func (q Query) Len() int { return len(q.params) }

// Params returns a copy of the parameters in insertion order.
func (q Query) Params() []Param {
	out := make([]Param, len(q.params))
	copy(out, q.params)
	return out
}

// Values converts q to url.Values.
func (q Query) Values() url.Values {
	values := make(url.Values, len(q.params))
	for _, p := range q.params {
		values.Set(p.Key, p.Value)
	}
	return values
}

// Encode serializes q deterministically: keys sorted, URL-encoded. Two
// queries with the same parameters encode identically regardless of order.
func (q Query) Encode() string {
	return q.Values().Encode()
}

func (q Query) String() string { return q.Encode() }

// Filter returns the value of filter[name].
func (q Query) Filter(name string) string {
	return q.Value(FilterParam(name))
}

// Search returns the free-text search value.
func (q Query) Search() string {
	return q.Value(ParamSearch)
}

// Limit returns the requested page size, coerced to at least 1.
func (q Query) Limit() int {
	return ParsePositive(q.Value(ParamLimit), DefaultLimit)
}

// Page returns the requested page.
func (q Query) Page() PageRequest {
	return ParsePageRequest(q.Value(ParamPage))
}

// Sort returns the API sort field and order. ok is false when no valid sort is present.
func (q Query) Sort() (field string, order SortOrder, ok bool) {
	raw := q.Value(ParamSort)
	if raw == "" {
		return "", "", false
	}
	idx := strings.LastIndex(raw, ":")
	if idx <= 0 {
		return "", "", false
	}
	field, order = raw[:idx], SortOrder(raw[idx+1:])
	if !order.IsValid() {
		return "", "", false
	}
	return field, order, true
}

// ParsePositive parses s as an integer of at least 1. Empty or unparsable
// input yields def; values below 1 yield 1.
func ParsePositive(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def
		}
		if f > math.MaxInt32 {
			f = math.MaxInt32
		}
		n = int(f)
	}
	if n < 1 {
		return 1
	}
	return n
}
