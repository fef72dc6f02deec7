package api

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/syntrixbase/salesgrid/pkg/model"
)

// RecordsParams are the query parameters of GET /records. Values are passed
// to the executor untouched; it coerces bad numbers the same way local mode does.
type RecordsParams struct {
	Sort      string `schema:"sort"`
	Search    string `schema:"search"`
	Seller    string `schema:"filter[seller]"`
	Customer  string `schema:"filter[customer]"`
	Date      string `schema:"filter[date]"`
	TotalFrom string `schema:"filter[totalFrom]"`
	TotalTo   string `schema:"filter[totalTo]"`
	Limit     string `schema:"limit"`
	Page      string `schema:"page"`
}

// Query converts the parameters to a query, omitting empty ones.
func (p RecordsParams) Query() model.Query {
	q := model.NewQuery()
	for _, kv := range []model.Param{
		{Key: model.ParamSort, Value: p.Sort},
		{Key: model.ParamSearch, Value: p.Search},
		{Key: model.FilterParam(model.FilterSeller), Value: p.Seller},
		{Key: model.FilterParam(model.FilterCustomer), Value: p.Customer},
		{Key: model.FilterParam(model.FilterDate), Value: p.Date},
		{Key: model.FilterParam(model.FilterTotalFrom), Value: p.TotalFrom},
		{Key: model.FilterParam(model.FilterTotalTo), Value: p.TotalTo},
		{Key: model.ParamLimit, Value: p.Limit},
		{Key: model.ParamPage, Value: p.Page},
	} {
		if kv.Value != "" {
			q = q.With(kv.Key, kv.Value)
		}
	}
	return q
}

// RecordsResponse is the body of GET /records.
type RecordsResponse struct {
	Items []model.Record `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// decodeRecordsParams decodes the records query string.
func decodeRecordsParams(values url.Values) (RecordsParams, error) {
	var p RecordsParams
	if err := decoder.Decode(&p, values); err != nil {
		return RecordsParams{}, fmt.Errorf("%w: %v", model.ErrInvalidQuery, err)
	}
	return p, nil
}
