package transform

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

// Form field names produced by the state collector.
const (
	FieldSearch           = "search"
	FieldSearchBySeller   = "searchBySeller"
	FieldSearchByCustomer = "searchByCustomer"
	FieldDate             = "date"
	FieldTotalFrom        = "totalFrom"
	FieldTotalTo          = "totalTo"
	FieldRowsPerPage      = "rowsPerPage"
	FieldPage             = "page"
)

// State is the value of every interactive control at the moment of the
// triggering action. Values stay strings; transforms coerce them.
type State struct {
	Search           string `schema:"search"`
	SearchBySeller   string `schema:"searchBySeller"`
	SearchByCustomer string `schema:"searchByCustomer"`
	Date             string `schema:"date"`
	TotalFrom        string `schema:"totalFrom"`
	TotalTo          string `schema:"totalTo"`
	RowsPerPage      string `schema:"rowsPerPage"`
	Page             string `schema:"page"`
}

var stateDecoder = newStateDecoder()

func newStateDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// DecodeState decodes collected form values into a State.
func DecodeState(values url.Values) (State, error) {
	var s State
	if err := stateDecoder.Decode(&s, values); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}
