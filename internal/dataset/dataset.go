// Package dataset loads a local snapshot of sellers, customers and purchase records.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/syntrixbase/salesgrid/internal/lookup"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// Reference collection names.
const (
	Sellers   = "sellers"
	Customers = "customers"
)

// Dataset is an in-memory snapshot. Sellers and Customers keep their raw JSON
// so that they can be served verbatim and decoded in any admissible shape.
type Dataset struct {
	Sellers   json.RawMessage
	Customers json.RawMessage
	Records   []model.Record
}

type fileFormat struct {
	Sellers         json.RawMessage `json:"sellers"`
	Customers       json.RawMessage `json:"customers"`
	PurchaseRecords []model.Record  `json:"purchase_records"`
	Records         []model.Record  `json:"records"`
}

// Load reads a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a dataset document. Records may be under "purchase_records" or "records".
func Parse(data []byte) (*Dataset, error) {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	records := f.PurchaseRecords
	if records == nil {
		records = f.Records
	}
	return &Dataset{
		Sellers:   f.Sellers,
		Customers: f.Customers,
		Records:   records,
	}, nil
}

// Reference returns the raw JSON of a reference collection. An absent
// collection is an empty array.
func (d *Dataset) Reference(name string) (json.RawMessage, error) {
	var raw json.RawMessage
	switch name {
	case Sellers:
		raw = d.Sellers
	case Customers:
		raw = d.Customers
	default:
		return nil, fmt.Errorf("unknown reference collection %q", name)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("[]"), nil
	}
	return raw, nil
}

// Index decodes a reference collection into a lookup index.
func (d *Dataset) Index(name string) (*lookup.Index, error) {
	raw, err := d.Reference(name)
	if err != nil {
		return nil, err
	}
	return lookup.Decode(raw, name)
}
