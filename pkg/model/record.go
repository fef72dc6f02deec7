package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SortOrder is the sort direction understood by the records endpoint.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid checks if the order is asc or desc.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Reverse returns the opposite order.
func (o SortOrder) Reverse() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Record is a raw purchase record as stored by the records endpoint.
type Record struct {
	ReceiptID   ID              `json:"receipt_id"`
	Date        string          `json:"date"`
	SellerID    ID              `json:"seller_id"`
	CustomerID  ID              `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Row is the display projection of a Record with names resolved.
type Row struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Seller   string `json:"seller"`
	Customer string `json:"customer"`
	Total    string `json:"total"`
}

// Result is a resolved page of rows.
type Result struct {
	Total int   `json:"total"`
	Items []Row `json:"items"`
	// Page is the page actually served after resolving "last" and clamping.
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// FormatAmount renders an amount the way it is displayed and searched.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}

// ID is an identifier that may arrive as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }
