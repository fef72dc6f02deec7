package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "sellers": [{"id": "seller_1", "first_name": "Ivan", "last_name": "Petrov"}],
  "customers": {"customer_1": "Anna Sidorova"},
  "purchase_records": [
    {"receipt_id": "receipt_1", "date": "2023-04-01", "seller_id": "seller_1", "customer_id": "customer_1", "total_amount": 150.5}
  ]
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "receipt_1", ds.Records[0].ReceiptID.String())
	assert.Equal(t, "150.5", ds.Records[0].TotalAmount.String())

	sellers, err := ds.Index(Sellers)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", sellers.Name("seller_1"))

	customers, err := ds.Index(Customers)
	require.NoError(t, err)
	assert.Equal(t, "Anna Sidorova", customers.Name("customer_1"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParse_RecordsKeyAndEmptyReferences(t *testing.T) {
	ds, err := Parse([]byte(`{"records": [{"receipt_id": 7, "date": "2023-01-02", "seller_id": 1, "customer_id": 2, "total_amount": "10"}]}`))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "7", ds.Records[0].ReceiptID.String())

	raw, err := ds.Reference(Sellers)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	_, err = ds.Reference("products")
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"records": [`))
	assert.Error(t, err)
}
