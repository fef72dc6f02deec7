package console

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syntrixbase/salesgrid/internal/data"
	"github.com/syntrixbase/salesgrid/internal/dataset"
	"github.com/syntrixbase/salesgrid/internal/render"
	"github.com/syntrixbase/salesgrid/internal/transform"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

func newShell(t *testing.T, input string, out *bytes.Buffer, ds *dataset.Dataset) *Shell {
	t.Helper()
	store, err := data.NewLocal(ds)
	require.NoError(t, err)

	pipeline := transform.NewPipeline(transform.Config{DefaultLimit: 2, MaxVisiblePages: 5})
	form := NewForm(2)
	renderer := NewTableRenderer(out, form, pipeline.Sorting())
	loop := render.New(form, renderer, store, pipeline, nil)
	return NewShell(strings.NewReader(input), out, form, loop, nil)
}

func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Sellers:   json.RawMessage(`[{"id": 1, "first_name": "Ivan", "last_name": "Petrov"}]`),
		Customers: json.RawMessage(`[{"id": 1, "first_name": "Oleg", "last_name": "Ivanov"}]`),
		Records: []model.Record{
			{ReceiptID: "receipt_1", Date: "2023-04-01", SellerID: "1", CustomerID: "1", TotalAmount: decimal.NewFromInt(300)},
			{ReceiptID: "receipt_2", Date: "2023-04-02", SellerID: "1", CustomerID: "1", TotalAmount: decimal.NewFromInt(100)},
			{ReceiptID: "receipt_3", Date: "2023-04-03", SellerID: "1", CustomerID: "1", TotalAmount: decimal.NewFromInt(200)},
		},
	}
}

func TestShell_Run(t *testing.T) {
	var out bytes.Buffer
	input := strings.Join([]string{
		"sort total",
		"last",
		"seller Nobody",
		"bogus",
		"options",
		"quit",
		"next",
	}, "\n")
	shell := newShell(t, input, &out, sampleDataset())

	require.NoError(t, shell.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "1-2 of 3 | page 1/2 | [1] 2")
	assert.Contains(t, text, "3-3 of 3 | page 2/2 | 1 [2]")
	assert.Contains(t, text, "(no records)")
	assert.Contains(t, text, "error: unknown command: bogus")
	assert.Contains(t, text, "sellers:   Ivan Petrov")
	assert.Equal(t, 1, strings.Count(text, "page 2/2"))
}

func TestShell_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	shell := newShell(t, "", &out, sampleDataset())

	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), "1-2 of 3")
}

func TestShell_ReferenceFailure(t *testing.T) {
	var out bytes.Buffer
	ds := sampleDataset()
	ds.Sellers = json.RawMessage(`[{"id": `)
	shell := newShell(t, "quit\n", &out, ds)

	err := shell.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrReferenceLoad)
	assert.NotContains(t, out.String(), "of 3")
}

func TestShell_ResetClearsSortColumn(t *testing.T) {
	var out bytes.Buffer
	shell := newShell(t, "sort total\nreset\nquit\n", &out, sampleDataset())

	require.NoError(t, shell.Run(context.Background()))

	cycles := strings.Split(out.String(), "> ")
	require.Len(t, cycles, 4)
	sorted, reset := cycles[1], cycles[2]

	assert.Contains(t, sorted, " ^")
	assert.NotContains(t, sorted, "receipt_1")
	assert.NotContains(t, reset, " ^")
	assert.Contains(t, reset, "receipt_1")
}
