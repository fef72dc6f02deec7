package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/syntrixbase/salesgrid/internal/dataset"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// fixture has twelve records with totals 101..200 (step 9, descending in input
// order) dated 2023-04-01..12, alternating between two sellers, and four
// out-of-range records dated in May.
func fixture() *dataset.Dataset {
	var records []model.Record
	for i := 0; i < 12; i++ {
		records = append(records, model.Record{
			ReceiptID:   model.ID(fmt.Sprintf("receipt_%d", i+1)),
			Date:        fmt.Sprintf("2023-04-%02d", i+1),
			SellerID:    model.ID(fmt.Sprintf("seller_%d", i%2+1)),
			CustomerID:  model.ID(fmt.Sprintf("customer_%d", i%3+1)),
			TotalAmount: decimal.NewFromInt(int64(200 - i*9)),
		})
	}
	for i, amount := range []string{"99.99", "200.01", "50", "300"} {
		records = append(records, model.Record{
			ReceiptID:   model.ID(fmt.Sprintf("receipt_%d", 13+i)),
			Date:        fmt.Sprintf("2023-05-%02d", i+1),
			SellerID:    "seller_1",
			CustomerID:  "customer_1",
			TotalAmount: decimal.RequireFromString(amount),
		})
	}
	return &dataset.Dataset{
		Sellers: json.RawMessage(`[
			{"id": "seller_1", "first_name": "Ivan", "last_name": "Petrov"},
			{"id": "seller_2", "first_name": "Anna", "last_name": "Sidorova"}
		]`),
		Customers: json.RawMessage(`{"customers": {
			"customer_1": "Oleg Ivanov",
			"customer_2": "Maria Smirnova",
			"customer_3": "Петр Сидоров"
		}}`),
		Records: records,
	}
}

func fixtureIndexes(t *testing.T, ds *dataset.Dataset) Indexes {
	t.Helper()
	sellers, err := ds.Index(dataset.Sellers)
	require.NoError(t, err)
	customers, err := ds.Index(dataset.Customers)
	require.NoError(t, err)
	return Indexes{Sellers: sellers, Customers: customers}
}

// apiServer serves a dataset the way the records API does and counts hits per path.
type apiServer struct {
	*httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	status map[string]int
}

func newAPIServer(t *testing.T, ds *dataset.Dataset) *apiServer {
	t.Helper()
	exec, err := NewExecutor(ds.Records)
	require.NoError(t, err)
	idx := fixtureIndexes(t, ds)

	s := &apiServer{hits: make(map[string]int), status: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		status := s.status[r.URL.Path]
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sellers":
			_, _ = w.Write(ds.Sellers)
		case "/customers":
			_, _ = w.Write(ds.Customers)
		case "/records":
			// Serve numbered pages only, like a plain API would.
			q := model.QueryFromValues(r.URL.Query())
			page := model.ParsePositive(q.Value(model.ParamPage), 1)
			sel, err := exec.Execute(q, idx.Sellers, idx.Customers)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			items := sel.Items
			if sel.Page != page {
				items = []model.Record{}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": sel.Total})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *apiServer) fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = status
}

func totals(items []model.Record) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.TotalAmount.String())
	}
	return out
}

