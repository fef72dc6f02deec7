package data

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/shopspring/decimal"

	"github.com/syntrixbase/salesgrid/internal/lookup"
	"github.com/syntrixbase/salesgrid/internal/transform"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// Compiler turns the filter and search parameters of a query into a CEL
// program over a record document. Values are bound through the params
// variable, never spliced into the expression text.
type Compiler struct {
	env *cel.Env
}

// NewCompiler creates a compiler with the doc and params variables and the
// cmpAmount function declared.
func NewCompiler() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("params", cel.MapType(cel.StringType, cel.DynType)),
		cel.Function("cmpAmount",
			cel.Overload("cmpAmount_string_string",
				[]*cel.Type{cel.StringType, cel.StringType},
				cel.IntType,
				cel.BinaryBinding(cmpAmount),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("CEL environment error: %w", err)
	}
	return &Compiler{env: env}, nil
}

// Predicate is a compiled record predicate. A nil program matches everything.
type Predicate struct {
	Expr   string
	prg    cel.Program
	params map[string]any
}

// Compile builds the predicate for q. A seller or customer filter naming no
// known entity compiles to a predicate that matches nothing.
func (c *Compiler) Compile(q model.Query, sellers, customers *lookup.Index) (*Predicate, error) {
	var clauses []string
	params := make(map[string]any)

	if name := q.Filter(model.FilterSeller); name != "" {
		if id, ok := sellers.ID(name); ok {
			clauses = append(clauses, "doc.seller_id == params.seller_id")
			params["seller_id"] = id
		} else {
			clauses = append(clauses, "false")
		}
	}
	if name := q.Filter(model.FilterCustomer); name != "" {
		if id, ok := customers.ID(name); ok {
			clauses = append(clauses, "doc.customer_id == params.customer_id")
			params["customer_id"] = id
		} else {
			clauses = append(clauses, "false")
		}
	}
	if date := q.Filter(model.FilterDate); date != "" {
		clauses = append(clauses, "doc.date.contains(params.date)")
		params["date"] = date
	}
	if from, ok := transform.ParseAmount(q.Filter(model.FilterTotalFrom)); ok {
		clauses = append(clauses, "cmpAmount(doc.total, params.total_from) >= 0")
		params["total_from"] = from.String()
	}
	if to, ok := transform.ParseAmount(q.Filter(model.FilterTotalTo)); ok {
		clauses = append(clauses, "cmpAmount(doc.total, params.total_to) <= 0")
		params["total_to"] = to.String()
	}
	if text := strings.TrimSpace(q.Search()); text != "" {
		clauses = append(clauses,
			"[doc.date, doc.seller, doc.customer, doc.total].exists(f, f.matches(params.search))")
		params["search"] = "(?i)" + regexp.QuoteMeta(text)
	}

	if len(clauses) == 0 {
		return &Predicate{}, nil
	}

	expr := strings.Join(clauses, " && ")
	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program creation error: %w", err)
	}
	return &Predicate{Expr: expr, prg: prg, params: params}, nil
}

// Match evaluates the predicate against a record document.
func (p *Predicate) Match(doc map[string]any) (bool, error) {
	if p == nil || p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(map[string]any{
		"doc":    doc,
		"params": p.params,
	})
	if err != nil {
		return false, err
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL result is not boolean: %T", out.Value())
	}
	return result, nil
}

// document projects a record into the map the predicate is evaluated against.
func document(rec model.Record, sellers, customers *lookup.Index) map[string]any {
	return map[string]any{
		"receipt_id":  rec.ReceiptID.String(),
		"date":        rec.Date,
		"seller_id":   rec.SellerID.String(),
		"customer_id": rec.CustomerID.String(),
		"seller":      sellers.Name(rec.SellerID.String()),
		"customer":    customers.Name(rec.CustomerID.String()),
		"total":       model.FormatAmount(rec.TotalAmount),
	}
}

// cmpAmount compares two decimal strings exactly.
func cmpAmount(lhs, rhs ref.Val) ref.Val {
	l, lok := lhs.(types.String)
	r, rok := rhs.(types.String)
	if !lok || !rok {
		return types.NewErr("invalid arguments to cmpAmount")
	}
	ld, err := decimal.NewFromString(string(l))
	if err != nil {
		return types.NewErr("invalid amount %q: %v", string(l), err)
	}
	rd, err := decimal.NewFromString(string(r))
	if err != nil {
		return types.NewErr("invalid amount %q: %v", string(r), err)
	}
	return types.Int(ld.Cmp(rd))
}
