package transform

import (
	"github.com/syntrixbase/salesgrid/pkg/model"
)

// SortDirection is the UI direction of a column toggle.
type SortDirection string

const (
	SortNone SortDirection = "none"
	SortUp   SortDirection = "up"
	SortDown SortDirection = "down"
)

// Next advances the cycle none -> up -> down -> none.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortUp:
		return SortDown
	case SortDown:
		return SortNone
	default:
		return SortUp
	}
}

// SortField maps a display column to the API.
type SortField struct {
	// API is the field name sent to the records endpoint.
	API string
	// Inverted flips the meaning of the arrow: up is sent as desc.
	Inverted bool
}

// Order converts a UI direction to the API order. ok is false for SortNone.
func (f SortField) Order(d SortDirection) (model.SortOrder, bool) {
	var order model.SortOrder
	switch d {
	case SortUp:
		order = model.SortAsc
	case SortDown:
		order = model.SortDesc
	default:
		return "", false
	}
	if f.Inverted {
		order = order.Reverse()
	}
	return order, true
}

// SortFields is the display field to API field table. Dates are shown newest
// first when the arrow points up.
var SortFields = map[string]SortField{
	"id":       {API: "receipt_id"},
	"date":     {API: "date", Inverted: true},
	"seller":   {API: "seller"},
	"customer": {API: "customer"},
	"total":    {API: "total_amount"},
}

// SortState is the single active sort column. An empty Field means no column is active.
type SortState struct {
	Field     string
	Direction SortDirection
}

// Active reports whether a column sorts the table.
func (s SortState) Active() bool {
	return s.Field != "" && s.Direction != SortNone && s.Direction != ""
}

// Sorting owns the sort state. It is only mutated through ApplySorting.
type Sorting struct {
	fields map[string]SortField
	state  SortState
}

// NewSorting creates a Sorting transform over the given field table. A nil
// table uses SortFields.
func NewSorting(fields map[string]SortField) *Sorting {
	if fields == nil {
		fields = SortFields
	}
	return &Sorting{fields: fields}
}

// State returns the current sort state.
func (s *Sorting) State() SortState { return s.state }

// Direction returns the direction shown on a column.
func (s *Sorting) Direction(field string) SortDirection {
	if s.state.Field == field && s.state.Direction != "" {
		return s.state.Direction
	}
	return SortNone
}

// ApplySorting advances the sort state on a sort action and emits
// sort=<apiField>:<order> while a column is active.
func (s *Sorting) ApplySorting(q model.Query, _ State, a Action) model.Query {
	if a.Kind == ActionSort && a.Name != "" {
		if s.state.Field == a.Name {
			s.state.Direction = s.state.Direction.Next()
		} else {
			s.state = SortState{Field: a.Name, Direction: SortNone.Next()}
		}
	}

	if !s.state.Active() {
		return q
	}

	field, ok := s.fields[s.state.Field]
	if !ok {
		field = SortField{API: s.state.Field}
	}
	order, ok := field.Order(s.state.Direction)
	if !ok {
		return q
	}
	return q.With(model.ParamSort, field.API+":"+string(order))
}

// Reset clears the active column.
func (s *Sorting) Reset() {
	s.state = SortState{}
}
