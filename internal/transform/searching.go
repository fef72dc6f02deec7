package transform

import (
	"strings"

	"github.com/syntrixbase/salesgrid/pkg/model"
)

// ApplySearching emits the free-text search parameter when the search field is not blank.
func ApplySearching(q model.Query, s State, _ Action) model.Query {
	text := strings.TrimSpace(s.Search)
	if text == "" {
		return q
	}
	return q.With(model.ParamSearch, text)
}
