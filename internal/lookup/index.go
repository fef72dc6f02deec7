// Package lookup builds id to display-name indexes from reference collections.
package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Index maps ids to display names and back.
type Index struct {
	byID   map[string]string
	byName map[string]string
}

// NewIndex builds an index from an id to name mapping. When several ids share
// a display name, the reverse lookup keeps the smallest id.
func NewIndex(names map[string]string) *Index {
	idx := &Index{
		byID:   make(map[string]string, len(names)),
		byName: make(map[string]string, len(names)),
	}

	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		name := names[id]
		idx.byID[id] = name
		if _, exists := idx.byName[name]; !exists {
			idx.byName[name] = id
		}
	}
	return idx
}

// Name resolves id to its display name, falling back to the id itself.
func (idx *Index) Name(id string) string {
	if idx != nil {
		if name, ok := idx.byID[id]; ok {
			return name
		}
	}
	return id
}

// ID resolves a display name to its id.
func (idx *Index) ID(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	id, ok := idx.byName[name]
	return id, ok
}

// Len returns the number of ids.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byID)
}

// Names returns all display names, sorted.
func (idx *Index) Names() []string {
	if idx == nil {
		return nil
	}
	names := make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// entity is a reference record as served by /sellers and /customers.
type entity struct {
	ID        json.RawMessage `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
}

// DisplayName joins the name parts.
func DisplayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// Decode builds an index from a reference payload in any admissible shape:
//
//	[{"id":1,"first_name":"A","last_name":"B"}, ...]
//	{"<key>": [...]} or {"items": [...]}
//	{"1": "A B", ...}
//	{"<key>": {"1": "A B"}} or {"items": {"1": "A B"}}
//
// Payloads that match none of these decode to an empty index.
func Decode(data []byte, key string) (*Index, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return NewIndex(nil), nil
	}

	switch data[0] {
	case '[':
		var list []entity
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode %s list: %w", key, err)
		}
		return fromEntities(list), nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("decode %s object: %w", key, err)
		}
		for _, wrapper := range []string{key, "items"} {
			if wrapper == "" {
				continue
			}
			if nested, ok := obj[wrapper]; ok {
				nested = bytes.TrimSpace(nested)
				if len(nested) > 0 && (nested[0] == '[' || nested[0] == '{') {
					return Decode(nested, "")
				}
			}
		}
		return fromMap(obj), nil
	default:
		return NewIndex(nil), nil
	}
}

func fromEntities(list []entity) *Index {
	names := make(map[string]string, len(list))
	for _, e := range list {
		id := rawString(e.ID)
		if id == "" {
			continue
		}
		names[id] = DisplayName(e.FirstName, e.LastName)
	}
	return NewIndex(names)
}

// fromMap keeps only string values; anything else is not an id to name entry.
func fromMap(obj map[string]json.RawMessage) *Index {
	names := make(map[string]string, len(obj))
	for id, raw := range obj {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			continue
		}
		names[id] = name
	}
	return NewIndex(names)
}

// rawString stringifies a JSON string or number.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
