package model

import (
	"strconv"
	"strings"
)

// PageLast is the wire form of a request for the last page.
const PageLast = "last"

// PageRequest is a requested page: either a 1-based number or the last page,
// which can only be resolved once the total is known.
type PageRequest struct {
	Number int
	Last   bool
}

// FirstPage is page 1.
var FirstPage = PageRequest{Number: 1}

// LastPage requests the last page.
var LastPage = PageRequest{Last: true}

// Page returns a numbered page request, coerced to at least 1.
func Page(n int) PageRequest {
	if n < 1 {
		n = 1
	}
	return PageRequest{Number: n}
}

// ParsePageRequest parses the wire form. Unparsable input is page 1.
func ParsePageRequest(s string) PageRequest {
	if strings.EqualFold(strings.TrimSpace(s), PageLast) {
		return LastPage
	}
	return Page(ParsePositive(s, 1))
}

func (p PageRequest) String() string {
	if p.Last {
		return PageLast
	}
	return strconv.Itoa(p.Resolve(0))
}

// Resolve returns the concrete page, clamped to [1, pageCount]. A pageCount
// below 1 means unknown: only the lower bound applies and Last resolves to 1.
func (p PageRequest) Resolve(pageCount int) int {
	if pageCount < 1 {
		if p.Last || p.Number < 1 {
			return 1
		}
		return p.Number
	}
	if p.Last || p.Number > pageCount {
		return pageCount
	}
	if p.Number < 1 {
		return 1
	}
	return p.Number
}

// PageCount returns max(1, ceil(total/limit)). limit is coerced to at least 1.
func PageCount(total, limit int) int {
	if limit < 1 {
		limit = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
