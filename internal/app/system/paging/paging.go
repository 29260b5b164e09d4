// internal/app/system/paging/paging.go
package paging

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/devhub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows in the default listing.
const DefaultPageSize = 9

// DefaultMaxPageSize caps the pageSize a client may ask for.
const DefaultMaxPageSize = 50

// Query parameter names.
const (
	ParamPageNumber = "pageNumber"
	ParamPageSize   = "pageSize"
)

// Page is a validated 1-based page request.
type Page struct {
	Number int
	Size   int
}

// FirstPage returns page 1 of the given size.
func FirstPage(size int) Page { return Page{Number: 1, Size: size} }

// Skip is the number of rows before this page: (Number-1) * Size.
func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Size) }

// Limit is the row count for this page.
func (p Page) Limit() int64 { return int64(p.Size) }

// Parse reads pageNumber and pageSize from the query string.
// Missing values default to 1 and defaultSize. Every bad value is reported,
// not just the first.
func Parse(r *http.Request, defaultSize, maxSize int) (Page, *inputval.Result) {
	res := &inputval.Result{}
	p := Page{
		Number: parsePositive(res, query.Get(r, ParamPageNumber), ParamPageNumber, 1, 0),
		Size:   parsePositive(res, query.Get(r, ParamPageSize), ParamPageSize, defaultSize, maxSize),
	}
	return p, res
}

// parsePositive parses s as an int in [1, max] (max <= 0 means unbounded).
// int32 range keeps Skip from overflowing.
func parsePositive(res *inputval.Result, s, name string, def, max int) int {
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 1 {
		res.Add(name, fmt.Sprintf("%s must be a positive integer.", name))
		return def
	}
	if max > 0 && n > int64(max) {
		res.Add(name, fmt.Sprintf("%s must be at most %d.", name, max))
		return def
	}
	return int(n)
}
