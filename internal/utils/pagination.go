// Package utils has small query parsing and paging helpers with no domain
// knowledge.
package utils

import "strconv"

// QueryInt parses a query string value, returning def when it is empty or not
// a base-10 int.
func QueryInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// Page is a 1-based page window.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps a client supplied window. Sizes below one fall back to def,
// sizes above ceiling are cut to ceiling (no cap when ceiling is zero).
func NewPage(number, size, def, ceiling int) Page {
	if size < 1 {
		size = def
	}
	if ceiling > 0 {
		size = min(size, ceiling)
	}
	return Page{Number: max(number, 1), Size: size}
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// TotalPages is zero for an empty result.
func (p Page) TotalPages(total int64) int {
	if p.Size < 1 || total < 1 {
		return 0
	}
	size := int64(p.Size)
	return int((total + size - 1) / size)
}
