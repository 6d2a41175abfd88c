package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	cases := []struct {
		raw       string
		def, want int
	}{
		{"", 10, 10},
		{"3", 1, 3},
		{"007", 0, 7},
		{"-2", 1, -2},
		{"two", 5, 5},
		{"3 ", 5, 5},
		{"1e3", 5, 5},
		{"99999999999999999999", 1, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, QueryInt(tc.raw, tc.def), "QueryInt(%q, %d)", tc.raw, tc.def)
	}
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: 20}, NewPage(0, 0, 20, 50))
	assert.Equal(t, Page{Number: 1, Size: 20}, NewPage(-1, -5, 20, 50))
	assert.Equal(t, Page{Number: 3, Size: 15}, NewPage(3, 15, 20, 50))
	assert.Equal(t, Page{Number: 2, Size: 50}, NewPage(2, 500, 20, 50))
	assert.Equal(t, Page{Number: 2, Size: 500}, NewPage(2, 500, 20, 0), "zero ceiling means uncapped")
}

func TestPage_Window(t *testing.T) {
	p := Page{Number: 4, Size: 5}
	assert.Equal(t, 15, p.Offset())

	for total, want := range map[int64]int{0: 0, 1: 1, 5: 1, 6: 2, 21: 5} {
		assert.Equal(t, want, p.TotalPages(total), "total %d", total)
	}
	assert.Zero(t, Page{Number: 1}.TotalPages(9))
}
