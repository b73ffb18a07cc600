package table

import (
	"cmp"
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Locale is the fixed collation locale for lexical columns.
var Locale = language.BrazilianPortuguese

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Sorter orders rows by one column. A Sorter owns a collator and must not
// be shared between goroutines.
type Sorter struct {
	coll *collate.Collator
}

// NewSorter returns a sorter that compares lexical keys in Locale order.
func NewSorter() *Sorter {
	return &Sorter{coll: collate.New(Locale)}
}

// Sort reorders rows in place by the sort key at column and returns the new
// sort state. The direction is descending only when prev is an ascending
// sort of the same column. Rows with equal keys keep their relative order.
func Sort(rows []*Row, column int, mode Mode, prev SortState) SortState {
	return NewSorter().Sort(rows, column, mode, prev)
}

type sortKey struct {
	row  *Row
	text string
	num  float64
}

// Sort is the method form of the package-level Sort.
func (s *Sorter) Sort(rows []*Row, column int, mode Mode, prev SortState) SortState {
	dir := Ascending
	if prev.Column == column && prev.Direction == Ascending {
		dir = Descending
	}

	keys := make([]sortKey, len(rows))
	for i, r := range rows {
		text := strings.TrimSpace(r.SortKey(column))
		keys[i] = sortKey{row: r, text: text}
		if mode == Numeric {
			keys[i].num = ParseNumber(text)
		}
	}

	slices.SortStableFunc(keys, func(a, b sortKey) int {
		var c int
		if mode == Numeric {
			c = cmp.Compare(a.num, b.num)
		} else {
			c = s.coll.CompareString(a.text, b.text)
		}
		if dir == Descending {
			return -c
		}
		return c
	})

	for i, k := range keys {
		rows[i] = k.row
	}
	return SortState{Column: column, Direction: dir}
}

// ParseNumber reads the leading decimal number of s, so "80h" is 80 and
// "1.5e2 pts" is 150. Text without a leading number is 0.
func ParseNumber(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}
