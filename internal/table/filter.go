package table

import "strings"

// Filter shows the rows whose text contains query, case-insensitively, and
// hides the rest. An empty query shows every row. Row order and cell
// contents are left untouched.
func Filter(rows []*Row, query string) {
	filter(rows, query, nil)
}

// filter is Filter over the cells for which searchable reports true. A nil
// searchable searches every cell.
func filter(rows []*Row, query string, searchable func(column int) bool) {
	needle := strings.ToLower(query)
	for _, r := range rows {
		r.Hidden = needle != "" && !strings.Contains(haystack(r, searchable), needle)
	}
}

func haystack(r *Row, searchable func(column int) bool) string {
	if searchable == nil {
		return strings.ToLower(strings.Join(r.Cells, " "))
	}
	cells := make([]string, 0, len(r.Cells))
	for i, c := range r.Cells {
		if searchable(i) {
			cells = append(cells, c)
		}
	}
	return strings.ToLower(strings.Join(cells, " "))
}
