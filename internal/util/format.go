package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Location is the zone timestamps are shown in.
var Location = time.Local

const (
	isoDate     = "2006-01-02"
	brDate      = "02/01/2006"
	brDateTime  = "02/01/2006 15:04"
	sortStamp   = "2006-01-02T15:04:05"
	placeholder = "—"
)

// FormatDate formats an ISO date string (YYYY-MM-DD) as dd/mm/yyyy.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return placeholder
	}
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return date
	}
	return t.Format(brDate)
}

// FormatDay formats a timestamp as dd/mm/yyyy.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.In(Location).Format(brDate)
}

// FormatDateTime formats a timestamp as dd/mm/yyyy hh:mm.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.In(Location).Format(brDateTime)
}

// SortableTime returns a key that orders timestamps chronologically as
// text. The zero time gives "".
func SortableTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location).Format(sortStamp)
}

// FormatActive formats the active flag.
func FormatActive(active bool) string {
	if active {
		return "Sim"
	}
	return "Não"
}

// FormatActiveSymbol formats the active flag as ✓ or ✗.
func FormatActiveSymbol(active bool) string {
	if active {
		return "✓"
	}
	return "✗"
}

// FormatWorkload formats a workload in hours, "—" when unknown.
func FormatWorkload(hours *int) string {
	if hours == nil {
		return placeholder
	}
	return fmt.Sprintf("%dh", *hours)
}

// OrPlaceholder returns s, or "—" when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// ParseDateInput parses dd/mm/yyyy or YYYY-MM-DD input and normalizes to
// ISO. Empty input is allowed and returns "".
func ParseDateInput(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}

	for _, layout := range []string{isoDate, brDate, "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), nil
		}
	}

	return "", fmt.Errorf("data inválida: use dd/mm/aaaa")
}

// TruncateString truncates s to maxWidth terminal cells, adding "..." when
// it has to cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
