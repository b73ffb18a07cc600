package util

import "strings"

const maxPhoneDigits = 11

// MaskPhone formats raw input as a Brazilian phone number while it is being
// typed: (DD) DDDDD-DDDD for mobiles, (DD) DDDD-DDDD for landlines. Anything
// that is not a digit is dropped and extra digits are cut.
func MaskPhone(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == maxPhoneDigits {
				break
			}
		}
	}
	d := b.String()

	switch n := len(d); {
	case n > 10:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case n > 6:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case n > 2:
		return "(" + d[:2] + ") " + d[2:]
	case n > 0:
		return "(" + d
	default:
		return ""
	}
}
