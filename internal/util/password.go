package util

import "unicode/utf8"

// Strength is the estimated strength of a password, from 0 to 4.
type Strength int

// Level names the color a strength is shown in.
type Level string

const (
	LevelDanger  Level = "danger"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
)

var strengthLabels = [...]string{"Muito Fraca", "Fraca", "Moderada", "Forte", "Muito Forte"}

var strengthLevels = [...]Level{LevelDanger, LevelDanger, LevelWarning, LevelInfo, LevelSuccess}

// PasswordStrength scores a password with one point each for: at least 8
// characters, mixed-case ASCII letters, a digit, and a character outside
// [a-zA-Z0-9].
func PasswordStrength(pw string) Strength {
	var lower, upper, digit, other bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	var s Strength
	if utf8.RuneCountInString(pw) >= 8 {
		s++
	}
	if lower && upper {
		s++
	}
	if digit {
		s++
	}
	if other {
		s++
	}
	return s
}

// Label returns the display label, e.g. "Moderada".
func (s Strength) Label() string {
	return strengthLabels[s.clamp()]
}

// Level returns the color level of the strength.
func (s Strength) Level() Level {
	return strengthLevels[s.clamp()]
}

func (s Strength) clamp() int {
	switch {
	case s < 0:
		return 0
	case s > 4:
		return 4
	default:
		return int(s)
	}
}
