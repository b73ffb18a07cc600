package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"119876", "(11) 9876"},
		{"1198765", "(11) 9876-5"},
		{"1134567890", "(11) 3456-7890"},
		{"11987654321", "(11) 98765-4321"},
		{"(11) 98765-4321", "(11) 98765-4321"},
		{"1198765432199", "(11) 98765-4321"},
		{"(11) 3456-78901", "(11) 34567-8901"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhone(tt.in))
		})
	}
}

func TestMaskPhoneIsStableOnItsOutput(t *testing.T) {
	for _, in := range []string{"1", "119", "1198765", "11987654321"} {
		once := MaskPhone(in)
		assert.Equal(t, once, MaskPhone(once), in)
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw    string
		want  Strength
		label string
		level Level
	}{
		{"", 0, "Muito Fraca", LevelDanger},
		{"abc", 0, "Muito Fraca", LevelDanger},
		{"abcdefgh", 1, "Fraca", LevelDanger},
		{"abcdefg1", 2, "Moderada", LevelWarning},
		{"Abcdefg1", 3, "Forte", LevelInfo},
		{"Abcdef1!", 4, "Muito Forte", LevelSuccess},
		{"aB1!", 3, "Forte", LevelInfo},
		{"senhaçã", 1, "Fraca", LevelDanger},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			s := PasswordStrength(tt.pw)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.label, s.Label())
			assert.Equal(t, tt.level, s.Level())
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15/03/2008", FormatDate("2008-03-15"))
	assert.Equal(t, "—", FormatDate("  "))
	assert.Equal(t, "ontem", FormatDate("ontem"))
}

func TestFormatDateTime(t *testing.T) {
	prev := Location
	Location = time.UTC
	t.Cleanup(func() { Location = prev })

	ts := time.Date(2024, 2, 5, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, "05/02/2024 09:07", FormatDateTime(ts))
	assert.Equal(t, "05/02/2024", FormatDay(ts))
	assert.Equal(t, "—", FormatDateTime(time.Time{}))
}

func TestParseDateInput(t *testing.T) {
	for in, want := range map[string]string{
		"":           "",
		"2008-03-15": "2008-03-15",
		"15/03/2008": "2008-03-15",
		"5/3/2008":   "2008-03-05",
	} {
		got, err := ParseDateInput(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDateInput("31/02/2008")
	assert.Error(t, err)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "Matemática", TruncateString("Matemática", 10))
	assert.Equal(t, "Matemát...", TruncateString("Matemática Básica", 10))
	assert.Equal(t, "Ma", TruncateString("Matemática", 2))
	assert.Equal(t, "", TruncateString("Matemática", 0))
	assert.Equal(t, "日本...", TruncateString("日本語テキスト", 7))
}

func TestFormatWorkload(t *testing.T) {
	h := 80
	assert.Equal(t, "80h", FormatWorkload(&h))
	assert.Equal(t, "—", FormatWorkload(nil))
}
