package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateValid(t *testing.T) {
	cases := []string{
		"01.11.2025",
		"25.11.2025",
		"31.12.1999",
		"29.02.2024", // leap day
		"  07.11.2025  ",
	}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			d, err := ParseDate(input)
			require.NoError(t, err)
			assert.Equal(t, len(DateLayout), len(d.String()))
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	cases := map[string]string{
		"wrong separator slash":  "25/11/2025",
		"wrong separator dash":   "25-11-2025",
		"missing day padding":    "5.11.2025",
		"missing month padding":  "05.1.2025",
		"two digit year":         "05.11.25",
		"month out of range":     "05.13.2025",
		"day out of range":       "32.01.2025",
		"non leap february 29th": "29.02.2025",
		"iso order":              "2025.11.05",
		"non numeric":            "ab.cd.efgh",
		"empty":                  "",
		"trailing garbage":       "05.11.2025x",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDate(input)
			assert.Error(t, err)
			assert.False(t, ValidDate(input))
		})
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("07.11.2025")
	require.NoError(t, err)
	assert.Equal(t, "07.11.2025", d.String())
}

func TestDateWithin(t *testing.T) {
	from := mustDate(t, "01.11.2025")
	to := mustDate(t, "10.11.2025")

	assert.True(t, mustDate(t, "01.11.2025").Within(from, to), "inclusive lower bound")
	assert.True(t, mustDate(t, "10.11.2025").Within(from, to), "inclusive upper bound")
	assert.True(t, mustDate(t, "05.11.2025").Within(from, to))
	assert.False(t, mustDate(t, "31.10.2025").Within(from, to))
	assert.False(t, mustDate(t, "11.11.2025").Within(from, to))
}

func TestDateComparisonIsCalendarBased(t *testing.T) {
	// Lexicographic string order would put 02.01.2026 before 30.12.2025.
	dec := mustDate(t, "30.12.2025")
	jan := mustDate(t, "02.01.2026")
	assert.True(t, dec.Before(jan))
	assert.True(t, jan.After(dec))
}

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}
