package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeValid(t *testing.T) {
	for _, code := range AllStatuses() {
		assert.True(t, code.Valid(), string(code))
	}
	assert.False(t, StatusCode("shipped").Valid())
	assert.False(t, StatusCode("").Valid())
}

func TestStatusCodeLabel(t *testing.T) {
	assert.Equal(t, "🚚 In transit", StatusInTransit.Label())
	assert.Equal(t, "bogus", StatusCode("bogus").Label())
}

func TestStatusRangeContains(t *testing.T) {
	rng := StatusRange{DateFrom: "01.11.2025", DateTo: "10.11.2025"}

	assert.True(t, rng.Contains(mustDate(t, "01.11.2025")))
	assert.True(t, rng.Contains(mustDate(t, "10.11.2025")))
	assert.True(t, rng.Contains(mustDate(t, "05.11.2025")))
	assert.False(t, rng.Contains(mustDate(t, "11.11.2025")))
	assert.False(t, rng.Contains(mustDate(t, "31.10.2025")))
}

func TestStatusRangeContainsMalformedDates(t *testing.T) {
	broken := StatusRange{DateFrom: "not-a-date", DateTo: "10.11.2025"}
	assert.False(t, broken.Contains(mustDate(t, "05.11.2025")))

	broken = StatusRange{DateFrom: "01.11.2025", DateTo: ""}
	assert.False(t, broken.Contains(mustDate(t, "05.11.2025")))
}
