package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageChange(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		want     float64
	}{
		{"both zero", 0, 0, 0},
		{"from zero", 5, 0, 100},
		{"growth", 15, 10, 50},
		{"drop", 5, 10, -50},
		{"rounded", 1, 3, -66.67},
		{"negative previous", 3, -2, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, PercentageChange(c.current, c.previous))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "webdev", "db"}, NormalizeTags(" Go , web Dev,go,,DB "))
	assert.Empty(t, NormalizeTags(" , ,"))
}

func TestGetMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2026, 3, 2, 5, 30, 0, 0, loc)

	// 先换算为 UTC 再取零点
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), GetMidnight(in))
}

func TestParseUint64List(t *testing.T) {
	ids, err := ParseUint64List("3, 1,,2")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, ids)

	ids, err = ParseUint64List("  ")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = ParseUint64List("1,x")
	assert.Error(t, err)
}
