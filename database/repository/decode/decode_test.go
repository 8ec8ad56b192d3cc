package decode

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFloat(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 50.5, 50.5, true},
		{"int", 50, 50, true},
		{"int64", int64(7), 7, true},
		{"numeric string", " 120.25 ", 120.25, true},
		{"empty string", "", 0, false},
		{"word", "fifty", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Float(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFloatPtr(t *testing.T) {
	assert.Nil(t, FloatPtr("abc"))
	if p := FloatPtr("80"); assert.NotNil(t, p) {
		assert.Equal(t, 80.0, *p)
	}
}

func TestTimeAndMaps(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now, Time(now))
	assert.Equal(t, now, Time(&now))
	assert.True(t, Time(42).IsZero())

	got := Maps([]any{map[string]any{"a": 1}, "junk", nil})
	assert.Len(t, got, 1)
	assert.Nil(t, Maps("not an array"))
}
