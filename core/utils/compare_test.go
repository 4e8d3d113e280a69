package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{"numeric string vs int", "1", 1, true},
		{"int vs numeric string", int64(5), "5", true},
		{"decimal strings", "1.0", "1", true},
		{"float vs int", 2.0, 2, true},
		{"bytes vs int", []byte("42"), int64(42), true},
		{"padded numeric string", " 7 ", 7, true},
		{"different numbers", "1", 2, false},
		{"plain strings", "A", "A", true},
		{"different strings", "A", "B", false},
		{"non numeric string vs zero", "abc", 0, false},
		{"nil vs empty string", nil, "", true},
		{"nil vs zero", nil, 0, true},
		{"nil vs string zero", nil, "0", false},
		{"nil vs nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"bool vs one", true, 1, true},
		{"bool vs string zero", false, "0", true},
		{"bool vs non empty", true, "yes", true},
		{"uint vs int", uint32(3), int64(3), true},
		{"large integer strings", "9007199254740993", "9007199254740992", false},
		{"large integer string vs int", "9007199254740993", int64(9007199254740992), false},
		{"large integer string equal int", "9007199254740993", int64(9007199254740993), true},
		{"integer strings beyond int64", "12345678901234567890", "12345678901234567891", false},
		{"signed integer strings", "+12345678901234567890", "12345678901234567890", true},
		{"time vs string", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02 03:04:05", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooseEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, LooseEqual(tt.b, tt.a), "comparison must be symmetric")
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("10"))
	assert.True(t, IsNumeric("-1.5"))
	assert.True(t, IsNumeric(".5"))
	assert.True(t, IsNumeric("3e2"))
	assert.False(t, IsNumeric("0x1A"))
	assert.False(t, IsNumeric("NaN"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("1a"))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy("0"))
	assert.False(t, Truthy(0))
	assert.True(t, Truthy("a"))
	assert.True(t, Truthy(2.5))
	assert.True(t, Truthy([]byte("1")))
}
