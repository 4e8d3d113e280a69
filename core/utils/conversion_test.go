package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 12, ToInt("12"))
	assert.Equal(t, 3, ToInt("3.9"))
	assert.Equal(t, 7, ToInt([]byte("7")))
	assert.Equal(t, 1, ToInt(true))
	assert.Equal(t, 0, ToInt("abc"))
	assert.Equal(t, 0, ToInt(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "42", ToString(int32(42)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "1", ToString(true))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("YES"))
	assert.True(t, ToBool(int64(1)))
	assert.False(t, ToBool("false"))
	assert.False(t, ToBool(""))
	assert.False(t, ToBool(nil))
}
