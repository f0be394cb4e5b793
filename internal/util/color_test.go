package util

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDarkenColorIdentityAtZero(t *testing.T) {
	assert.Equal(t, "#6366f1", DarkenColor("#6366f1", 0))
	assert.Equal(t, "#000000", DarkenColor("#000000", 0))
}

func TestDarkenColorMonotonic(t *testing.T) {
	channel := func(hex string) int {
		var r, g, b int
		_, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b)
		require.NoError(t, err)
		return r
	}

	prev := channel("#c89664")
	for _, percent := range []float64{10, 20, 40, 80} {
		cur := channel(DarkenColor("#c89664", percent))
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestDarkenColorClampsAtZero(t *testing.T) {
	assert.Equal(t, "#000000", DarkenColor("#050505", 100))
	assert.Equal(t, "#000000", DarkenColor("#ffffff", 100))
}

func TestDarkenColorInvalidInputPassthrough(t *testing.T) {
	assert.Equal(t, "red", DarkenColor("red", 50))
	assert.Equal(t, "#fff", DarkenColor("#fff", 50))
	assert.Equal(t, "#zzzzzz", DarkenColor("#zzzzzz", 50))
}
