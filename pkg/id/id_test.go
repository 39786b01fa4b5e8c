package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUUID(t *testing.T) {
	a, b := GetUUID(), GetUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestGetUUIDWithoutDashes(t *testing.T) {
	u := GetUUIDWithoutDashes()
	assert.Len(t, u, 32)
	assert.False(t, strings.Contains(u, "-"))
}

func TestShortId(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s := ShortId()
		assert.NotEmpty(t, s)
		_, dup := seen[s]
		assert.False(t, dup)
		seen[s] = struct{}{}
	}
}
