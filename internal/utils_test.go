package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLSet(t *testing.T) {
	s := NewURLSet()

	assert.True(t, s.Add("https://x/shop/b"))
	assert.True(t, s.Add("https://x/shop/a"))
	assert.False(t, s.Add("https://x/shop/b"))

	assert.False(t, s.Add("https://x/shop/a"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"https://x/shop/b", "https://x/shop/a"}, s.Items())

	items := s.Items()
	items[0] = "mutated"
	assert.Equal(t, "https://x/shop/b", s.Items()[0])
}
