package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test@example.com", NormalizeEmail("  Test@EXAMPLE.com "))
	assert.Equal(t, "a@b.c", NormalizeEmail("a@b.c"))
	assert.Equal(t, "", NormalizeEmail("   "))
}
