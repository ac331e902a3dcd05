package postgres

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGeneratorMonotonic(t *testing.T) {
	gen := NewULIDGenerator()

	prev := gen.Generate()
	for i := 0; i < 1000; i++ {
		next := gen.Generate()
		_, err := ulid.ParseStrict(next)
		require.NoError(t, err)
		assert.Greater(t, next, prev)
		prev = next
	}
}
