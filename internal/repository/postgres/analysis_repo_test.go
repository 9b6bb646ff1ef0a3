package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListByUserQuery(t *testing.T) {
	t.Run("Should order newest first with a stable tiebreaker", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(listByUserQuery, "ORDER BY created_at DESC, id DESC"))
	})

	t.Run("Should only list the caller's rows", func(t *testing.T) {
		assert.Contains(t, listByUserQuery, "WHERE user_id = $1")
	})
}

func TestNonNilSlices(t *testing.T) {
	t.Run("Should replace nil slices with empty ones", func(t *testing.T) {
		assert.NotNil(t, nonNilStrings(nil))
		assert.Empty(t, nonNilStrings(nil))
		assert.NotNil(t, nonNilImprovements(nil))
	})

	t.Run("Should keep populated slices as they are", func(t *testing.T) {
		assert.Equal(t, []string{"go"}, nonNilStrings([]string{"go"}))
	})
}
