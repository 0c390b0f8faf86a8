package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCarriesMetadata(t *testing.T) {
	t.Parallel()

	err := Newf("lookup failed for box %d", 7).
		Component("media").
		Category(CategoryMediaFetch).
		Context("entity_id", 7).
		Build()

	assert.Equal(t, "lookup failed for box 7", err.Error())
	assert.Equal(t, "media", err.Component)
	assert.Equal(t, CategoryMediaFetch, err.Category)
	assert.Equal(t, 7, err.Context["entity_id"])
	assert.False(t, err.Timestamp.IsZero())
}

func TestUnwrapPreservesSentinel(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("storage unreachable")
	err := New(fmt.Errorf("resolving media: %w", sentinel)).
		Category(CategoryNetwork).
		Build()

	assert.True(t, Is(err, sentinel))

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, CategoryNetwork, ee.Category)
}

func TestHasCategory(t *testing.T) {
	t.Parallel()

	err := Newf("bad format").Category(CategoryValidation).Build()
	wrapped := fmt.Errorf("handling request: %w", err)

	assert.True(t, HasCategory(wrapped, CategoryValidation))
	assert.False(t, HasCategory(wrapped, CategoryDatabase))
	assert.False(t, HasCategory(NewStd("plain"), CategoryValidation))
}

func TestDefaultCategoryIsGeneric(t *testing.T) {
	t.Parallel()

	err := New(NewStd("boom")).Build()
	assert.Equal(t, CategoryGeneric, err.Category)
}
