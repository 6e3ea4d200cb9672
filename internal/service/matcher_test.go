package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/testutil"
)

func TestUndefinedMatcher(t *testing.T) {
	categories := testutil.NewMockCategoryRepository()
	sentinel := categories.Seed(domain.SentinelCategoryName, "❓")
	categories.Seed("Food", "🍔")

	matcher := NewUndefinedCategoryMatcher(categories)

	// Every name lands on the sentinel, even an exact category name
	for _, name := range []string{"Food", "Groceries", "something else"} {
		id, err := matcher.Resolve(context.Background(), name)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, sentinel.ID, *id, "name %q", name)
	}
}

func TestUndefinedMatcher_MissingSentinel(t *testing.T) {
	categories := testutil.NewMockCategoryRepository()
	matcher := NewUndefinedCategoryMatcher(categories)

	id, err := matcher.Resolve(context.Background(), "Food")
	require.NoError(t, err, "a missing sentinel row must not fail the write")
	assert.Nil(t, id)
}

func TestKeywordMatcher(t *testing.T) {
	categories := testutil.NewMockCategoryRepository()
	sentinel := categories.Seed(domain.SentinelCategoryName, "❓")
	food := categories.Seed("Food", "🍔")
	transport := categories.Seed("Transport", "🚕")

	matcher := NewKeywordMatcher(categories)

	tests := []struct {
		name     string
		expected *domain.Category
	}{
		{"Food", food},                // exact category name
		{"food delivery", food},       // category name as substring
		{"uber to airport", transport}, // keyword table
		{"grocery run", food},         // keyword table
		{"quantum flux", sentinel},    // no match falls back to sentinel
	}

	for _, tt := range tests {
		id, err := matcher.Resolve(context.Background(), tt.name)
		require.NoError(t, err, "name %q", tt.name)
		require.NotNil(t, id, "name %q", tt.name)
		assert.Equal(t, tt.expected.ID, *id, "name %q", tt.name)
	}
}
