package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/spenny/spenny-backend/internal/domain"
)

// CategoryMatcher resolves a transaction name to a category ID. A nil ID with
// a nil error means "leave the row uncategorized" and is a valid outcome.
type CategoryMatcher interface {
	Resolve(ctx context.Context, name string) (*uuid.UUID, error)
}

// UndefinedMatcher assigns every transaction to the reserved "Undefined"
// category, deferring real categorization to the user. If the sentinel row is
// missing from the table the row is left uncategorized rather than failing
// the write.
type UndefinedMatcher struct {
	sentinelID func(ctx context.Context) (*uuid.UUID, error)
}

// NewUndefinedCategoryMatcher builds an UndefinedMatcher over the expense
// category table.
func NewUndefinedCategoryMatcher(categories domain.CategoryRepository) *UndefinedMatcher {
	return &UndefinedMatcher{
		sentinelID: func(ctx context.Context) (*uuid.UUID, error) {
			cat, err := categories.GetByName(ctx, domain.SentinelCategoryName)
			if err != nil {
				if errors.Is(err, domain.ErrCategoryNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return &cat.ID, nil
		},
	}
}

// NewUndefinedEarningsCategoryMatcher builds an UndefinedMatcher over the
// income category table.
func NewUndefinedEarningsCategoryMatcher(categories domain.EarningsCategoryRepository) *UndefinedMatcher {
	return &UndefinedMatcher{
		sentinelID: func(ctx context.Context) (*uuid.UUID, error) {
			cat, err := categories.GetByName(ctx, domain.SentinelCategoryName)
			if err != nil {
				if errors.Is(err, domain.ErrCategoryNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return &cat.ID, nil
		},
	}
}

// Resolve ignores the name and returns the sentinel category ID.
func (m *UndefinedMatcher) Resolve(ctx context.Context, _ string) (*uuid.UUID, error) {
	return m.sentinelID(ctx)
}

// categoryKeywords maps lowercase merchant/description fragments to expense
// category names. Used by KeywordMatcher.
var categoryKeywords = map[string]string{
	"grocery":    "Food",
	"groceries":  "Food",
	"food":       "Food",
	"restaurant": "Food",
	"cafe":       "Food",
	"coffee":     "Food",
	"uber":       "Transport",
	"taxi":       "Transport",
	"fuel":       "Transport",
	"gas":        "Transport",
	"parking":    "Transport",
	"metro":      "Transport",
	"pharmacy":   "Health",
	"doctor":     "Health",
	"gym":        "Health",
	"rent":       "Housing",
	"mortgage":   "Housing",
	"electric":   "Utilities",
	"water":      "Utilities",
	"internet":   "Utilities",
	"phone":      "Utilities",
	"netflix":    "Entertainment",
	"spotify":    "Entertainment",
	"cinema":     "Entertainment",
	"game":       "Entertainment",
	"clothes":    "Shopping",
	"amazon":     "Shopping",
	"shop":       "Shopping",
}

// KeywordMatcher matches a transaction name against category names and a
// keyword table, falling back to the sentinel category. It is an alternative
// strategy to UndefinedMatcher for expense rows.
type KeywordMatcher struct {
	categories domain.CategoryRepository
}

// NewKeywordMatcher creates a KeywordMatcher over the expense category table.
func NewKeywordMatcher(categories domain.CategoryRepository) *KeywordMatcher {
	return &KeywordMatcher{categories: categories}
}

// Resolve tries, in order: exact category-name match, substring match in
// either direction, then the keyword table. Anything unmatched lands on the
// sentinel category.
func (m *KeywordMatcher) Resolve(ctx context.Context, name string) (*uuid.UUID, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return m.sentinel(ctx)
	}

	categories, err := m.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*uuid.UUID, len(categories))
	for _, cat := range categories {
		cn := strings.ToLower(cat.Name)
		byName[cn] = &cat.ID
		if cn == needle {
			return &cat.ID, nil
		}
	}
	for _, cat := range categories {
		cn := strings.ToLower(cat.Name)
		if cn == strings.ToLower(domain.SentinelCategoryName) {
			continue
		}
		if strings.Contains(needle, cn) || strings.Contains(cn, needle) {
			return &cat.ID, nil
		}
	}
	for keyword, categoryName := range categoryKeywords {
		if strings.Contains(needle, keyword) {
			if id, ok := byName[strings.ToLower(categoryName)]; ok {
				return id, nil
			}
		}
	}
	return m.sentinel(ctx)
}

func (m *KeywordMatcher) sentinel(ctx context.Context) (*uuid.UUID, error) {
	cat, err := m.categories.GetByName(ctx, domain.SentinelCategoryName)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat.ID, nil
}
