package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thukbot/thuk/internal/domain/nlp"
)

func storedCategories() []Category {
	return []Category{
		{ID: uuid.New(), Name: "Food", IsDefault: true},
		{ID: uuid.New(), Name: "Transport", IsDefault: true},
		{ID: uuid.New(), Name: "Subscriptions", IsDefault: false},
	}
}

func TestCategoryResolve(t *testing.T) {
	resolver := NewCategoryResolver(&fakeCategoryStore{categories: storedCategories()})
	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty hint", func(t *testing.T) {
		cat, err := resolver.Resolve(ctx, userID, "")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})

	t.Run("exact match ignores case", func(t *testing.T) {
		cat, err := resolver.Resolve(ctx, userID, "food")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, "Food", cat.Name)
	})

	t.Run("fuzzy match on typo", func(t *testing.T) {
		cat, err := resolver.Resolve(ctx, userID, "Fod")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, "Food", cat.Name)
	})

	t.Run("nothing plausible", func(t *testing.T) {
		cat, err := resolver.Resolve(ctx, userID, "xyzzy")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})
}

func TestExtractCategoryName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"add category Subscriptions", "Subscriptions"},
		{"Add Category subscriptions", "Subscriptions"},
		{"new category pet care", "Pet Care"},
		{"create category Gifts", "Gifts"},
		{"add category épargne", "Épargne"}, // first rune may be multi-byte
		{"add category", ""},
		{"spent 500 on food", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCategoryName(tt.text))
		})
	}
}

func TestAddCategory(t *testing.T) {
	t.Run("no name given", func(t *testing.T) {
		h := NewAddCategoryHandler(&fakeCategoryStore{})
		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{RawText: "add category"}, testUser())
		require.NoError(t, err)
		assert.Contains(t, reply, "specify a category name")
	})

	t.Run("creates category", func(t *testing.T) {
		store := &fakeCategoryStore{}
		h := NewAddCategoryHandler(store)
		user := testUser()

		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{RawText: "add category pet care"}, user)
		require.NoError(t, err)
		assert.Equal(t, "Added category: Pet Care", reply)

		require.Len(t, store.created, 1)
		assert.Equal(t, "Pet Care", store.created[0].Name)
		assert.Equal(t, user.ID, store.created[0].UserID)
		assert.False(t, store.created[0].IsDefault)
	})

	t.Run("duplicate name", func(t *testing.T) {
		store := &fakeCategoryStore{categories: storedCategories()}
		h := NewAddCategoryHandler(store)

		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{RawText: "add category food"}, testUser())
		require.NoError(t, err)
		assert.Equal(t, "Category 'Food' already exists!", reply)
		assert.Empty(t, store.created)
	})
}

func TestListCategories(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := NewListCategoriesHandler(&fakeCategoryStore{})
		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{}, testUser())
		require.NoError(t, err)
		assert.Contains(t, reply, "No categories found")
	})

	t.Run("defaults and custom sections", func(t *testing.T) {
		h := NewListCategoriesHandler(&fakeCategoryStore{categories: storedCategories()})
		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{}, testUser())
		require.NoError(t, err)

		assert.Contains(t, reply, "*Your Categories*")
		assert.Contains(t, reply, "*Default:*\n- Food\n- Transport")
		assert.Contains(t, reply, "*Custom:*\n- Subscriptions")
	})
}
