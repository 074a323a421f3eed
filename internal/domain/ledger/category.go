package ledger

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/thukbot/thuk/internal/domain/nlp"
)

// CategoryResolver maps a free-text category hint to a stored category.
// The understanding engine only ever guesses names; resolving them against
// what the user actually has, fuzzily when needed, happens here.
type CategoryResolver struct {
	categories CategoryStore
}

// NewCategoryResolver wires the resolver.
func NewCategoryResolver(categories CategoryStore) *CategoryResolver {
	return &CategoryResolver{categories: categories}
}

// Resolve tries an exact case-insensitive name match first, then ranks the
// user's category names by Levenshtein distance and takes the closest.
// Returns nil without error when nothing is plausible.
func (r *CategoryResolver) Resolve(ctx context.Context, userID uuid.UUID, hint string) (*Category, error) {
	if hint == "" {
		return nil, nil
	}

	if cat, err := r.categories.GetCategoryByName(ctx, userID, hint); err != nil {
		return nil, err
	} else if cat != nil {
		return cat, nil
	}

	all, err := r.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(hint, names)
	if len(ranks) == 0 {
		return nil, nil
	}
	sort.Sort(ranks)

	for i := range all {
		if all[i].Name == ranks[0].Target {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Category-name extraction patterns for "add category X" style messages,
// tried in order against the lowered text.
var categoryNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`add\s+category\s+(.+)`),
	regexp.MustCompile(`new\s+category\s+(.+)`),
	regexp.MustCompile(`create\s+category\s+(.+)`),
}

// extractCategoryName pulls the category name out of an add-category
// message, title-cased, or "" when no name is present.
func extractCategoryName(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range categoryNamePatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			return titleCase(strings.TrimSpace(m[1]))
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// AddCategoryHandler creates a custom category.
type AddCategoryHandler struct {
	categories CategoryStore
}

// NewAddCategoryHandler wires the add-category handler.
func NewAddCategoryHandler(categories CategoryStore) *AddCategoryHandler {
	return &AddCategoryHandler{categories: categories}
}

// Handle creates the named category unless it already exists.
func (h *AddCategoryHandler) Handle(ctx context.Context, msg nlp.ParsedMessage, user User) (string, error) {
	name := extractCategoryName(msg.RawText)
	if name == "" {
		return "Please specify a category name (e.g., 'add category Subscriptions').", nil
	}

	existing, err := h.categories.GetCategoryByName(ctx, user.ID, name)
	if err != nil {
		return "", fmt.Errorf("lookup category %q: %w", name, err)
	}
	if existing != nil {
		return fmt.Sprintf("Category '%s' already exists!", existing.Name), nil
	}

	category := &Category{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   name,
	}
	if err := h.categories.CreateCategory(ctx, category); err != nil {
		return "", fmt.Errorf("create category %q: %w", name, err)
	}
	return fmt.Sprintf("Added category: %s", name), nil
}

// ListCategoriesHandler lists the user's categories, defaults first.
type ListCategoriesHandler struct {
	categories CategoryStore
}

// NewListCategoriesHandler wires the list-categories handler.
func NewListCategoriesHandler(categories CategoryStore) *ListCategoriesHandler {
	return &ListCategoriesHandler{categories: categories}
}

// Handle formats the default and custom category sections.
func (h *ListCategoriesHandler) Handle(ctx context.Context, _ nlp.ParsedMessage, user User) (string, error) {
	all, err := h.categories.ListCategories(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	if len(all) == 0 {
		return "No categories found. Send 'add category <name>' to create one.", nil
	}

	var defaults, custom []string
	for _, c := range all {
		if c.IsDefault {
			defaults = append(defaults, "- "+c.Name)
		} else {
			custom = append(custom, "- "+c.Name)
		}
	}

	var b strings.Builder
	b.WriteString("*Your Categories*\n")
	if len(defaults) > 0 {
		b.WriteString("\n*Default:*\n")
		b.WriteString(strings.Join(defaults, "\n"))
	}
	if len(custom) > 0 {
		b.WriteString("\n\n*Custom:*\n")
		b.WriteString(strings.Join(custom, "\n"))
	}
	return b.String(), nil
}
