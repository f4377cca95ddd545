package category

import (
	"strings"
	"unicode"
)

// Category groups articles under one label.
type Category struct {
	id           string
	name         string
	description  string
	articleCount int
}

// New creates a category with no articles counted.
func New(id, name, description string) Category {
	return Category{id: id, name: name, description: description}
}

// Discovered creates a category for a label found in the corpus but not seeded.
func Discovered(name string) Category {
	return Category{id: "cat_" + Slug(name), name: name}
}

// ID returns the category identifier.
func (c Category) ID() string { return c.id }

// Name returns the display name; articles reference categories by name.
func (c Category) Name() string { return c.name }

// Description returns the category description.
func (c Category) Description() string { return c.description }

// ArticleCount returns the number of published articles in the category.
func (c Category) ArticleCount() int { return c.articleCount }

// WithCount returns a copy with the article count replaced.
func (c Category) WithCount(n int) Category {
	c.articleCount = n
	return c
}

// Slug lowercases name and joins its alphanumeric runs with underscores.
func Slug(name string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return b.String()
}
