package category

import "sort"

// Categories represents all our trained categories and enables us to interact with them.
type Categories struct {
	categories map[string]*Category // Map of category names to categories
}

// NewCategories returns a pointer to a instance of type Categories
func NewCategories() *Categories {
	return &Categories{
		categories: make(map[string]*Category),
	}
}

// GetCategory returns a specified category, creating it when missing
func (cats *Categories) GetCategory(name string) *Category {
	if val, ok := cats.categories[name]; ok {
		return val
	}

	cat := NewCategory(name)
	cats.categories[name] = cat

	return cat
}

// LookupCategory returns a category without creating it
func (cats *Categories) LookupCategory(name string) (*Category, bool) {
	cat, ok := cats.categories[name]
	return cat, ok
}

// Names returns the sorted names of all categories
func (cats *Categories) Names() []string {
	names := make([]string, 0, len(cats.categories))
	for name := range cats.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summaries returns a value snapshot of every category
func (cats *Categories) Summaries() map[string]Summary {
	summaries := make(map[string]Summary, len(cats.categories))
	for name, cat := range cats.categories {
		summaries[name] = cat.Summary()
	}
	return summaries
}

// Total returns the number of documents trained across all categories
func (cats *Categories) Total() int {
	total := 0
	for _, cat := range cats.categories {
		total += cat.tally
	}
	return total
}
