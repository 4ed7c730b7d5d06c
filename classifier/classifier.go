package classifier

import (
	"github.com/hickeroar/docclass/classifier/category"
	"github.com/hickeroar/docclass/features"
)

// Classifier learns feature and category frequencies from labeled items.
// It is not safe for concurrent use; callers sharing one instance must
// serialize Train against the lookups.
type Classifier struct {
	categories *category.Categories
	extract    features.Extractor
}

// NewClassifier returns a pointer to a instance of type Classifier.
// A nil extractor selects features.Words.
func NewClassifier(extract features.Extractor) *Classifier {
	if extract == nil {
		extract = features.Words
	}
	return &Classifier{
		categories: category.NewCategories(),
		extract:    extract,
	}
}

// Extract returns the features the classifier would train for doc.
func (c *Classifier) Extract(doc string) []string {
	return c.extract(doc)
}

// Feature normalizes a queried term the way Train would store it. It
// reports false unless term yields exactly one feature.
func (c *Classifier) Feature(term string) (string, bool) {
	found := c.extract(term)
	if len(found) != 1 {
		return "", false
	}
	return found[0], true
}

// Train counts every feature of item under cat, then counts the item itself.
// Repeated calls with the same arguments keep reinforcing the example.
func (c *Classifier) Train(item, cat string) {
	c.categories.GetCategory(cat).TrainDocument(c.extract(item))
}

// FeatureCount returns how many items trained into cat contained feature.
func (c *Classifier) FeatureCount(feature, cat string) float64 {
	if val, ok := c.categories.LookupCategory(cat); ok {
		return float64(val.FeatureCount(feature))
	}
	return 0.0
}

// CategoryCount returns how many items were trained into cat.
func (c *Classifier) CategoryCount(cat string) float64 {
	if val, ok := c.categories.LookupCategory(cat); ok {
		return float64(val.Tally())
	}
	return 0
}

// TotalCount returns the number of Train calls made so far.
func (c *Classifier) TotalCount() float64 {
	return float64(c.categories.Total())
}

// Categories returns every category trained so far, sorted.
func (c *Classifier) Categories() []string {
	return c.categories.Names()
}

// Summaries returns a snapshot of per-category statistics.
func (c *Classifier) Summaries() map[string]category.Summary {
	return c.categories.Summaries()
}
