package category

// Category holds the document statistics learned for a single label
type Category struct {
	name     string
	features map[string]int // Documents in this category that contained the feature
	tally    int            // Documents trained into this category
}

// Summary is a value snapshot of a category's statistics
type Summary struct {
	Documents int
	Features  int
}

// NewCategory returns a pointer to a instance of type Category
func NewCategory(name string) *Category {
	return &Category{
		name:     name,
		features: make(map[string]int),
	}
}

// Name returns the label of this category
func (cat *Category) Name() string {
	return cat.name
}

// TrainDocument records one document carrying the given features
func (cat *Category) TrainDocument(features []string) {
	for _, feature := range features {
		cat.features[feature]++
	}

	cat.tally++
}

// FeatureCount returns how many documents in this category contained the feature
func (cat *Category) FeatureCount(feature string) int {
	if val, ok := cat.features[feature]; ok {
		return val
	}
	return 0
}

// Tally returns the number of documents trained into this category
func (cat *Category) Tally() int {
	return cat.tally
}

// Summary returns a snapshot of this category's statistics
func (cat *Category) Summary() Summary {
	return Summary{
		Documents: cat.tally,
		Features:  len(cat.features),
	}
}
