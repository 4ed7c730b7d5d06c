package classifier

import (
	"errors"
	"fmt"
	"math"
)

// ProbFunc estimates P(feature | category).
type ProbFunc func(feature, cat string) float64

// Weighting controls how strongly WeightedProbWith pulls an estimate toward
// AssumedProb. Weight is the number of observations the prior is worth.
type Weighting struct {
	Weight      float64
	AssumedProb float64
}

// DefaultWeighting is a prior of 0.5 worth a single observation.
var DefaultWeighting = Weighting{Weight: 1.0, AssumedProb: 0.5}

var (
	errInvalidWeight      = errors.New("weight must be finite and greater than zero")
	errAssumedProbOutside = errors.New("assumed probability must be within [0, 1]")
)

// Validate reports whether w can be used by WeightedProbWith.
func (w Weighting) Validate() error {
	if !(w.Weight > 0) || math.IsInf(w.Weight, 1) {
		return fmt.Errorf("%w: %v", errInvalidWeight, w.Weight)
	}
	if !(w.AssumedProb >= 0 && w.AssumedProb <= 1) {
		return fmt.Errorf("%w: %v", errAssumedProbOutside, w.AssumedProb)
	}
	return nil
}

// FProb returns the fraction of items in cat that contained feature,
// or 0 when cat has no items.
func (c *Classifier) FProb(feature, cat string) float64 {
	catCount := c.CategoryCount(cat)
	if catCount == 0 {
		return 0
	}

	return c.FeatureCount(feature, cat) / catCount
}

// WeightedProb smooths prf with DefaultWeighting.
func (c *Classifier) WeightedProb(feature, cat string, prf ProbFunc) float64 {
	return c.WeightedProbWith(feature, cat, prf, DefaultWeighting)
}

// WeightedProbWith blends prf(feature, cat) with w.AssumedProb, weighting the
// empirical estimate by how often feature was seen across all categories.
// It panics if w does not pass Validate.
func (c *Classifier) WeightedProbWith(feature, cat string, prf ProbFunc, w Weighting) float64 {
	if err := w.Validate(); err != nil {
		panic("classifier: " + err.Error())
	}

	basic := prf(feature, cat)

	totals := 0.0
	for _, name := range c.categories.Names() {
		totals += c.FeatureCount(feature, name)
	}

	return (w.Weight*w.AssumedProb + totals*basic) / (w.Weight + totals)
}
