package main

import (
	"github.com/hickeroar/docclass/classifier"
	"github.com/hickeroar/docclass/classifier/category"
)

// InfoResponse reports how much the classifier has learned per category
type InfoResponse struct {
	TotalCount float64
	Categories map[string]category.Summary
}

// NewInfoResponse Gets an assembled instance of InfoResponse
func NewInfoResponse(c *ClassifierAPI) *InfoResponse {
	return &InfoResponse{
		TotalCount: c.classifier.TotalCount(),
		Categories: c.classifier.Summaries(),
	}
}

// TrainingResponse is returned after training, listing the trained features and known categories
type TrainingResponse struct {
	Success    bool
	Category   string
	Features   []string
	Categories []string
}

// NewTrainingResponse Gets an assembled instance of TrainingResponse
func NewTrainingResponse(c *ClassifierAPI, trained string, found []string) *TrainingResponse {
	return &TrainingResponse{
		Success:    true,
		Category:   trained,
		Features:   found,
		Categories: c.classifier.Categories(),
	}
}

// FeaturesResponse lists the features extracted from a document
type FeaturesResponse struct {
	Features []string
}

// ProbabilityResponse holds the counts and estimates for one feature and category
type ProbabilityResponse struct {
	Feature             string
	Category            string
	FeatureCount        float64
	CategoryCount       float64
	Probability         float64
	WeightedProbability float64
	Weighting           classifier.Weighting
}

// NewProbabilityResponse Gets an assembled instance of ProbabilityResponse
func NewProbabilityResponse(c *ClassifierAPI, feature, cat string, w classifier.Weighting) *ProbabilityResponse {
	model := c.classifier
	return &ProbabilityResponse{
		Feature:             feature,
		Category:            cat,
		FeatureCount:        model.FeatureCount(feature, cat),
		CategoryCount:       model.CategoryCount(cat),
		Probability:         model.FProb(feature, cat),
		WeightedProbability: model.WeightedProbWith(feature, cat, model.FProb, w),
		Weighting:           w,
	}
}
