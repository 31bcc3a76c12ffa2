//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package report

import "sort"

// Rating band thresholds in percent.
const (
	ratingExcellentMin    = 90
	ratingVeryGoodMin     = 80
	ratingGoodMin         = 70
	ratingSatisfactoryMin = 60
)

// Rating band labels.
const (
	RatingExcellent        = "Excellent!"
	RatingVeryGood         = "Very Good!"
	RatingGood             = "Good"
	RatingSatisfactory     = "Satisfactory"
	RatingNeedsImprovement = "Needs Improvement"
)

// Rating maps a percentage to its band label.
func Rating(percentage float64) string {
	switch {
	case percentage >= ratingExcellentMin:
		return RatingExcellent
	case percentage >= ratingVeryGoodMin:
		return RatingVeryGood
	case percentage >= ratingGoodMin:
		return RatingGood
	case percentage >= ratingSatisfactoryMin:
		return RatingSatisfactory
	default:
		return RatingNeedsImprovement
	}
}

// RatingBand is one bucket of the cohort score distribution.
type RatingBand struct {
	// Label is the band label.
	Label string `json:"label"`
	// MinPercentage is the inclusive lower bound of the band.
	MinPercentage float64 `json:"minPercentage"`
	// Students is the number of reports falling in the band.
	Students int `json:"students"`
}

// CohortSummary aggregates the reports of one evaluation run.
type CohortSummary struct {
	// KeyID identifies the answer key the cohort was graded against.
	KeyID string `json:"keyId,omitempty"`
	// Students is the number of reports summarized.
	Students int `json:"students"`
	// MeanPercentage is the arithmetic mean of report percentages.
	MeanPercentage float64 `json:"meanPercentage"`
	// MedianPercentage is the median of report percentages.
	MedianPercentage float64 `json:"medianPercentage"`
	// HighestPercentage is the best report percentage.
	HighestPercentage float64 `json:"highestPercentage"`
	// LowestPercentage is the worst report percentage.
	LowestPercentage float64 `json:"lowestPercentage"`
	// AwardedMarks sums awarded marks over all reports.
	AwardedMarks float64 `json:"awardedMarks"`
	// PossibleMarks sums mark ceilings over all reports.
	PossibleMarks float64 `json:"possibleMarks"`
	// AnsweredQuestions counts attempted questions across the cohort.
	AnsweredQuestions int `json:"answeredQuestions"`
	// EvaluatedQuestions counts scored questions across the cohort.
	EvaluatedQuestions int `json:"evaluatedQuestions"`
	// Distribution buckets the cohort by rating band, best band first.
	Distribution []*RatingBand `json:"distribution,omitempty"`
}

// Summarize aggregates reports into a cohort summary. Nil reports are
// skipped; an empty cohort yields an empty summary.
func Summarize(reports []*StudentReport) *CohortSummary {
	summary := &CohortSummary{
		Distribution: []*RatingBand{
			{Label: RatingExcellent, MinPercentage: ratingExcellentMin},
			{Label: RatingVeryGood, MinPercentage: ratingVeryGoodMin},
			{Label: RatingGood, MinPercentage: ratingGoodMin},
			{Label: RatingSatisfactory, MinPercentage: ratingSatisfactoryMin},
			{Label: RatingNeedsImprovement, MinPercentage: 0},
		},
	}
	var percentages []float64
	for _, r := range reports {
		if r == nil {
			continue
		}
		if summary.KeyID == "" {
			summary.KeyID = r.KeyID
		}
		summary.Students++
		summary.AwardedMarks += r.AwardedMarks
		summary.PossibleMarks += r.TotalMarks
		summary.AnsweredQuestions += r.AnsweredQuestions()
		summary.EvaluatedQuestions += r.EvaluatedQuestions()
		percentages = append(percentages, r.Percentage)
		for _, band := range summary.Distribution {
			if r.Percentage >= band.MinPercentage {
				band.Students++
				break
			}
		}
	}
	if len(percentages) == 0 {
		return summary
	}

	sort.Float64s(percentages)
	summary.LowestPercentage = percentages[0]
	summary.HighestPercentage = percentages[len(percentages)-1]

	var sum float64
	for _, p := range percentages {
		sum += p
	}
	summary.MeanPercentage = sum / float64(len(percentages))

	mid := len(percentages) / 2
	if len(percentages)%2 == 1 {
		summary.MedianPercentage = percentages[mid]
	} else {
		summary.MedianPercentage = (percentages[mid-1] + percentages[mid]) / 2
	}
	return summary
}
