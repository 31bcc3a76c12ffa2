//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package aggregate folds per-metric scores into a composite score and
// awarded marks for one question.
package aggregate

import (
	"math"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/report"
	"github.com/edugrade/answer-eval/status"
)

// Composite computes the weighted mean of the available metric scores. The
// weights are renormalized over the metrics that actually produced a value,
// so an unavailable metric neither drags the composite toward zero nor
// inflates it. The second return reports whether any metric was available.
func Composite(scores []*metric.Score, cfg metric.Config) (float64, bool) {
	var weighted, totalWeight float64
	for _, s := range scores {
		if s == nil || s.Unavailable {
			continue
		}
		w := cfg.Weight(s.MetricName)
		if w <= 0 {
			continue
		}
		weighted += w * s.Value
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0, false
	}
	return weighted / totalWeight, true
}

// AwardMarks scales a composite by the mark ceiling and rounds to the nearest
// multiple of precision. Zero precision disables rounding. The result never
// exceeds maxMarks.
func AwardMarks(composite, maxMarks, precision float64) float64 {
	if maxMarks <= 0 {
		return 0
	}
	marks := composite * maxMarks
	if precision > 0 {
		marks = math.Round(marks/precision) * precision
	}
	if marks < 0 {
		return 0
	}
	if marks > maxMarks {
		return maxMarks
	}
	return marks
}

// Evaluate folds the metric scores for one answered question into its
// evaluation. A question no metric could score is flagged for manual review
// rather than scored zero.
func Evaluate(q *answerkey.Question, scores []*metric.Score, cfg metric.Config) *report.QuestionEvaluation {
	eval := &report.QuestionEvaluation{
		QuestionID:   q.ID,
		MetricScores: scores,
		MaxMarks:     q.MaxMarks,
	}
	composite, ok := Composite(scores, cfg)
	if !ok {
		eval.Status = status.QuestionStatusKeyMismatch
		return eval
	}
	eval.Status = status.QuestionStatusEvaluated
	eval.Composite = composite
	eval.AwardedMarks = AwardMarks(composite, q.MaxMarks, cfg.MarksPrecision)
	return eval
}
