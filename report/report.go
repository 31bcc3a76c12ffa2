//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package report provides the evaluation report types produced by a run and
// the manager interface for persisting them.
package report

import (
	"context"
	"time"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/status"
)

// QuestionEvaluation is the scored outcome for one answer-key question.
type QuestionEvaluation struct {
	// QuestionID identifies the answer-key question.
	QuestionID string `json:"questionId"`
	// Status records how the question was resolved.
	Status status.QuestionStatus `json:"status"`
	// MetricScores holds one entry per enabled metric in stable metric order,
	// including unavailable ones with their reasons.
	MetricScores []*metric.Score `json:"metricScores,omitempty"`
	// Composite is the weighted mean over the available metrics in [0,1].
	Composite float64 `json:"composite"`
	// AwardedMarks is Composite scaled by MaxMarks and rounded to the
	// configured precision.
	AwardedMarks float64 `json:"awardedMarks"`
	// MaxMarks mirrors the answer-key mark ceiling for this question.
	MaxMarks float64 `json:"maxMarks"`
	// ErrorMessage carries the failure when scoring this question faulted.
	// The rest of the report is unaffected.
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// BloomSubtotal aggregates marks over the questions expecting one Bloom level.
type BloomSubtotal struct {
	// Level is the expected cognitive level.
	Level answerkey.Level `json:"level"`
	// Questions is the number of key questions at this level.
	Questions int `json:"questions"`
	// AwardedMarks sums the awarded marks at this level.
	AwardedMarks float64 `json:"awardedMarks"`
	// MaxMarks sums the mark ceilings at this level.
	MaxMarks float64 `json:"maxMarks"`
}

// StudentReport is the full evaluation outcome for one student submission.
// Questions follow answer-key order regardless of submission order.
type StudentReport struct {
	// ReportID uniquely identifies this report.
	ReportID string `json:"reportId,omitempty"`
	// KeyID identifies the answer key the submission was graded against.
	KeyID string `json:"keyId,omitempty"`
	// StudentID identifies the student.
	StudentID string `json:"studentId"`
	// StudentName is the optional display name from the submission.
	StudentName string `json:"studentName,omitempty"`
	// Questions holds one evaluation per answer-key question, in key order.
	Questions []*QuestionEvaluation `json:"questions"`
	// AwardedMarks is the total awarded across all questions.
	AwardedMarks float64 `json:"awardedMarks"`
	// TotalMarks is the answer key's total mark ceiling.
	TotalMarks float64 `json:"totalMarks"`
	// Percentage is AwardedMarks over TotalMarks in [0,100]; zero when the
	// key carries no marks.
	Percentage float64 `json:"percentage"`
	// Rating is the human-readable band label for Percentage.
	Rating string `json:"rating,omitempty"`
	// BloomSubtotals breaks marks down by expected cognitive level, ordered
	// from Remember to Create. Levels with no questions are omitted.
	BloomSubtotals []*BloomSubtotal `json:"bloomSubtotals,omitempty"`
	// UnmatchedAnswers lists submitted answer ids that matched no key
	// question; they are reported, never scored.
	UnmatchedAnswers []string `json:"unmatchedAnswers,omitempty"`
	// CreatedAt is when the report was produced.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// AnsweredQuestions counts the questions the student attempted.
func (r *StudentReport) AnsweredQuestions() int {
	n := 0
	for _, q := range r.Questions {
		if q.Status != status.QuestionStatusUnanswered {
			n++
		}
	}
	return n
}

// EvaluatedQuestions counts the questions at least one metric scored.
func (r *StudentReport) EvaluatedQuestions() int {
	n := 0
	for _, q := range r.Questions {
		if q.Status == status.QuestionStatusEvaluated {
			n++
		}
	}
	return n
}

// Manager defines the interface for persisting student reports.
type Manager interface {
	// Save stores a report and returns its id, assigning one if empty.
	Save(ctx context.Context, report *StudentReport) (string, error)
	// Get retrieves a report by id.
	Get(ctx context.Context, reportID string) (*StudentReport, error)
	// List returns the ids of all reports stored for an answer key.
	List(ctx context.Context, keyID string) ([]string, error)
	// Close releases resources held by the manager.
	Close() error
}
