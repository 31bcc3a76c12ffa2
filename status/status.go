//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package status provides the status of a question evaluation.
package status

import (
	"encoding/json"
	"fmt"
)

// QuestionStatus represents the outcome of evaluating one question.
type QuestionStatus int

const (
	// QuestionStatusUnknown represents an unknown question status.
	QuestionStatusUnknown QuestionStatus = iota
	// QuestionStatusEvaluated represents a question that was scored from at least one metric.
	QuestionStatusEvaluated
	// QuestionStatusUnanswered represents a question the student did not answer.
	QuestionStatusUnanswered
	// QuestionStatusKeyMismatch represents a question no metric could score, flagged for manual review.
	QuestionStatusKeyMismatch
)

// String returns the string representation of the question status.
func (s QuestionStatus) String() string {
	switch s {
	case QuestionStatusEvaluated:
		return "evaluated"
	case QuestionStatusUnanswered:
		return "unanswered"
	case QuestionStatusKeyMismatch:
		return "key_mismatch"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form so persisted reports stay readable.
func (s QuestionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the status from its string form.
func (s *QuestionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal question status: %w", err)
	}
	switch raw {
	case "evaluated":
		*s = QuestionStatusEvaluated
	case "unanswered":
		*s = QuestionStatusUnanswered
	case "key_mismatch":
		*s = QuestionStatusKeyMismatch
	default:
		*s = QuestionStatusUnknown
	}
	return nil
}
