//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package answerkey defines the instructor-authored answer key consumed by an evaluation run.
package answerkey

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrMalformedKey marks answer keys that cannot drive an evaluation run.
// A broken key invalidates every downstream score, so runs fail fast on it.
var ErrMalformedKey = errors.New("malformed answer key")

// Image carries a reference diagram attached to a question.
type Image struct {
	// Data holds the raw image bytes.
	Data []byte `json:"data,omitempty"`
	// MIME identifies the image format, e.g. image/png.
	MIME string `json:"mime,omitempty"`
}

// Empty reports whether the image carries no usable payload.
func (i *Image) Empty() bool {
	return i == nil || len(i.Data) == 0
}

// Question is a single answer-key entry. Questions are immutable once the key
// is loaded and are shared read-only across all student evaluations in a run.
type Question struct {
	// ID uniquely identifies the question within the key.
	ID string `json:"id"`
	// Prompt is the question text shown to students.
	Prompt string `json:"prompt,omitempty"`
	// ModelAnswer is the instructor reference answer.
	ModelAnswer string `json:"modelAnswer"`
	// MaxMarks is the positive mark ceiling for this question.
	MaxMarks float64 `json:"maxMarks"`
	// BloomLevel is the expected cognitive level of a correct answer.
	BloomLevel Level `json:"bloomLevel,omitempty"`
	// KeyTerms lists instructor-specified vocabulary expected in a correct answer.
	KeyTerms []string `json:"keyTerms,omitempty"`
	// ReferenceImage is the optional reference diagram.
	ReferenceImage *Image `json:"referenceImage,omitempty"`
}

// AnswerKey is the ordered set of questions for an evaluation run.
type AnswerKey struct {
	// KeyID identifies the key, e.g. the exam name.
	KeyID string `json:"keyId,omitempty"`
	// Questions holds the key questions in presentation order.
	Questions []*Question `json:"questions"`
}

// TotalMarks returns the sum of max marks over all questions.
func (k *AnswerKey) TotalMarks() float64 {
	var total float64
	for _, q := range k.Questions {
		total += q.MaxMarks
	}
	return total
}

// Validate checks the key for structural problems. All problems are collected
// so operators can fix the key in one pass; the returned error wraps ErrMalformedKey.
func (k *AnswerKey) Validate() error {
	if k == nil {
		return fmt.Errorf("%w: key is nil", ErrMalformedKey)
	}
	if len(k.Questions) == 0 {
		return fmt.Errorf("%w: key has no questions", ErrMalformedKey)
	}
	var result *multierror.Error
	seen := make(map[string]struct{}, len(k.Questions))
	for i, q := range k.Questions {
		if q == nil {
			result = multierror.Append(result, fmt.Errorf("question %d is nil", i))
			continue
		}
		if q.ID == "" {
			result = multierror.Append(result, fmt.Errorf("question %d has empty id", i))
		} else if _, ok := seen[q.ID]; ok {
			result = multierror.Append(result, fmt.Errorf("question id %s is duplicated", q.ID))
		} else {
			seen[q.ID] = struct{}{}
		}
		if q.MaxMarks < 0 {
			result = multierror.Append(result, fmt.Errorf("question %s has negative max marks %v", q.ID, q.MaxMarks))
		}
		if q.ModelAnswer == "" && q.ReferenceImage.Empty() {
			result = multierror.Append(result, fmt.Errorf("question %s has neither model answer nor reference image", q.ID))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return nil
}

// Lookup returns the question with the given id, or nil when absent.
func (k *AnswerKey) Lookup(id string) *Question {
	for _, q := range k.Questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}
