//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package provider defines the metric provider interface and the scoring
// pair it consumes. Concrete metrics live in subpackages and register
// themselves with a registry keyed by metric name.
package provider

import (
	"context"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/student"
)

// Provider computes one metric for a (question, answer) pair.
//
// Score returns an error only for programming mistakes or context
// cancellation. A metric that cannot be computed for the given pair, for
// example because its backend is down or the question lacks the material the
// metric needs, is reported as an unavailable metric.Score, not an error.
type Provider interface {
	// Name returns the metric name this provider computes.
	Name() string
	// Description returns a one-line human-readable description.
	Description() string
	// Score computes the metric for the given pair.
	Score(ctx context.Context, pair *Pair, cfg metric.Config) (*metric.Score, error)
}

// Pair binds one answer-key question to one student answer, with both texts
// normalized exactly once so every provider scores the same token view.
type Pair struct {
	// Question is the answer-key question being scored.
	Question *answerkey.Question
	// Answer is the matched student answer.
	Answer *student.Answer
	// RefTokens holds the normalized model-answer tokens.
	RefTokens []string
	// CandTokens holds the normalized student-answer tokens.
	CandTokens []string
	// Normalizer is the normalizer that produced the token views. Providers
	// that re-tokenize raw text use it so a run-level stop-word override
	// applies to every token view, not just RefTokens and CandTokens.
	Normalizer *textnorm.Normalizer
}

// NewPair builds a scoring pair, normalizing both texts with the given
// normalizer. A nil normalizer falls back to the default stop-word set.
func NewPair(n *textnorm.Normalizer, q *answerkey.Question, a *student.Answer) *Pair {
	if n == nil {
		n = textnorm.New(nil)
	}
	p := &Pair{Question: q, Answer: a, Normalizer: n}
	if q != nil {
		p.RefTokens = n.Normalize(q.ModelAnswer)
	}
	if a != nil {
		p.CandTokens = n.Normalize(a.Text)
	}
	return p
}
