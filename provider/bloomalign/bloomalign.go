//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package bloomalign provides the Bloom taxonomy alignment metric.
package bloomalign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edugrade/answer-eval/backend"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
)

// bloomProvider scores how well the cognitive level of an answer matches the
// level the question expects.
type bloomProvider struct {
	classifier backend.LevelClassifier
}

// New creates a Bloom alignment provider backed by the given classifier.
// A nil classifier yields a provider that always reports unavailability.
func New(classifier backend.LevelClassifier) provider.Provider {
	return &bloomProvider{classifier: classifier}
}

// Name returns the metric identifier.
func (p *bloomProvider) Name() string {
	return metric.MetricBloomAlignment
}

// Description describes the metric purpose.
func (p *bloomProvider) Description() string {
	return "Alignment of the answer's demonstrated Bloom level with the level the question expects"
}

// Score classifies the answer and credits the match: full credit for the
// expected level or higher, adjacent credit one level below, zero further down.
func (p *bloomProvider) Score(ctx context.Context, pair *provider.Pair, cfg metric.Config) (*metric.Score, error) {
	if pair == nil || pair.Question == nil || pair.Answer == nil {
		return nil, errors.New("bloomalign: pair is incomplete")
	}
	if p.classifier == nil {
		return metric.Unavailable(p.Name(), "no level classifier configured"), nil
	}
	expected := pair.Question.BloomLevel
	if !expected.Valid() {
		return metric.Unavailable(p.Name(), "question has no expected bloom level"), nil
	}
	text := strings.TrimSpace(pair.Answer.Text)
	if text == "" {
		return metric.Unavailable(p.Name(), "answer has no text"), nil
	}

	got, err := p.classifier.Classify(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return metric.Unavailable(p.Name(), fmt.Sprintf("classify answer: %v", err)), nil
	}
	if !got.Valid() {
		return metric.Unavailable(p.Name(), fmt.Sprintf("classifier returned level %s", got)), nil
	}

	// Demonstrating a level above the expected one is not penalized.
	switch {
	case got >= expected:
		return metric.Available(p.Name(), 1), nil
	case expected.Distance(got) == 1:
		return metric.Available(p.Name(), cfg.BloomAdjacentCredit), nil
	default:
		return metric.Available(p.Name(), 0), nil
	}
}
