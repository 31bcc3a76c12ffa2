//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package lexical provides the n-gram precision metric over normalized tokens.
package lexical

import (
	"context"
	"errors"

	"github.com/edugrade/answer-eval/internal/overlap"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
)

// lexicalProvider scores answers by clipped n-gram precision with a brevity penalty.
type lexicalProvider struct{}

// New creates a lexical overlap provider.
func New() provider.Provider {
	return &lexicalProvider{}
}

// Name returns the metric identifier.
func (p *lexicalProvider) Name() string {
	return metric.MetricLexicalOverlap
}

// Description describes the metric purpose.
func (p *lexicalProvider) Description() string {
	return "Clipped n-gram precision of answer tokens against the model answer, with a brevity penalty"
}

// Score computes the lexical overlap for the normalized token pair.
func (p *lexicalProvider) Score(ctx context.Context, pair *provider.Pair, _ metric.Config) (*metric.Score, error) {
	if pair == nil {
		return nil, errors.New("lexical: pair is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pair.RefTokens) == 0 {
		return metric.Unavailable(p.Name(), "model answer has no scorable tokens"), nil
	}
	if len(pair.CandTokens) == 0 {
		return metric.Unavailable(p.Name(), "answer has no scorable tokens"), nil
	}
	return metric.Available(p.Name(), overlap.BLEUScore(pair.RefTokens, pair.CandTokens)), nil
}
