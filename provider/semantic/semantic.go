//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package semantic provides the embedding-based semantic similarity metric.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edugrade/answer-eval/backend"
	"github.com/edugrade/answer-eval/internal/vecmath"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
)

// semanticProvider scores answers by cosine similarity of text embeddings.
type semanticProvider struct {
	embedder backend.TextEmbedder
}

// New creates a semantic similarity provider backed by the given embedder.
// A nil embedder yields a provider that always reports unavailability.
func New(embedder backend.TextEmbedder) provider.Provider {
	return &semanticProvider{embedder: embedder}
}

// Name returns the metric identifier.
func (p *semanticProvider) Name() string {
	return metric.MetricSemanticSimilarity
}

// Description describes the metric purpose.
func (p *semanticProvider) Description() string {
	return "Cosine similarity of answer and model-answer embeddings, rescaled to [0,1]"
}

// Score embeds both texts and rescales their cosine similarity to [0,1].
// Backend failures surface as metric unavailability, never as errors.
func (p *semanticProvider) Score(ctx context.Context, pair *provider.Pair, _ metric.Config) (*metric.Score, error) {
	if pair == nil || pair.Question == nil || pair.Answer == nil {
		return nil, errors.New("semantic: pair is incomplete")
	}
	if p.embedder == nil {
		return metric.Unavailable(p.Name(), "no text embedder configured"), nil
	}
	ref := strings.TrimSpace(pair.Question.ModelAnswer)
	cand := strings.TrimSpace(pair.Answer.Text)
	if ref == "" {
		return metric.Unavailable(p.Name(), "question has no model answer"), nil
	}
	if cand == "" {
		return metric.Unavailable(p.Name(), "answer has no text"), nil
	}

	refVec, err := p.embedder.Embed(ctx, ref)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return metric.Unavailable(p.Name(), fmt.Sprintf("embed model answer: %v", err)), nil
	}
	candVec, err := p.embedder.Embed(ctx, cand)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return metric.Unavailable(p.Name(), fmt.Sprintf("embed answer: %v", err)), nil
	}

	sim, err := vecmath.Cosine(refVec, candVec)
	if err != nil {
		return metric.Unavailable(p.Name(), fmt.Sprintf("compare embeddings: %v", err)), nil
	}
	return metric.Available(p.Name(), vecmath.UnitInterval(sim)), nil
}
