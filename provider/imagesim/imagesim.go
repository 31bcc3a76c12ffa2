//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package imagesim provides the diagram similarity metric.
package imagesim

import (
	"context"
	"errors"
	"fmt"

	"github.com/edugrade/answer-eval/backend"
	"github.com/edugrade/answer-eval/internal/vecmath"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
)

// imageProvider scores submitted diagrams against the question's reference image.
type imageProvider struct {
	embedder backend.ImageEmbedder
}

// New creates an image similarity provider backed by the given embedder.
// A nil embedder yields a provider that always reports unavailability.
func New(embedder backend.ImageEmbedder) provider.Provider {
	return &imageProvider{embedder: embedder}
}

// Name returns the metric identifier.
func (p *imageProvider) Name() string {
	return metric.MetricImageSimilarity
}

// Description describes the metric purpose.
func (p *imageProvider) Description() string {
	return "Cosine similarity of submitted and reference diagram embeddings, rescaled to [0,1]"
}

// Score embeds both images and rescales their cosine similarity to [0,1].
// The metric is unavailable when image comparison is off, either image is
// missing, or the backend fails.
func (p *imageProvider) Score(ctx context.Context, pair *provider.Pair, cfg metric.Config) (*metric.Score, error) {
	if pair == nil || pair.Question == nil || pair.Answer == nil {
		return nil, errors.New("imagesim: pair is incomplete")
	}
	if !cfg.ImageComparison {
		return metric.Unavailable(p.Name(), "image comparison disabled"), nil
	}
	if p.embedder == nil {
		return metric.Unavailable(p.Name(), "no image embedder configured"), nil
	}
	if pair.Question.ReferenceImage.Empty() {
		return metric.Unavailable(p.Name(), "question has no reference image"), nil
	}
	if pair.Answer.Image.Empty() {
		return metric.Unavailable(p.Name(), "answer has no image"), nil
	}

	refVec, err := p.embedder.EmbedImage(ctx, pair.Question.ReferenceImage)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return metric.Unavailable(p.Name(), fmt.Sprintf("embed reference image: %v", err)), nil
	}
	candVec, err := p.embedder.EmbedImage(ctx, pair.Answer.Image)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return metric.Unavailable(p.Name(), fmt.Sprintf("embed answer image: %v", err)), nil
	}

	sim, err := vecmath.Cosine(refVec, candVec)
	if err != nil {
		return metric.Unavailable(p.Name(), fmt.Sprintf("compare embeddings: %v", err)), nil
	}
	return metric.Available(p.Name(), vecmath.UnitInterval(sim)), nil
}
