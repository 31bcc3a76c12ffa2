//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package lcsmatch provides the longest-common-subsequence overlap metric.
package lcsmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/edugrade/answer-eval/internal/overlap"
	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
)

// lcsProvider scores answers by LCS recall over normalized tokens.
type lcsProvider struct{}

// New creates an LCS overlap provider.
func New() provider.Provider {
	return &lcsProvider{}
}

// Name returns the metric identifier.
func (p *lcsProvider) Name() string {
	return metric.MetricLCSOverlap
}

// Description describes the metric purpose.
func (p *lcsProvider) Description() string {
	return "Longest common subsequence length over model-answer length"
}

// Score computes the LCS overlap: the longest common token subsequence
// divided by the model-answer length. An empty model answer scores 0 unless
// the answer is also empty, which counts as a perfect match of nothing.
// With SentenceLCS enabled it splits both texts into sentences and computes
// a union LCS, which follows long multi-sentence answers more closely than
// a single global subsequence.
func (p *lcsProvider) Score(ctx context.Context, pair *provider.Pair, cfg metric.Config) (*metric.Score, error) {
	if pair == nil {
		return nil, errors.New("lcsmatch: pair is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !cfg.SentenceLCS {
		return metric.Available(p.Name(), overlap.LCSRecall(pair.RefTokens, pair.CandTokens)), nil
	}

	normalizer := pair.Normalizer
	if normalizer == nil {
		normalizer = textnorm.New(nil)
	}
	refSents, err := sentenceTokens(normalizer, modelAnswerText(pair))
	if err != nil {
		return metric.Unavailable(p.Name(), fmt.Sprintf("split model answer: %v", err)), nil
	}
	candSents, err := sentenceTokens(normalizer, answerText(pair))
	if err != nil {
		return metric.Unavailable(p.Name(), fmt.Sprintf("split answer: %v", err)), nil
	}
	return metric.Available(p.Name(), overlap.SummaryLCSRecall(refSents, candSents)), nil
}

func modelAnswerText(pair *provider.Pair) string {
	if pair.Question == nil {
		return ""
	}
	return pair.Question.ModelAnswer
}

func answerText(pair *provider.Pair) string {
	if pair.Answer == nil {
		return ""
	}
	return pair.Answer.Text
}

// sentenceTokens splits text into sentences and normalizes each one.
// Sentences left empty by normalization are dropped.
func sentenceTokens(n *textnorm.Normalizer, text string) ([][]string, error) {
	sents, err := textnorm.SplitSentences(text)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(sents))
	for _, s := range sents {
		tokens := n.Normalize(s)
		if len(tokens) == 0 {
			continue
		}
		out = append(out, tokens)
	}
	return out, nil
}
