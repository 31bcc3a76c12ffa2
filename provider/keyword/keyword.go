//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package keyword provides the key-term coverage metric.
package keyword

import (
	"context"
	"errors"
	"strings"

	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
)

// keywordProvider scores answers by the fraction of instructor key terms they mention.
type keywordProvider struct{}

// New creates a keyword coverage provider.
func New() provider.Provider {
	return &keywordProvider{}
}

// Name returns the metric identifier.
func (p *keywordProvider) Name() string {
	return metric.MetricKeywordCoverage
}

// Description describes the metric purpose.
func (p *keywordProvider) Description() string {
	return "Fraction of instructor key terms present in the answer"
}

// Score computes key-term coverage. Terms are normalized with the same
// pipeline as answer text, so matching is case- and punctuation-insensitive;
// multi-word terms must appear as a contiguous token run. Individual tokens
// match across common inflections, so the term "chromosome" is found in an
// answer that says "chromosomes".
func (p *keywordProvider) Score(ctx context.Context, pair *provider.Pair, _ metric.Config) (*metric.Score, error) {
	if pair == nil || pair.Question == nil {
		return nil, errors.New("keyword: pair is incomplete")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pair.Question.KeyTerms) == 0 {
		return metric.Unavailable(p.Name(), "question has no key terms"), nil
	}
	if len(pair.CandTokens) == 0 {
		return metric.Unavailable(p.Name(), "answer has no scorable tokens"), nil
	}

	normalizer := pair.Normalizer
	if normalizer == nil {
		normalizer = textnorm.New(nil)
	}
	// Key terms may carry stop words ("law of diffusion"); tokenize without
	// stop-word removal and search the raw token stream so such terms still match.
	cand := normalizer.Tokenize(pair.Answer.Text)
	total := 0
	matched := 0
	for _, term := range pair.Question.KeyTerms {
		tokens := normalizer.Tokenize(term)
		if len(tokens) == 0 {
			continue
		}
		total++
		if containsRun(cand, tokens) {
			matched++
		}
	}
	if total == 0 {
		return metric.Unavailable(p.Name(), "no key term survives normalization"), nil
	}
	return metric.Available(p.Name(), float64(matched)/float64(total)), nil
}

// containsRun reports whether the term tokens appear as a contiguous run in
// the candidate tokens, allowing inflectional variants per token.
func containsRun(cand, term []string) bool {
	for i := 0; i+len(term) <= len(cand); i++ {
		ok := true
		for j, t := range term {
			if !tokensMatch(t, cand[i+j]) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// inflectionSuffixes are the suffixes a token may add over its base form and
// still count as the same word.
var inflectionSuffixes = []string{"s", "es", "d", "ed", "ing"}

// tokensMatch reports whether two tokens are the same word up to a common
// inflection. Arbitrary prefixes never match: "osmo" does not match "osmosis".
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	return inflectionOf(a, b) || inflectionOf(b, a)
}

// inflectionOf reports whether long is short plus an inflection suffix.
// Stems shorter than three characters are too ambiguous to extend.
func inflectionOf(long, short string) bool {
	if len(short) < 3 || len(long) <= len(short) || !strings.HasPrefix(long, short) {
		return false
	}
	suffix := long[len(short):]
	for _, s := range inflectionSuffixes {
		if suffix == s {
			return true
		}
	}
	return false
}
