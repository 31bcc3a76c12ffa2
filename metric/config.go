//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package metric

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks run configurations that cannot drive an evaluation run.
var ErrInvalidConfig = errors.New("invalid evaluation config")

// Config is the immutable per-run evaluation configuration. It is passed by
// value into every call; nothing in the engine mutates shared configuration state.
type Config struct {
	// Weights maps metric name to its non-negative aggregation weight.
	// Weights need not sum to 1; the aggregator renormalizes over the
	// metrics that are actually available per question.
	Weights map[string]float64 `json:"weights"`
	// Disabled lists metrics excluded from the run entirely.
	Disabled map[string]bool `json:"disabled,omitempty"`
	// MinAnswerTokens is the normalized-token count below which a text-only
	// answer is auto-flagged unanswered without invoking any provider.
	MinAnswerTokens int `json:"minAnswerTokens,omitempty"`
	// ImageComparison enables the image similarity metric for questions
	// carrying a reference diagram.
	ImageComparison bool `json:"imageComparison,omitempty"`
	// BloomAdjacentCredit is the partial credit granted when the classified
	// level of the answer is adjacent to the expected level. Must lie in [0,1].
	BloomAdjacentCredit float64 `json:"bloomAdjacentCredit,omitempty"`
	// MarksPrecision is the rounding step for awarded marks, e.g. 0.5.
	// Zero disables rounding.
	MarksPrecision float64 `json:"marksPrecision,omitempty"`
	// SentenceLCS switches the LCS metric to sentence-level union LCS,
	// which tracks long multi-sentence answers more closely.
	SentenceLCS bool `json:"sentenceLcs,omitempty"`
	// Concurrency bounds the worker pool evaluating questions in parallel.
	Concurrency int `json:"concurrency,omitempty"`
}

// Default values applied by NewConfig.
const (
	DefaultMinAnswerTokens     = 2
	DefaultBloomAdjacentCredit = 0.5
	DefaultMarksPrecision      = 0.5
	DefaultConcurrency         = 4
	// DefaultWeight is the weight given to each metric under equal weighting.
	DefaultWeight = 1.0
)

// NewConfig returns a config with equal weights over all preset metrics and
// the documented defaults. Callers adjust fields before handing the config
// to the engine; after that the value must be treated as frozen.
func NewConfig() Config {
	weights := make(map[string]float64, len(TextMetricNames)+1)
	for _, name := range TextMetricNames {
		weights[name] = DefaultWeight
	}
	weights[MetricImageSimilarity] = DefaultWeight
	return Config{
		Weights:             weights,
		MinAnswerTokens:     DefaultMinAnswerTokens,
		ImageComparison:     true,
		BloomAdjacentCredit: DefaultBloomAdjacentCredit,
		MarksPrecision:      DefaultMarksPrecision,
		Concurrency:         DefaultConcurrency,
	}
}

// Validate checks the config for problems that would invalidate every score.
// The returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if len(c.Weights) == 0 {
		return fmt.Errorf("%w: no metric weights configured", ErrInvalidConfig)
	}
	var positive bool
	for name, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("%w: metric %s has negative weight %v", ErrInvalidConfig, name, w)
		}
		if w > 0 && !c.Disabled[name] {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("%w: all metric weights are zero or disabled", ErrInvalidConfig)
	}
	if c.BloomAdjacentCredit < 0 || c.BloomAdjacentCredit > 1 {
		return fmt.Errorf("%w: bloom adjacent credit %v outside [0,1]", ErrInvalidConfig, c.BloomAdjacentCredit)
	}
	if c.MarksPrecision < 0 {
		return fmt.Errorf("%w: marks precision %v is negative", ErrInvalidConfig, c.MarksPrecision)
	}
	if c.MinAnswerTokens < 0 {
		return fmt.Errorf("%w: min answer tokens %d is negative", ErrInvalidConfig, c.MinAnswerTokens)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be greater than 0", ErrInvalidConfig)
	}
	return nil
}

// Weight returns the effective weight for a metric: 0 when the metric is
// disabled or has no configured weight.
func (c Config) Weight(name string) float64 {
	if c.Disabled[name] {
		return 0
	}
	return c.Weights[name]
}
