//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package metric provides the per-question metric scores and the run configuration.
package metric

// Score is the outcome of one metric for one (question, answer) pair.
//
// A metric that cannot be computed is recorded as unavailable with a reason
// rather than silently coerced to zero; the aggregator, not the provider,
// decides how unavailable metrics affect the composite.
type Score struct {
	// MetricName identifies the metric.
	MetricName string `json:"metricName"`
	// Value is the metric value in [0,1]; meaningful only when Unavailable is false.
	Value float64 `json:"value,omitempty"`
	// Unavailable reports that the metric could not be computed for this pair.
	Unavailable bool `json:"unavailable,omitempty"`
	// Reason explains why the metric is unavailable.
	Reason string `json:"reason,omitempty"`
}

// Available returns a score carrying a computed value.
func Available(name string, value float64) *Score {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return &Score{MetricName: name, Value: value}
}

// Unavailable returns a score recording that the metric could not be computed.
func Unavailable(name, reason string) *Score {
	return &Score{MetricName: name, Unavailable: true, Reason: reason}
}
