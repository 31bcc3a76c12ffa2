//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package vecmath provides vector similarity helpers for embedding-based metrics.
package vecmath

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity of two equal-length vectors in [-1, 1].
func Cosine(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("cosine: empty vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine: dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("cosine: zero vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// UnitInterval rescales a cosine similarity from [-1, 1] to [0, 1] and clamps
// floating point spill outside the range.
func UnitInterval(sim float64) float64 {
	v := (sim + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
