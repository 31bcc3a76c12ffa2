//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package backend defines the model-serving interfaces the metric providers
// depend on. Implementations live in subpackages; providers treat a backend
// failure as metric unavailability, never as an evaluation failure.
package backend

import (
	"context"
	"errors"

	"github.com/edugrade/answer-eval/answerkey"
)

// ErrUnavailable reports that a backend cannot serve requests right now.
// Providers fold it into an unavailable metric score.
var ErrUnavailable = errors.New("backend unavailable")

// TextEmbedder produces a dense vector representation of text.
type TextEmbedder interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ImageEmbedder produces a dense vector representation of an image.
type ImageEmbedder interface {
	// EmbedImage returns the embedding vector for the given image.
	EmbedImage(ctx context.Context, img *answerkey.Image) ([]float64, error)
}

// LevelClassifier assigns a Bloom taxonomy level to a piece of answer text.
type LevelClassifier interface {
	// Classify returns the cognitive level the text demonstrates.
	Classify(ctx context.Context, text string) (answerkey.Level, error)
}
