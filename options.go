//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package evaluation

import (
	"github.com/edugrade/answer-eval/backend"
	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/provider/registry"
	"github.com/edugrade/answer-eval/report"
)

// Options holds the engine construction settings.
type Options struct {
	// Registry supplies the metric providers. When nil the engine builds
	// one seeded with the preset metrics over the configured backends.
	Registry registry.Registry
	// ReportManager persists the reports the engine produces. Defaults to
	// the in-memory manager.
	ReportManager report.Manager
	// TextEmbedder backs the semantic similarity metric. Optional; without
	// it the metric reports unavailability.
	TextEmbedder backend.TextEmbedder
	// ImageEmbedder backs the image similarity metric. Optional.
	ImageEmbedder backend.ImageEmbedder
	// LevelClassifier backs the Bloom alignment metric. Optional.
	LevelClassifier backend.LevelClassifier
	// Stopwords overrides the default stop-word list used in normalization.
	Stopwords []string
}

// Option is a functional option for configuring the engine.
type Option func(*Options)

// NewOptions applies options over defaults.
func NewOptions(opt ...Option) *Options {
	opts := &Options{}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithRegistry supplies a custom provider registry. Providers registered
// beyond the preset metrics are scored too; give them weights in the config.
func WithRegistry(r registry.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithReportManager sets the manager reports are persisted through.
func WithReportManager(m report.Manager) Option {
	return func(o *Options) {
		o.ReportManager = m
	}
}

// WithTextEmbedder sets the embedding backend for semantic similarity.
// The engine wraps it with a content-addressed cache so repeated texts,
// most notably model answers, are embedded once per run.
func WithTextEmbedder(e backend.TextEmbedder) Option {
	return func(o *Options) {
		o.TextEmbedder = e
	}
}

// WithImageEmbedder sets the embedding backend for image similarity.
func WithImageEmbedder(e backend.ImageEmbedder) Option {
	return func(o *Options) {
		o.ImageEmbedder = e
	}
}

// WithLevelClassifier sets the classification backend for Bloom alignment.
func WithLevelClassifier(c backend.LevelClassifier) Option {
	return func(o *Options) {
		o.LevelClassifier = c
	}
}

// WithStopwords overrides the stop words removed during text normalization.
func WithStopwords(words []string) Option {
	return func(o *Options) {
		o.Stopwords = words
	}
}

// normalizer builds the text normalizer for these options.
func (o *Options) normalizer() *textnorm.Normalizer {
	return textnorm.New(o.Stopwords)
}
