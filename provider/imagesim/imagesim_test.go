//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package imagesim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
	"github.com/edugrade/answer-eval/student"
)

// fixedImageEmbedder keys vectors off the first image byte.
type fixedImageEmbedder struct {
	vectors map[byte][]float64
	err     error
}

func (e *fixedImageEmbedder) EmbedImage(_ context.Context, img *answerkey.Image) ([]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[img.Data[0]]; ok {
		return v, nil
	}
	return []float64{0, 1}, nil
}

func newPair(ref, ans *answerkey.Image) *provider.Pair {
	return provider.NewPair(nil,
		&answerkey.Question{ID: "Q1", ReferenceImage: ref},
		&student.Answer{QuestionID: "Q1", Image: ans})
}

func enabled() metric.Config {
	return metric.Config{ImageComparison: true}
}

func TestScoreMatchingDiagrams(t *testing.T) {
	p := New(&fixedImageEmbedder{vectors: map[byte][]float64{
		1: {1, 0},
		2: {1, 0},
	}})
	pair := newPair(&answerkey.Image{Data: []byte{1}, MIME: "image/png"},
		&answerkey.Image{Data: []byte{2}, MIME: "image/png"})
	got, err := p.Score(context.Background(), pair, enabled())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Value, 1e-9)
}

func TestScoreComparisonDisabled(t *testing.T) {
	p := New(&fixedImageEmbedder{})
	pair := newPair(&answerkey.Image{Data: []byte{1}}, &answerkey.Image{Data: []byte{2}})
	got, err := p.Score(context.Background(), pair, metric.Config{})
	require.NoError(t, err)
	assert.True(t, got.Unavailable)
}

func TestScoreMissingImages(t *testing.T) {
	p := New(&fixedImageEmbedder{})
	got, err := p.Score(context.Background(), newPair(nil, &answerkey.Image{Data: []byte{2}}), enabled())
	require.NoError(t, err)
	assert.True(t, got.Unavailable)

	got, err = p.Score(context.Background(), newPair(&answerkey.Image{Data: []byte{1}}, nil), enabled())
	require.NoError(t, err)
	assert.True(t, got.Unavailable)
}

func TestScoreNoEmbedder(t *testing.T) {
	p := New(nil)
	pair := newPair(&answerkey.Image{Data: []byte{1}}, &answerkey.Image{Data: []byte{2}})
	got, err := p.Score(context.Background(), pair, enabled())
	require.NoError(t, err)
	assert.True(t, got.Unavailable)
}

func TestScoreBackendFailureIsUnavailable(t *testing.T) {
	p := New(&fixedImageEmbedder{err: errors.New("model offline")})
	pair := newPair(&answerkey.Image{Data: []byte{1}}, &answerkey.Image{Data: []byte{2}})
	got, err := p.Score(context.Background(), pair, enabled())
	require.NoError(t, err)
	assert.True(t, got.Unavailable)
	assert.Contains(t, got.Reason, "model offline")
}
