//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package lcsmatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
	"github.com/edugrade/answer-eval/student"
)

func newPair(modelAnswer, answerText string) *provider.Pair {
	return provider.NewPair(nil,
		&answerkey.Question{ID: "Q1", ModelAnswer: modelAnswer},
		&student.Answer{QuestionID: "Q1", Text: answerText})
}

func TestScoreIdenticalAnswer(t *testing.T) {
	p := New()
	text := "diffusion moves particles from high concentration toward low concentration"
	got, err := p.Score(context.Background(), newPair(text, text), metric.Config{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Value, 1e-9)
}

func TestScoreReorderedAnswerScoresBelowIdentical(t *testing.T) {
	p := New()
	ref := "enzymes lower activation energy and speed reactions"
	reordered := "reactions speed when enzymes lower activation energy"
	identical, err := p.Score(context.Background(), newPair(ref, ref), metric.Config{})
	require.NoError(t, err)
	got, err := p.Score(context.Background(), newPair(ref, reordered), metric.Config{})
	require.NoError(t, err)
	assert.Greater(t, got.Value, 0.0)
	assert.Less(t, got.Value, identical.Value)
}

func TestScoreSentenceLCS(t *testing.T) {
	p := New()
	ref := "Plants absorb sunlight. Chlorophyll captures the energy."
	ans := "Chlorophyll captures the energy. Plants absorb sunlight."
	cfg := metric.Config{SentenceLCS: true}
	got, err := p.Score(context.Background(), newPair(ref, ans), cfg)
	require.NoError(t, err)
	// Sentence-level matching is insensitive to sentence order.
	assert.InDelta(t, 1.0, got.Value, 1e-9)

	flat, err := p.Score(context.Background(), newPair(ref, ans), metric.Config{})
	require.NoError(t, err)
	assert.Less(t, flat.Value, got.Value)
}

func TestScoreEmptyTokens(t *testing.T) {
	p := New()
	// Empty answer against a non-empty model answer recalls nothing.
	got, err := p.Score(context.Background(), newPair("the water cycle", ""), metric.Config{})
	require.NoError(t, err)
	assert.False(t, got.Unavailable)
	assert.Zero(t, got.Value)

	// Empty model answer against a non-empty answer scores zero.
	got, err = p.Score(context.Background(), newPair("", "a sketch of the cell"), metric.Config{})
	require.NoError(t, err)
	assert.False(t, got.Unavailable)
	assert.Zero(t, got.Value)

	// Matching nothing against nothing is a perfect match.
	got, err = p.Score(context.Background(), newPair("", ""), metric.Config{})
	require.NoError(t, err)
	assert.False(t, got.Unavailable)
	assert.InDelta(t, 1.0, got.Value, 1e-9)
}

func TestScorePartialAnswerRecall(t *testing.T) {
	p := New()
	// Half the model-answer tokens survive normalization and match in order.
	got, err := p.Score(context.Background(),
		newPair("osmosis moves water molecules", "osmosis moves solute"),
		metric.Config{})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.Value, 1e-9)
}

func TestScoreSentenceLCSUsesPairNormalizer(t *testing.T) {
	p := New()
	// A run-level stop-word override must also apply to sentence tokens.
	custom := provider.NewPair(textnorm.New([]string{"energy"}),
		&answerkey.Question{ID: "Q1", ModelAnswer: "Chlorophyll captures energy."},
		&student.Answer{QuestionID: "Q1", Text: "Chlorophyll captures light."})
	cfg := metric.Config{SentenceLCS: true}
	got, err := p.Score(context.Background(), custom, cfg)
	require.NoError(t, err)
	// With "energy" stopped, both remaining model-answer tokens are recalled.
	assert.InDelta(t, 1.0, got.Value, 1e-9)

	flat, err := p.Score(context.Background(),
		newPair("Chlorophyll captures energy.", "Chlorophyll captures light."), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, flat.Value, 1e-9)
}

func TestScoreCancelledContext(t *testing.T) {
	p := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Score(ctx, newPair("ref", "ans"), metric.Config{})
	require.ErrorIs(t, err, context.Canceled)
}
