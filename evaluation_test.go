//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
	"github.com/edugrade/answer-eval/provider/registry"
	"github.com/edugrade/answer-eval/report"
	"github.com/edugrade/answer-eval/report/inmemory"
	"github.com/edugrade/answer-eval/status"
	"github.com/edugrade/answer-eval/student"
)

// hashEmbedder produces deterministic bag-of-words vectors so identical
// texts embed identically and disjoint texts are orthogonal enough to rank.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, 64)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, r := range tok {
			h = h*31 + int(r)
		}
		vec[((h%64)+64)%64]++
	}
	return vec, nil
}

// fixedClassifier always returns the same level.
type fixedClassifier struct {
	level answerkey.Level
}

func (c fixedClassifier) Classify(context.Context, string) (answerkey.Level, error) {
	return c.level, nil
}

func testKey() *answerkey.AnswerKey {
	return &answerkey.AnswerKey{
		KeyID: "biology-midterm",
		Questions: []*answerkey.Question{
			{
				ID:          "Q1",
				Prompt:      "Explain osmosis.",
				ModelAnswer: "Osmosis moves water across a membrane from low to high solute concentration.",
				MaxMarks:    5,
				BloomLevel:  answerkey.LevelUnderstand,
				KeyTerms:    []string{"osmosis", "membrane", "concentration"},
			},
			{
				ID:          "Q2",
				Prompt:      "Describe photosynthesis.",
				ModelAnswer: "Photosynthesis converts light energy into glucose using chlorophyll.",
				MaxMarks:    10,
				BloomLevel:  answerkey.LevelRemember,
				KeyTerms:    []string{"chlorophyll", "glucose"},
			},
		},
	}
}

func testConfig() metric.Config {
	cfg := metric.NewConfig()
	cfg.ImageComparison = false
	return cfg
}

func testSubmission() *student.Submission {
	return &student.Submission{
		StudentID:   "s1",
		StudentName: "Jordan",
		Answers: []*student.Answer{
			{QuestionID: "q2.", Text: "Photosynthesis uses chlorophyll to turn light energy into glucose."},
			{QuestionID: "Q1", Text: "Water crosses the membrane by osmosis toward higher solute concentration."},
		},
	}
}

func newTestEvaluator(t *testing.T, opts ...Option) Evaluator {
	t.Helper()
	base := []Option{
		WithTextEmbedder(hashEmbedder{}),
		WithLevelClassifier(fixedClassifier{level: answerkey.LevelUnderstand}),
	}
	ev, err := New(testKey(), testConfig(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })
	return ev
}

func TestNewRejectsMalformedKey(t *testing.T) {
	key := &answerkey.AnswerKey{Questions: []*answerkey.Question{
		{ID: "", MaxMarks: -1},
		{ID: "Q1", ModelAnswer: "a", MaxMarks: 1},
		{ID: "Q1", ModelAnswer: "b", MaxMarks: 1},
	}}
	_, err := New(key, testConfig())
	require.ErrorIs(t, err, answerkey.ErrMalformedKey)
	// Every structural problem is reported in one pass.
	assert.Contains(t, err.Error(), "empty id")
	assert.Contains(t, err.Error(), "negative max marks")
	assert.Contains(t, err.Error(), "duplicated")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Weights = map[string]float64{metric.MetricLexicalOverlap: -1}
	_, err := New(testKey(), cfg)
	require.ErrorIs(t, err, metric.ErrInvalidConfig)
}

func TestEvaluateSubmissionKeyOrder(t *testing.T) {
	ev := newTestEvaluator(t)
	rep, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)

	require.Len(t, rep.Questions, 2)
	// Submission order was Q2 then Q1; the report follows key order.
	assert.Equal(t, "Q1", rep.Questions[0].QuestionID)
	assert.Equal(t, "Q2", rep.Questions[1].QuestionID)
	for _, q := range rep.Questions {
		assert.Equal(t, status.QuestionStatusEvaluated, q.Status, "question %s", q.QuestionID)
		assert.Greater(t, q.Composite, 0.0)
	}
	assert.Equal(t, "biology-midterm", rep.KeyID)
	assert.Equal(t, "Jordan", rep.StudentName)
	assert.NotEmpty(t, rep.ReportID)
	assert.InDelta(t, 15, rep.TotalMarks, 1e-9)
	assert.Greater(t, rep.AwardedMarks, 0.0)
	assert.NotEmpty(t, rep.Rating)
}

func TestEvaluateSubmissionMetricOrderStable(t *testing.T) {
	ev := newTestEvaluator(t)
	rep, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)

	want := metric.TextMetricNames
	require.Len(t, rep.Questions[0].MetricScores, len(want))
	for i, s := range rep.Questions[0].MetricScores {
		assert.Equal(t, want[i], s.MetricName)
	}
}

func TestEvaluateSubmissionUnanswered(t *testing.T) {
	ev := newTestEvaluator(t)
	sub := &student.Submission{
		StudentID: "s2",
		Answers: []*student.Answer{
			{QuestionID: "Q1", Text: "osmosis"}, // under the token threshold
		},
	}
	rep, err := ev.EvaluateSubmission(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, status.QuestionStatusUnanswered, rep.Questions[0].Status)
	assert.Empty(t, rep.Questions[0].MetricScores)
	assert.Zero(t, rep.Questions[0].AwardedMarks)
	assert.Equal(t, status.QuestionStatusUnanswered, rep.Questions[1].Status)
	assert.Equal(t, 0, rep.AnsweredQuestions())
}

func TestEvaluateSubmissionUnmatchedExtras(t *testing.T) {
	ev := newTestEvaluator(t)
	sub := testSubmission()
	sub.Answers = append(sub.Answers, &student.Answer{QuestionID: "Q7", Text: "an answer without a question"})
	rep, err := ev.EvaluateSubmission(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q7"}, rep.UnmatchedAnswers)
	require.Len(t, rep.Questions, 2)
}

func TestEvaluateSubmissionRenormalizesUnavailableMetrics(t *testing.T) {
	// No embedder and no classifier: semantic similarity and bloom alignment
	// are unavailable. The composite must average over the remaining metrics
	// instead of zero-filling the missing ones.
	ev, err := New(testKey(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })

	sub := &student.Submission{
		StudentID: "s3",
		Answers: []*student.Answer{
			{QuestionID: "Q1", Text: "Osmosis moves water across a membrane from low to high solute concentration."},
		},
	}
	rep, err := ev.EvaluateSubmission(context.Background(), sub)
	require.NoError(t, err)

	q1 := rep.Questions[0]
	assert.Equal(t, status.QuestionStatusEvaluated, q1.Status)
	// The verbatim model answer scores 1.0 on every available metric, so the
	// composite stays 1.0 despite two unavailable metrics.
	assert.InDelta(t, 1.0, q1.Composite, 1e-9)
	assert.InDelta(t, 5.0, q1.AwardedMarks, 1e-9)

	unavailable := 0
	for _, s := range q1.MetricScores {
		if s.Unavailable {
			unavailable++
			assert.NotEmpty(t, s.Reason)
		}
	}
	assert.Equal(t, 2, unavailable)
}

func TestEvaluateSubmissionKeyMismatch(t *testing.T) {
	// Only semantic similarity is weighted and no embedder is configured:
	// no metric can score, so the question is flagged for review.
	cfg := testConfig()
	cfg.Weights = map[string]float64{metric.MetricSemanticSimilarity: 1}
	ev, err := New(testKey(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })

	rep, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)
	for _, q := range rep.Questions {
		assert.Equal(t, status.QuestionStatusKeyMismatch, q.Status)
		assert.Zero(t, q.AwardedMarks)
	}
	assert.Equal(t, 0, rep.EvaluatedQuestions())
	assert.Equal(t, 2, rep.AnsweredQuestions())
}

func TestEvaluateSubmissionBloomSubtotals(t *testing.T) {
	ev := newTestEvaluator(t)
	rep, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)

	require.Len(t, rep.BloomSubtotals, 2)
	assert.Equal(t, answerkey.LevelRemember, rep.BloomSubtotals[0].Level)
	assert.InDelta(t, 10, rep.BloomSubtotals[0].MaxMarks, 1e-9)
	assert.Equal(t, answerkey.LevelUnderstand, rep.BloomSubtotals[1].Level)
	assert.InDelta(t, 5, rep.BloomSubtotals[1].MaxMarks, 1e-9)
}

func TestEvaluateSubmissionSubtotalsIncludeUnleveledQuestions(t *testing.T) {
	key := testKey()
	key.Questions = append(key.Questions, &answerkey.Question{
		ID:          "Q3",
		ModelAnswer: "Diffusion moves particles from high to low concentration.",
		MaxMarks:    10,
	})
	ev, err := New(key, testConfig(), WithTextEmbedder(hashEmbedder{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })

	sub := testSubmission()
	sub.Answers = append(sub.Answers, &student.Answer{
		QuestionID: "Q3",
		Text:       "Diffusion moves particles from high to low concentration.",
	})
	rep, err := ev.EvaluateSubmission(context.Background(), sub)
	require.NoError(t, err)

	// A question without a recognized Bloom level lands in an Unknown bucket;
	// the subtotals always sum to the total awarded marks.
	require.Len(t, rep.BloomSubtotals, 3)
	assert.Equal(t, answerkey.LevelUnknown, rep.BloomSubtotals[2].Level)
	assert.InDelta(t, 10, rep.BloomSubtotals[2].MaxMarks, 1e-9)
	var sum float64
	for _, st := range rep.BloomSubtotals {
		sum += st.AwardedMarks
	}
	assert.InDelta(t, rep.AwardedMarks, sum, 1e-9)
}

func TestEvaluateSubmissionDeterministic(t *testing.T) {
	ev := newTestEvaluator(t)
	first, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)
	second, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)

	// Identical inputs produce bit-identical composites and marks however
	// the worker pool interleaves the questions.
	require.Len(t, second.Questions, len(first.Questions))
	for i, q := range first.Questions {
		assert.Equal(t, q.QuestionID, second.Questions[i].QuestionID)
		assert.Equal(t, q.Composite, second.Questions[i].Composite)
		assert.Equal(t, q.AwardedMarks, second.Questions[i].AwardedMarks)
	}
	assert.Equal(t, first.AwardedMarks, second.AwardedMarks)
	assert.Equal(t, first.Percentage, second.Percentage)
}

func TestEvaluateSubmissionCancelledContext(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ev.EvaluateSubmission(ctx, testSubmission())
	require.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateSubmissionNil(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := ev.EvaluateSubmission(context.Background(), nil)
	require.Error(t, err)
}

func TestEvaluateCohort(t *testing.T) {
	ev := newTestEvaluator(t)
	subs := []*student.Submission{
		testSubmission(),
		{
			StudentID: "s2",
			Answers: []*student.Answer{
				{QuestionID: "Q1", Text: "water moves across the membrane"},
			},
		},
	}
	reports, summary, err := ev.EvaluateCohort(context.Background(), subs)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 2, summary.Students)
	assert.Equal(t, "biology-midterm", summary.KeyID)
	assert.GreaterOrEqual(t, summary.HighestPercentage, summary.MedianPercentage)
	assert.GreaterOrEqual(t, summary.MedianPercentage, summary.LowestPercentage)
	assert.InDelta(t, 30, summary.PossibleMarks, 1e-9)
}

func TestEvaluateCohortIsolatesFailures(t *testing.T) {
	ev := newTestEvaluator(t)
	subs := []*student.Submission{
		nil, // grading this one fails
		testSubmission(),
	}
	reports, summary, err := ev.EvaluateCohort(context.Background(), subs)
	require.Error(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "s1", reports[0].StudentID)
	assert.Equal(t, 1, summary.Students)
}

func TestProviderFaultIsConfinedToQuestion(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("", faultyProvider{}))
	require.NoError(t, reg.Register("", steadyProvider{}))

	cfg := testConfig()
	cfg.Weights = map[string]float64{"faulty": 1, "steady": 1}
	ev, err := New(testKey(), cfg, WithRegistry(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })

	rep, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)
	q1 := rep.Questions[0]
	assert.Equal(t, status.QuestionStatusEvaluated, q1.Status)
	assert.InDelta(t, 0.8, q1.Composite, 1e-9)
	assert.Contains(t, q1.ErrorMessage, "metric faulty")
}

type faultyProvider struct{}

func (faultyProvider) Name() string        { return "faulty" }
func (faultyProvider) Description() string { return "always fails" }
func (faultyProvider) Score(context.Context, *provider.Pair, metric.Config) (*metric.Score, error) {
	return nil, errors.New("boom")
}

type steadyProvider struct{}

func (steadyProvider) Name() string        { return "steady" }
func (steadyProvider) Description() string { return "always 0.8" }
func (steadyProvider) Score(context.Context, *provider.Pair, metric.Config) (*metric.Score, error) {
	return metric.Available("steady", 0.8), nil
}

// savingManager records saves so persistence can be asserted.
type savingManager struct {
	report.Manager
	saved []*report.StudentReport
}

func (m *savingManager) Save(ctx context.Context, r *report.StudentReport) (string, error) {
	m.saved = append(m.saved, r)
	return m.Manager.Save(ctx, r)
}

func TestReportsArePersisted(t *testing.T) {
	mgr := &savingManager{Manager: inmemory.NewManager()}
	ev, err := New(testKey(), testConfig(),
		WithTextEmbedder(hashEmbedder{}),
		WithReportManager(mgr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })

	rep, err := ev.EvaluateSubmission(context.Background(), testSubmission())
	require.NoError(t, err)
	require.Len(t, mgr.saved, 1)
	assert.Equal(t, rep.ReportID, mgr.saved[0].ReportID)

	ids, err := mgr.List(context.Background(), "biology-midterm")
	require.NoError(t, err)
	assert.Equal(t, []string{rep.ReportID}, ids)
}
