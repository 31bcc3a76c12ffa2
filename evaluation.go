//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package evaluation orchestrates grading runs: it matches student
// submissions against an answer key, fans question scoring out over a
// bounded worker pool, folds metric scores into marks, and persists the
// resulting reports.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"github.com/edugrade/answer-eval/aggregate"
	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/backend"
	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/log"
	"github.com/edugrade/answer-eval/matcher"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/provider"
	"github.com/edugrade/answer-eval/provider/bloomalign"
	"github.com/edugrade/answer-eval/provider/imagesim"
	"github.com/edugrade/answer-eval/provider/keyword"
	"github.com/edugrade/answer-eval/provider/lcsmatch"
	"github.com/edugrade/answer-eval/provider/lexical"
	"github.com/edugrade/answer-eval/provider/registry"
	"github.com/edugrade/answer-eval/provider/semantic"
	"github.com/edugrade/answer-eval/report"
	"github.com/edugrade/answer-eval/report/inmemory"
	"github.com/edugrade/answer-eval/status"
	"github.com/edugrade/answer-eval/student"
)

// Evaluator grades student submissions against one answer key.
type Evaluator interface {
	// EvaluateSubmission grades one submission and persists its report.
	EvaluateSubmission(ctx context.Context, sub *student.Submission) (*report.StudentReport, error)
	// EvaluateCohort grades submissions in order and summarizes the cohort.
	// A failure grading one student is recorded and does not abort the rest.
	EvaluateCohort(ctx context.Context, subs []*student.Submission) ([]*report.StudentReport, *report.CohortSummary, error)
	// Close closes the evaluator and releases owned resources.
	Close() error
}

// New creates an Evaluator for the given answer key and config. The key and
// config are validated up front: a malformed key or invalid config fails the
// construction rather than every later score.
func New(key *answerkey.AnswerKey, cfg metric.Config, opt ...Option) (Evaluator, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := NewOptions(opt...)

	reg := opts.Registry
	if reg == nil {
		var textEmbedder backend.TextEmbedder
		if opts.TextEmbedder != nil {
			textEmbedder = backend.NewCachingTextEmbedder(opts.TextEmbedder)
		}
		reg = registry.New()
		for _, p := range []provider.Provider{
			semantic.New(textEmbedder),
			lexical.New(),
			lcsmatch.New(),
			keyword.New(),
			bloomalign.New(opts.LevelClassifier),
			imagesim.New(opts.ImageEmbedder),
		} {
			if err := reg.Register(p.Name(), p); err != nil {
				return nil, fmt.Errorf("register provider %s: %w", p.Name(), err)
			}
		}
	}

	manager := opts.ReportManager
	if manager == nil {
		manager = inmemory.NewManager()
	}

	eng := &engine{
		key:        key,
		cfg:        cfg,
		registry:   reg,
		manager:    manager,
		normalizer: opts.normalizer(),
	}
	eng.metricNames = eng.metricOrder()
	pool, err := createQuestionScorePool(cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	eng.pool = pool
	return eng, nil
}

// engine is the default implementation of Evaluator.
type engine struct {
	key         *answerkey.AnswerKey
	cfg         metric.Config
	registry    registry.Registry
	manager     report.Manager
	normalizer  *textnorm.Normalizer
	metricNames []string
	pool        *ants.PoolWithFunc
}

// Close releases the worker pool. The report manager is closed too when the
// engine owns it.
func (e *engine) Close() error {
	if e.pool != nil {
		e.pool.Release()
	}
	return e.manager.Close()
}

// EvaluateSubmission grades one submission. Questions are scored in parallel
// on the worker pool; the report lists them in answer-key order regardless
// of completion order.
func (e *engine) EvaluateSubmission(ctx context.Context, sub *student.Submission) (*report.StudentReport, error) {
	if sub == nil {
		return nil, errors.New("submission is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skeleton := matcher.Match(e.key, sub, e.cfg, e.normalizer)
	results := make([]*report.QuestionEvaluation, len(skeleton.Pairings))
	var wg sync.WaitGroup
	for i, pairing := range skeleton.Pairings {
		if pairing.Unanswered {
			results[i] = &report.QuestionEvaluation{
				QuestionID: pairing.Question.ID,
				Status:     status.QuestionStatusUnanswered,
				MaxMarks:   pairing.Question.MaxMarks,
			}
			continue
		}
		// A cancelled run stops dispatching; workers already running drain.
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		param := questionScoreParamPool.Get().(*questionScoreParam)
		param.idx = i
		param.ctx = ctx
		param.eng = e
		param.pairing = pairing
		param.results = results
		param.wg = &wg
		wg.Add(1)
		if err := e.pool.Invoke(param); err != nil {
			wg.Done()
			param.reset()
			questionScoreParamPool.Put(param)
			wg.Wait()
			return nil, fmt.Errorf("dispatch question %s: %w", pairing.Question.ID, err)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := e.assembleReport(sub, results, skeleton.UnmatchedAnswers)
	reportID, err := e.manager.Save(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("save report for student %s: %w", sub.StudentID, err)
	}
	rep.ReportID = reportID
	return rep, nil
}

// EvaluateCohort grades each submission and summarizes the cohort. Grading
// failures are isolated per student: the failed student gets no report and
// the error is aggregated into the returned error alongside the survivors.
func (e *engine) EvaluateCohort(ctx context.Context, subs []*student.Submission) ([]*report.StudentReport, *report.CohortSummary, error) {
	reports := make([]*report.StudentReport, 0, len(subs))
	var failures *multierror.Error
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rep, err := e.EvaluateSubmission(ctx, sub)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, err
			}
			id := "unknown"
			if sub != nil {
				id = sub.StudentID
			}
			log.Errorf("evaluate student %s: %v", id, err)
			failures = multierror.Append(failures, fmt.Errorf("student %s: %w", id, err))
			continue
		}
		reports = append(reports, rep)
	}
	return reports, report.Summarize(reports), failures.ErrorOrNil()
}

// evaluateQuestion scores one answered question with every enabled metric.
// A provider fault is confined to this question: the remaining metrics still
// run and the fault is recorded on the evaluation.
func (e *engine) evaluateQuestion(ctx context.Context, pairing *matcher.Pairing) *report.QuestionEvaluation {
	pair := provider.NewPair(e.normalizer, pairing.Question, pairing.Answer)
	scores := make([]*metric.Score, 0, len(e.metricNames))
	var faults *multierror.Error
	for _, name := range e.metricNames {
		if err := ctx.Err(); err != nil {
			faults = multierror.Append(faults, err)
			break
		}
		p, err := e.registry.Get(name)
		if err != nil {
			scores = append(scores, metric.Unavailable(name, "no provider registered"))
			continue
		}
		score, err := p.Score(ctx, pair, e.cfg)
		if err != nil {
			if ctx.Err() != nil {
				faults = multierror.Append(faults, err)
				break
			}
			log.Errorf("metric %s on question %s: %v", name, pairing.Question.ID, err)
			faults = multierror.Append(faults, fmt.Errorf("metric %s: %w", name, err))
			scores = append(scores, metric.Unavailable(name, fmt.Sprintf("provider failed: %v", err)))
			continue
		}
		scores = append(scores, score)
	}

	eval := aggregate.Evaluate(pairing.Question, scores, e.cfg)
	if err := faults.ErrorOrNil(); err != nil {
		eval.ErrorMessage = err.Error()
	}
	return eval
}

// assembleReport folds per-question evaluations into the student report.
func (e *engine) assembleReport(sub *student.Submission, questions []*report.QuestionEvaluation, unmatched []string) *report.StudentReport {
	rep := &report.StudentReport{
		KeyID:            e.key.KeyID,
		StudentID:        sub.StudentID,
		StudentName:      sub.StudentName,
		Questions:        questions,
		TotalMarks:       e.key.TotalMarks(),
		UnmatchedAnswers: unmatched,
		CreatedAt:        time.Now(),
	}
	subtotals := make(map[answerkey.Level]*report.BloomSubtotal)
	for i, q := range questions {
		rep.AwardedMarks += q.AwardedMarks
		// Questions without a recognized level land in an Unknown bucket so
		// the subtotals always sum to the total awarded marks.
		level := e.key.Questions[i].BloomLevel
		if !level.Valid() {
			level = answerkey.LevelUnknown
		}
		st, ok := subtotals[level]
		if !ok {
			st = &report.BloomSubtotal{Level: level}
			subtotals[level] = st
		}
		st.Questions++
		st.AwardedMarks += q.AwardedMarks
		st.MaxMarks += q.MaxMarks
	}
	for _, level := range answerkey.Levels {
		if st, ok := subtotals[level]; ok {
			rep.BloomSubtotals = append(rep.BloomSubtotals, st)
		}
	}
	if st, ok := subtotals[answerkey.LevelUnknown]; ok {
		rep.BloomSubtotals = append(rep.BloomSubtotals, st)
	}
	if rep.TotalMarks > 0 {
		rep.Percentage = rep.AwardedMarks / rep.TotalMarks * 100
	}
	rep.Rating = report.Rating(rep.Percentage)
	return rep
}

// metricOrder returns the scoring order: the preset metrics first, then any
// extra registered providers sorted by name. Disabled and zero-weight
// metrics are skipped entirely; the image metric also requires image
// comparison to be on.
func (e *engine) metricOrder() []string {
	preset := make([]string, 0, len(metric.TextMetricNames)+1)
	preset = append(preset, metric.TextMetricNames...)
	preset = append(preset, metric.MetricImageSimilarity)

	isPreset := make(map[string]bool, len(preset))
	var names []string
	for _, name := range preset {
		isPreset[name] = true
		if !e.enabled(name) {
			continue
		}
		names = append(names, name)
	}
	extras := e.registry.List()
	sort.Strings(extras)
	for _, name := range extras {
		if isPreset[name] || !e.enabled(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// enabled reports whether a metric participates in this run.
func (e *engine) enabled(name string) bool {
	if name == metric.MetricImageSimilarity && !e.cfg.ImageComparison {
		return false
	}
	return e.cfg.Weight(name) > 0
}
