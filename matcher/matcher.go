//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package matcher pairs student answers with answer-key questions. Matching
// is by normalized question id, so label variants like "Q1.", "q1:" and
// " Q1 " all bind to key question "Q1".
package matcher

import (
	"strings"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/internal/textnorm"
	"github.com/edugrade/answer-eval/log"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/student"
)

// Pairing binds one key question to the student's answer for it.
type Pairing struct {
	// Question is the answer-key question.
	Question *answerkey.Question
	// Answer is the matched student answer; nil when the student submitted none.
	Answer *student.Answer
	// Unanswered reports that the question needs no scoring: the answer is
	// missing, or its text falls under the minimum token threshold and
	// carries no image.
	Unanswered bool
}

// Result is the scoring skeleton for one submission, in answer-key order.
type Result struct {
	// Pairings holds one entry per key question, in key order.
	Pairings []*Pairing
	// UnmatchedAnswers lists submitted question ids that bind to no key
	// question, in submission order. They are reported but never scored.
	UnmatchedAnswers []string
}

// NormalizeID canonicalizes a question label: surrounding space and trailing
// punctuation are dropped and the remainder is uppercased.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimRight(id, ".:;)")
	return strings.ToUpper(strings.TrimSpace(id))
}

// Match builds the scoring skeleton for a submission. Every key question gets
// exactly one pairing regardless of what was submitted; when a student
// submits several answers under the same id the first wins and the rest are
// reported unmatched.
func Match(key *answerkey.AnswerKey, sub *student.Submission, cfg metric.Config, n *textnorm.Normalizer) *Result {
	if n == nil {
		n = textnorm.New(nil)
	}

	byID := make(map[string]*student.Answer)
	var unmatched []string
	if sub != nil {
		for _, a := range sub.Answers {
			if a == nil {
				continue
			}
			id := NormalizeID(a.QuestionID)
			if id == "" {
				continue
			}
			if _, dup := byID[id]; dup {
				unmatched = append(unmatched, a.QuestionID)
				continue
			}
			byID[id] = a
		}
	}

	result := &Result{Pairings: make([]*Pairing, 0, len(key.Questions))}
	for _, q := range key.Questions {
		answer := byID[NormalizeID(q.ID)]
		delete(byID, NormalizeID(q.ID))
		result.Pairings = append(result.Pairings, &Pairing{
			Question:   q,
			Answer:     answer,
			Unanswered: unanswered(answer, cfg, n),
		})
	}

	// Preserve submission order for the leftover answers.
	if sub != nil {
		for _, a := range sub.Answers {
			if a == nil {
				continue
			}
			if _, left := byID[NormalizeID(a.QuestionID)]; left {
				unmatched = append(unmatched, a.QuestionID)
				delete(byID, NormalizeID(a.QuestionID))
			}
		}
	}
	if len(unmatched) > 0 && sub != nil {
		log.Debugf("submission %s has %d unmatched answers", sub.StudentID, len(unmatched))
	}
	result.UnmatchedAnswers = unmatched
	return result
}

// unanswered reports whether an answer is too thin to score. An answer
// carrying an image is always scorable regardless of its text.
func unanswered(a *student.Answer, cfg metric.Config, n *textnorm.Normalizer) bool {
	if a.Empty() {
		return true
	}
	if !a.Image.Empty() {
		return false
	}
	return len(n.Normalize(a.Text)) < cfg.MinAnswerTokens
}
