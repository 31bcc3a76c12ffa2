//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package student defines the student submission consumed by an evaluation run.
package student

import "github.com/edugrade/answer-eval/answerkey"

// Answer is one student answer, keyed to an answer-key question by QuestionID.
type Answer struct {
	// QuestionID references the answer-key question this answer targets.
	QuestionID string `json:"questionId"`
	// Text is the free-text answer body; may be empty.
	Text string `json:"text,omitempty"`
	// Image is the optional student-submitted diagram.
	Image *answerkey.Image `json:"image,omitempty"`
}

// Empty reports whether the answer carries neither text nor an image.
func (a *Answer) Empty() bool {
	return a == nil || (a.Text == "" && a.Image.Empty())
}

// Submission is one student's full set of answers.
type Submission struct {
	// StudentID identifies the student; used for report attribution only.
	StudentID string `json:"studentId"`
	// StudentName is an optional display name taken from the submitted document.
	StudentName string `json:"studentName,omitempty"`
	// Answers holds the student answers in submission order. Order is not
	// significant; answers are matched to key questions by QuestionID.
	Answers []*Answer `json:"answers"`
}
