//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package textnorm normalizes answer text into token sequences for the lexical metrics.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	// nonWordRE matches one or more characters that are neither letters nor digits.
	nonWordRE = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	// spacesRE matches one or more whitespace characters for token splitting.
	spacesRE = regexp.MustCompile(`\s+`)
)

// Normalizer turns raw answer text into an ordered token sequence.
// Normalization is deterministic and locale-independent; empty input yields
// an empty sequence, never an error.
type Normalizer struct {
	stopwords map[string]struct{}
}

// New creates a normalizer with the given stop-word set.
// A nil set selects the frozen default English list.
func New(stopwords []string) *Normalizer {
	if stopwords == nil {
		stopwords = DefaultStopWords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{stopwords: set}
}

// Tokenize lowercases, strips punctuation, and splits on whitespace.
// Stop words are retained.
func (n *Normalizer) Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = nonWordRE.ReplaceAllString(text, " ")
	parts := spacesRE.Split(strings.TrimSpace(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, token := range parts {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Normalize tokenizes and removes stop words.
func (n *Normalizer) Normalize(text string) []string {
	raw := n.Tokenize(text)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if _, ok := n.stopwords[token]; ok {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
