//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package overlap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNGramCounts(t *testing.T) {
	tokens := strings.Fields("the cell divides the cell")
	uni := NGramCounts(tokens, 1)
	assert.Equal(t, 2, uni["the"])
	assert.Equal(t, 2, uni["cell"])
	assert.Equal(t, 1, uni["divides"])

	bi := NGramCounts(tokens, 2)
	assert.Equal(t, 2, bi["the\x00cell"])
	assert.Len(t, bi, 3)
}

func TestNGramCountsShortInput(t *testing.T) {
	assert.Empty(t, NGramCounts([]string{"one"}, 2))
	assert.Empty(t, NGramCounts(nil, 1))
	assert.Empty(t, NGramCounts([]string{"one"}, 0))
}

func TestBLEUScoreIdentical(t *testing.T) {
	tokens := strings.Fields("plants absorb sunlight to make glucose")
	assert.InDelta(t, 1.0, BLEUScore(tokens, tokens), 1e-9)
}

func TestBLEUScoreDisjoint(t *testing.T) {
	ref := strings.Fields("plants absorb sunlight")
	cand := strings.Fields("mitochondria produce energy")
	assert.Zero(t, BLEUScore(ref, cand))
}

func TestBLEUScorePartial(t *testing.T) {
	ref := strings.Fields("plants absorb sunlight to make glucose and oxygen")
	cand := strings.Fields("plants absorb sunlight to release oxygen")
	got := BLEUScore(ref, cand)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestBLEUScoreSkipsZeroMatchOrders(t *testing.T) {
	// Shares unigrams, bigrams, and a trigram but no four-gram; the
	// matchless order must be skipped, not zero the whole score.
	ref := strings.Fields("plants absorb sunlight to produce glucose and oxygen")
	cand := strings.Fields("plants absorb sunlight and release oxygen")
	got := BLEUScore(ref, cand)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestBLEUScoreShortCandidateSkipsHighOrders(t *testing.T) {
	ref := strings.Fields("photosynthesis converts light energy into chemical energy")
	// Two tokens cannot form trigrams; the score still reflects the matched orders.
	cand := strings.Fields("photosynthesis converts")
	got := BLEUScore(ref, cand)
	assert.Greater(t, got, 0.0)
	// Brevity penalty must apply for a candidate shorter than the reference.
	assert.Less(t, got, 1.0)
}

func TestBLEUScoreEmpty(t *testing.T) {
	assert.Zero(t, BLEUScore(nil, strings.Fields("a b")))
	assert.Zero(t, BLEUScore(strings.Fields("a b"), nil))
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		cand string
		want int
	}{
		{"identical", "a b c d", "a b c d", 4},
		{"subsequence", "a b c d e", "b d e", 3},
		{"disjoint", "a b c", "x y z", 0},
		{"interleaved", "a x b y c", "a b c", 3},
		{"empty", "", "a b", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LCSLength(strings.Fields(tt.ref), strings.Fields(tt.cand))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLCSRecall(t *testing.T) {
	ref := strings.Fields("a b c d")
	assert.InDelta(t, 1.0, LCSRecall(ref, strings.Fields("a b c d")), 1e-9)
	assert.InDelta(t, 0.5, LCSRecall(ref, strings.Fields("a b")), 1e-9)
	assert.Zero(t, LCSRecall(ref, strings.Fields("x y")))
	assert.Zero(t, LCSRecall(ref, nil))
}

func TestLCSRecallEmptyReference(t *testing.T) {
	assert.Zero(t, LCSRecall(nil, strings.Fields("a b")))
	// Matching nothing against nothing is a perfect match.
	assert.InDelta(t, 1.0, LCSRecall(nil, nil), 1e-9)
}

func TestSummaryLCSRecall(t *testing.T) {
	ref := [][]string{
		strings.Fields("plants absorb sunlight"),
		strings.Fields("chlorophyll captures energy"),
	}
	cand := [][]string{
		strings.Fields("plants absorb sunlight"),
		strings.Fields("chlorophyll captures energy"),
	}
	assert.InDelta(t, 1.0, SummaryLCSRecall(ref, cand), 1e-9)
}

func TestSummaryLCSRecallNoDoubleCounting(t *testing.T) {
	ref := [][]string{
		strings.Fields("cell wall"),
		strings.Fields("cell membrane"),
	}
	// Only one candidate "cell" exists; the second reference sentence must
	// not count it again.
	cand := [][]string{strings.Fields("cell wall")}
	got := SummaryLCSRecall(ref, cand)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestSummaryLCSRecallEmpty(t *testing.T) {
	assert.Zero(t, SummaryLCSRecall(nil, [][]string{{"a"}}))
	assert.Zero(t, SummaryLCSRecall([][]string{{"a"}}, nil))
	assert.Zero(t, SummaryLCSRecall([][]string{{}}, [][]string{{"a"}}))
	assert.InDelta(t, 1.0, SummaryLCSRecall(nil, nil), 1e-9)
}
