//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package overlap provides token overlap primitives shared by the lexical
// and longest-common-subsequence metrics: n-gram multisets, modified n-gram
// precision with a brevity penalty, and LCS length computation.
package overlap

import (
	"math"
	"sort"
	"strings"
)

// maxNGramOrder is the highest n-gram order used by BLEUScore.
const maxNGramOrder = 4

// NGramCounts builds a multiset of n-grams keyed by a delimiter-joined token sequence.
func NGramCounts(tokens []string, n int) map[string]int {
	if n <= 0 || len(tokens) < n {
		return map[string]int{}
	}
	ngrams := make(map[string]int, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		key := strings.Join(tokens[i:i+n], "\x00")
		ngrams[key]++
	}
	return ngrams
}

// clippedMatches counts candidate n-grams that also appear in the reference,
// clipping each n-gram's count at its reference count.
func clippedMatches(refNGrams, candNGrams map[string]int) int {
	matches := 0
	for key, cnt := range candNGrams {
		refCnt, ok := refNGrams[key]
		if !ok {
			continue
		}
		if cnt < refCnt {
			matches += cnt
		} else {
			matches += refCnt
		}
	}
	return matches
}

// BLEUScore computes a geometric mean of modified n-gram precisions for
// n = 1..4 with a brevity penalty against the reference length. Orders the
// candidate is too short to form, and orders with no match at all, are
// skipped rather than scored as zero, so a partial answer sharing unigrams
// but no higher-order runs still earns a score strictly between 0 and 1.
func BLEUScore(refTokens, candTokens []string) float64 {
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	var logSum float64
	orders := 0
	for n := 1; n <= maxNGramOrder; n++ {
		candNGrams := NGramCounts(candTokens, n)
		if len(candNGrams) == 0 {
			break
		}
		refNGrams := NGramCounts(refTokens, n)
		total := 0
		for _, cnt := range candNGrams {
			total += cnt
		}
		matches := clippedMatches(refNGrams, candNGrams)
		if matches == 0 {
			continue
		}
		logSum += math.Log(float64(matches) / float64(total))
		orders++
	}
	if orders == 0 {
		return 0
	}
	precision := math.Exp(logSum / float64(orders))

	brevity := 1.0
	if len(candTokens) < len(refTokens) {
		brevity = math.Exp(1 - float64(len(refTokens))/float64(len(candTokens)))
	}
	return brevity * precision
}

// LCSLength computes the length of the longest common subsequence using a
// two-row dynamic programming table.
func LCSLength(ref, cand []string) int {
	if len(ref) == 0 || len(cand) == 0 {
		return 0
	}
	prev := make([]int, len(cand)+1)
	curr := make([]int, len(cand)+1)
	for i := 1; i <= len(ref); i++ {
		curr[0] = 0
		for j := 1; j <= len(cand); j++ {
			if ref[i-1] == cand[j-1] {
				curr[j] = prev[j-1] + 1
				continue
			}
			if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(cand)]
}

// LCSRecall divides the LCS length by the reference length. An empty
// reference scores 0, except when the candidate is also empty: matching
// nothing against nothing counts as a perfect match.
func LCSRecall(refTokens, candTokens []string) float64 {
	if len(refTokens) == 0 {
		if len(candTokens) == 0 {
			return 1
		}
		return 0
	}
	return float64(LCSLength(refTokens, candTokens)) / float64(len(refTokens))
}

// SummaryLCSRecall computes a sentence-level union LCS recall. Each
// reference sentence is matched against all candidate sentences and matched
// tokens are consumed on both sides so they are not double counted. The
// empty edge cases follow LCSRecall.
func SummaryLCSRecall(refSents, candSents [][]string) float64 {
	m := 0
	for _, s := range refSents {
		m += len(s)
	}
	n := 0
	for _, s := range candSents {
		n += len(s)
	}
	if m == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	if n == 0 {
		return 0
	}

	refCnts := make(map[string]int)
	candCnts := make(map[string]int)
	for _, s := range refSents {
		for _, tok := range s {
			refCnts[tok]++
		}
	}
	for _, s := range candSents {
		for _, tok := range s {
			candCnts[tok]++
		}
	}

	hits := 0
	for _, ref := range refSents {
		for _, tok := range unionLCS(ref, candSents) {
			if candCnts[tok] <= 0 || refCnts[tok] <= 0 {
				continue
			}
			hits++
			candCnts[tok]--
			refCnts[tok]--
		}
	}
	return float64(hits) / float64(m)
}

// unionLCS returns the reference tokens covered by the union of LCS matches
// across all candidate sentences.
func unionLCS(ref []string, cands [][]string) []string {
	seen := make(map[int]struct{})
	for _, cand := range cands {
		for _, idx := range lcsIndices(ref, cand) {
			seen[idx] = struct{}{}
		}
	}
	union := make([]int, 0, len(seen))
	for idx := range seen {
		union = append(union, idx)
	}
	sort.Ints(union)
	out := make([]string, 0, len(union))
	for _, idx := range union {
		out = append(out, ref[idx])
	}
	return out
}

// lcsIndices returns the reference indices of one LCS between ref and cand.
func lcsIndices(ref, cand []string) []int {
	rows := len(ref)
	cols := len(cand)
	table := make([][]int, rows+1)
	for i := range table {
		table[i] = make([]int, cols+1)
	}
	for i := 1; i <= rows; i++ {
		for j := 1; j <= cols; j++ {
			if ref[i-1] == cand[j-1] {
				table[i][j] = table[i-1][j-1] + 1
				continue
			}
			if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	i := rows
	j := cols
	indices := make([]int, 0, table[i][j])
	for i > 0 && j > 0 {
		if ref[i-1] == cand[j-1] {
			indices = append(indices, i-1)
			i--
			j--
		} else if table[i][j-1] > table[i-1][j] {
			j--
		} else {
			i--
		}
	}
	for left, right := 0, len(indices)-1; left < right; left, right = left+1, right-1 {
		indices[left], indices[right] = indices[right], indices[left]
	}
	return indices
}
