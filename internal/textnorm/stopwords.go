//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package textnorm

// DefaultStopWords is the frozen default English stop-word list. Keeping the
// list in source makes normalization reproducible across deployments.
var DefaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
	"for", "from", "had", "has", "have", "he", "her", "his", "if", "in",
	"into", "is", "it", "its", "of", "on", "or", "she", "so", "such",
	"that", "the", "their", "then", "there", "these", "they", "this", "to", "was",
	"we", "were", "which", "will", "with", "you", "your",
}
