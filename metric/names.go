//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package metric

// Preset metric name constants, shared between providers, config, and reports.
const (
	MetricSemanticSimilarity = "semantic_similarity"
	MetricLexicalOverlap     = "lexical_overlap"
	MetricLCSOverlap         = "lcs_overlap"
	MetricKeywordCoverage    = "keyword_coverage"
	MetricBloomAlignment     = "bloom_alignment"
	MetricImageSimilarity    = "image_similarity"
)

// TextMetricNames lists the metrics computed for every answered text question.
var TextMetricNames = []string{
	MetricSemanticSimilarity,
	MetricLexicalOverlap,
	MetricLCSOverlap,
	MetricKeywordCoverage,
	MetricBloomAlignment,
}
