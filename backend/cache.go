//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// CachingTextEmbedder memoizes embeddings by content hash. Within one
// evaluation run the same model answer is embedded for every student, so the
// cache collapses those calls to one backend request per distinct text.
type CachingTextEmbedder struct {
	inner TextEmbedder
	cache sync.Map // hex sha256 -> []float64
}

// NewCachingTextEmbedder wraps a text embedder with a content-addressed cache.
func NewCachingTextEmbedder(inner TextEmbedder) *CachingTextEmbedder {
	return &CachingTextEmbedder{inner: inner}
}

// Embed returns the cached vector when the text was embedded before,
// otherwise it delegates to the wrapped embedder. Errors are not cached.
func (c *CachingTextEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])
	if v, ok := c.cache.Load(key); ok {
		return v.([]float64), nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Store(key, vec)
	return vec, nil
}
