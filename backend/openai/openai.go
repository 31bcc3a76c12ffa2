//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package openai provides OpenAI-backed implementations of the backend
// interfaces: a text embedder and a Bloom level classifier.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/backend"
	"github.com/edugrade/answer-eval/log"
)

// Verify interface conformance.
var (
	_ backend.TextEmbedder    = (*Embedder)(nil)
	_ backend.LevelClassifier = (*Classifier)(nil)
)

const (
	// DefaultEmbeddingModel is the default OpenAI embedding model.
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultDimensions is the default embedding dimension for text-embedding-3-small.
	DefaultDimensions = 1536
	// DefaultClassifierModel is the default chat model for Bloom level classification.
	DefaultClassifierModel = "gpt-4o-mini"
	// DefaultMaxRetries is the default maximum number of retries.
	DefaultMaxRetries = 2

	// Model prefix for text-embedding-3 series, which accept a dimensions parameter.
	textEmbedding3Prefix = "text-embedding-3"
)

// defaultRetryBackoff is the default backoff durations for retry attempts.
var defaultRetryBackoff = []time.Duration{
	100 * time.Millisecond,
	200 * time.Millisecond,
	400 * time.Millisecond,
	800 * time.Millisecond,
}

// config carries the settings shared by the embedder and the classifier.
type config struct {
	embeddingModel  string
	classifierModel string
	dimensions      int
	apiKey          string
	baseURL         string
	requestOptions  []option.RequestOption
	maxRetries      int
	retryBackoff    []time.Duration
}

// Option represents a functional option for configuring OpenAI backends.
type Option func(*config)

// WithEmbeddingModel sets the embedding model to use.
func WithEmbeddingModel(model string) Option {
	return func(c *config) {
		c.embeddingModel = model
	}
}

// WithClassifierModel sets the chat model used for level classification.
func WithClassifierModel(model string) Option {
	return func(c *config) {
		c.classifierModel = model
	}
}

// WithDimensions sets the number of dimensions for the embedding.
// Only works with text-embedding-3 and later models.
func WithDimensions(dimensions int) Option {
	return func(c *config) {
		c.dimensions = dimensions
	}
}

// WithAPIKey sets the OpenAI API key.
// If not provided, the OPENAI_API_KEY environment variable is used.
func WithAPIKey(apiKey string) Option {
	return func(c *config) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithRequestOptions sets additional options for OpenAI client requests.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *config) {
		c.requestOptions = append(c.requestOptions, opts...)
	}
}

// WithMaxRetries sets the maximum number of retries for errors.
// Negative values are treated as 0.
func WithMaxRetries(maxRetries int) Option {
	return func(c *config) {
		if maxRetries < 0 {
			maxRetries = 0
		}
		c.maxRetries = maxRetries
	}
}

// WithRetryBackoff sets the backoff durations for each retry attempt.
// If the number of retries exceeds the length of the backoff slice,
// the last backoff duration is used for remaining retries.
func WithRetryBackoff(backoff []time.Duration) Option {
	return func(c *config) {
		c.retryBackoff = backoff
	}
}

// newConfig applies options over defaults and builds the SDK client.
func newConfig(opts ...Option) (*config, openai.Client) {
	c := &config{
		embeddingModel:  DefaultEmbeddingModel,
		classifierModel: DefaultClassifierModel,
		dimensions:      DefaultDimensions,
		maxRetries:      DefaultMaxRetries,
		retryBackoff:    defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}

	var clientOpts []option.RequestOption
	if c.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(c.apiKey))
	}
	if c.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(c.baseURL))
	}
	// Retries are handled here so they honor the configured backoff.
	clientOpts = append(clientOpts, option.WithMaxRetries(0))
	clientOpts = append(clientOpts, c.requestOptions...)
	return c, openai.NewClient(clientOpts...)
}

// withRetry runs fn with the configured retry budget and backoff.
func withRetry[T any](ctx context.Context, c *config, what string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		rsp, err := fn(ctx)
		if err == nil {
			return rsp, nil
		}
		lastErr = err
		if attempt >= c.maxRetries {
			break
		}
		backoff := backoffDuration(c.retryBackoff, attempt)
		log.Infof("%s request failed, retrying in %v (attempt %d/%d): %v",
			what, backoff, attempt+1, c.maxRetries, err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return zero, lastErr
}

// backoffDuration returns the backoff for the given attempt, holding at the
// last configured duration.
func backoffDuration(backoff []time.Duration, attempt int) time.Duration {
	if len(backoff) == 0 {
		return 0
	}
	if attempt < len(backoff) {
		return backoff[attempt]
	}
	return backoff[len(backoff)-1]
}

// Embedder implements backend.TextEmbedder using the OpenAI embeddings API.
type Embedder struct {
	cfg    *config
	client openai.Client
}

// NewEmbedder creates a new OpenAI text embedder with the given options.
func NewEmbedder(opts ...Option) *Embedder {
	cfg, client := newConfig(opts...)
	return &Embedder{cfg: cfg, client: client}
}

// Embed returns the embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	request := openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:          e.cfg.embeddingModel,
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if strings.HasPrefix(e.cfg.embeddingModel, textEmbedding3Prefix) {
		request.Dimensions = openai.Int(int64(e.cfg.dimensions))
	}

	response, err := withRetry(ctx, e.cfg, "embedding",
		func(ctx context.Context) (*openai.CreateEmbeddingResponse, error) {
			return e.client.Embeddings.New(ctx, request)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: create embedding: %v", backend.ErrUnavailable, err)
	}
	if len(response.Data) == 0 || len(response.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", backend.ErrUnavailable)
	}
	return response.Data[0].Embedding, nil
}

// classifierSystemPrompt instructs the model to answer with exactly one
// Bloom taxonomy level name.
const classifierSystemPrompt = `You classify a student's written answer by the highest Bloom's taxonomy cognitive level it demonstrates.
Respond with exactly one word from this list and nothing else:
remember, understand, apply, analyze, evaluate, create.`

// Classifier implements backend.LevelClassifier using the OpenAI chat API.
type Classifier struct {
	cfg    *config
	client openai.Client
}

// NewClassifier creates a new OpenAI Bloom level classifier with the given options.
func NewClassifier(opts ...Option) *Classifier {
	cfg, client := newConfig(opts...)
	return &Classifier{cfg: cfg, client: client}
}

// Classify returns the cognitive level the text demonstrates.
func (c *Classifier) Classify(ctx context.Context, text string) (answerkey.Level, error) {
	if strings.TrimSpace(text) == "" {
		return answerkey.LevelUnknown, fmt.Errorf("text cannot be empty")
	}
	request := openai.ChatCompletionNewParams{
		Model: c.cfg.classifierModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifierSystemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	}

	completion, err := withRetry(ctx, c.cfg, "classification",
		func(ctx context.Context) (*openai.ChatCompletion, error) {
			return c.client.Chat.Completions.New(ctx, request)
		})
	if err != nil {
		return answerkey.LevelUnknown, fmt.Errorf("%w: classify level: %v", backend.ErrUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return answerkey.LevelUnknown, fmt.Errorf("%w: empty classification response", backend.ErrUnavailable)
	}
	label := strings.ToLower(strings.TrimSpace(completion.Choices[0].Message.Content))
	label = strings.Trim(label, ".\"'")
	level := answerkey.ParseLevel(label)
	if !level.Valid() {
		return answerkey.LevelUnknown, fmt.Errorf("unexpected level label %q", label)
	}
	return level, nil
}
