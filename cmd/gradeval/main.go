//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// gradeval grades student answer submissions against an instructor answer key
// and prints per-student reports plus a cohort summary.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	evaluation "github.com/edugrade/answer-eval"
	"github.com/edugrade/answer-eval/answerkey"
	"github.com/edugrade/answer-eval/backend/openai"
	"github.com/edugrade/answer-eval/log"
	"github.com/edugrade/answer-eval/metric"
	"github.com/edugrade/answer-eval/report"
	"github.com/edugrade/answer-eval/report/inmemory"
	"github.com/edugrade/answer-eval/report/local"
	"github.com/edugrade/answer-eval/report/mysql"
	"github.com/edugrade/answer-eval/student"
)

func main() {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradeval",
		Short: "Grade student answers against an answer key",
	}
	root.AddCommand(evaluateCmd(), summaryCmd())
	return root
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate submissions and persist one report per student",
		RunE:  runEvaluate,
	}
	f := cmd.Flags()
	f.StringP("key", "k", "answer_key.json", "Path to the answer key JSON")
	f.StringP("submissions", "s", "submissions", "Submission JSON file or directory of *.json files")
	f.String("store", "local", "Report store (local, mysql, memory)")
	f.String("report-dir", local.DefaultBaseDir, "Directory for the local report store")
	f.String("mysql-dsn", "", "MySQL DSN for the mysql report store (or GRADEVAL_MYSQL_DSN)")
	f.IntP("concurrency", "c", metric.DefaultConcurrency, "Questions scored in parallel per student")
	f.Int("min-answer-tokens", metric.DefaultMinAnswerTokens, "Token count under which a text answer counts as unanswered")
	f.Float64("marks-precision", metric.DefaultMarksPrecision, "Rounding step for awarded marks (0 disables rounding)")
	f.Float64("bloom-adjacent-credit", metric.DefaultBloomAdjacentCredit, "Credit for answers one Bloom level below the expected one")
	f.Bool("sentence-lcs", false, "Use sentence-level LCS for long answers")
	f.Bool("images", true, "Compare submitted diagrams against reference images")
	f.StringSlice("disable", nil, "Metrics to disable (repeatable)")
	f.StringToString("weight", nil, "Metric weight overrides, e.g. --weight semantic_similarity=2")
	f.Bool("no-llm", false, "Skip model-backed metrics (semantic similarity, bloom alignment)")
	f.String("openai-base-url", "", "Base URL for OpenAI-compatible APIs")
	f.String("embedding-model", openai.DefaultEmbeddingModel, "Embedding model for semantic similarity")
	f.String("classifier-model", openai.DefaultClassifierModel, "Chat model for Bloom level classification")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize previously stored reports for one answer key",
		RunE:  runSummary,
	}
	f := cmd.Flags()
	f.String("key-id", "", "Answer key id the reports were graded against (required)")
	f.String("store", "local", "Report store (local, mysql)")
	f.String("report-dir", local.DefaultBaseDir, "Directory for the local report store")
	f.String("mysql-dsn", "", "MySQL DSN for the mysql report store (or GRADEVAL_MYSQL_DSN)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("key-id")
	return cmd
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix("GRADEVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	log.SetLevel(v.GetString("log-level"))

	key, err := loadAnswerKey(v.GetString("key"))
	if err != nil {
		return err
	}
	subs, err := loadSubmissions(v.GetString("submissions"))
	if err != nil {
		return err
	}
	log.Infof("loaded answer key %s with %d questions, %d submissions",
		key.KeyID, len(key.Questions), len(subs))

	cfg := buildConfig(v)
	manager, err := buildManager(v)
	if err != nil {
		return err
	}

	opts := []evaluation.Option{evaluation.WithReportManager(manager)}
	if !v.GetBool("no-llm") {
		backendOpts := []openai.Option{
			openai.WithEmbeddingModel(v.GetString("embedding-model")),
			openai.WithClassifierModel(v.GetString("classifier-model")),
		}
		if baseURL := v.GetString("openai-base-url"); baseURL != "" {
			backendOpts = append(backendOpts, openai.WithBaseURL(baseURL))
		}
		opts = append(opts,
			evaluation.WithTextEmbedder(openai.NewEmbedder(backendOpts...)),
			evaluation.WithLevelClassifier(openai.NewClassifier(backendOpts...)),
		)
	}

	ev, err := evaluation.New(key, cfg, opts...)
	if err != nil {
		return err
	}
	defer ev.Close()

	reports, summary, err := ev.EvaluateCohort(cmd.Context(), subs)
	if err != nil {
		if summary == nil {
			return err
		}
		log.Errorf("some submissions failed: %v", err)
	}
	for _, r := range reports {
		log.Infof("student %s: %.1f/%.1f (%.1f%%, %s)",
			r.StudentID, r.AwardedMarks, r.TotalMarks, r.Percentage, r.Rating)
	}
	return printJSON(cmd.OutOrStdout(), summary)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	log.SetLevel(v.GetString("log-level"))

	manager, err := buildManager(v)
	if err != nil {
		return err
	}
	defer manager.Close()

	ctx := cmd.Context()
	keyID := v.GetString("key-id")
	ids, err := manager.List(ctx, keyID)
	if err != nil {
		return fmt.Errorf("list reports for key %s: %w", keyID, err)
	}
	reports := make([]*report.StudentReport, 0, len(ids))
	for _, id := range ids {
		r, err := manager.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("load report %s: %w", id, err)
		}
		reports = append(reports, r)
	}
	return printJSON(cmd.OutOrStdout(), report.Summarize(reports))
}

// buildConfig maps CLI flags onto the run configuration.
func buildConfig(v *viper.Viper) metric.Config {
	cfg := metric.NewConfig()
	cfg.Concurrency = v.GetInt("concurrency")
	cfg.MinAnswerTokens = v.GetInt("min-answer-tokens")
	cfg.MarksPrecision = v.GetFloat64("marks-precision")
	cfg.BloomAdjacentCredit = v.GetFloat64("bloom-adjacent-credit")
	cfg.SentenceLCS = v.GetBool("sentence-lcs")
	cfg.ImageComparison = v.GetBool("images")
	if disabled := v.GetStringSlice("disable"); len(disabled) > 0 {
		cfg.Disabled = make(map[string]bool, len(disabled))
		for _, name := range disabled {
			cfg.Disabled[name] = true
		}
	}
	for name, w := range v.GetStringMapString("weight") {
		var weight float64
		if _, err := fmt.Sscanf(w, "%g", &weight); err != nil {
			log.Warnf("ignoring weight override %s=%s: %v", name, w, err)
			continue
		}
		cfg.Weights[name] = weight
	}
	if v.GetBool("no-llm") {
		cfg.Weights[metric.MetricSemanticSimilarity] = 0
		cfg.Weights[metric.MetricBloomAlignment] = 0
	}
	return cfg
}

// buildManager constructs the report store selected by flags.
func buildManager(v *viper.Viper) (report.Manager, error) {
	switch store := v.GetString("store"); store {
	case "local":
		return local.NewManager(local.WithBaseDir(v.GetString("report-dir"))), nil
	case "mysql":
		dsn := v.GetString("mysql-dsn")
		if dsn == "" {
			return nil, fmt.Errorf("mysql store requires --mysql-dsn or GRADEVAL_MYSQL_DSN")
		}
		return mysql.New(mysql.WithDSN(dsn))
	case "memory":
		return inmemory.NewManager(), nil
	default:
		return nil, fmt.Errorf("unknown report store %q", store)
	}
}

// loadAnswerKey reads and decodes the answer key file.
func loadAnswerKey(path string) (*answerkey.AnswerKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answer key: %w", err)
	}
	var key answerkey.AnswerKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("decode answer key %s: %w", path, err)
	}
	if key.KeyID == "" {
		key.KeyID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &key, nil
}

// loadSubmissions reads submissions from a JSON file (one submission or an
// array) or from every *.json file in a directory.
func loadSubmissions(path string) ([]*student.Submission, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	if !info.IsDir() {
		return decodeSubmissions(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read submissions dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	sort.Strings(files)
	var subs []*student.Submission
	for _, file := range files {
		batch, err := decodeSubmissions(file)
		if err != nil {
			return nil, err
		}
		subs = append(subs, batch...)
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("no submissions found under %s", path)
	}
	return subs, nil
}

// decodeSubmissions decodes one file holding a submission or an array of them.
func decodeSubmissions(path string) ([]*student.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	var many []*student.Submission
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one student.Submission
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("decode submissions %s: %w", path, err)
	}
	if one.StudentID == "" {
		one.StudentID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return []*student.Submission{&one}, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
