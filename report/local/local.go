//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package local provides a local file storage implementation for student reports.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/edugrade/answer-eval/report"
)

// reportSuffix is the filename suffix for persisted reports.
const reportSuffix = ".report.json"

// DefaultBaseDir is where reports land when no directory is configured.
const DefaultBaseDir = "eval_reports"

// manager implements the report.Manager interface using local file storage.
// Reports are grouped in one subdirectory per answer key.
type manager struct {
	baseDir string
	mu      sync.Mutex
}

// Option configures the local manager.
type Option func(*manager)

// WithBaseDir overrides the directory reports are stored under.
func WithBaseDir(dir string) Option {
	return func(m *manager) {
		m.baseDir = dir
	}
}

// NewManager creates a new local file report manager.
func NewManager(opt ...Option) report.Manager {
	m := &manager{baseDir: DefaultBaseDir}
	for _, o := range opt {
		o(m)
	}
	return m
}

// Save stores a report to a local file, assigning an id when the report has
// none. The write goes through a temp file and rename so readers never see a
// partial report.
func (m *manager) Save(_ context.Context, r *report.StudentReport) (string, error) {
	if r == nil {
		return "", errors.New("report is nil")
	}
	if r.KeyID == "" {
		return "", errors.New("report key id is empty")
	}
	if r.ReportID == "" {
		r.ReportID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := filepath.Join(m.baseDir, r.KeyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.ReportID+reportSuffix)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return r.ReportID, nil
}

// Get retrieves a report by id, searching all key directories.
func (m *manager) Get(_ context.Context, reportID string) (*report.StudentReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, err := m.keyDirs()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		path := filepath.Join(m.baseDir, key, reportID+reportSuffix)
		r, err := load(path)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("get report %s: %w", reportID, os.ErrNotExist)
}

// List returns the ids of all reports stored for an answer key, sorted.
func (m *manager) List(_ context.Context, keyID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := os.ReadDir(filepath.Join(m.baseDir, keyID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, reportSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, reportSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close releases nothing for the local manager.
func (m *manager) Close() error {
	return nil
}

// keyDirs lists the key subdirectories under the base dir.
func (m *manager) keyDirs() ([]string, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}

// load reads and decodes one report file.
func load(path string) (*report.StudentReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r report.StudentReport
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
