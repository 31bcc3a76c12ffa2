//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package inmemory provides an in-memory storage implementation for student reports.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/edugrade/answer-eval/report"
)

// Manager implements the report.Manager interface using in-memory storage.
type Manager struct {
	mu      sync.RWMutex
	reports map[string]*report.StudentReport
}

// NewManager creates a new in-memory report manager.
func NewManager() *Manager {
	return &Manager{reports: make(map[string]*report.StudentReport)}
}

// Save stores a report in memory, assigning an id when the report has none.
func (m *Manager) Save(_ context.Context, r *report.StudentReport) (string, error) {
	if r == nil {
		return "", errors.New("report is nil")
	}
	if r.ReportID == "" {
		r.ReportID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ReportID] = r
	return r.ReportID, nil
}

// Get retrieves a report by id from memory.
// Returns os.ErrNotExist when the report is not found.
func (m *Manager) Get(_ context.Context, reportID string) (*report.StudentReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reports[reportID]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("get report %s: %w", reportID, os.ErrNotExist)
}

// List returns the ids of all reports stored for an answer key, sorted.
func (m *Manager) List(_ context.Context, keyID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.reports))
	for id, r := range m.reports {
		if r.KeyID != keyID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close releases nothing for the in-memory manager.
func (m *Manager) Close() error {
	return nil
}
