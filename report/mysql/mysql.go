//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package mysql provides a MySQL storage implementation for student reports.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/edugrade/answer-eval/report"
)

var _ report.Manager = (*manager)(nil)

// DefaultTable is the table reports are stored in.
const DefaultTable = "student_reports"

// schemaTemplate bootstraps the report table. The report body is stored as a
// JSON payload; key and student columns exist for filtering.
const schemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  report_id VARCHAR(128) NOT NULL,
  key_id VARCHAR(128) NOT NULL,
  student_id VARCHAR(128) NOT NULL,
  payload JSON NOT NULL,
  created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
  updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
  PRIMARY KEY (id),
  UNIQUE KEY uk_report_id (report_id),
  KEY idx_key_id (key_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

type manager struct {
	db    *sql.DB
	table string
}

// options holds MySQL manager construction settings.
type options struct {
	dsn         string
	db          *sql.DB
	table       string
	skipDBInit  bool
	initTimeout time.Duration
}

// Option configures the MySQL report manager.
type Option func(*options)

// WithDSN sets the MySQL data source name to connect with.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithDB supplies an existing database handle instead of a DSN.
func WithDB(db *sql.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithTable overrides the report table name.
func WithTable(table string) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithSkipDBInit skips schema bootstrap, for deployments managing schema externally.
func WithSkipDBInit() Option {
	return func(o *options) {
		o.skipDBInit = true
	}
}

// WithInitTimeout bounds the schema bootstrap.
func WithInitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.initTimeout = d
	}
}

// New creates a MySQL-backed report manager.
func New(opt ...Option) (report.Manager, error) {
	opts := &options{table: DefaultTable, initTimeout: 10 * time.Second}
	for _, o := range opt {
		o(opts)
	}
	db := opts.db
	if db == nil {
		if opts.dsn == "" {
			return nil, errors.New("mysql dsn is empty")
		}
		var err error
		db, err = sql.Open("mysql", opts.dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
	}
	m := &manager{db: db, table: opts.table}
	if !opts.skipDBInit {
		ctx, cancel := context.WithTimeout(context.Background(), opts.initTimeout)
		defer cancel()
		if _, err := db.ExecContext(ctx, fmt.Sprintf(schemaTemplate, m.table)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init database failed: %w", err)
		}
	}
	return m, nil
}

// Close implements report.Manager.
func (m *manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Save upserts a report into MySQL, assigning an id when the report has none.
func (m *manager) Save(ctx context.Context, r *report.StudentReport) (string, error) {
	if r == nil {
		return "", errors.New("report is nil")
	}
	if r.KeyID == "" {
		return "", errors.New("report key id is empty")
	}
	if r.ReportID == "" {
		r.ReportID = uuid.NewString()
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (report_id, key_id, student_id, payload)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   key_id = VALUES(key_id),
		   student_id = VALUES(student_id),
		   payload = VALUES(payload),
		   updated_at = CURRENT_TIMESTAMP(6)`,
		m.table,
	)
	if _, err := m.db.ExecContext(ctx, query, r.ReportID, r.KeyID, r.StudentID, payload); err != nil {
		return "", fmt.Errorf("store report %s: %w", r.ReportID, err)
	}
	return r.ReportID, nil
}

// Get loads a report from MySQL.
func (m *manager) Get(ctx context.Context, reportID string) (*report.StudentReport, error) {
	if reportID == "" {
		return nil, errors.New("report id is empty")
	}
	var payload []byte
	query := fmt.Sprintf("SELECT payload FROM %s WHERE report_id = ?", m.table)
	if err := m.db.QueryRowContext(ctx, query, reportID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("report %s not found: %w", reportID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("load report %s: %w", reportID, err)
	}
	var r report.StudentReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", reportID, err)
	}
	return &r, nil
}

// List lists report ids for the given answer key, most recent first.
func (m *manager) List(ctx context.Context, keyID string) ([]string, error) {
	if keyID == "" {
		return nil, errors.New("key id is empty")
	}
	query := fmt.Sprintf("SELECT report_id FROM %s WHERE key_id = ? ORDER BY created_at DESC", m.table)
	rows, err := m.db.QueryContext(ctx, query, keyID)
	if err != nil {
		return nil, fmt.Errorf("list reports for key %s: %w", keyID, err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports for key %s: %w", keyID, err)
	}
	return ids, nil
}
