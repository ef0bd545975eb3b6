package store

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/orcapzh/ana/internal/model"
)

// ScanRun 一次扫描的摘要
type ScanRun struct {
	ID           string    `json:"id" db:"id"`
	StartedAt    time.Time `json:"startedAt" db:"started_at"`
	Root         string    `json:"root" db:"root"`
	Success      bool      `json:"success" db:"success"`
	TotalFiles   int       `json:"totalFiles" db:"total_files"`
	ValidFiles   int       `json:"validFiles" db:"valid_files"`
	ErrorCount   int       `json:"errorCount" db:"error_count"`
	WarningCount int       `json:"warningCount" db:"warning_count"`
	ItemCount    int       `json:"itemCount" db:"item_count"`
	Message      string    `json:"message" db:"message"`
}

// RecordScan 记录扫描结果，返回记录 ID
func (s *Store) RecordScan(ctx context.Context, root string, startedAt time.Time, res model.ScanResult) (string, error) {
	id := uuid.New().String()
	query, args, err := s.sb.Insert("scan_runs").
		Columns("id", "started_at", "root", "success", "total_files", "valid_files",
			"error_count", "warning_count", "item_count", "message").
		Values(id, startedAt.UTC(), root, res.Success, res.TotalFiles, res.ValidFiles,
			len(res.Errors), len(res.Warnings), len(res.Items), res.Message).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert scan_runs: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert scan run failed: %w", err)
	}
	return id, nil
}

// ListScans 最近的扫描记录（按时间倒序）
func (s *Store) ListScans(ctx context.Context, limit int) ([]ScanRun, error) {
	q := s.sb.Select("id", "started_at", "root", "success", "total_files", "valid_files",
		"error_count", "warning_count", "item_count", "message").
		From("scan_runs").
		OrderBy("started_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select scan_runs: %w", err)
	}

	var out []ScanRun
	if err := sqlscan.Select(ctx, s.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query scan runs failed: %w", err)
	}
	return out, nil
}
