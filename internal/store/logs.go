package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/orcapzh/ana/internal/model"
)

// AppendLog 持久化一条界面日志
func (s *Store) AppendLog(entry model.LogEntry) error {
	query, args, err := s.sb.Insert("log_entries").
		Columns("id", "ts", "level", "message").
		Values(entry.ID, entry.Time.UTC(), string(entry.Level), entry.Message).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert log_entries: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("insert log entry failed: %w", err)
	}
	return nil
}

// ListLogs 最近 limit 条日志，按追加顺序返回
func (s *Store) ListLogs(ctx context.Context, limit int) ([]model.LogEntry, error) {
	q := s.sb.Select("id", "ts", "level", "message").
		From("log_entries").
		OrderBy("seq DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select log_entries: %w", err)
	}

	var out []model.LogEntry
	if err := sqlscan.Select(ctx, s.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query log entries failed: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}
