package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// StatementRecord 已生成的对账单
type StatementRecord struct {
	ID          string    `json:"id" db:"id"`
	Customer    string    `json:"customer" db:"customer"`
	Month       string    `json:"month" db:"month"`
	FilePath    string    `json:"filePath" db:"file_path"`
	ItemCount   int       `json:"itemCount" db:"item_count"`
	Amount      float64   `json:"amount" db:"amount"`
	Overwritten bool      `json:"overwritten" db:"overwritten"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// RecordStatement 记录一次对账单生成
func (s *Store) RecordStatement(ctx context.Context, rec StatementRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query, args, err := s.sb.Insert("statements").
		Columns("id", "customer", "month", "file_path", "item_count", "amount", "overwritten", "created_at").
		Values(rec.ID, rec.Customer, rec.Month, rec.FilePath, rec.ItemCount, rec.Amount, rec.Overwritten, rec.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert statements: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert statement failed: %w", err)
	}
	return rec.ID, nil
}

// ListStatements 生成记录，customer 为空时返回全部
func (s *Store) ListStatements(ctx context.Context, customer string, limit int) ([]StatementRecord, error) {
	q := s.sb.Select("id", "customer", "month", "file_path", "item_count", "amount", "overwritten", "created_at").
		From("statements").
		OrderBy("created_at DESC")
	if customer != "" {
		q = q.Where(sq.Eq{"customer": customer})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select statements: %w", err)
	}

	var out []StatementRecord
	if err := sqlscan.Select(ctx, s.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query statements failed: %w", err)
	}
	return out, nil
}
