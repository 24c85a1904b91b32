package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

type postgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger keeps the ledger in a complaints table while preserving
// full-table semantics: Load reads every row in stored order and Save replaces
// the table inside one transaction, which is what makes the overwrite
// all-or-nothing. There is deliberately no uniqueness constraint on
// tracking_id; the generator does not guarantee one.
func NewPostgresLedger(pool *pgxpool.Pool) LedgerStore {
	return &postgresLedger{pool: pool}
}

func (l *postgresLedger) Load(ctx context.Context) ([]domain.Complaint, error) {
	const query = `
        SELECT tracking_id, filed_at, state, city, area, category, severity_reported,
               description, image_ref, status, admin_remarks, ai_category, ai_severity,
               ai_priority_score, ai_confidence, ai_reasoning, cluster_flag
        FROM complaints ORDER BY position`

	rows, err := l.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (l *postgresLedger) Save(ctx context.Context, records []domain.Complaint) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM complaints`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	const insert = `
        INSERT INTO complaints (position, tracking_id, filed_at, state, city, area, category,
            severity_reported, description, image_ref, status, admin_remarks, ai_category,
            ai_severity, ai_priority_score, ai_confidence, ai_reasoning, cluster_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	for i, c := range records {
		if _, err := tx.Exec(ctx, insert,
			i,
			c.TrackingID,
			c.FiledAt,
			c.State,
			c.City,
			c.Area,
			c.Category,
			c.SeverityReported,
			c.Description,
			c.ImageRef,
			c.Status,
			c.AdminRemarks,
			c.AICategory,
			c.AISeverity,
			c.AIPriorityScore,
			c.AIConfidence,
			c.AIReasoning,
			c.ClusterFlag,
		); err != nil {
			return fmt.Errorf("insert ledger row %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ledger save: %w", err)
	}
	return nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	result := []domain.Complaint{}
	for rows.Next() {
		var c domain.Complaint
		if err := rows.Scan(
			&c.TrackingID,
			&c.FiledAt,
			&c.State,
			&c.City,
			&c.Area,
			&c.Category,
			&c.SeverityReported,
			&c.Description,
			&c.ImageRef,
			&c.Status,
			&c.AdminRemarks,
			&c.AICategory,
			&c.AISeverity,
			&c.AIPriorityScore,
			&c.AIConfidence,
			&c.AIReasoning,
			&c.ClusterFlag,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
