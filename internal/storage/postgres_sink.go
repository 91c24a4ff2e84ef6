package storage

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-crawler/pkg/models"
)

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS product_snapshots (
		run_id     UUID        NOT NULL,
		category   TEXT        NOT NULL,
		title      TEXT        NOT NULL,
		price_ugx  BIGINT,
		url        TEXT        NOT NULL,
		crawled_at TIMESTAMPTZ NOT NULL
	)`

const insertSnapshot = `
	INSERT INTO product_snapshots (run_id, category, title, price_ugx, url, crawled_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresSink stores every pass as a snapshot tagged with its run id.
type PostgresSink struct {
	*Storage
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{Storage: NewStorage(db)}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("create product_snapshots: %w", err)
	}
	return nil
}

func (s *PostgresSink) Save(ctx context.Context, result *models.ResultSet) error {
	if result.Len() == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSnapshot)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range result.Records {
		price := sql.NullInt64{}
		if p.Price != nil {
			price = sql.NullInt64{Int64: int64(*p.Price), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, result.RunID.String(), p.Category, p.Title, price, p.URL, result.FinishedAt); err != nil {
			return fmt.Errorf("insert %s: %w", p.URL, err)
		}
	}

	return tx.Commit()
}
