package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib" // Import the driver
	"go.uber.org/zap"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

type Storage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// WaitForDB opens a pgx-backed pool and pings it until the database answers.
func WaitForDB(ctx context.Context, url string, logger *zap.Logger) (*sql.DB, error) {
	var lastErr error
	for i := 0; i < connectAttempts; i++ {
		db, err := sql.Open("pgx", url)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				logger.Info("Connected to database")
				return db, nil
			}
			db.Close()
		}
		lastErr = err
		logger.Warn("Waiting for database", zap.Int("attempt", i+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", connectAttempts, lastErr)
}
