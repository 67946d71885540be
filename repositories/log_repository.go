package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/access-log-viewer/models"
)

// LogRepository interface defines access-log database operations
type LogRepository interface {
	GetAll(ctx context.Context) ([]models.LogRecord, error)
	Count(ctx context.Context) (int, error)
	CreateBatch(ctx context.Context, records []models.LogRecord) error
}

// logRepository implements LogRepository interface
type logRepository struct {
	db *sql.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *sql.DB) LogRepository {
	return &logRepository{db: db}
}

// GetAll retrieves every log record in insertion order
func (r *logRepository) GetAll(ctx context.Context) ([]models.LogRecord, error) {
	query := `
		SELECT id, ip_address, username, action, timestamp, status_code
		FROM log_entries
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	records := []models.LogRecord{}
	for rows.Next() {
		var record models.LogRecord

		err := rows.Scan(
			&record.ID,
			&record.IPAddress,
			&record.Username,
			&record.Action,
			&record.Timestamp,
			&record.StatusCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		record.Timestamp = record.Timestamp.UTC()
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}

	return records, nil
}

// Count returns the total number of log records
func (r *logRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM log_entries`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	return count, nil
}

// CreateBatch inserts all records in a single transaction. Either every
// record is written or none is. Generated IDs are set on the slice elements.
func (r *logRepository) CreateBatch(ctx context.Context, records []models.LogRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO log_entries (ip_address, username, action, timestamp, status_code)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare log insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		record := &records[i]
		result, err := stmt.ExecContext(ctx,
			record.IPAddress,
			record.Username,
			record.Action,
			record.Timestamp.UTC(),
			record.StatusCode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert log entry %d: %w", i+1, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted ID: %w", err)
		}
		record.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit log entries: %w", err)
	}

	return nil
}
