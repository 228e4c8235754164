package sqlite

import (
	"fmt"
	"time"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/model"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/repository"
)

// ResultRepository stores detection results in SQLite.
type ResultRepository struct {
	db *DB
}

// NewResultRepository creates a repository backed by the given database.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert stores a result and its detections in a single transaction.
func (r *ResultRepository) Insert(res *model.Result, detections []model.Detection) (int64, error) {
	tx, err := r.db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := tx.Exec(`
		INSERT INTO results (filename, count, created_at)
		VALUES (?, ?, ?)
	`, res.Filename, res.Count, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}

	resultID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, det := range detections {
		_, err := tx.Exec(`
			INSERT INTO detections (result_id, label, x, y, width, height, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, resultID, det.Label, det.X, det.Y, det.Width, det.Height, det.Confidence)
		if err != nil {
			return 0, fmt.Errorf("failed to insert detection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return resultID, nil
}

// Recent returns the most recent results, newest first.
func (r *ResultRepository) Recent(limit int) ([]model.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.conn.Query(`
		SELECT id, filename, count, created_at
		FROM results
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.Filename, &res.Count, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// DetectionsByResultID returns all stored detections for a result.
func (r *ResultRepository) DetectionsByResultID(resultID int64) ([]model.Detection, error) {
	rows, err := r.db.conn.Query(`
		SELECT id, result_id, label, x, y, width, height, confidence
		FROM detections
		WHERE result_id = ?
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []model.Detection
	for rows.Next() {
		var det model.Detection
		if err := rows.Scan(&det.ID, &det.ResultID, &det.Label, &det.X, &det.Y, &det.Width, &det.Height, &det.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, det)
	}

	return detections, rows.Err()
}

// GetTotalCount returns the total number of stored results.
func (r *ResultRepository) GetTotalCount() (int, error) {
	var count int
	if err := r.db.conn.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}

// DeleteAll removes all results and detections.
func (r *ResultRepository) DeleteAll() error {
	if _, err := r.db.conn.Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}
	if _, err := r.db.conn.Exec(`DELETE FROM results`); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	return nil
}

var _ repository.ResultRepository = (*ResultRepository)(nil)
