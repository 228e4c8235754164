package repository

import "github.com/gopaljadhavv/ai-microservices-docker/internal/model"

// ResultRepository defines the interface for detection-history operations.
type ResultRepository interface {
	// Create operations
	Insert(res *model.Result, detections []model.Detection) (int64, error)

	// Read operations
	Recent(limit int) ([]model.Result, error)
	DetectionsByResultID(resultID int64) ([]model.Detection, error)
	GetTotalCount() (int, error)

	// Delete operations
	DeleteAll() error
}
