//go:build !gocv
// +build !gocv

package detector

import (
	"errors"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/config"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
)

// DNNDetector is the no-op placeholder used when the gocv build tag is off.
type DNNDetector struct {
	threshold float64
	logger    *logger.Logger
}

// NewDNNDetector creates the placeholder detector (no OpenCV).
func NewDNNDetector(cfg *config.Config, logger *logger.Logger) *DNNDetector {
	logger.Warning("Built without the gocv tag; detection requests will fail")
	return &DNNDetector{
		threshold: cfg.ConfidenceThreshold,
		logger:    logger,
	}
}

// Detect returns an error when built without the gocv tag.
func (d *DNNDetector) Detect(imageData []byte) ([]Detection, error) {
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// Annotate returns an error when built without the gocv tag.
func (d *DNNDetector) Annotate(imageData []byte, detections []Detection) ([]byte, error) {
	_ = imageData
	_ = detections
	return nil, errors.New("gocv build tag is not enabled")
}

// Close is a no-op.
func (d *DNNDetector) Close() {}

var _ Detector = (*DNNDetector)(nil)
