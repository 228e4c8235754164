package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/detector"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/imageutil"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/model"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/repository"
)

var (
	// ErrNoImage means the request carried no image payload.
	ErrNoImage = errors.New("no image provided")
	// ErrBadImage means the payload was not a decodable base64 image.
	ErrBadImage = errors.New("invalid image payload")
)

// DetectionService turns a detect request into a response: decode, infer,
// annotate, re-encode and record.
type DetectionService struct {
	detector detector.Detector
	results  repository.ResultRepository
	logger   *logger.Logger
}

// NewDetectionService creates the service. The repository may be nil, in
// which case history recording is skipped.
func NewDetectionService(det detector.Detector, results repository.ResultRepository, logger *logger.Logger) *DetectionService {
	return &DetectionService{
		detector: det,
		results:  results,
		logger:   logger,
	}
}

// Process handles one detect request. The returned response always satisfies
// Count == len(Objects) and Objects is never nil.
func (s *DetectionService) Process(req *dto.DetectRequest) (*dto.DetectResponse, error) {
	if req.Image == "" {
		return nil, ErrNoImage
	}

	imageData, err := imageutil.DecodeImage(req.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	detections, err := s.detector.Detect(imageData)
	if err != nil {
		if errors.Is(err, detector.ErrDecode) {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
		return nil, fmt.Errorf("detect objects: %w", err)
	}

	objects := make([]dto.DetectionResult, 0, len(detections))
	for _, det := range detections {
		objects = append(objects, dto.DetectionResult{
			Label:      det.Label,
			X:          det.X,
			Y:          det.Y,
			Width:      det.Width,
			Height:     det.Height,
			Confidence: det.Confidence,
		})
	}

	annotated, err := s.detector.Annotate(imageData, detections)
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}

	filename := req.ImagePath
	if filename == "" {
		filename = fmt.Sprintf("upload_%s.png", time.Now().Format("2006-01-02_15-04_05.000"))
	}

	resp := &dto.DetectResponse{
		Filename: filename,
		Objects:  objects,
		Count:    len(objects),
		Image:    base64.StdEncoding.EncodeToString(annotated),
	}

	s.record(resp)

	return resp, nil
}

// record stores the result in the detection history. Failures are logged,
// never surfaced to the caller.
func (s *DetectionService) record(resp *dto.DetectResponse) {
	if s.results == nil {
		return
	}

	detections := make([]model.Detection, 0, len(resp.Objects))
	for _, obj := range resp.Objects {
		detections = append(detections, model.Detection{
			Label:      obj.Label,
			X:          obj.X,
			Y:          obj.Y,
			Width:      obj.Width,
			Height:     obj.Height,
			Confidence: obj.Confidence,
		})
	}

	res := &model.Result{
		Filename:  resp.Filename,
		Count:     resp.Count,
		CreatedAt: time.Now(),
	}

	if _, err := s.results.Insert(res, detections); err != nil {
		s.logger.Error("Error saving result to database: %v", err)
	}
}
