package service

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/detector"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/model"
)

type fakeDetector struct {
	detections []detector.Detection
	detectErr  error
}

func (f *fakeDetector) Detect(imageData []byte) ([]detector.Detection, error) {
	return f.detections, f.detectErr
}

func (f *fakeDetector) Annotate(imageData []byte, detections []detector.Detection) ([]byte, error) {
	return append([]byte("annotated:"), imageData...), nil
}

func (f *fakeDetector) Close() {}

type fakeResultRepository struct {
	results    []*model.Result
	detections [][]model.Detection
}

func (f *fakeResultRepository) Insert(res *model.Result, detections []model.Detection) (int64, error) {
	f.results = append(f.results, res)
	f.detections = append(f.detections, detections)
	return int64(len(f.results)), nil
}

func (f *fakeResultRepository) Recent(limit int) ([]model.Result, error) { return nil, nil }
func (f *fakeResultRepository) DetectionsByResultID(resultID int64) ([]model.Detection, error) {
	return nil, nil
}
func (f *fakeResultRepository) GetTotalCount() (int, error) { return len(f.results), nil }
func (f *fakeResultRepository) DeleteAll() error            { return nil }

func newTestService(t *testing.T, det detector.Detector, repo *fakeResultRepository) *DetectionService {
	t.Helper()
	log := logger.New(t.TempDir())
	if repo == nil {
		return NewDetectionService(det, nil, log)
	}
	return NewDetectionService(det, repo, log)
}

func encodedImage() string {
	return base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9})
}

func TestProcess_CountMatchesObjects(t *testing.T) {
	det := &fakeDetector{detections: []detector.Detection{
		{Label: "person", Confidence: 0.91, X: 10, Y: 20, Width: 30, Height: 40},
		{Label: "dog", Confidence: 0.72, X: 50, Y: 60, Width: 70, Height: 80},
	}}
	svc := newTestService(t, det, nil)

	resp, err := svc.Process(&dto.DetectRequest{Image: encodedImage(), ImagePath: "walk.jpg"})
	require.NoError(t, err)
	require.Equal(t, len(resp.Objects), resp.Count)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "walk.jpg", resp.Filename)
	require.Equal(t, "person", resp.Objects[0].Label)
}

func TestProcess_NoDetectionsYieldsEmptyObjects(t *testing.T) {
	svc := newTestService(t, &fakeDetector{}, nil)

	resp, err := svc.Process(&dto.DetectRequest{Image: encodedImage()})
	require.NoError(t, err)
	require.NotNil(t, resp.Objects)
	require.Empty(t, resp.Objects)
	require.Equal(t, 0, resp.Count)
}

func TestProcess_GeneratesFilenameWhenMissing(t *testing.T) {
	svc := newTestService(t, &fakeDetector{}, nil)

	resp, err := svc.Process(&dto.DetectRequest{Image: encodedImage()})
	require.NoError(t, err)
	require.Contains(t, resp.Filename, "upload_")
	require.Contains(t, resp.Filename, ".png")
}

func TestProcess_ReturnsAnnotatedImage(t *testing.T) {
	svc := newTestService(t, &fakeDetector{}, nil)

	resp, err := svc.Process(&dto.DetectRequest{Image: encodedImage()})
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(resp.Image)
	require.NoError(t, err)
	require.Contains(t, string(decoded), "annotated:")
}

func TestProcess_NoImage(t *testing.T) {
	svc := newTestService(t, &fakeDetector{}, nil)

	_, err := svc.Process(&dto.DetectRequest{})
	require.ErrorIs(t, err, ErrNoImage)
}

func TestProcess_BadBase64(t *testing.T) {
	svc := newTestService(t, &fakeDetector{}, nil)

	_, err := svc.Process(&dto.DetectRequest{Image: "!!! not base64 !!!"})
	require.ErrorIs(t, err, ErrBadImage)
}

func TestProcess_UndecodableImage(t *testing.T) {
	// Valid base64 whose bytes are not an image is still a bad request.
	det := &fakeDetector{detectErr: detector.ErrDecode}
	svc := newTestService(t, det, nil)

	_, err := svc.Process(&dto.DetectRequest{Image: encodedImage()})
	require.ErrorIs(t, err, ErrBadImage)
}

func TestProcess_DetectorError(t *testing.T) {
	det := &fakeDetector{detectErr: errors.New("network not initialized")}
	svc := newTestService(t, det, nil)

	_, err := svc.Process(&dto.DetectRequest{Image: encodedImage()})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoImage)
	require.NotErrorIs(t, err, ErrBadImage)
}

func TestProcess_RecordsHistory(t *testing.T) {
	det := &fakeDetector{detections: []detector.Detection{
		{Label: "car", Confidence: 0.8, X: 1, Y: 2, Width: 3, Height: 4},
	}}
	repo := &fakeResultRepository{}
	svc := newTestService(t, det, repo)

	_, err := svc.Process(&dto.DetectRequest{Image: encodedImage(), ImagePath: "street.png"})
	require.NoError(t, err)

	require.Len(t, repo.results, 1)
	require.Equal(t, "street.png", repo.results[0].Filename)
	require.Equal(t, 1, repo.results[0].Count)
	require.Len(t, repo.detections[0], 1)
	require.Equal(t, "car", repo.detections[0][0].Label)
}
