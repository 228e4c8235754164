package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/detector"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/service"
)

type fakeDetector struct {
	detections []detector.Detection
	detectErr  error
}

func (f *fakeDetector) Detect(imageData []byte) ([]detector.Detection, error) {
	return f.detections, f.detectErr
}

func (f *fakeDetector) Annotate(imageData []byte, detections []detector.Detection) ([]byte, error) {
	return imageData, nil
}

func (f *fakeDetector) Close() {}

func newDetectHandler(t *testing.T, det detector.Detector) http.HandlerFunc {
	t.Helper()
	log := logger.New(t.TempDir())
	return DetectHandler(service.NewDetectionService(det, nil, log), log)
}

func postDetect(t *testing.T, h http.HandlerFunc, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/detect/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestDetectHandler_CountMatchesObjects(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{detections: []detector.Detection{
		{Label: "person", Confidence: 0.9, X: 1, Y: 2, Width: 3, Height: 4},
		{Label: "bicycle", Confidence: 0.6, X: 5, Y: 6, Width: 7, Height: 8},
	}})

	rec := postDetect(t, h, dto.DetectRequest{
		Image:     base64.StdEncoding.EncodeToString([]byte("img")),
		ImagePath: "ride.jpg",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, len(resp.Objects), resp.Count)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "ride.jpg", resp.Filename)
}

func TestDetectHandler_EmptyObjectsIsArray(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{})

	rec := postDetect(t, h, dto.DetectRequest{
		Image: base64.StdEncoding.EncodeToString([]byte("img")),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"objects":[]`)
	require.Contains(t, rec.Body.String(), `"count":0`)
}

func TestDetectHandler_MissingImage(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{})

	rec := postDetect(t, h, dto.DetectRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "No image provided.")
}

func TestDetectHandler_UndecodableImage(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{detectErr: detector.ErrDecode})

	rec := postDetect(t, h, dto.DetectRequest{
		Image: base64.StdEncoding.EncodeToString([]byte("not an image")),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid base64 image data.")
}

func TestDetectHandler_BadBase64(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{})

	rec := postDetect(t, h, dto.DetectRequest{Image: "*** definitely not base64 ***"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectHandler_BadJSON(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{})

	req := httptest.NewRequest(http.MethodPost, "/detect/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectHandler_MethodNotAllowed(t *testing.T) {
	h := newDetectHandler(t, &fakeDetector{})

	req := httptest.NewRequest(http.MethodGet, "/detect/", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
