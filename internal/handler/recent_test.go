package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/model"
)

type fakeHistory struct {
	results    []model.Result
	detections map[int64][]model.Detection
}

func (f *fakeHistory) Insert(res *model.Result, detections []model.Detection) (int64, error) {
	id := int64(len(f.results) + 1)
	res.ID = id
	f.results = append(f.results, *res)
	if f.detections == nil {
		f.detections = make(map[int64][]model.Detection)
	}
	f.detections[id] = detections
	return id, nil
}

func (f *fakeHistory) Recent(limit int) ([]model.Result, error) {
	if limit > len(f.results) {
		limit = len(f.results)
	}
	out := make([]model.Result, 0, limit)
	for i := len(f.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.results[i])
	}
	return out, nil
}

func (f *fakeHistory) DetectionsByResultID(resultID int64) ([]model.Detection, error) {
	return f.detections[resultID], nil
}

func (f *fakeHistory) GetTotalCount() (int, error) { return len(f.results), nil }

func (f *fakeHistory) DeleteAll() error {
	f.results = nil
	f.detections = nil
	return nil
}

func seedHistory(t *testing.T) *fakeHistory {
	t.Helper()
	repo := &fakeHistory{}
	for _, name := range []string{"first.jpg", "second.jpg", "third.jpg"} {
		_, err := repo.Insert(&model.Result{Filename: name, Count: 1, CreatedAt: time.Now()},
			[]model.Detection{{Label: "dog"}})
		require.NoError(t, err)
	}
	return repo
}

func TestRecentHandler_ReturnsEntriesWithTotal(t *testing.T) {
	repo := seedHistory(t)
	h := RecentHandler(repo, logger.New(t.TempDir()))

	req := httptest.NewRequest(http.MethodGet, "/detections/recent?limit=2", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []recentEntry `json:"results"`
		Length  int           `json:"length"`
		Total   int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Length)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, "third.jpg", resp.Results[0].Filename)
	require.Equal(t, []string{"dog"}, resp.Results[0].Objects)
}

func TestRecentHandler_DeleteClearsHistory(t *testing.T) {
	repo := seedHistory(t)
	h := RecentHandler(repo, logger.New(t.TempDir()))

	req := httptest.NewRequest(http.MethodDelete, "/detections/recent", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":true`)

	count, err := repo.GetTotalCount()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestRecentHandler_NoStoreUnavailable(t *testing.T) {
	h := RecentHandler(nil, logger.New(t.TempDir()))

	req := httptest.NewRequest(http.MethodGet, "/detections/recent", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
