package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/repository"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/service"
)

// DetectHandler handles POST /detect/ on the worker.
func DetectHandler(detection *service.DetectionService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req dto.DetectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}

		resp, err := detection.Process(&req)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoImage):
				writeError(w, http.StatusBadRequest, "No image provided.")
			case errors.Is(err, service.ErrBadImage):
				writeError(w, http.StatusBadRequest, "Invalid base64 image data.")
			default:
				logger.Error("Detection failed: %v", err)
				writeError(w, http.StatusInternalServerError, "Object detection failed.")
			}
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// recentEntry is one detection-history row with its object labels.
type recentEntry struct {
	Filename  string   `json:"filename"`
	Count     int      `json:"count"`
	CreatedAt string   `json:"created_at"`
	Objects   []string `json:"objects"`
}

// RecentHandler returns the latest detection-history entries on GET and
// clears the history on DELETE.
func RecentHandler(results repository.ResultRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if results == nil {
			writeError(w, http.StatusServiceUnavailable, "Detection history is not available.")
			return
		}

		if r.Method == http.MethodDelete {
			if err := results.DeleteAll(); err != nil {
				logger.Error("Error clearing detection history: %v", err)
				writeError(w, http.StatusInternalServerError, "Failed to clear detection history.")
				return
			}
			logger.Info("Detection history cleared")
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}

		limit := 20
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}

		recent, err := results.Recent(limit)
		if err != nil {
			logger.Error("Error querying detection history: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to query detection history.")
			return
		}

		entries := make([]recentEntry, 0, len(recent))
		for _, res := range recent {
			detections, err := results.DetectionsByResultID(res.ID)
			if err != nil {
				logger.Error("Error querying detections for result %d: %v", res.ID, err)
				detections = nil
			}

			objects := make([]string, 0, len(detections))
			for _, det := range detections {
				objects = append(objects, det.Label)
			}

			entries = append(entries, recentEntry{
				Filename:  res.Filename,
				Count:     res.Count,
				CreatedAt: res.CreatedAt.Format("2006-01-02 15:04:05"),
				Objects:   objects,
			})
		}

		total, err := results.GetTotalCount()
		if err != nil {
			logger.Error("Error counting detection history: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to query detection history.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"results": entries,
			"length":  len(entries),
			"total":   total,
		})
	}
}
