package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/aiclient"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/config"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/imageutil"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/service/hub"
)

// allowedUploadTypes is the MIME allow-list for uploads.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadHandler accepts a multipart image upload, relays it to the AI service
// and returns the worker's response unchanged.
func UploadHandler(cfg *config.Config, client *aiclient.Client, viewers *hub.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes+4096)
		if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to parse upload form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		if header.Size > cfg.MaxUploadBytes {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("File size exceeds the limit of %d bytes.", cfg.MaxUploadBytes))
			return
		}

		contents, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading uploaded file: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to read uploaded file")
			return
		}

		// Browsers may send an empty or generic part content type; fall back
		// to sniffing the bytes before rejecting.
		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = imageutil.SniffMIME(contents)
		}
		if !allowedUploadTypes[contentType] {
			writeError(w, http.StatusBadRequest, "Invalid file type. Only JPEG, PNG, and GIF are allowed.")
			return
		}

		req := &dto.DetectRequest{
			Image:     base64.StdEncoding.EncodeToString(contents),
			ImagePath: header.Filename,
		}

		resp, err := client.Detect(r.Context(), req)
		if err != nil {
			relayDetectError(w, err, logger)
			return
		}

		if viewers != nil {
			if msg, err := json.Marshal(resp); err == nil {
				viewers.Broadcast(msg)
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// relayDetectError maps AI-service call failures to HTTP status codes:
// timeout 504, unreachable 503, non-2xx replies pass through as-is.
func relayDetectError(w http.ResponseWriter, err error, logger *logger.Logger) {
	var statusErr *aiclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		logger.Warning("AI service returned status %d", statusErr.Code)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusErr.Code)
		_, _ = w.Write(statusErr.Body)
	case errors.Is(err, aiclient.ErrTimeout):
		logger.Error("AI service timeout: %v", err)
		writeError(w, http.StatusGatewayTimeout, "AI service timed out.")
	case errors.Is(err, aiclient.ErrUnavailable):
		logger.Error("AI service unreachable: %v", err)
		writeError(w, http.StatusServiceUnavailable, "AI service is unavailable.")
	default:
		logger.Error("Error communicating with AI service: %v", err)
		writeError(w, http.StatusInternalServerError, "Error communicating with AI service.")
	}
}

// SaveResultsHandler writes a detection result (JSON plus the decoded
// annotated image) into the output directory.
func SaveResultsHandler(cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req dto.SaveResultsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}

		filename := req.Filename
		if filename == "" {
			filename = req.Result.Filename
		}
		if !isValidFilename(filename) {
			writeError(w, http.StatusBadRequest, "Invalid filename")
			return
		}

		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			logger.Error("Error creating output directory: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create output directory")
			return
		}

		stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		var files []string

		jsonPath := filepath.Join(cfg.OutputDir, stem+"_results.json")
		data, err := json.MarshalIndent(req.Result, "", "  ")
		if err != nil {
			logger.Error("Error encoding result: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to encode result")
			return
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			logger.Error("Error writing %s: %v", jsonPath, err)
			writeError(w, http.StatusInternalServerError, "Failed to write results file")
			return
		}
		files = append(files, jsonPath)

		if req.Result.Image != "" {
			imgBytes, err := base64.StdEncoding.DecodeString(req.Result.Image)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid base64 image in result")
				return
			}
			imgPath := filepath.Join(cfg.OutputDir, stem+"_detected.png")
			if err := os.WriteFile(imgPath, imgBytes, 0644); err != nil {
				logger.Error("Error writing %s: %v", imgPath, err)
				writeError(w, http.StatusInternalServerError, "Failed to write image file")
				return
			}
			files = append(files, imgPath)
		}

		logger.Info("Saved result for %s (%d files)", filename, len(files))
		writeJSON(w, http.StatusOK, dto.SaveResultsResponse{
			Success: true,
			Files:   files,
			Message: fmt.Sprintf("Saved %d files", len(files)),
		})
	}
}

// UploadPageHandler serves the upload page.
func UploadPageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join("static", "upload.html"))
}

// isValidFilename rejects empty names, path traversal and absolute paths.
func isValidFilename(filename string) bool {
	if filename == "" {
		return false
	}
	if strings.ContainsRune(filename, 0) {
		return false
	}
	if strings.Contains(filename, "..") {
		return false
	}
	if strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\") {
		return false
	}
	return true
}
