package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/config"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/detector"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/handler"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/repository"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/repository/sqlite"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/service"
)

// Worker is the AI service: it loads the model once and answers /detect/.
type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	detector  detector.Detector
	results   repository.ResultRepository
	detection *service.DetectionService
	db        *sqlite.DB
}

// NewWorker wires the worker from configuration. The detection history is
// optional; when the database cannot be opened the worker still serves.
func NewWorker() (*Worker, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	det := detector.NewDNNDetector(cfg, log)

	var results repository.ResultRepository
	var db *sqlite.DB
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Warning("Could not create database directory: %v", err)
	} else if db, err = sqlite.New(cfg.DBPath); err != nil {
		log.Warning("Could not open detection history database: %v", err)
		db = nil
	} else {
		results = sqlite.NewResultRepository(db)
	}

	return &Worker{
		config:    cfg,
		logger:    log,
		detector:  det,
		results:   results,
		detection: service.NewDetectionService(det, results, log),
		db:        db,
	}, nil
}

// Run serves HTTP until the listener fails.
func (w *Worker) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/detect/", handler.DetectHandler(w.detection, w.logger))
	mux.HandleFunc("/detections/recent", handler.RecentHandler(w.results, w.logger))
	mux.HandleFunc("/health", handler.HealthHandler)

	w.logger.Info("AI worker listening on :%d (model: %s)", w.config.WorkerPort, w.config.ModelPath)
	return http.ListenAndServe(fmt.Sprintf(":%d", w.config.WorkerPort), mux)
}

// Close releases the detector and database.
func (w *Worker) Close() {
	w.detector.Close()
	if w.db != nil {
		w.db.Close()
	}
}
