package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/aiclient"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/config"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/handler"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/service/hub"
)

// Gateway is the UI-facing service: upload page, upload relay, save-results.
type Gateway struct {
	config  *config.Config
	logger  *logger.Logger
	client  *aiclient.Client
	viewers *hub.HubService
}

// NewGateway wires the gateway from configuration.
func NewGateway() (*Gateway, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	client, err := aiclient.New(cfg.AIServiceURL, time.Duration(cfg.RequestTimeout)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("create ai client: %w", err)
	}

	return &Gateway{
		config:  cfg,
		logger:  log,
		client:  client,
		viewers: hub.NewHubService(log),
	}, nil
}

// Run starts the viewer hub and serves HTTP until the listener fails.
func (g *Gateway) Run() error {
	go g.viewers.Run()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	mux.HandleFunc("/upload/", handler.UploadHandler(g.config, g.client, g.viewers, g.logger))
	mux.HandleFunc("/save-results/", handler.SaveResultsHandler(g.config, g.logger))
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(g.viewers, g.logger))
	mux.HandleFunc("/health", handler.HealthHandler)
	mux.HandleFunc("/", handler.UploadPageHandler)

	g.logger.Info("UI gateway listening on :%d (AI service: %s)", g.config.GatewayPort, g.config.AIServiceURL)
	return http.ListenAndServe(fmt.Sprintf(":%d", g.config.GatewayPort), mux)
}
