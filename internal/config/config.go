package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GatewayPort int
	WorkerPort  int

	// AIServiceURL is the detect endpoint the gateway forwards uploads to.
	AIServiceURL string

	MaxUploadBytes int64
	RequestTimeout int // seconds, gateway -> worker call
	OutputDir      string

	ModelPath           string
	ConfigPath          string
	ConfidenceThreshold float64

	DBPath       string
	LogDirectory string
}

func Load() *Config {
	// Load .env when present; a missing file is not an error.
	_ = godotenv.Load()

	return &Config{
		GatewayPort:         getEnvAsInt("GATEWAY_PORT", 8080),
		WorkerPort:          getEnvAsInt("WORKER_PORT", 8000),
		AIServiceURL:        getEnv("AI_SERVICE_URL", "http://127.0.0.1:8000/detect/"),
		MaxUploadBytes:      getEnvAsInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
		RequestTimeout:      getEnvAsInt("REQUEST_TIMEOUT", 30),
		OutputDir:           getEnv("OUTPUT_DIR", filepath.Join(".", "demo_outputs")),
		ModelPath:           getEnv("MODEL_PATH", filepath.Join(".", "models", "frozen_inference_graph.pb")),
		ConfigPath:          getEnv("CONFIG_PATH", filepath.Join(".", "models", "ssd_mobilenet_v1_coco_2017_11_17.pbtxt")),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.5),
		DBPath:              getEnv("DB_PATH", filepath.Join(".", "data", "detections.db")),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
