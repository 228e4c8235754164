package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/aiclient"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
)

type summaryEntry struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

func main() {
	samplesDir := flag.String("samples", "sample_data", "Directory containing sample images")
	outputDir := flag.String("out", "demo_outputs", "Directory to write results to")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-request timeout")
	flag.Parse()

	aiURL := os.Getenv("AI_SERVICE_URL")
	if aiURL == "" {
		aiURL = "http://localhost:8000/detect/"
	}

	client, err := aiclient.New(aiURL, *timeout)
	if err != nil {
		log.Fatalf("Invalid AI service URL: %v", err)
	}

	entries, err := os.ReadDir(*samplesDir)
	if err != nil {
		log.Fatalf("Failed to read samples directory: %v", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			images = append(images, entry.Name())
		}
	}

	if len(images) == 0 {
		fmt.Printf("No images found in %s\n", *samplesDir)
		return
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Starts non-nil so an all-failure run still writes [] rather than null.
	summary := []summaryEntry{}
	for _, name := range images {
		fmt.Printf("Processing %s ...\n", name)

		data, err := os.ReadFile(filepath.Join(*samplesDir, name))
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
			continue
		}

		resp, err := client.Detect(context.Background(), &dto.DetectRequest{
			Image:     base64.StdEncoding.EncodeToString(data),
			ImagePath: name,
		})
		if err != nil {
			log.Printf("Detection failed for %s: %v", name, err)
			continue
		}

		if err := saveOutputs(*outputDir, name, resp); err != nil {
			log.Printf("Failed to save outputs for %s: %v", name, err)
			continue
		}

		summary = append(summary, summaryEntry{File: name, Count: resp.Count})
		time.Sleep(200 * time.Millisecond)
	}

	if err := writeSummary(*outputDir, summary); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}

	fmt.Printf("Done. Outputs saved to %s\n", *outputDir)
}

// writeSummary writes summary.json; an empty run produces an empty array.
func writeSummary(outputDir string, summary []summaryEntry) error {
	if summary == nil {
		summary = []summaryEntry{}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "summary.json"), data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// saveOutputs writes <name>_results.json and <name>_detected.png for one reply.
func saveOutputs(outputDir, name string, resp *dto.DetectResponse) error {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, stem+"_results.json"), data, 0644); err != nil {
		return fmt.Errorf("write results json: %w", err)
	}

	if resp.Image != "" {
		imgBytes, err := base64.StdEncoding.DecodeString(resp.Image)
		if err != nil {
			return fmt.Errorf("decode annotated image: %w", err)
		}
		if err := os.WriteFile(filepath.Join(outputDir, stem+"_detected.png"), imgBytes, 0644); err != nil {
			return fmt.Errorf("write annotated image: %w", err)
		}
	}

	return nil
}
