package main

import (
	"log"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/app"
)

func main() {
	worker, err := app.NewWorker()
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	defer worker.Close()

	if err := worker.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
