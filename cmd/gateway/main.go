package main

import (
	"log"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/app"
)

func main() {
	gateway, err := app.NewGateway()
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	if err := gateway.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
