package main

import (
	"fmt"
	"log"

	"github.com/railstation/train-station-backend/internal/utils"
)

// Generates a fresh pair of 256-bit JWT signing secrets for the .env file.
func main() {
	accessSecret, err := utils.RandomHex(32)
	if err != nil {
		log.Fatalf("Failed to generate access secret: %v", err)
	}
	refreshSecret, err := utils.RandomHex(32)
	if err != nil {
		log.Fatalf("Failed to generate refresh secret: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Println()
	fmt.Println("Keep these out of version control.")
}
