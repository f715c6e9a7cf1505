package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/team-former-api-go/pkg/auth"
	"github.com/arnavshah/team-former-api-go/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if cfg.APIMasterSecret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in environment or .env")
		os.Exit(1)
	}

	userID := os.Args[1]
	apiKey := auth.NewSigner(cfg).GenerateHMACKey(userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
}
