package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/amjadrushdan/waktu-solat/internal/cli"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.1.0"
var version = "dev"

func main() {
	// Load .env if present (errors are ignored).
	_ = godotenv.Load()

	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
