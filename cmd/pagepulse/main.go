package main

import (
	"os"

	// Register page sources.
	_ "github.com/crimson-sun/pagepulse/internal/connector/file"
	_ "github.com/crimson-sun/pagepulse/internal/connector/stdin"
	_ "github.com/crimson-sun/pagepulse/internal/connector/web"

	// Register classifier providers.
	_ "github.com/crimson-sun/pagepulse/internal/engine/classifier/gemini"
	_ "github.com/crimson-sun/pagepulse/internal/engine/classifier/openai"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
