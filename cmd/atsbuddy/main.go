// Package main provides the entry point for the ATS Buddy service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atsbuddy",
	Short: "ATS Buddy resume analysis service",
	Long:  "ATS Buddy scores resumes against job descriptions, flags missing keywords and skills, and generates enhanced resume variants via REST API or one-shot CLI runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
