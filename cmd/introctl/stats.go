package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a results file",
	Long:  "Reads a results JSON file written by run and prints total, composed and dropped counts with a count per drop reason.",
	RunE:  runStats,
}

var statsResults string

func init() {
	statsCmd.Flags().StringVarP(&statsResults, "results", "r", "", "Path to results JSON file (required)")
	if err := statsCmd.MarkFlagRequired("results"); err != nil {
		panic(fmt.Sprintf("failed to mark results flag as required: %v", err))
	}

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	content, err := os.ReadFile(statsResults)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", statsResults, err)
	}

	var results []models.PipelineResult
	if err := json.Unmarshal(content, &results); err != nil {
		return fmt.Errorf("failed to parse results JSON: %w", err)
	}

	return writeJSON(cmd, "", pipeline.Stats(results))
}
