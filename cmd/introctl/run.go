package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/config"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run demand records against a supply pool",
	Long:  "Reads demand and supply JSON files, validates them, runs every demand record through the pipeline and writes one result per record in input order.",
	RunE:  runRun,
}

var (
	runDemand      string
	runSupply      string
	runOutput      string
	runConfig      string
	runNoExpansion bool
)

func init() {
	runCmd.Flags().StringVarP(&runDemand, "demand", "d", "", "Path to demand records JSON file (required)")
	runCmd.Flags().StringVarP(&runSupply, "supply", "s", "", "Path to supply records JSON file (required)")
	runCmd.Flags().StringVarP(&runOutput, "out", "o", "", "Path to output results JSON file (default stdout)")
	runCmd.Flags().StringVarP(&runConfig, "config", "c", "", "Path to config.yaml with an introductions section")
	runCmd.Flags().BoolVar(&runNoExpansion, "no-expansion", false, "Disable semantic expansion")

	if err := runCmd.MarkFlagRequired("demand"); err != nil {
		panic(fmt.Sprintf("failed to mark demand flag as required: %v", err))
	}
	if err := runCmd.MarkFlagRequired("supply"); err != nil {
		panic(fmt.Sprintf("failed to mark supply flag as required: %v", err))
	}

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	log := logger.NewStructured(level, "console")

	introCfg := config.IntroductionConfig{}
	if runConfig != "" {
		cfg, err := config.LoadFromFile(runConfig)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", runConfig, err)
		}
		introCfg = cfg.Introductions
	}
	if runNoExpansion {
		off := false
		introCfg.ExpansionEnabled = &off
	}

	var demands []models.DemandRecord
	if err := loadRecords(runDemand, models.ValidateDemandDocument, &demands); err != nil {
		return err
	}
	var pool []models.SupplyRecord
	if err := loadRecords(runSupply, models.ValidateSupplyDocument, &pool); err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.NewFromConfig(introCfg, pipeline.WithLogger(log))
	results, err := p.RunBatch(ctx, demands, pool, nil)
	if err != nil {
		log.Warn("Run interrupted, writing partial results", map[string]interface{}{
			"processed": len(results),
			"total":     len(demands),
		})
	}

	if writeErr := writeJSON(cmd, runOutput, results); writeErr != nil {
		return writeErr
	}

	stats := pipeline.Stats(results)
	log.Info("Run complete", map[string]interface{}{
		"total":       stats.Total,
		"composed":    stats.Composed,
		"dropped":     stats.Dropped,
		"dropReasons": stats.DropReasons,
	})
	return err
}

// loadRecords reads path, validates the decoded document and decodes it into
// out. A single object is accepted as a one-record list.
func loadRecords(path string, validate func(interface{}) error, out interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if obj, ok := doc.(map[string]interface{}); ok {
		doc = []interface{}{obj}
	}
	if err := validate(doc); err != nil {
		return fmt.Errorf("invalid records in %s: %w", path, err)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s: %w", path, err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("failed to decode records in %s: %w", path, err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
