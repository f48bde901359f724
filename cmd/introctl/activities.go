package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	is "github.com/saadbelcaidx/connector-os-sub007/internal/workers/communication/intro-send"
	ci "github.com/saadbelcaidx/connector-os-sub007/internal/workers/introduction/compose-introduction"
	rib "github.com/saadbelcaidx/connector-os-sub007/internal/workers/introduction/run-introduction-batch"
	"github.com/saadbelcaidx/connector-os-sub007/pkg/registry"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Generate or check the activity registry",
	Long:  "Builds the activity registry from the job workers' task types and schemas. With --check, compares it against an existing registry file instead of writing one.",
	RunE:  runActivities,
}

var (
	activitiesOutput string
	activitiesCheck  bool
)

func init() {
	activitiesCmd.Flags().StringVarP(&activitiesOutput, "out", "o", "", "Path to registry JSON file (default stdout)")
	activitiesCmd.Flags().BoolVar(&activitiesCheck, "check", false, "Fail if the file at --out is out of date")

	rootCmd.AddCommand(activitiesCmd)
}

func runActivities(cmd *cobra.Command, _ []string) error {
	built := buildRegistry(time.Now())
	if err := built.Validate(); err != nil {
		return fmt.Errorf("built registry is invalid: %w", err)
	}

	if !activitiesCheck {
		if activitiesOutput == "" {
			return writeJSON(cmd, "", built)
		}
		return registry.Save(built, activitiesOutput)
	}

	if activitiesOutput == "" {
		return fmt.Errorf("--check requires --out")
	}
	current, err := registry.LoadRegistry(activitiesOutput)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := current.Validate(); err != nil {
		return err
	}
	missing, extra := current.Diff(built)
	if len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("registry out of date: missing [%s], unknown [%s]",
			strings.Join(missing, ", "), strings.Join(extra, ", "))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registry up to date. Found %d activities.\n", len(current.Activities))
	return nil
}

func buildRegistry(now time.Time) *registry.ActivityRegistry {
	return &registry.ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities: []registry.Activity{
			{
				ID:           "compose-introduction",
				DisplayName:  "Compose Introduction",
				Description:  "Runs one demand record against a supply pool and returns the composed intro pair or a drop reason.",
				Category:     "introduction",
				TaskType:     ci.TaskType,
				InputSchema:  ci.GetInputSchema(),
				OutputSchema: ci.GetOutputSchema(),
				ErrorCodes:   codes(errors.ErrCodeInputParsingFailed, errors.ErrCodeValidationFailed, errors.ErrCodeSupplyLoadFailed, errors.ErrCodeSearchQueryFailed),
				Timeout:      ci.DefaultConfig().Timeout.String(),
				Retries:      errors.GetRetryCount(errors.ErrCodeSupplyLoadFailed),
				Tags:         []string{"matching", "composition"},
			},
			{
				ID:           "run-introduction-batch",
				DisplayName:  "Run Introduction Batch",
				Description:  "Runs a demand segment against a supply segment and optionally publishes a batch summary.",
				Category:     "introduction",
				TaskType:     rib.TaskType,
				InputSchema:  rib.GetInputSchema(),
				OutputSchema: rib.GetOutputSchema(),
				ErrorCodes:   codes(errors.ErrCodeInputParsingFailed, errors.ErrCodeSupplyLoadFailed, errors.ErrCodeBatchCancelled, errors.ErrCodeSummaryPublishFailed),
				Timeout:      rib.DefaultConfig().Timeout.String(),
				Retries:      errors.GetRetryCount(errors.ErrCodeBatchCancelled),
				Tags:         []string{"batch"},
			},
			{
				ID:           "intro-send",
				DisplayName:  "Send Introduction",
				Description:  "Emails both sides of a composed introduction.",
				Category:     "communication",
				TaskType:     is.TaskType,
				InputSchema:  is.GetInputSchema(),
				OutputSchema: is.GetOutputSchema(),
				ErrorCodes:   codes(errors.ErrCodeInputParsingFailed, errors.ErrCodeValidationFailed, errors.ErrCodeIntroPolicyViolation, errors.ErrCodeIntroSendFailed),
				Timeout:      is.DefaultConfig().Timeout.String(),
				Retries:      errors.GetRetryCount(errors.ErrCodeIntroSendFailed),
				Tags:         []string{"email"},
			},
		},
	}
}

func codes(cs ...errors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
