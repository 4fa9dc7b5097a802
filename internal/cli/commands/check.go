package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careops/hl7siu/pkg/batch"
	"github.com/careops/hl7siu/pkg/hl7"
	"github.com/careops/hl7siu/pkg/reader"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check <hl7-file...>",
		Short: "Check feed files without emitting records",
		Long: `Check HL7 feed files for structural problems without emitting records.

Reports how many messages were found, how many parse, how many are skipped
as non-SIU, and which ones fail, with reasons.

Exit codes:
  0 - All SIU messages parse (skips allowed)
  1 - One or more messages fail structurally
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML configuration file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, configPath string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	files, err := reader.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding input paths: %w", err)
	}

	fmt.Printf("Checking %d file(s)...\n", len(files))

	source := reader.NewFileSource(files...)
	result, err := batch.Collect(ctx, source, batch.WithScannerOptions(
		hl7.WithLimits(cfg.Limits.MaxSegments, cfg.Limits.MaxMessageSize),
		hl7.WithLogger(logger),
	))
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Printf("\nMessages found: %d\n", result.Total())
	fmt.Printf("  Parsed:  %d\n", len(result.Appointments))
	fmt.Printf("  Skipped: %d (non-SIU or empty)\n", len(result.Skipped))
	fmt.Printf("  Failed:  %d\n", len(result.Errors))

	if len(result.Errors) > 0 {
		fmt.Println("\nFailures:")
		for _, rec := range result.Errors {
			fmt.Printf("  - message %d: %s\n", rec.Index, rec.Detail)
		}
		ExitCode = 1
	}

	return nil
}
