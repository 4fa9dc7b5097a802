package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/careops/hl7siu/pkg/batch"
	"github.com/careops/hl7siu/pkg/hl7"
	"github.com/careops/hl7siu/pkg/reader"
)

// StreamOptions holds command-line options for the stream command.
type StreamOptions struct {
	Config         string
	Strict         bool
	MaxSegments    int
	MaxMessageSize int
}

// NewStreamCommand creates the stream command.
func NewStreamCommand() *cobra.Command {
	opts := &StreamOptions{}

	cmd := &cobra.Command{
		Use:   "stream <hl7-file>",
		Short: "Stream appointment records from a feed as NDJSON",
		Long: `Stream a feed file with memory bounded to a single message, emitting one
JSON appointment per line on stdout as soon as its message completes.

Suitable for feeds too large to hold in memory. Per-message failures are
logged to stderr and do not stop the stream unless --strict is given.

Exit codes:
  0 - All SIU messages parsed (skips allowed)
  1 - One or more messages failed structurally
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "Path to YAML configuration file")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Stop at the first rejected message")
	cmd.Flags().IntVar(&opts.MaxSegments, "max-segments", 0, "Per-message segment limit (0 = default)")
	cmd.Flags().IntVar(&opts.MaxMessageSize, "max-message-size", 0, "Per-message size limit in bytes (0 = default)")

	return cmd
}

func runStream(cmd *cobra.Command, args []string, opts *StreamOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}
	if opts.MaxSegments > 0 {
		cfg.Limits.MaxSegments = opts.MaxSegments
	}
	if opts.MaxMessageSize > 0 {
		cfg.Limits.MaxMessageSize = opts.MaxMessageSize
	}
	if opts.Strict {
		cfg.Strict = true
	}
	logger := newLogger(cfg.LogLevel)

	streamOpts := []batch.StreamOption{
		batch.WithScannerOptions(
			hl7.WithLimits(cfg.Limits.MaxSegments, cfg.Limits.MaxMessageSize),
			hl7.WithLogger(logger),
		),
	}
	if cfg.Strict {
		streamOpts = append(streamOpts, batch.FailFast())
	}

	stream := batch.NewStream(reader.NewFileSource(args[0]), streamOpts...)
	defer stream.Close()

	encoder := json.NewEncoder(os.Stdout)
	failed := 0

	for {
		outcome, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if outcome.Err != nil {
			if outcome.Err.Skippable() {
				logger.Debug().Int("message", outcome.Index).Msg(outcome.Err.Detail)
			} else {
				logger.Error().Int("message", outcome.Index).
					Str("kind", string(outcome.Err.Kind)).Msg(outcome.Err.Detail)
				failed++
			}
			continue
		}

		if err := encoder.Encode(outcome.Appointment); err != nil {
			return fmt.Errorf("encoding appointment: %w", err)
		}
	}

	if failed > 0 {
		ExitCode = 1
	}
	return nil
}
