package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careops/hl7siu/pkg/batch"
	"github.com/careops/hl7siu/pkg/config"
	"github.com/careops/hl7siu/pkg/hl7"
	"github.com/careops/hl7siu/pkg/output"
	"github.com/careops/hl7siu/pkg/reader"
	"github.com/careops/hl7siu/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Config  string
	Format  string
	Output  string
	Strict  bool
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <hl7-file...>",
		Short: "Parse HL7 SIU feeds into appointment records",
		Long: `Parse one or more HL7 feed files into normalized appointment records.

By default every message is processed and per-message failures are collected
into the report. With --strict, processing stops at the first rejected
message. Non-SIU messages are always skipped, never counted as errors.

Exit codes:
  0 - All SIU messages parsed (skips allowed)
  1 - One or more messages failed structurally
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "Path to YAML configuration file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Stop at the first rejected message")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include skip and error detail in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no per-appointment detail")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_errors", "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}
	applyParseFlags(cfg, opts)
	logger := newLogger(cfg.LogLevel)

	// Expand input globs
	files, err := reader.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding input paths: %w", err)
	}

	started := time.Now()
	source := reader.NewFileSource(files...)

	streamOpts := []batch.StreamOption{
		batch.WithScannerOptions(
			hl7.WithLimits(cfg.Limits.MaxSegments, cfg.Limits.MaxMessageSize),
			hl7.WithLogger(logger),
		),
	}
	if cfg.Strict {
		streamOpts = append(streamOpts, batch.FailFast())
	}

	result, err := batch.Collect(ctx, source, streamOpts...)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	report := output.NewReport(result, files, started)

	formatter, err := createFormatter(cfg)
	if err != nil {
		return err
	}

	w, closeFn, err := reportWriter(opts.Output)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cfg, opts, report, logger)

	if report.HasErrors() {
		for _, rec := range result.Errors {
			logger.Error().Int("message", rec.Index).Str("kind", string(rec.Kind)).
				Msg(rec.Detail)
		}
		ExitCode = 1
	}

	return nil
}

// sendWebhooks sends the report to all configured webhooks.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ParseOptions, report *output.Report, logger zerolog.Logger) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasErrors()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.Info().Str("webhook", name).Int("status", resp.StatusCode).
				Dur("duration", resp.Duration).Msg("webhook sent")
		} else {
			logger.Error().Str("webhook", name).Err(resp.Error).Msg("webhook failed")
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ParseOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnErrors
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire.
func shouldFireWebhook(trigger config.WebhookTrigger, hasErrors bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasErrors
	}
}

func applyParseFlags(cfg *config.Config, opts *ParseOptions) {
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.Strict {
		cfg.Strict = true
	}
	if opts.Verbose {
		cfg.Output.Verbose = true
	}
	if opts.Quiet {
		cfg.Output.Quiet = true
	}
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func createFormatter(cfg *config.Config) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: cfg.Output.Verbose,
		Quiet:   cfg.Output.Quiet,
	}

	switch cfg.Output.Format {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", cfg.Output.Format)
	}
}

func reportWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newLogger builds the stderr console logger used for diagnostics.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
