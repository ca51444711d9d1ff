package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pulse-lab/pulse/internal/config"
	"github.com/pulse-lab/pulse/internal/core/metrics"
	"github.com/pulse-lab/pulse/internal/core/storage/postgres"
	"github.com/pulse-lab/pulse/internal/dashboard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// validFormats defines the allowed output formats.
var validFormats = []string{"text", "json", "yaml"}

// metricsOptions holds flags for the metrics command.
type metricsOptions struct {
	*rootOptions
	Format string
}

func newMetricsCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &metricsOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute the product metrics snapshot once and print it",
		Long: `Compute the product metrics snapshot from the event log, post counters
and feedback rows, then print it.

Examples:
  pulse metrics
  pulse metrics --format json
  pulse metrics --format yaml --config pulse.yaml`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	return cmd
}

func runMetrics(ctx context.Context, opts *metricsOptions, w io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	sessionGap, err := cfg.Metrics.SessionGapDuration()
	if err != nil {
		return err
	}

	db, err := postgres.Connect(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	adapter, err := postgres.NewAdapter(db)
	if err != nil {
		db.Close()
		return err
	}
	defer adapter.Close()

	svc := dashboard.NewService(
		adapter,
		postgres.NewContentAdapter(adapter.DB()),
		metrics.NewAggregator(metrics.Options{SessionGap: sessionGap}),
		dashboard.WithFetchLimit(cfg.Metrics.FetchLimit),
	)

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute metrics: %w", err)
	}
	return writeSnapshot(w, snap, opts.Format)
}

func writeSnapshot(w io.Writer, s metrics.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeSnapshotText(w, s)
	}
}

func writeSnapshotText(w io.Writer, s metrics.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := []struct {
		label string
		value string
	}{
		{"Unique visits", fmt.Sprintf("%d", s.UniqueVisits)},
		{"Activation rate", fmt.Sprintf("%.1f%% %s", s.ActivationRate, goal(s.ActivationGoalMet))},
		{"QR scans", fmt.Sprintf("%d", s.QRScans)},
		{"Daily active", fmt.Sprintf("%d", s.DAU)},
		{"Posts", fmt.Sprintf("%d", s.TotalPosts)},
		{"Likes", fmt.Sprintf("%d", s.TotalLikes)},
		{"Shares", fmt.Sprintf("%d", s.TotalShares)},
		{"Engagement rate", fmt.Sprintf("%.1f%%", s.EngagementRate)},
		{"Avg session", fmt.Sprintf("%.1f min (%d sessions)", s.AvgSessionMinutes, s.SessionCount)},
		{"Churn rate", fmt.Sprintf("%.1f%%", s.ChurnRate)},
		{"Day-1 retention", fmt.Sprintf("%.1f%%", s.Day1Retention)},
		{"Viral coefficient", fmt.Sprintf("%.2f", s.ViralCoefficient)},
		{"NPS", fmt.Sprintf("%d %s", s.NPSScore, goal(s.NPSThresholdMet))},
		{"Feedback", fmt.Sprintf("happy=%d normal=%d sad=%d total=%d",
			s.Feedback.Happy, s.Feedback.Normal, s.Feedback.Sad, s.Feedback.Total)},
		{"Events", fmt.Sprintf("%d considered, %d skipped", s.EventsConsidered, s.EventsSkipped)},
		{"Computed at", s.ComputedAt.Format(time.RFC3339)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.label, r.value)
	}
	return tw.Flush()
}

func goal(met bool) string {
	if met {
		return "(goal met)"
	}
	return "(goal not met)"
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}
