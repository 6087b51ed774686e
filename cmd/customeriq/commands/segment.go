package commands

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lumehq/customeriq/backend/internal/analytics"
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/export"
)

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Run customer segmentation",
	Long: `Runs a full segmentation over the customer snapshot: RFM scores,
named segments, spending tiers, CLV quartiles, churn risk and lifecycle
stage. With Postgres configured the run is persisted; results can also be
exported to disk.

Example:
  go run ./cmd/customeriq segment
  go run ./cmd/customeriq segment --output reports --format csv`,
	RunE: runSegment,
}

var (
	segmentOutput string
	segmentFormat string
)

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().StringVar(&segmentOutput, "output", "", "export directory (skip export when empty)")
	segmentCmd.Flags().StringVar(&segmentFormat, "format", "json", "export format (json|csv)")
}

func runSegment(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CustomerIQ Segmentation ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()

	bar := progressbar.Default(100, "segmenting")
	summary, err := rt.service.Refresh(ctx, func(p analytics.Progress) {
		_ = bar.Set(int(p.Percent))
	})
	if err != nil {
		return fmt.Errorf("segmentation run: %w", err)
	}
	_ = bar.Finish()

	result, err := rt.service.Segments(ctx)
	if err != nil {
		return fmt.Errorf("read segmentation result: %w", err)
	}

	printSegmentSummary(result, summary)

	if segmentOutput != "" {
		if err := exportSegments(result); err != nil {
			return err
		}
	}

	return nil
}

func printSegmentSummary(result *contracts.SegmentationResult, summary *analytics.RefreshSummary) {
	fmt.Printf("\nStatus: %s", result.Status)
	if result.Reason != "" {
		fmt.Printf(" (%s)", result.Reason)
	}
	fmt.Println()
	fmt.Printf("Customers: %d\n", result.Count())
	fmt.Printf("Churn rate: %.1f%%\n", result.ChurnRate())
	fmt.Printf("Persisted: %v\n", summary.Persisted)

	fmt.Println("\nSegment breakdown:")
	counts := result.SegmentCounts()
	for _, seg := range []contracts.Segment{
		contracts.SegmentChampions,
		contracts.SegmentLoyalCustomers,
		contracts.SegmentPotentialLoyalists,
		contracts.SegmentAtRisk,
		contracts.SegmentLostCustomers,
		contracts.SegmentUnknown,
	} {
		count := counts[seg]
		if count == 0 {
			continue
		}
		fmt.Printf("  %-20s %d\n", seg, count)
	}
}

func exportSegments(result *contracts.SegmentationResult) error {
	var filename string
	var err error

	switch segmentFormat {
	case "csv":
		filename = export.TimestampedFilename(segmentOutput, "segments", "csv")
		err = export.WriteSegmentsCSV(filename, result)
	case "json":
		filename = export.TimestampedFilename(segmentOutput, "segments", "json")
		err = export.WriteJSON(filename, result)
	default:
		return fmt.Errorf("unknown export format %q (valid: json, csv)", segmentFormat)
	}
	if err != nil {
		return fmt.Errorf("export segments: %w", err)
	}

	fmt.Printf("\nExported to %s\n", filename)
	return nil
}
