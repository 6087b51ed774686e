package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/export"
)

// cohortCmd represents the cohort command
var cohortCmd = &cobra.Command{
	Use:   "cohort",
	Short: "Build the cohort retention matrix",
	Long: `Groups customers into monthly acquisition cohorts by first purchase
and reports how many remain active in each following month.

Example:
  go run ./cmd/customeriq cohort
  go run ./cmd/customeriq cohort --output reports --format csv`,
	RunE: runCohort,
}

var (
	cohortOutput string
	cohortFormat string
)

func init() {
	rootCmd.AddCommand(cohortCmd)

	cohortCmd.Flags().StringVar(&cohortOutput, "output", "", "export directory (skip export when empty)")
	cohortCmd.Flags().StringVar(&cohortFormat, "format", "json", "export format (json|csv)")
}

func runCohort(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CustomerIQ Cohort Retention ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.service.Retention(context.Background())
	if err != nil {
		return fmt.Errorf("build retention matrix: %w", err)
	}

	printRetention(result)

	if cohortOutput != "" {
		var filename string
		switch cohortFormat {
		case "csv":
			filename = export.TimestampedFilename(cohortOutput, "retention", "csv")
			err = export.WriteRetentionCSV(filename, result)
		case "json":
			filename = export.TimestampedFilename(cohortOutput, "retention", "json")
			err = export.WriteJSON(filename, result)
		default:
			return fmt.Errorf("unknown export format %q (valid: json, csv)", cohortFormat)
		}
		if err != nil {
			return fmt.Errorf("export retention: %w", err)
		}
		fmt.Printf("\nExported to %s\n", filename)
	}

	return nil
}

func printRetention(result *contracts.RetentionResult) {
	fmt.Printf("\nStatus: %s", result.Status)
	if result.Reason != "" {
		fmt.Printf(" (%s)", result.Reason)
	}
	fmt.Println()

	m := result.Matrix
	if m == nil || len(m.Cohorts) == 0 {
		fmt.Println("No cohorts.")
		return
	}

	fmt.Printf("Cohorts: %d, tracked months: %d\n\n", len(m.Cohorts), m.MaxElapsed+1)

	// Print the first year of elapsed months to keep the table readable.
	shown := m.MaxElapsed
	if shown > 11 {
		shown = 11
	}

	fmt.Printf("%-8s %6s", "cohort", "size")
	for i := 0; i <= shown; i++ {
		fmt.Printf(" %6s", fmt.Sprintf("m%d", i))
	}
	fmt.Println()

	for _, cohort := range m.Cohorts {
		fmt.Printf("%-8s %6d", cohort.Format("2006-01"), m.CohortSize(cohort))
		for i := 0; i <= shown; i++ {
			if rate, ok := m.Rate(cohort, i); ok {
				fmt.Printf(" %5.1f%%", rate)
			} else {
				fmt.Printf(" %6s", "-")
			}
		}
		fmt.Println()
	}
}
