package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/export"
)

// journeyCmd represents the journey command
var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Build the purchase journey breakdown",
	Long: `Orders every customer's transactions chronologically and reports,
per purchase sequence position, the category mix, the mean order value
and the distribution of total orders per customer.

Example:
  go run ./cmd/customeriq journey
  go run ./cmd/customeriq journey --output reports`,
	RunE: runJourney,
}

var journeyOutput string

func init() {
	rootCmd.AddCommand(journeyCmd)

	journeyCmd.Flags().StringVar(&journeyOutput, "output", "", "export directory (skip export when empty)")
}

func runJourney(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CustomerIQ Purchase Journey ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.service.Journey(context.Background())
	if err != nil {
		return fmt.Errorf("build journey sequences: %w", err)
	}

	printJourney(result)

	if journeyOutput != "" {
		filename := export.TimestampedFilename(journeyOutput, "journey", "json")
		if err := export.WriteJSON(filename, result); err != nil {
			return fmt.Errorf("export journey: %w", err)
		}
		fmt.Printf("\nExported to %s\n", filename)
	}

	return nil
}

func printJourney(result *contracts.SequenceResult) {
	fmt.Printf("\nStatus: %s", result.Status)
	if result.Reason != "" {
		fmt.Printf(" (%s)", result.Reason)
	}
	fmt.Println()

	b := result.Breakdown
	if b == nil {
		fmt.Println("No sequences.")
		return
	}

	fmt.Println("\nTop categories per purchase number:")
	for seq := 1; seq <= b.Horizon; seq++ {
		top := b.TopCategories(seq, 3)
		if len(top) == 0 {
			continue
		}

		fmt.Printf("  #%-2d avg %8.2f  ", seq, b.AvgOrderValue[seq])
		for i, cc := range top {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s (%d)", cc.Category, cc.Count)
		}
		fmt.Println()
	}

	fmt.Println("\nOrders per customer:")
	totals := make([]int, 0, len(b.OrdersPerCustomer))
	for n := range b.OrdersPerCustomer {
		totals = append(totals, n)
	}
	sort.Ints(totals)
	for _, n := range totals {
		fmt.Printf("  %3d orders: %d customers\n", n, b.OrdersPerCustomer[n])
	}
}
