package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumehq/customeriq/backend/internal/scheduler"
	"github.com/lumehq/customeriq/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the job scheduler",
	Long: `Starts the cron scheduler with the recurring analytics jobs.

Jobs:
  nightly-segmentation - full analytics refresh at 02:00 every day

Example:
  go run ./cmd/customeriq scheduler
  go run ./cmd/customeriq scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run all jobs once at startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CustomerIQ Scheduler ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	sched := scheduler.New(rt.log)

	segJob := jobs.NewSegmentationJob(rt.service, rt.log)
	if err := sched.AddJob(segJob); err != nil {
		return fmt.Errorf("add segmentation job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(segJob.Name()); err != nil {
			return fmt.Errorf("run job now: %w", err)
		}
	}

	fmt.Println("\nScheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
