package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/task/orchestrator"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

func batchCommand(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run the demo pipeline in batch mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := root.newOrchestrator(cmd.Flags())
			if err != nil {
				return err
			}

			progress := orchestrator.WithProgress(func(completed, total int, name string) {
				fmt.Fprintf(root.stderr, "progress: %d/%d (%s)\n", completed, total, name)
			})
			results, err := o.ProcessBatch(cmd.Context(), demoPipeline(), progress)
			if err != nil {
				return err
			}

			for _, result := range results {
				root.printResult(result)
			}
			root.printSummary(o)
			return nil
		},
	}
}

func streamCommand(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "stream",
		Short: "Run the demo pipeline in stream mode, results are printed as they complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := root.newOrchestrator(cmd.Flags())
			if err != nil {
				return err
			}

			results, err := o.ProcessStream(cmd.Context(), demoPipeline())
			if err != nil {
				return err
			}
			for result := range results {
				root.printResult(result)
			}
			root.printSummary(o)
			return nil
		},
	}
}

// demoPipeline is a small ETL-like task graph.
func demoPipeline() []task.Definition {
	work := func(min, max time.Duration, failureRate float64) task.Fn {
		return func(ctx context.Context, logger log.Logger) task.Result {
			delay := min + time.Duration(rand.Int63n(int64(max-min)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return task.ErrResult(ctx.Err())
			}
			if rand.Float64() < failureRate {
				return task.ErrResult(errors.New("transient backend error"))
			}
			return task.OkResult(fmt.Sprintf("finished in %s", delay))
		}
	}

	return []task.Definition{
		{Name: "extract.users", Operation: work(50*time.Millisecond, 200*time.Millisecond, 0)},
		{Name: "extract.orders", Operation: work(50*time.Millisecond, 300*time.Millisecond, 0.1)},
		{Name: "extract.products", Operation: work(50*time.Millisecond, 150*time.Millisecond, 0)},
		{Name: "transform.join", Operation: work(100*time.Millisecond, 200*time.Millisecond, 0), DependsOn: []string{"extract.users", "extract.orders"}, Priority: 5},
		{Name: "transform.enrich", Operation: work(50*time.Millisecond, 100*time.Millisecond, 0), DependsOn: []string{"extract.products"}},
		{Name: "load.warehouse", Operation: work(100*time.Millisecond, 300*time.Millisecond, 0), DependsOn: []string{"transform.join", "transform.enrich"}, Priority: 10},
		{Name: "load.verify", Operation: work(20*time.Millisecond, 50*time.Millisecond, 0), DependsOn: []string{"load.warehouse"}},
	}
}

func (root *rootCommand) printResult(result task.RunResult) {
	detail := result.Result
	if !result.IsSuccessful() {
		detail = result.Error
	}
	fmt.Fprintf(root.stdout, "%-20s %-18s %10s  %s\n", result.Name, result.Outcome, result.Duration.Round(time.Millisecond), detail)
}

func (root *rootCommand) printSummary(o *orchestrator.Orchestrator) {
	summary := o.Collector().Summary()
	health := o.Health()

	fmt.Fprintln(root.stdout)
	fmt.Fprintf(root.stdout, "tasks: %d, succeeded: %d, failed: %d, success rate: %.0f%%\n", summary.Total, summary.Succeeded, summary.Failed, summary.SuccessRate*100)
	fmt.Fprintf(root.stdout, "durations: mean %s, p50 %s, p95 %s, p99 %s\n", summary.Mean.Round(time.Millisecond), summary.P50.Round(time.Millisecond), summary.P95.Round(time.Millisecond), summary.P99.Round(time.Millisecond))
	fmt.Fprintf(root.stdout, "throughput: %.1f tasks/s, fastest: %s, slowest: %s\n", summary.Throughput, summary.Fastest, summary.Slowest)
	fmt.Fprintf(root.stdout, "health: %v (%s)\n", health.Healthy, health.Reason)
}
