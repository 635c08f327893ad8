// Package cli provides the demo command line interface of the orchestration engine.
package cli

import (
	"io"
	"os"
	"path"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task/balancer"
	"github.com/keboola/go-orchestrator/internal/pkg/task/orchestrator"
	"github.com/keboola/go-orchestrator/internal/pkg/task/scheduler"
	"github.com/keboola/go-orchestrator/internal/pkg/telemetry"
)

const description = `
Task Orchestrator

Run a demo pipeline of interdependent tasks
in batch or stream mode.
`

type rootCommand struct {
	cmd    *cobra.Command
	stdout io.Writer
	stderr io.Writer
	logger log.Logger
}

type cliDeps struct {
	clock  clockwork.Clock
	logger log.Logger
	tel    telemetry.Telemetry
}

func (d *cliDeps) Clock() clockwork.Clock         { return d.clock }
func (d *cliDeps) Logger() log.Logger             { return d.logger }
func (d *cliDeps) Telemetry() telemetry.Telemetry { return d.tel }

// NewRootCommand creates parent of all sub-commands.
func NewRootCommand(stdout io.Writer, stderr io.Writer) *rootCommand {
	root := &rootCommand{stdout: stdout, stderr: stderr}

	root.cmd = &cobra.Command{
		Use:          path.Base(os.Args[0]),
		Short:        description,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.cmd.Help()
		},
	}
	root.cmd.SetOut(stdout)
	root.cmd.SetErr(stderr)

	// Persistent flags for all sub-commands
	flags := root.cmd.PersistentFlags()
	flags.SortFlags = true
	flags.IntP("concurrency", "c", 4, "maximum number of concurrently running tasks")
	flags.StringP("strategy", "s", "fifo", "scheduling strategy: fifo, lifo, priority, dependencyAware")
	flags.StringP("balancing", "b", "roundRobin", "load balancing strategy: roundRobin, leastLoaded, weightedRoundRobin, taskAffinity")
	flags.Bool("fail-fast", true, "skip dependents of a failed task")
	flags.BoolP("verbose", "v", false, "print details")

	root.cmd.AddCommand(batchCommand(root), streamCommand(root))
	return root
}

// Execute runs the command and returns the exit code.
func (root *rootCommand) Execute() int {
	if err := root.cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// newOrchestrator builds the engine from the parsed flags.
func (root *rootCommand) newOrchestrator(flags *pflag.FlagSet) (*orchestrator.Orchestrator, error) {
	concurrency, err := flags.GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	strategyStr, err := flags.GetString("strategy")
	if err != nil {
		return nil, err
	}
	balancingStr, err := flags.GetString("balancing")
	if err != nil {
		return nil, err
	}
	failFast, err := flags.GetBool("fail-fast")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	strategy, err := scheduler.NewStrategy(strategyStr)
	if err != nil {
		return nil, err
	}
	balancing, err := balancer.NewStrategy(balancingStr)
	if err != nil {
		return nil, err
	}

	root.logger = log.NewCliLogger(root.stdout, root.stderr, verbose)

	config := orchestrator.NewConfig()
	config.MaxConcurrentTasks = concurrency
	config.Strategy = strategy
	config.Balancing = balancing
	config.FailFast = failFast

	return orchestrator.New(&cliDeps{
		clock:  clockwork.NewRealClock(),
		logger: root.logger,
		tel:    telemetry.NewNop(),
	}, config)
}
