package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"gitlab.x.lan/yunshan/memotree/bench"
	"gitlab.x.lan/yunshan/memotree/config"
	"gitlab.x.lan/yunshan/memotree/logger"
	"gitlab.x.lan/yunshan/memotree/stats"
	"gitlab.x.lan/yunshan/memotree/workload"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string

	cfg *config.Config
}

func (o *rootOptions) load() error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.Load(o.configPath)
		if err != nil {
			return err
		}
	} else {
		o.cfg = config.Default()
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
	}
	if o.logFile != "" {
		o.cfg.LogFile = o.logFile
	}

	if o.cfg.LogFile != "" {
		return logger.InitLog(o.cfg.LogFile, o.cfg.LogLevel)
	}
	logger.InitConsoleLog(o.cfg.LogLevel)
	return nil
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "memotree-bench",
		Short:         "Compare cached segment tree and splay tree memoization",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	root.SetOutput(out)
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "f", "", "Specify config file location")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "error|warning|info|debug")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write log to this file")

	root.AddCommand(newRangeCommand(opts, out))
	root.AddCommand(newFibonacciCommand(opts, out))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Display the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "%s-%s %s\n", RevCount, Revision, CommitDate)
		},
	})
	return root
}

func newRangeCommand(opts *rootOptions, out io.Writer) *cobra.Command {
	var size, queries, cacheSize int
	var seed uint64
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Replay random range-sum queries and updates with and without cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &opts.cfg.Range
			if cmd.Flags().Changed("size") {
				c.ArraySize = size
			}
			if cmd.Flags().Changed("queries") {
				c.QueryCount = queries
			}
			if cmd.Flags().Changed("cache-size") {
				c.CacheSize = cacheSize
			}
			if cmd.Flags().Changed("seed") {
				c.Seed = seed
			}
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			return runRange(c, out)
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "Number of values")
	cmd.Flags().IntVar(&queries, "queries", 0, "Number of operations")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 0, "Capacity of the range cache")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Workload seed, 0 for time based")
	return cmd
}

func runRange(c *config.RangeConfig, out io.Writer) error {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g := workload.NewGenerator(seed)
	values, err := g.Values(c.ArraySize, c.MaxValue)
	if err != nil {
		return err
	}
	ops, err := g.Operations(c.QueryCount, c.ArraySize, *c.UpdateRatio, c.MaxValue)
	if err != nil {
		return err
	}
	log.Infof("range workload seed=%d size=%d operations=%d", seed, c.ArraySize, c.QueryCount)

	runner, err := bench.NewRangeRunner(bench.SystemClock, values, c.CacheSize)
	if err != nil {
		return err
	}
	tree := runner.Tree()
	registerCountable("segmenttree", tree.SumTree)
	registerCountable("segmenttree_cache", tree, stats.OptionStatTags{"cache_size": fmt.Sprint(c.CacheSize)})
	defer stats.DeregisterCountable(tree.SumTree)
	defer stats.DeregisterCountable(tree)
	gc := stats.RegisterGcMonitor()
	defer stats.DeregisterCountable(gc)

	result, err := runner.Run(ops)
	if err != nil {
		return err
	}
	if err := bench.WriteRangeReport(out, result); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return bench.WriteCounters(out, stats.Snapshot())
}

func newFibonacciCommand(opts *rootOptions, out io.Writer) *cobra.Command {
	var maxN, step uint32
	var repeat int
	cmd := &cobra.Command{
		Use:   "fibonacci",
		Short: "Time memoized Fibonacci with an LRU cache and a splay tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &opts.cfg.Fibonacci
			if cmd.Flags().Changed("max-n") {
				c.MaxN = maxN
				c.CacheSize = 0
			}
			if cmd.Flags().Changed("step") {
				c.Step = step
			}
			if cmd.Flags().Changed("repeat") {
				c.Repeat = repeat
			}
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			return runFibonacci(c, out)
		},
	}
	cmd.Flags().Uint32Var(&maxN, "max-n", 0, "Compute F(n) for n below this")
	cmd.Flags().Uint32Var(&step, "step", 0, "Step between measured n")
	cmd.Flags().IntVar(&repeat, "repeat", 0, "Computations per measured n")
	return cmd
}

func runFibonacci(c *config.FibonacciConfig, out io.Writer) error {
	runner, err := bench.NewFibonacciRunner(bench.SystemClock, c.CacheSize)
	if err != nil {
		return err
	}
	tree := runner.SplayMemo().Tree()
	registerCountable("splaytree", tree, stats.OptionStatTags{"memo": "fibonacci"})
	defer stats.DeregisterCountable(tree)

	rows, err := runner.Run(c.MaxN, c.Step, c.Repeat)
	if err != nil {
		return err
	}
	if err := bench.WriteFibonacciReport(out, rows); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return bench.WriteCounters(out, stats.Snapshot())
}

// 注册失败只影响计数输出，不中断测试
func registerCountable(module string, countable stats.Countable, opts ...stats.StatsOption) {
	if err := stats.RegisterCountable(module, countable, opts...); err != nil {
		log.Warningf("register countable %s failed: %v", module, err)
	}
}
