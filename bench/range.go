package bench

import (
	"time"

	"github.com/pkg/errors"

	"gitlab.x.lan/yunshan/memotree/logger"
	"gitlab.x.lan/yunshan/memotree/segmenttree"
	"gitlab.x.lan/yunshan/memotree/workload"
)

const loggerModule = "bench"

var ErrMismatch = errors.New("cached result differs from brute force")

type RangeResult struct {
	Size       int
	Queries    int
	Updates    int
	Baseline   time.Duration
	Cached     time.Duration
	Scanned    int // 暴力求和累计访问的元素个数
	Footprint  int
	CachedLeft int
}

// RangeRunner 对同一组操作分别用逐个求和的数组和带LRU的线段树执行，并比较结果
type RangeRunner struct {
	clock    Clock
	log      *logger.PrefixLogger
	baseline []int64
	tree     *segmenttree.CachedSumTree
}

func NewRangeRunner(clock Clock, values []int64, cacheSize int) (*RangeRunner, error) {
	tree, err := segmenttree.NewCachedSumTree(values, cacheSize)
	if err != nil {
		return nil, err
	}
	log, err := logger.GetPrefixLogger(loggerModule, "[range]")
	if err != nil {
		return nil, err
	}
	baseline := make([]int64, len(values))
	copy(baseline, values)
	return &RangeRunner{
		clock:    clock,
		log:      log,
		baseline: baseline,
		tree:     tree,
	}, nil
}

func (r *RangeRunner) Tree() *segmenttree.CachedSumTree {
	return r.tree
}

func bruteForceSum(values []int64, low, high int) int64 {
	var sum int64
	for _, v := range values[low : high+1] {
		sum += v
	}
	return sum
}

func (r *RangeRunner) runBaseline(ops []workload.Operation, sums []int64, result *RangeResult) error {
	bounds := segmenttree.Interval{Low: 0, High: len(r.baseline) - 1}
	for i, op := range ops {
		switch op.Kind {
		case workload.OpQuery:
			interval := segmenttree.Interval{Low: op.A, High: op.B}.Normalize()
			if !bounds.Contains(interval.Low) || !bounds.Contains(interval.High) {
				return errors.Wrapf(segmenttree.ErrOutOfRange, "operation %d query [%d, %d]", i, op.A, op.B)
			}
			sums[i] = bruteForceSum(r.baseline, interval.Low, interval.High)
			result.Scanned += interval.Len()
		case workload.OpUpdate:
			if !bounds.Contains(op.A) {
				return errors.Wrapf(segmenttree.ErrOutOfRange, "operation %d update %d", i, op.A)
			}
			r.baseline[op.A] = int64(op.B)
		}
	}
	return nil
}

func (r *RangeRunner) runCached(ops []workload.Operation, sums []int64) error {
	for i, op := range ops {
		switch op.Kind {
		case workload.OpQuery:
			sum, err := r.tree.QueryInterval(segmenttree.Interval{Low: op.A, High: op.B}.Normalize())
			if err != nil {
				return errors.WithMessagef(err, "operation %d", i)
			}
			if sum != sums[i] {
				return errors.Wrapf(ErrMismatch, "operation %d query [%d, %d]: %d != %d", i, op.A, op.B, sum, sums[i])
			}
		case workload.OpUpdate:
			if err := r.tree.Update(op.A, int64(op.B)); err != nil {
				return errors.WithMessagef(err, "operation %d", i)
			}
		}
	}
	return nil
}

// Run 先执行暴力求和记录每次查询的结果，再在线段树上重放并逐一核对
func (r *RangeRunner) Run(ops []workload.Operation) (*RangeResult, error) {
	result := &RangeResult{Size: len(r.baseline)}
	for _, op := range ops {
		if op.Kind == workload.OpUpdate {
			result.Updates++
		} else {
			result.Queries++
		}
	}
	r.log.Infof("replaying %d queries and %d updates on %d values", result.Queries, result.Updates, result.Size)

	sums := make([]int64, len(ops))
	elapsed, err := measure(r.clock, func() error { return r.runBaseline(ops, sums, result) })
	if err != nil {
		return nil, err
	}
	result.Baseline = elapsed
	r.log.Debugf("baseline finished in %v", elapsed)

	elapsed, err = measure(r.clock, func() error { return r.runCached(ops, sums) })
	if err != nil {
		return nil, err
	}
	result.Cached = elapsed
	r.log.Debugf("cached segment tree finished in %v", elapsed)

	result.Footprint = r.tree.Footprint()
	result.CachedLeft = r.tree.CacheLen()
	return result, nil
}
