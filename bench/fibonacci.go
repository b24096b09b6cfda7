package bench

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"gitlab.x.lan/yunshan/memotree/fibonacci"
	"gitlab.x.lan/yunshan/memotree/logger"
)

type FibonacciRow struct {
	N     uint32
	LRU   time.Duration
	Splay time.Duration
}

// FibonacciRunner 两种memo在整个运行期间共享，后面的n会复用前面的结果
type FibonacciRunner struct {
	clock Clock
	log   *logger.PrefixLogger
	lru   *fibonacci.LRUMemo
	splay *fibonacci.SplayMemo
}

func NewFibonacciRunner(clock Clock, cacheSize int) (*FibonacciRunner, error) {
	lru, err := fibonacci.NewLRUMemo(cacheSize)
	if err != nil {
		return nil, err
	}
	log, err := logger.GetPrefixLogger(loggerModule, "[fibonacci]")
	if err != nil {
		return nil, err
	}
	return &FibonacciRunner{
		clock: clock,
		log:   log,
		lru:   lru,
		splay: fibonacci.NewSplayMemo(),
	}, nil
}

func (r *FibonacciRunner) SplayMemo() *fibonacci.SplayMemo {
	return r.splay
}

func (r *FibonacciRunner) LRUMemo() *fibonacci.LRUMemo {
	return r.lru
}

func (r *FibonacciRunner) timeCompute(n uint32, repeat int, memo fibonacci.Memo) (time.Duration, *big.Int) {
	var value *big.Int
	elapsed, _ := measure(r.clock, func() error {
		for i := 0; i < repeat; i++ {
			value = fibonacci.Compute(n, memo)
		}
		return nil
	})
	return elapsed, value
}

// Run 对[0, maxN)中步长为step的每个n，分别用两种memo计算repeat次并计时
func (r *FibonacciRunner) Run(maxN, step uint32, repeat int) ([]FibonacciRow, error) {
	if step == 0 || repeat <= 0 {
		return nil, errors.Errorf("invalid step %d or repeat %d", step, repeat)
	}
	rows := make([]FibonacciRow, 0, maxN/step+1)
	for n := uint32(0); n < maxN; n += step {
		row := FibonacciRow{N: n}
		var lruValue, splayValue *big.Int
		row.LRU, lruValue = r.timeCompute(n, repeat, r.lru)
		row.Splay, splayValue = r.timeCompute(n, repeat, r.splay)
		if lruValue.Cmp(splayValue) != 0 {
			return nil, errors.Wrapf(ErrMismatch, "F(%d): lru %s, splay %s", n, lruValue, splayValue)
		}
		rows = append(rows, row)
		r.log.Debugf("n=%d lru=%v splay=%v", n, row.LRU, row.Splay)
		if n+step < n {
			break
		}
	}
	r.log.Infof("%d rows, splay tree holds %d results, lru holds %d", len(rows), r.splay.Len(), r.lru.Len())
	return rows, nil
}
