package bench

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.x.lan/yunshan/memotree/segmenttree"
	"gitlab.x.lan/yunshan/memotree/stats"
	"gitlab.x.lan/yunshan/memotree/workload"
)

// 每次调用Now前进step
func expectTicks(clock *MockClock, start time.Time, step time.Duration, times int) {
	calls := make([]*gomock.Call, 0, times)
	for i := 0; i < times; i++ {
		calls = append(calls, clock.EXPECT().Now().Return(start.Add(step*time.Duration(i))))
	}
	gomock.InOrder(calls...)
}

func TestRangeRunner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	clock := NewMockClock(ctrl)
	expectTicks(clock, time.Unix(0, 0), time.Second, 4)

	ops := []workload.Operation{
		{Kind: workload.OpQuery, A: 1, B: 3},
		{Kind: workload.OpQuery, A: 3, B: 1},
		{Kind: workload.OpUpdate, A: 2, B: 10},
		{Kind: workload.OpQuery, A: 3, B: 1},
		{Kind: workload.OpQuery, A: 0, B: 4},
	}
	runner, err := NewRangeRunner(clock, []int64{1, 2, 3, 4, 5}, 16)
	require.NoError(t, err)
	result, err := runner.Run(ops)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Size)
	assert.Equal(t, 4, result.Queries)
	assert.Equal(t, 1, result.Updates)
	assert.Equal(t, 3+3+3+5, result.Scanned)
	assert.Equal(t, time.Second, result.Baseline)
	assert.Equal(t, time.Second, result.Cached)
	assert.Equal(t, 80, result.Footprint)
	assert.Equal(t, 2, result.CachedLeft)

	counter := runner.Tree().GetCounter().(*segmenttree.CacheCounter)
	assert.Equal(t, segmenttree.CacheCounter{Hit: 1, Miss: 3, Purge: 1, Size: 2}, *counter)
	sum, _ := runner.Tree().Query(1, 3)
	assert.Equal(t, int64(16), sum)
}

func TestRangeRunnerGenerated(t *testing.T) {
	g := workload.NewGenerator(3)
	values, _ := g.Values(500, 1000)
	ops, _ := g.Operations(5000, 500, 0.3, 1000)
	runner, err := NewRangeRunner(SystemClock, values, 100)
	require.NoError(t, err)
	result, err := runner.Run(ops)
	require.NoError(t, err)
	assert.Equal(t, 5000, result.Queries+result.Updates)
	assert.True(t, result.CachedLeft <= 100)
}

func TestRangeRunnerOutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	clock := NewMockClock(ctrl)
	expectTicks(clock, time.Unix(0, 0), time.Millisecond, 2*3)

	runner, _ := NewRangeRunner(clock, []int64{1, 2, 3}, 16)
	for _, op := range []workload.Operation{
		{Kind: workload.OpUpdate, A: 3, B: 1},
		{Kind: workload.OpQuery, A: -1, B: 2},
		{Kind: workload.OpQuery, A: 2, B: 3},
	} {
		if _, err := runner.Run([]workload.Operation{op}); errors.Cause(err) != segmenttree.ErrOutOfRange {
			t.Errorf("%v: expected ErrOutOfRange found %v", op, err)
		}
	}

	if _, err := NewRangeRunner(clock, nil, 16); errors.Cause(err) != segmenttree.ErrEmpty {
		t.Errorf("Expected ErrEmpty found %v", err)
	}
}

func TestFibonacciRunner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	clock := NewMockClock(ctrl)
	// 每个n计时两次，每次调用两次Now
	expectTicks(clock, time.Unix(0, 0), time.Microsecond, 4*4)

	runner, err := NewFibonacciRunner(clock, 1000)
	require.NoError(t, err)
	rows, err := runner.Run(200, 50, 3)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, row := range rows {
		assert.Equal(t, uint32(i*50), row.N)
		assert.Equal(t, time.Microsecond, row.LRU)
		assert.Equal(t, time.Microsecond, row.Splay)
	}
	assert.Equal(t, 151, runner.SplayMemo().Len())
	assert.Equal(t, 151, runner.LRUMemo().Len())
	if root, _ := runner.SplayMemo().Tree().Root(); root != 150 {
		t.Errorf("Expected root 150 found %d", root)
	}

	if _, err := runner.Run(10, 0, 1); err == nil {
		t.Error("zero step should fail")
	}
}

func TestReports(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRangeReport(buf, &RangeResult{
		Size:      100000,
		Queries:   35000,
		Updates:   15000,
		Scanned:   1750000,
		Baseline:  1500 * time.Millisecond,
		Cached:    20 * time.Millisecond,
		Footprint: 1600000,
	}))
	report := buf.String()
	for _, expected := range []string{"without cache   1.50s", "with lru cache  0.02s", "tree footprint  1.526MiB", "scanned values  1750000"} {
		if !strings.Contains(report, expected) {
			t.Errorf("report should contain %q:\n%s", expected, report)
		}
	}

	buf.Reset()
	require.NoError(t, WriteFibonacciReport(buf, []FibonacciRow{{N: 50, LRU: time.Millisecond, Splay: 2 * time.Millisecond}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "50  0.001000000    0.002000000", lines[1])

	buf.Reset()
	require.NoError(t, WriteCounters(buf, []stats.Counter{{
		Module: "splaytree",
		Tags:   stats.OptionStatTags{"memo": "fibonacci"},
		Items:  []stats.StatItem{{Name: "rotate", Type: stats.COUNT_TYPE, Value: uint64(9)}, {Name: "hit", Type: stats.COUNT_TYPE, Value: uint64(2)}},
	}}))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "splaytree  {memo: fibonacci}  hit"))
}
