package segmenttree

import (
	"unsafe"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("segmenttree")

type Counter struct {
	Update uint64 `statsd:"update"`
	Query  uint64 `statsd:"query"`
	Size   int    `statsd:"size,gauge"`
}

// SumTree 以数组形式存储的完全二叉树，支持O(log n)的单点更新和区间求和。
// tree[n+i]为第i个叶子，tree[i] (0 < i < n)为tree[2i]与tree[2i+1]之和，tree[0]不使用。
// 注意：不是线程安全的
type SumTree struct {
	n    int
	tree []int64

	counter Counter
}

func New(values []int64) (*SumTree, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	n := len(values)
	t := &SumTree{n: n, tree: make([]int64, n<<1)}
	copy(t.tree[n:], values)
	for i := n - 1; i > 0; i-- {
		t.tree[i] = t.tree[i<<1] + t.tree[i<<1|1]
	}
	log.Debugf("segment tree built with %d leaves", n)
	return t, nil
}

func (t *SumTree) checkIndex(index int) error {
	if index < 0 || index >= t.n {
		return errors.Wrapf(ErrOutOfRange, "index %d not in [0, %d)", index, t.n)
	}
	return nil
}

func (t *SumTree) Update(index int, value int64) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.counter.Update++
	i := index + t.n
	t.tree[i] = value
	for i > 1 {
		i >>= 1
		t.tree[i] = t.tree[i<<1] + t.tree[i<<1|1]
	}
	return nil
}

func (t *SumTree) checkRange(low, high int) error {
	if err := t.checkIndex(low); err != nil {
		return err
	}
	if err := t.checkIndex(high); err != nil {
		return err
	}
	if low > high {
		return errors.Wrapf(ErrInvalidOrder, "query [%d, %d]", low, high)
	}
	return nil
}

// Query 返回[low, high]闭区间的和，low > high时返回ErrInvalidOrder，不会自动交换
func (t *SumTree) Query(low, high int) (int64, error) {
	if err := t.checkRange(low, high); err != nil {
		return 0, err
	}
	t.counter.Query++

	var sum int64
	l, r := low+t.n, high+t.n
	for l <= r {
		if l&1 == 1 { // 右孩子作为左边界
			sum += t.tree[l]
			l++
		}
		if r&1 == 0 { // 左孩子作为右边界
			sum += t.tree[r]
			r--
		}
		l >>= 1
		r >>= 1
	}
	return sum, nil
}

func (t *SumTree) Get(index int) (int64, error) {
	if err := t.checkIndex(index); err != nil {
		return 0, err
	}
	return t.tree[index+t.n], nil
}

func (t *SumTree) Len() int {
	return t.n
}

// Leaves 返回当前叶子值的拷贝
func (t *SumTree) Leaves() []int64 {
	leaves := make([]int64, t.n)
	copy(leaves, t.tree[t.n:])
	return leaves
}

// 每个叶子都是tree[1]的后代，因此n不是2的幂时tree[1]同样是全部叶子之和
func (t *SumTree) Total() int64 {
	return t.tree[1]
}

// Footprint 返回底层数组占用的字节数
func (t *SumTree) Footprint() int {
	return len(t.tree) * int(unsafe.Sizeof(t.tree[0]))
}

func (t *SumTree) GetCounter() interface{} {
	counter := t.counter
	counter.Size = t.n
	t.counter = Counter{}
	return &counter
}
