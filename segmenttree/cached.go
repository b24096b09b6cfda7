package segmenttree

import (
	"github.com/hashicorp/golang-lru"
)

const MAX_LRU_SIZE = 1000

type CacheCounter struct {
	Hit   uint64 `statsd:"hit"`
	Miss  uint64 `statsd:"miss"`
	Purge uint64 `statsd:"purge"`
	Size  int    `statsd:"size,gauge"`
}

// CachedSumTree 在SumTree前增加按(low, high)缓存查询结果的LRU。
// 任意一次Update都可能改变任意多个区间的和，所以Update成功后清空整个缓存
type CachedSumTree struct {
	*SumTree
	cache *lru.Cache

	counter CacheCounter
}

func NewCachedSumTree(values []int64, size int) (*CachedSumTree, error) {
	t, err := New(values)
	if err != nil {
		return nil, err
	}
	return WrapCachedSumTree(t, size)
}

func WrapCachedSumTree(t *SumTree, size int) (*CachedSumTree, error) {
	if size <= 0 {
		size = MAX_LRU_SIZE
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedSumTree{SumTree: t, cache: cache}, nil
}

func (t *CachedSumTree) Update(index int, value int64) error {
	if err := t.SumTree.Update(index, value); err != nil {
		return err
	}
	t.cache.Purge()
	t.counter.Purge++
	return nil
}

// 先校验区间再查缓存，非法区间永远不会命中
func (t *CachedSumTree) Query(low, high int) (int64, error) {
	if err := t.SumTree.checkRange(low, high); err != nil {
		return 0, err
	}
	key := Interval{low, high}
	if v, ok := t.cache.Get(key); ok {
		t.counter.Hit++
		return v.(int64), nil
	}
	sum, err := t.SumTree.Query(low, high)
	if err != nil {
		return 0, err
	}
	t.counter.Miss++
	t.cache.Add(key, sum)
	return sum, nil
}

func (t *CachedSumTree) QueryInterval(i Interval) (int64, error) {
	return t.Query(i.Low, i.High)
}

func (t *CachedSumTree) CacheLen() int {
	return t.cache.Len()
}

func (t *CachedSumTree) GetCounter() interface{} {
	counter := t.counter
	counter.Size = t.cache.Len()
	t.counter = CacheCounter{}
	return &counter
}
