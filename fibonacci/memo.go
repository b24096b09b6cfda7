package fibonacci

import (
	"math/big"

	"github.com/hashicorp/golang-lru"

	"gitlab.x.lan/yunshan/memotree/splaytree"
)

// Memo 保存已经计算过的F(n)，存入的值不会被修改
type Memo interface {
	Lookup(n uint32) (*big.Int, bool)
	Store(n uint32, value *big.Int)
	Len() int
}

// SplayMemo 直接以伸展树作为缓存，最近访问的n位于根附近，不需要额外的缓存层
type SplayMemo struct {
	tree *splaytree.Tree[uint32, *big.Int]
}

func NewSplayMemo() *SplayMemo {
	return &SplayMemo{splaytree.New[uint32, *big.Int](0)}
}

func (m *SplayMemo) Lookup(n uint32) (*big.Int, bool) {
	return m.tree.Find(n)
}

func (m *SplayMemo) Store(n uint32, value *big.Int) {
	m.tree.Insert(n, value)
}

func (m *SplayMemo) Len() int {
	return m.tree.Len()
}

func (m *SplayMemo) Tree() *splaytree.Tree[uint32, *big.Int] {
	return m.tree
}

// LRUMemo 容量有限的最近最少使用缓存
type LRUMemo struct {
	cache *lru.Cache
}

func NewLRUMemo(size int) (*LRUMemo, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRUMemo{cache}, nil
}

func (m *LRUMemo) Lookup(n uint32) (*big.Int, bool) {
	if v, ok := m.cache.Get(n); ok {
		return v.(*big.Int), true
	}
	return nil, false
}

func (m *LRUMemo) Store(n uint32, value *big.Int) {
	m.cache.Add(n, value)
}

func (m *LRUMemo) Len() int {
	return m.cache.Len()
}
