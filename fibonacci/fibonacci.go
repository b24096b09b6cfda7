package fibonacci

import (
	"math/big"
)

// Compute 递归计算F(n)，每个子结果都先查memo，未命中时计算后写回。
// F(0) = 0, F(1) = 1。返回值归memo所有，调用方不能修改
func Compute(n uint32, memo Memo) *big.Int {
	if value, ok := memo.Lookup(n); ok {
		return value
	}
	if n <= 1 {
		value := big.NewInt(int64(n))
		memo.Store(n, value)
		return value
	}
	value := new(big.Int).Add(Compute(n-1, memo), Compute(n-2, memo))
	memo.Store(n, value)
	return value
}

// Iterative 不使用缓存的线性计算，作为对照
func Iterative(n uint32) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint32(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}
