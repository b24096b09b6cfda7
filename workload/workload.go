package workload

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

type OpKind uint8

const (
	OpQuery OpKind = iota
	OpUpdate
)

func (k OpKind) String() string {
	switch k {
	case OpQuery:
		return "Range"
	case OpUpdate:
		return "Update"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Operation OpQuery时A、B为区间边界，可能是反向的；OpUpdate时A为下标，B为新值
type Operation struct {
	Kind OpKind
	A    int
	B    int
}

var ErrInvalidWorkload = errors.New("invalid workload parameters")

type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rand.New(rand.NewSource(seed))}
}

// Values 生成n个[1, max]内的随机数
func (g *Generator) Values(n int, max int) ([]int64, error) {
	if n <= 0 || max <= 0 {
		return nil, errors.Wrapf(ErrInvalidWorkload, "values n=%d max=%d", n, max)
	}
	values := make([]int64, n)
	for i := range values {
		values[i] = int64(g.rnd.Intn(max) + 1)
	}
	return values, nil
}

// Operations 生成count个作用于长度为n的数组的操作，其中约updateRatio比例为更新
func (g *Generator) Operations(count, n int, updateRatio float64, max int) ([]Operation, error) {
	if count < 0 || n <= 0 || max <= 0 || updateRatio < 0 || updateRatio > 1 {
		return nil, errors.Wrapf(ErrInvalidWorkload, "operations count=%d n=%d ratio=%v max=%d", count, n, updateRatio, max)
	}
	ops := make([]Operation, count)
	for i := range ops {
		if g.rnd.Float64() < updateRatio {
			ops[i] = Operation{OpUpdate, g.rnd.Intn(n), g.rnd.Intn(max) + 1}
		} else {
			ops[i] = Operation{OpQuery, g.rnd.Intn(n), g.rnd.Intn(n)}
		}
	}
	return ops, nil
}
