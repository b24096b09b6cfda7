package segmenttree

// 闭区间[Low, High]
type Interval struct {
	Low  int
	High int
}

// 调用方负责在查询前调整反向的区间
func (i Interval) Normalize() Interval {
	if i.Low > i.High {
		return Interval{i.High, i.Low}
	}
	return i
}

func (i Interval) Contains(index int) bool {
	return i.Low <= index && index <= i.High
}

func (i Interval) Len() int {
	if i.Low > i.High {
		return 0
	}
	return i.High - i.Low + 1
}
