package stats

import (
	"bytes"
	"sort"
)

type StatType uint8

const (
	COUNT_TYPE StatType = iota
	GAUGE_TYPE
)

type StatItem struct {
	Name  string
	Type  StatType
	Value interface{}
}

type StatsOption = interface{}

type OptionStatTags map[string]string

func (t OptionStatTags) String() string {
	if len(t) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var strBuf bytes.Buffer
	strBuf.WriteString("{")
	for _, key := range keys {
		strBuf.WriteString(key + ": " + t[key] + ", ")
	}
	strBuf.Truncate(strBuf.Len() - 2)
	return strBuf.String() + "}"
}

type Countable interface {
	// clear is required after read
	// accept struct, *struct or []StatItem
	GetCounter() interface{}
}

func RegisterCountable(module string, countable Countable, opts ...StatsOption) error {
	return registerCountable(module, countable, opts...)
}

func DeregisterCountable(countable Countable) {
	deregisterCountable(countable)
}

// 读取所有已注册Countable的计数，读取后计数被清零
func Snapshot() []Counter {
	return snapshot()
}
