package stats

import (
	"runtime"
)

type GcMonitor struct {
	lastPauseDuration uint64
	lastNumGC         uint32
}

func (t *GcMonitor) GetCounter() interface{} {
	memStats := runtime.MemStats{}
	runtime.ReadMemStats(&memStats)
	gcDuration := memStats.PauseTotalNs - t.lastPauseDuration
	gcCount := memStats.NumGC - t.lastNumGC
	t.lastPauseDuration = memStats.PauseTotalNs
	t.lastNumGC = memStats.NumGC
	return []StatItem{
		{"duration", COUNT_TYPE, gcDuration},
		{"count", COUNT_TYPE, gcCount},
		{"heap_alloc", GAUGE_TYPE, memStats.HeapAlloc},
	}
}

func RegisterGcMonitor() *GcMonitor {
	m := &GcMonitor{}
	if err := registerCountable("gc", m); err != nil {
		log.Warning(err)
	}
	return m
}
