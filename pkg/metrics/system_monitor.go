package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemMonitor samples host CPU and memory plus Go runtime stats into
// prometheus gauges on a fixed interval.
type SystemMonitor struct {
	interval time.Duration
	cancel   context.CancelFunc

	cpuUsage    prometheus.Gauge
	memUsage    prometheus.Gauge
	memUsedMB   prometheus.Gauge
	goroutines  prometheus.Gauge
	heapAllocMB prometheus.Gauge
}

func NewSystemMonitor(interval time.Duration) *SystemMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &SystemMonitor{
		interval: interval,
		cpuUsage: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Host CPU usage percentage",
		}),
		memUsage: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "system_memory_usage_percent",
			Help: "Host memory usage percentage",
		}),
		memUsedMB: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "system_memory_used_mb",
			Help: "Host memory used in MB",
		}),
		goroutines: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "go_runtime_goroutines",
			Help: "Number of live goroutines",
		}),
		heapAllocMB: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "go_runtime_heap_alloc_mb",
			Help: "Heap bytes allocated and in use, in MB",
		}),
	}
}

// Start begins sampling in the background until Stop is called.
func (sm *SystemMonitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	sm.cancel = cancel
	go sm.loop(ctx)
}

func (sm *SystemMonitor) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

func (sm *SystemMonitor) loop(ctx context.Context) {
	t := time.NewTicker(sm.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sm.sample()
		}
	}
}

func (sm *SystemMonitor) sample() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		sm.cpuUsage.Set(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sm.memUsage.Set(vm.UsedPercent)
		sm.memUsedMB.Set(float64(vm.Used) / 1024 / 1024)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	sm.goroutines.Set(float64(runtime.NumGoroutine()))
	sm.heapAllocMB.Set(float64(ms.HeapAlloc) / 1024 / 1024)
}
