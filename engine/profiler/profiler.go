package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Profiler tracks frame rate, shadow camera throughput and memory statistics.
// Outputs stats to the log at a configurable interval. Safe for concurrent use.
type Profiler struct {
	mu             sync.Mutex
	frameCount     int
	shadowPoses    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return NewProfilerWithInterval(time.Second)
}

// NewProfilerWithInterval creates a new Profiler that logs every interval.
//
// Parameters:
//   - interval: time between log lines
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfilerWithInterval(interval time.Duration) *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// RecordShadowPoses adds n computed shadow camera poses to the current interval.
//
// Parameters:
//   - n: number of poses computed
func (p *Profiler) RecordShadowPoses(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shadowPoses += n
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, shadow poses/sec, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	posesPerSec := float64(p.shadowPoses) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Shadow poses: %.2f/s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, posesPerSec, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.shadowPoses = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
