// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/logging"
)

// ErrGoroutineLimit is returned when a task would exceed the configured limit.
var ErrGoroutineLimit = errors.New("goroutine limit exceeded")

// ErrTaskPanic wraps the value recovered from a panicking task.
var ErrTaskPanic = errors.New("task panicked")

// ResourceManager supervises the long-running tasks of an engine run
// (the loop, the input poller, the window) and bounds their memory and
// goroutine use.
type ResourceManager struct {
	maxMemoryMB     int64
	maxGoroutines   int64
	shutdownTimeout time.Duration
	checkInterval   time.Duration

	goroutineCount atomic.Int64
	memoryUsageMB  atomic.Int64
	lastCheck      atomic.Int64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
	logger  *logging.Logger

	errMu    sync.Mutex
	firstErr error
}

// NewResourceManager creates a resource manager bounded by cfg.
func NewResourceManager(cfg config.RuntimeConfig, logger *logging.Logger) *ResourceManager {
	if logger == nil {
		logger = logging.NewLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &ResourceManager{
		maxMemoryMB:     cfg.MaxMemoryMB,
		maxGoroutines:   int64(cfg.MaxGoroutines),
		shutdownTimeout: cfg.ShutdownTimeout(),
		checkInterval:   cfg.CheckInterval(),
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// Start begins the resource monitoring loop.
func (rm *ResourceManager) Start() error {
	rm.mu.Lock()
	if rm.running {
		rm.mu.Unlock()
		return fmt.Errorf("resource manager already running")
	}
	rm.running = true
	rm.mu.Unlock()

	go rm.monitoringLoop()

	rm.logger.Info(rm.ctx, "Resource manager started",
		"max_memory_mb", rm.maxMemoryMB,
		"max_goroutines", rm.maxGoroutines,
		"check_interval", rm.checkInterval,
	)
	return nil
}

// Go runs fn on a tracked goroutine. A panic inside fn is recovered and
// recorded like a returned error; the first failure is kept for Err.
func (rm *ResourceManager) Go(ctx context.Context, name string, fn func(context.Context) error) error {
	if n := rm.goroutineCount.Add(1); n > rm.maxGoroutines {
		rm.goroutineCount.Add(-1)
		rm.logger.Warn(ctx, "Goroutine limit exceeded",
			"current", n-1,
			"limit", rm.maxGoroutines,
			"name", name,
		)
		return fmt.Errorf("%w: %d/%d starting %s", ErrGoroutineLimit, n-1, rm.maxGoroutines, name)
	}

	go func() {
		defer rm.goroutineCount.Add(-1)

		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("%w: %s: %v", ErrTaskPanic, name, r)
				rm.logger.Error(ctx, "Goroutine panic", err, "name", name)
				rm.recordFailure(err)
			}
		}()

		if err := fn(ctx); err != nil {
			rm.logger.Error(ctx, "Task failed", err, "name", name)
			rm.recordFailure(fmt.Errorf("%s: %w", name, err))
		}
	}()

	return nil
}

func (rm *ResourceManager) recordFailure(err error) {
	rm.errMu.Lock()
	defer rm.errMu.Unlock()
	if rm.firstErr == nil {
		rm.firstErr = err
	}
}

// Err returns the first task failure, or nil.
func (rm *ResourceManager) Err() error {
	rm.errMu.Lock()
	defer rm.errMu.Unlock()
	return rm.firstErr
}

// CheckMemoryUsage samples heap usage and compares it against the limit.
func (rm *ResourceManager) CheckMemoryUsage() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	rm.memoryUsageMB.Store(currentMB)
	rm.lastCheck.Store(time.Now().UnixNano())

	if currentMB > rm.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, rm.maxMemoryMB)
	}
	return nil
}

// GetGoroutineCount returns the number of running tracked goroutines.
func (rm *ResourceManager) GetGoroutineCount() int64 {
	return rm.goroutineCount.Load()
}

// GetResourceStats returns current resource usage statistics.
func (rm *ResourceManager) GetResourceStats() ResourceStats {
	stats := ResourceStats{
		GoroutineCount: rm.GetGoroutineCount(),
		MaxGoroutines:  rm.maxGoroutines,
		MemoryUsageMB:  rm.memoryUsageMB.Load(),
		MaxMemoryMB:    rm.maxMemoryMB,
	}
	if ns := rm.lastCheck.Load(); ns != 0 {
		stats.LastMemoryCheck = time.Unix(0, ns)
	}
	return stats
}

// ResourceStats contains resource usage statistics.
type ResourceStats struct {
	GoroutineCount  int64     `json:"goroutine_count"`
	MaxGoroutines   int64     `json:"max_goroutines"`
	MemoryUsageMB   int64     `json:"memory_usage_mb"`
	MaxMemoryMB     int64     `json:"max_memory_mb"`
	LastMemoryCheck time.Time `json:"last_memory_check"`
}

// Shutdown stops monitoring and waits up to the shutdown timeout for
// tracked goroutines. Tasks are expected to watch their own context.
func (rm *ResourceManager) Shutdown(ctx context.Context) error {
	rm.mu.Lock()
	wasRunning := rm.running
	rm.running = false
	rm.mu.Unlock()

	rm.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, rm.shutdownTimeout)
	defer cancel()

	if wasRunning {
		rm.logger.Info(ctx, "Shutting down resource manager")
		select {
		case <-rm.done:
		case <-shutdownCtx.Done():
			rm.logger.Warn(ctx, "Resource manager monitoring loop did not stop gracefully")
		}
	}

	return rm.waitForGoroutines(shutdownCtx)
}

// waitForGoroutines waits for all tracked goroutines to finish or timeout.
func (rm *ResourceManager) waitForGoroutines(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		count := rm.GetGoroutineCount()
		if count == 0 {
			rm.logger.Debug(ctx, "All tracked goroutines finished")
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			remaining := rm.GetGoroutineCount()
			rm.logger.Warn(ctx, "Shutdown timeout exceeded with goroutines still running",
				"remaining", remaining,
			)
			return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
		}
	}
}

// monitoringLoop runs periodic resource checks.
func (rm *ResourceManager) monitoringLoop() {
	defer close(rm.done)

	ticker := time.NewTicker(rm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.performResourceChecks()
		case <-rm.ctx.Done():
			return
		}
	}
}

func (rm *ResourceManager) performResourceChecks() {
	if err := rm.CheckMemoryUsage(); err != nil {
		rm.logger.Error(rm.ctx, "Memory limit exceeded", err,
			"current_mb", rm.memoryUsageMB.Load(),
			"limit_mb", rm.maxMemoryMB,
		)
	}

	rm.logger.Debug(rm.ctx, "Resource usage check",
		"goroutines", rm.GetGoroutineCount(),
		"max_goroutines", rm.maxGoroutines,
		"memory_mb", rm.memoryUsageMB.Load(),
	)
}
