// Package monitoring forwards unexpected errors to an error tracker. The
// process-wide monitor defaults to a no-op until Init is called.
package monitoring

import (
	"sync"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation. A nil monitor is ignored.
func Init(m Monitor) {
	if m == nil {
		return
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	get().CaptureException(err, tags)
}

// Capture records err tagged with the reporting module and extra key/value
// pairs. A trailing key without value is dropped.
func Capture(module string, err error, kv ...string) {
	if err == nil {
		return
	}
	tags := make(map[string]string, 1+len(kv)/2)
	tags["module"] = module
	for i := 0; i+1 < len(kv); i += 2 {
		tags[kv[i]] = kv[i+1]
	}
	get().CaptureException(err, tags)
}

// Recover captures panics in goroutines.
func Recover() { get().Recover() }

// Flush flushes buffered events.
func Flush(d time.Duration) { get().Flush(d) }
