package sheetimport

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

// Memory management constants
const (
	// maxReasonableMemoryLimit is the largest accepted limit (64GB)
	maxReasonableMemoryLimit = 64 * 1024
	// defaultWarningThreshold is the share of the limit that triggers a warning
	defaultWarningThreshold = 0.8
	// bytesPerMB converts heap bytes to MB
	bytesPerMB = 1024 * 1024
)

// ErrMemoryLimit indicates that a materialized sheet pushed the heap past the configured limit
var ErrMemoryLimit = errors.New("sheetimport: memory limit exceeded")

// MemoryLimit checks heap usage against a ceiling. Sheets are fully
// materialized before their column types are decided, so a single huge
// sheet is where an import spends most of its memory.
//
// Performance Note: Check calls runtime.ReadMemStats which can pause for
// milliseconds. It is called once per sheet.
type MemoryLimit struct {
	maxMemoryMB      int64
	warningThreshold float64
	// readHeapMB is replaced in tests
	readHeapMB func() int64
}

// NewMemoryLimit creates a memory limit of maxMemoryMB. A non-positive
// value returns nil, which disables checking.
func NewMemoryLimit(maxMemoryMB int64) *MemoryLimit {
	if maxMemoryMB <= 0 {
		return nil
	}
	if maxMemoryMB > maxReasonableMemoryLimit {
		maxMemoryMB = maxReasonableMemoryLimit
	}
	return &MemoryLimit{
		maxMemoryMB:      maxMemoryMB,
		warningThreshold: defaultWarningThreshold,
		readHeapMB:       heapAllocMB,
	}
}

// LimitMB returns the configured ceiling in MB
func (ml *MemoryLimit) LimitMB() int64 {
	if ml == nil {
		return 0
	}
	return ml.maxMemoryMB
}

// Check reports the current memory status. A nil limit is always OK.
func (ml *MemoryLimit) Check() MemoryInfo {
	if ml == nil {
		return MemoryInfo{Status: MemoryStatusOK}
	}

	current := ml.readHeapMB()
	info := MemoryInfo{
		CurrentMB: current,
		LimitMB:   ml.maxMemoryMB,
		Usage:     float64(current) / float64(ml.maxMemoryMB),
	}
	switch {
	case current >= ml.maxMemoryMB:
		info.Status = MemoryStatusExceeded
	case info.Usage >= ml.warningThreshold:
		info.Status = MemoryStatusWarning
	default:
		info.Status = MemoryStatusOK
	}
	return info
}

// Error creates a memory limit error with helpful context
func (info MemoryInfo) Error(operation string) error {
	return fmt.Errorf(
		"%w during %s: using %d MB / %d MB (%.1f%%), consider splitting the workbook or raising the limit",
		ErrMemoryLimit, operation, info.CurrentMB, info.LimitMB, info.Usage*100,
	)
}

func heapAllocMB() int64 {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	mb := memStats.HeapAlloc / bytesPerMB
	if mb > uint64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(mb)
}

// MemoryStatus represents the current memory status
type MemoryStatus int

// Memory status constants
const (
	// MemoryStatusOK indicates memory usage is within acceptable limits
	MemoryStatusOK MemoryStatus = iota
	// MemoryStatusWarning indicates memory usage is approaching the limit
	MemoryStatusWarning
	// MemoryStatusExceeded indicates memory usage has exceeded the limit
	MemoryStatusExceeded
)

// String returns string representation of memory status
func (ms MemoryStatus) String() string {
	switch ms {
	case MemoryStatusOK:
		return "OK"
	case MemoryStatusWarning:
		return "WARNING"
	case MemoryStatusExceeded:
		return "EXCEEDED"
	default:
		return "UNKNOWN"
	}
}

// MemoryInfo contains detailed memory usage information
type MemoryInfo struct {
	CurrentMB int64        // Current memory usage in MB
	LimitMB   int64        // Memory limit in MB
	Usage     float64      // Usage percentage (0.0-1.0)
	Status    MemoryStatus // Current status
}
