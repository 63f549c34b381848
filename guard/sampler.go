package guard

import (
	"fmt"
	"runtime"
	"syscall"
)

// Sampler reads instantaneous resource-pressure signals. A fake
// implementation backs tests; the default implementation reads OS-level
// signals via stdlib runtime/syscall — no ecosystem process-metrics
// library (e.g. gopsutil) appears anywhere in the retrieval pack, so this
// is a deliberate, narrow stdlib use (see DESIGN.md).
type Sampler interface {
	// SampleRSS returns the current process resident set size in bytes.
	SampleRSS() (uint64, error)
	// SampleDiskFree returns free bytes on the filesystem containing path.
	SampleDiskFree(path string) (uint64, error)
	// SampleCPULoad returns the number of runnable goroutines as a proxy
	// for CPU load, scaled by GOMAXPROCS.
	SampleCPULoad() (float64, error)
}

// osSampler is the default Sampler, reading real OS state.
type osSampler struct{}

// NewOSSampler returns the default OS-backed Sampler.
func NewOSSampler() Sampler { return osSampler{} }

func (osSampler) SampleRSS() (uint64, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Sys, nil
}

func (osSampler) SampleDiskFree(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("guard: statfs %q: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func (osSampler) SampleCPULoad() (float64, error) {
	return float64(runtime.NumGoroutine()) / float64(runtime.GOMAXPROCS(0)), nil
}

// FakeSampler is a deterministic Sampler for tests, returning fixed values
// or a configured error.
type FakeSampler struct {
	RSS      uint64
	DiskFree uint64
	CPULoad  float64
	Err      error
}

func (f FakeSampler) SampleRSS() (uint64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.RSS, nil
}

func (f FakeSampler) SampleDiskFree(string) (uint64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.DiskFree, nil
}

func (f FakeSampler) SampleCPULoad() (float64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.CPULoad, nil
}
