package profile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler controls the lifecycle of a runtime profiling session. Create
// instances with [Config.NewProfiler], call [Profiler.Start] before the
// work under measurement and [Profiler.Stop] after it.
type Profiler struct {
	cfg     Config
	cpuFile *os.File
}

// Start begins CPU profiling if a CPU profile path is configured.
func (p *Profiler) Start() error {
	if p.cfg.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.cfg.CPUProfile)
	if err != nil {
		return fmt.Errorf("creating cpu profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()

		return fmt.Errorf("starting cpu profile: %w", err)
	}

	p.cpuFile = f

	return nil
}

// Stop ends CPU profiling and writes the heap snapshot if configured.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		if err := p.cpuFile.Close(); err != nil {
			return fmt.Errorf("closing cpu profile: %w", err)
		}

		p.cpuFile = nil
	}

	if p.cfg.HeapProfile == "" {
		return nil
	}

	f, err := os.Create(p.cfg.HeapProfile)
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}

	defer func() { _ = f.Close() }()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("writing heap profile: %w", err)
	}

	return nil
}
