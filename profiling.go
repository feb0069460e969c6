package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
)

// profiles owns the optional CPU and heap profiles of one run. The CPU
// profile covers the whole run; the heap profile is a single snapshot
// taken when the run ends, after the game loop has released its frames.
type profiles struct {
	cpu      *os.File
	heapPath string
	stopped  bool
}

// startProfiles begins CPU profiling when cpuPath is set and remembers
// heapPath for stop. Both paths may be empty.
func startProfiles(cpuPath, heapPath string) (*profiles, error) {
	p := &profiles{heapPath: heapPath}
	if cpuPath == "" {
		return p, nil
	}
	f, err := os.Create(cpuPath)
	if err != nil {
		return nil, fmt.Errorf("creating CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting CPU profile: %w", err)
	}
	p.cpu = f
	log.Printf("writing CPU profile to %s", cpuPath)
	return p, nil
}

// stop ends the CPU profile and writes the heap profile. Later calls are
// no-ops.
func (p *profiles) stop() error {
	if p.stopped {
		return nil
	}
	p.stopped = true
	var errs []error
	if p.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, p.cpu.Close())
	}
	if p.heapPath != "" {
		errs = append(errs, writeHeapProfile(p.heapPath))
	}
	return errors.Join(errs...)
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("writing heap profile: %w", err)
	}
	log.Printf("wrote heap profile to %s", path)
	return f.Close()
}
