// Package profilers sets up profiling for the binaries.
//
// If linked, it installs the flags -prof (HTTP pprof server), -cpu_profile and -mem_profile.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagProfiler   = flag.Int("prof", -1, "If set, serves the pprof HTTP profiler at the given port.")
	flagCPUProfile = flag.String("cpu_profile", "", "write cpu profile to `file`")
	flagMemProfile = flag.String("mem_profile", "", "write a heap profile to `file` on exit")
)

// Profiler holds the state of the profilers started by Setup.
type Profiler struct {
	ctx     context.Context
	cpuFile *os.File
	addr    string
}

// Setup starts the HTTP (flag -prof) and CPU profilers (flag -cpu_profile), if they were configured.
// It should be followed by a deferred call to OnQuit.
func Setup(ctx context.Context) (*Profiler, error) {
	p := &Profiler{ctx: ctx}
	if *flagProfiler >= 0 {
		p.addr = fmt.Sprintf("localhost:%d", *flagProfiler)
		klog.Infof("Starting profiler on http://%s/debug/pprof", p.addr)
		go func() {
			klog.Fatal(http.ListenAndServe(p.addr, nil))
		}()
	}
	if *flagCPUProfile != "" {
		var err error
		p.cpuFile, err = os.Create(*flagCPUProfile)
		if err != nil {
			return nil, errors.Wrap(err, "could not create CPU profile")
		}
		if err = pprof.StartCPUProfile(p.cpuFile); err != nil {
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
	}
	return p, nil
}

// OnQuit stops the CPU profile and writes the heap profile, if configured. If the HTTP profiler
// is running, it keeps the program alive until the context is cancelled (Ctrl+C).
func (p *Profiler) OnQuit() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			klog.Errorf("Failed to close CPU profile: %v", err)
		}
	}
	if *flagMemProfile != "" {
		if err := writeHeapProfile(*flagMemProfile); err != nil {
			klog.Errorf("Failed to write heap profile: %+v", err)
		}
	}
	if p.addr == "" || p.ctx.Err() != nil {
		return
	}
	klog.Infof("Program finished: kept alive with profiler opened at http://%s/debug/pprof, interrupt (Ctrl+C) to exit", p.addr)
	<-p.ctx.Done()
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create heap profile %q", path)
	}
	defer func() { _ = f.Close() }()
	// Collect garbage first, to see only what is still alive.
	runtime.GC()
	return errors.Wrap(pprof.WriteHeapProfile(f), "could not write heap profile")
}
