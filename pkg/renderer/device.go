package renderer

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Device is the process-wide pool of render workers shared by every running session.
// It is created when the first session starts and torn down when the last one releases it.
type Device struct {
	tasks      chan deviceTask
	wg         sync.WaitGroup
	numWorkers int
}

type deviceTask struct {
	run  func() error
	done chan<- error
}

var shared struct {
	mu     sync.Mutex
	device *Device
	refs   int
}

// acquireDevice returns the shared device, starting it with the given worker count
// when no session holds it. Later sessions share the existing workers.
func acquireDevice(workers int) *Device {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.device == nil {
		shared.device = newDevice(workers)
	}
	shared.refs++
	return shared.device
}

// releaseDevice drops one reference and stops the workers with the last one
func releaseDevice() {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.refs == 0 {
		return
	}
	shared.refs--
	if shared.refs == 0 {
		shared.device.stop()
		shared.device = nil
	}
}

// DeviceRefs reports how many sessions currently hold the render device
func DeviceRefs() int {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return shared.refs
}

func newDevice(workers int) *Device {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	d := &Device{
		tasks:      make(chan deviceTask, workers),
		numWorkers: workers,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Device) Workers() int {
	return d.numWorkers
}

// Run executes every job on the device and waits for all of them.
// The first failure is returned; a panicking job is reported as an error.
func (d *Device) Run(jobs []func() error) error {
	done := make(chan error, len(jobs))
	for _, job := range jobs {
		d.tasks <- deviceTask{run: job, done: done}
	}

	var first error
	for range jobs {
		if err := <-done; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (d *Device) stop() {
	close(d.tasks)
	d.wg.Wait()
}

func (d *Device) worker() {
	defer d.wg.Done()
	for task := range d.tasks {
		task.done <- runTask(task.run)
	}
}

func runTask(run func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer: worker panic: %v\n%s", r, debug.Stack())
		}
	}()
	return run()
}
