package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum item count worth splitting across workers.
// Below this, goroutine handoff costs more than the work.
const parallelThreshold = 1024

// workChunk is an index range for one worker.
type workChunk struct {
	start, end int
	fn         func(start, end int)
}

// WorkerPool runs index ranges on persistent goroutines. Work functions must
// only touch the items in their range; results are identical to a serial run.
// A WorkerPool is driven from one goroutine at a time.
type WorkerPool struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewWorkerPool creates a pool with one worker per usable CPU. Workers start
// lazily on the first parallel Run.
func NewWorkerPool() *WorkerPool {
	return NewWorkerPoolSize(runtime.GOMAXPROCS(0))
}

// NewWorkerPoolSize creates a pool with n workers. n <= 1 runs everything inline.
func NewWorkerPoolSize(n int) *WorkerPool {
	return &WorkerPool{numWorkers: max(n, 1)}
}

// Workers returns the pool size.
func (p *WorkerPool) Workers() int {
	return p.numWorkers
}

func (p *WorkerPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Run calls fn over [0, n) split into contiguous chunks and waits for all of
// them. Small n, a nil pool or a single worker run inline.
func (p *WorkerPool) Run(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.numWorkers <= 1 || n < parallelThreshold {
		fn(0, n)
		return
	}
	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for start := 0; start < n; start += chunkSize {
		p.workChan <- workChunk{start: start, end: min(start+chunkSize, n), fn: fn}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// Stop shuts the workers down. The pool restarts on the next parallel Run.
func (p *WorkerPool) Stop() {
	if p == nil || !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	p.running = false
}
