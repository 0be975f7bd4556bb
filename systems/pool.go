package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum item count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// ChunkFunc processes items [start, end) on the given worker.
type ChunkFunc func(start, end, worker int)

// workChunk represents a range of items for a worker to process.
type workChunk struct {
	start, end int
	fn         ChunkFunc
}

// Pool is a persistent worker pool for data-parallel kernel passes.
// A pass either completes on every chunk or the process fails; there is no cancellation.
type Pool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool. numWorkers <= 0 uses GOMAXPROCS.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: numWorkers}
}

// NumWorkers returns the worker count, and so the number of scratch slots callers need.
func (p *Pool) NumWorkers() int { return p.numWorkers }

// start launches persistent worker goroutines.
func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end, workerID)
			p.doneChan <- struct{}{}
		}
	}
}

// For splits [0, n) into one chunk per worker and blocks until all are done.
func (p *Pool) For(n int, fn ChunkFunc) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold || p.numWorkers == 1 {
		fn(0, n, 0)
		return
	}
	p.dispatch(n, (n+p.numWorkers-1)/p.numWorkers, fn)
}

// ForRows splits rows [0, h) into chunks aligned to tile rows.
func (p *Pool) ForRows(h, tile int, fn ChunkFunc) {
	if h <= 0 {
		return
	}
	if tile <= 0 {
		tile = 1
	}
	tiles := (h + tile - 1) / tile
	if tiles == 1 || p.numWorkers == 1 {
		fn(0, h, 0)
		return
	}
	perWorker := (tiles + p.numWorkers - 1) / p.numWorkers
	p.dispatch(h, perWorker*tile, fn)
}

// dispatch sends fixed-size chunks to the workers and waits for all of them.
func (p *Pool) dispatch(n, chunkSize int, fn ChunkFunc) {
	if !p.running {
		p.start()
	}

	pending := 0
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		// Channel capacity is numWorkers; drain before overfilling.
		if pending == p.numWorkers {
			<-p.doneChan
			pending--
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		pending++
	}

	// Wait for all chunks to complete
	for ; pending > 0; pending-- {
		<-p.doneChan
	}
}
