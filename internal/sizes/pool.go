package sizes

import (
	"runtime"
	"sync"
)

// minWorkers is the parallelism floor when the host reports few CPUs.
const minWorkers = 8

// Pool is a fixed-size worker pool created once at startup and shared by all
// size computations for the process lifetime.
type Pool struct {
	tasks  chan func()
	closed chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewPool starts a pool with the given number of workers; workers <= 0 picks
// twice the CPU count, with a floor of minWorkers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
		if workers < minWorkers {
			workers = minWorkers
		}
	}
	p := &Pool{
		tasks:  make(chan func(), 64),
		closed: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case fn := <-p.tasks:
			fn()
		case <-p.closed:
			// Drain what is already queued before exiting.
			for {
				select {
				case fn := <-p.tasks:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Submit queues fn for execution, blocking if the queue is full rather than
// dropping work. Tasks submitted after Close are discarded.
func (p *Pool) Submit(fn func()) {
	select {
	case p.tasks <- fn:
	case <-p.closed:
	}
}

// Close stops accepting work and waits for outstanding tasks to finish.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.closed) })
	p.wg.Wait()
}
