package derive

import (
	"sync"

	"go.starlark.net/starlark"
)

// threadPool recycles Starlark threads across Apply calls.
type threadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

var threads = &threadPool{maxSize: 4}

// get retrieves a thread from the pool or creates a new one. The
// thread name is used for error reporting.
func (p *threadPool) get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) > 0 {
		thread := p.threads[len(p.threads)-1]
		p.threads = p.threads[:len(p.threads)-1]
		thread.Name = name
		return thread
	}
	return &starlark.Thread{
		Name:  name,
		Print: func(_ *starlark.Thread, _ string) {},
	}
}

// put returns a thread to the pool. A full pool discards the thread.
func (p *threadPool) put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}
