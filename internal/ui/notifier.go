package ui

import "sync"

// notifier fans a change signal out to every connected event stream.
// Listeners get an empty-struct ping and re-render whatever they show;
// the ping carries no payload.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a listener. The caller must Unsubscribe when done.
func (n *notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (n *notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast pings every listener without blocking. A listener whose
// buffer is full already has a pending ping, so skipping it loses
// nothing.
func (n *notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
