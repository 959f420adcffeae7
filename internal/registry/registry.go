package registry

import (
	"net"
	"sync"
)

// halfCloser is implemented by connections (notably *net.TCPConn) that
// support shutting down the read half without tearing down the whole
// socket. Shutdown uses it when available so that a session's in-flight
// write can still complete before its next read returns EOF.
type halfCloser interface {
	CloseRead() error
}

// Registry tracks every currently connected client connection. Each
// session registers itself on accept and unregisters on exit; Shutdown
// half-closes every registered connection so that blocked reads return
// EOF, and Wait blocks until the registered set has drained to empty.
//
// The empty signal is a channel closed exactly once when the set drains
// to zero and re-armed with a fresh channel on the next Register: a
// one-shot wait/reset primitive that can wake any number of waiters at
// once, the same way a closed done-channel fans out to every select
// blocked on it.
type Registry struct {
	mu      sync.Mutex
	clients map[net.Conn]struct{}
	empty   chan struct{}
}

// New returns an empty registry.
func New() *Registry {
	empty := make(chan struct{})
	close(empty)
	return &Registry{clients: make(map[net.Conn]struct{}), empty: empty}
}

// Register adds conn to the registry. Every Register must be matched by
// exactly one later Unregister call for the same connection.
func (r *Registry) Register(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.clients) == 0 {
		r.empty = make(chan struct{})
	}
	r.clients[conn] = struct{}{}
}

// Unregister removes conn from the registry. If this was the last
// registered connection, any goroutine blocked in Wait is released.
func (r *Registry) Unregister(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[conn]; !ok {
		return
	}
	delete(r.clients, conn)
	if len(r.clients) == 0 {
		close(r.empty)
	}
}

// Count returns the number of currently registered connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Wait blocks until the registered set has drained to empty.
func (r *Registry) Wait() {
	r.mu.Lock()
	ch := r.empty
	r.mu.Unlock()
	<-ch
}

// Shutdown half-closes every currently registered connection's read side
// (or, for connection types that don't support a half-close, closes it
// outright), causing each session's blocked read to return and its
// goroutine to exit and unregister. Shutdown does not itself wait for
// that drain; call Wait afterward for that.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := make([]net.Conn, 0, len(r.clients))
	for c := range r.clients {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		if hc, ok := c.(halfCloser); ok {
			_ = hc.CloseRead()
		} else {
			_ = c.Close()
		}
	}
}
